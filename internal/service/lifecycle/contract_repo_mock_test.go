package lifecycle

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ contractRepo = &contractRepoMock{}

type contractRepoMock struct {
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (domain.Contract, error)
	ListForLifecycleFunc func(ctx context.Context, afterID uuid.UUID, limit int) ([]domain.Contract, error)
	ApplyTransitionFunc  func(ctx context.Context, t domain.ContractTransition) (bool, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		ListForLifecycle []struct {
			Ctx     context.Context
			AfterID uuid.UUID
			Limit   int
		}
		ApplyTransition []struct {
			Ctx context.Context
			T   domain.ContractTransition
		}
	}
	lockGetByID          sync.RWMutex
	lockListForLifecycle sync.RWMutex
	lockApplyTransition  sync.RWMutex
}

func (mock *contractRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Contract, error) {
	if mock.GetByIDFunc == nil {
		panic("contractRepoMock.GetByIDFunc: method is nil but contractRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{
		Ctx: ctx,
		Id:  id,
	}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *contractRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	var calls []struct {
		Ctx context.Context
		Id  uuid.UUID
	}
	mock.lockGetByID.RLock()
	calls = mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *contractRepoMock) ListForLifecycle(ctx context.Context, afterID uuid.UUID, limit int) ([]domain.Contract, error) {
	if mock.ListForLifecycleFunc == nil {
		panic("contractRepoMock.ListForLifecycleFunc: method is nil but contractRepo.ListForLifecycle was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		AfterID uuid.UUID
		Limit   int
	}{
		Ctx:     ctx,
		AfterID: afterID,
		Limit:   limit,
	}
	mock.lockListForLifecycle.Lock()
	mock.calls.ListForLifecycle = append(mock.calls.ListForLifecycle, callInfo)
	mock.lockListForLifecycle.Unlock()
	return mock.ListForLifecycleFunc(ctx, afterID, limit)
}

func (mock *contractRepoMock) ListForLifecycleCalls() []struct {
	Ctx     context.Context
	AfterID uuid.UUID
	Limit   int
} {
	var calls []struct {
		Ctx     context.Context
		AfterID uuid.UUID
		Limit   int
	}
	mock.lockListForLifecycle.RLock()
	calls = mock.calls.ListForLifecycle
	mock.lockListForLifecycle.RUnlock()
	return calls
}

func (mock *contractRepoMock) ApplyTransition(ctx context.Context, t domain.ContractTransition) (bool, error) {
	if mock.ApplyTransitionFunc == nil {
		panic("contractRepoMock.ApplyTransitionFunc: method is nil but contractRepo.ApplyTransition was just called")
	}
	callInfo := struct {
		Ctx context.Context
		T   domain.ContractTransition
	}{
		Ctx: ctx,
		T:   t,
	}
	mock.lockApplyTransition.Lock()
	mock.calls.ApplyTransition = append(mock.calls.ApplyTransition, callInfo)
	mock.lockApplyTransition.Unlock()
	return mock.ApplyTransitionFunc(ctx, t)
}

func (mock *contractRepoMock) ApplyTransitionCalls() []struct {
	Ctx context.Context
	T   domain.ContractTransition
} {
	var calls []struct {
		Ctx context.Context
		T   domain.ContractTransition
	}
	mock.lockApplyTransition.RLock()
	calls = mock.calls.ApplyTransition
	mock.lockApplyTransition.RUnlock()
	return calls
}
