package matcher

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ contractRepo = &contractRepoMock{}

type contractRepoMock struct {
	ListByIDsFunc func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Contract, error)

	calls struct {
		ListByIDs []struct {
			Ctx context.Context
			Ids []uuid.UUID
		}
	}
	lockListByIDs sync.RWMutex
}

func (mock *contractRepoMock) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Contract, error) {
	if mock.ListByIDsFunc == nil {
		panic("contractRepoMock.ListByIDsFunc: method is nil but contractRepo.ListByIDs was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []uuid.UUID
	}{
		Ctx: ctx,
		Ids: ids,
	}
	mock.lockListByIDs.Lock()
	mock.calls.ListByIDs = append(mock.calls.ListByIDs, callInfo)
	mock.lockListByIDs.Unlock()
	return mock.ListByIDsFunc(ctx, ids)
}

func (mock *contractRepoMock) ListByIDsCalls() []struct {
	Ctx context.Context
	Ids []uuid.UUID
} {
	var calls []struct {
		Ctx context.Context
		Ids []uuid.UUID
	}
	mock.lockListByIDs.RLock()
	calls = mock.calls.ListByIDs
	mock.lockListByIDs.RUnlock()
	return calls
}
