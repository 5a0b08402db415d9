package lifecycle

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ historyRepo = &historyRepoMock{}

type historyRepoMock struct {
	AppendFunc         func(ctx context.Context, rec domain.ContractStatusRecord) error
	ListByContractFunc func(ctx context.Context, contractID uuid.UUID, limit int) ([]domain.ContractStatusRecord, error)

	calls struct {
		Append []struct {
			Ctx context.Context
			Rec domain.ContractStatusRecord
		}
		ListByContract []struct {
			Ctx        context.Context
			ContractID uuid.UUID
			Limit      int
		}
	}
	lockAppend         sync.RWMutex
	lockListByContract sync.RWMutex
}

func (mock *historyRepoMock) Append(ctx context.Context, rec domain.ContractStatusRecord) error {
	if mock.AppendFunc == nil {
		panic("historyRepoMock.AppendFunc: method is nil but historyRepo.Append was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Rec domain.ContractStatusRecord
	}{
		Ctx: ctx,
		Rec: rec,
	}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, rec)
}

func (mock *historyRepoMock) AppendCalls() []struct {
	Ctx context.Context
	Rec domain.ContractStatusRecord
} {
	var calls []struct {
		Ctx context.Context
		Rec domain.ContractStatusRecord
	}
	mock.lockAppend.RLock()
	calls = mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

func (mock *historyRepoMock) ListByContract(ctx context.Context, contractID uuid.UUID, limit int) ([]domain.ContractStatusRecord, error) {
	if mock.ListByContractFunc == nil {
		panic("historyRepoMock.ListByContractFunc: method is nil but historyRepo.ListByContract was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		ContractID uuid.UUID
		Limit      int
	}{
		Ctx:        ctx,
		ContractID: contractID,
		Limit:      limit,
	}
	mock.lockListByContract.Lock()
	mock.calls.ListByContract = append(mock.calls.ListByContract, callInfo)
	mock.lockListByContract.Unlock()
	return mock.ListByContractFunc(ctx, contractID, limit)
}

func (mock *historyRepoMock) ListByContractCalls() []struct {
	Ctx        context.Context
	ContractID uuid.UUID
	Limit      int
} {
	var calls []struct {
		Ctx        context.Context
		ContractID uuid.UUID
		Limit      int
	}
	mock.lockListByContract.RLock()
	calls = mock.calls.ListByContract
	mock.lockListByContract.RUnlock()
	return calls
}
