package embedding

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ vectorIndex = &vectorIndexMock{}

type vectorIndexMock struct {
	ReplaceContractFunc  func(ctx context.Context, contractID uuid.UUID, chunks []domain.ContractChunk) error
	DeleteByContractFunc func(ctx context.Context, contractID uuid.UUID) error

	calls struct {
		ReplaceContract []struct {
			Ctx        context.Context
			ContractID uuid.UUID
			Chunks     []domain.ContractChunk
		}
		DeleteByContract []struct {
			Ctx        context.Context
			ContractID uuid.UUID
		}
	}
	lockReplaceContract  sync.RWMutex
	lockDeleteByContract sync.RWMutex
}

func (mock *vectorIndexMock) ReplaceContract(ctx context.Context, contractID uuid.UUID, chunks []domain.ContractChunk) error {
	if mock.ReplaceContractFunc == nil {
		panic("vectorIndexMock.ReplaceContractFunc: method is nil but vectorIndex.ReplaceContract was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		ContractID uuid.UUID
		Chunks     []domain.ContractChunk
	}{
		Ctx:        ctx,
		ContractID: contractID,
		Chunks:     chunks,
	}
	mock.lockReplaceContract.Lock()
	mock.calls.ReplaceContract = append(mock.calls.ReplaceContract, callInfo)
	mock.lockReplaceContract.Unlock()
	return mock.ReplaceContractFunc(ctx, contractID, chunks)
}

func (mock *vectorIndexMock) ReplaceContractCalls() []struct {
	Ctx        context.Context
	ContractID uuid.UUID
	Chunks     []domain.ContractChunk
} {
	var calls []struct {
		Ctx        context.Context
		ContractID uuid.UUID
		Chunks     []domain.ContractChunk
	}
	mock.lockReplaceContract.RLock()
	calls = mock.calls.ReplaceContract
	mock.lockReplaceContract.RUnlock()
	return calls
}

func (mock *vectorIndexMock) DeleteByContract(ctx context.Context, contractID uuid.UUID) error {
	if mock.DeleteByContractFunc == nil {
		panic("vectorIndexMock.DeleteByContractFunc: method is nil but vectorIndex.DeleteByContract was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		ContractID uuid.UUID
	}{
		Ctx:        ctx,
		ContractID: contractID,
	}
	mock.lockDeleteByContract.Lock()
	mock.calls.DeleteByContract = append(mock.calls.DeleteByContract, callInfo)
	mock.lockDeleteByContract.Unlock()
	return mock.DeleteByContractFunc(ctx, contractID)
}

func (mock *vectorIndexMock) DeleteByContractCalls() []struct {
	Ctx        context.Context
	ContractID uuid.UUID
} {
	var calls []struct {
		Ctx        context.Context
		ContractID uuid.UUID
	}
	mock.lockDeleteByContract.RLock()
	calls = mock.calls.DeleteByContract
	mock.lockDeleteByContract.RUnlock()
	return calls
}
