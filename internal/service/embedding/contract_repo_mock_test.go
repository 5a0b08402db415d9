package embedding

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ contractRepo = &contractRepoMock{}

type contractRepoMock struct {
	GetByIDFunc              func(ctx context.Context, id uuid.UUID) (domain.Contract, error)
	ListNeedingEmbeddingFunc func(ctx context.Context, limit int) ([]domain.Contract, error)
	MarkEmbeddedFunc         func(ctx context.Context, id uuid.UUID, hash string, at time.Time) error

	calls struct {
		GetByID []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		ListNeedingEmbedding []struct {
			Ctx   context.Context
			Limit int
		}
		MarkEmbedded []struct {
			Ctx  context.Context
			Id   uuid.UUID
			Hash string
			At   time.Time
		}
	}
	lockGetByID              sync.RWMutex
	lockListNeedingEmbedding sync.RWMutex
	lockMarkEmbedded         sync.RWMutex
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

func (mock *contractRepoMock) ListNeedingEmbedding(ctx context.Context, limit int) ([]domain.Contract, error) {
	if mock.ListNeedingEmbeddingFunc == nil {
		panic("contractRepoMock.ListNeedingEmbeddingFunc: method is nil but contractRepo.ListNeedingEmbedding was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Limit int
	}{
		Ctx:   ctx,
		Limit: limit,
	}
	mock.lockListNeedingEmbedding.Lock()
	mock.calls.ListNeedingEmbedding = append(mock.calls.ListNeedingEmbedding, callInfo)
	mock.lockListNeedingEmbedding.Unlock()
	return mock.ListNeedingEmbeddingFunc(ctx, limit)
}

func (mock *contractRepoMock) ListNeedingEmbeddingCalls() []struct {
	Ctx   context.Context
	Limit int
} {
	var calls []struct {
		Ctx   context.Context
		Limit int
	}
	mock.lockListNeedingEmbedding.RLock()
	calls = mock.calls.ListNeedingEmbedding
	mock.lockListNeedingEmbedding.RUnlock()
	return calls
}

func (mock *contractRepoMock) MarkEmbedded(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
	if mock.MarkEmbeddedFunc == nil {
		panic("contractRepoMock.MarkEmbeddedFunc: method is nil but contractRepo.MarkEmbedded was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Id   uuid.UUID
		Hash string
		At   time.Time
	}{
		Ctx:  ctx,
		Id:   id,
		Hash: hash,
		At:   at,
	}
	mock.lockMarkEmbedded.Lock()
	mock.calls.MarkEmbedded = append(mock.calls.MarkEmbedded, callInfo)
	mock.lockMarkEmbedded.Unlock()
	return mock.MarkEmbeddedFunc(ctx, id, hash, at)
}

func (mock *contractRepoMock) MarkEmbeddedCalls() []struct {
	Ctx  context.Context
	Id   uuid.UUID
	Hash string
	At   time.Time
} {
	var calls []struct {
		Ctx  context.Context
		Id   uuid.UUID
		Hash string
		At   time.Time
	}
	mock.lockMarkEmbedded.RLock()
	calls = mock.calls.MarkEmbedded
	mock.lockMarkEmbedded.RUnlock()
	return calls
}
