package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ lawRepo = &lawRepoMock{}

type lawRepoMock struct {
	ListUnprocessedFunc func(ctx context.Context, limit int) ([]domain.LawChange, error)
	MarkProcessedFunc   func(ctx context.Context, id uuid.UUID, at time.Time) error

	calls struct {
		ListUnprocessed []struct {
			Ctx   context.Context
			Limit int
		}
		MarkProcessed []struct {
			Ctx context.Context
			Id  uuid.UUID
			At  time.Time
		}
	}
	lockListUnprocessed sync.RWMutex
	lockMarkProcessed   sync.RWMutex
}

func (mock *lawRepoMock) ListUnprocessed(ctx context.Context, limit int) ([]domain.LawChange, error) {
	if mock.ListUnprocessedFunc == nil {
		panic("lawRepoMock.ListUnprocessedFunc: method is nil but lawRepo.ListUnprocessed was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Limit int
	}{
		Ctx:   ctx,
		Limit: limit,
	}
	mock.lockListUnprocessed.Lock()
	mock.calls.ListUnprocessed = append(mock.calls.ListUnprocessed, callInfo)
	mock.lockListUnprocessed.Unlock()
	return mock.ListUnprocessedFunc(ctx, limit)
}

func (mock *lawRepoMock) ListUnprocessedCalls() []struct {
	Ctx   context.Context
	Limit int
} {
	var calls []struct {
		Ctx   context.Context
		Limit int
	}
	mock.lockListUnprocessed.RLock()
	calls = mock.calls.ListUnprocessed
	mock.lockListUnprocessed.RUnlock()
	return calls
}

func (mock *lawRepoMock) MarkProcessed(ctx context.Context, id uuid.UUID, at time.Time) error {
	if mock.MarkProcessedFunc == nil {
		panic("lawRepoMock.MarkProcessedFunc: method is nil but lawRepo.MarkProcessed was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
		At  time.Time
	}{
		Ctx: ctx,
		Id:  id,
		At:  at,
	}
	mock.lockMarkProcessed.Lock()
	mock.calls.MarkProcessed = append(mock.calls.MarkProcessed, callInfo)
	mock.lockMarkProcessed.Unlock()
	return mock.MarkProcessedFunc(ctx, id, at)
}

func (mock *lawRepoMock) MarkProcessedCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
	At  time.Time
} {
	var calls []struct {
		Ctx context.Context
		Id  uuid.UUID
		At  time.Time
	}
	mock.lockMarkProcessed.RLock()
	calls = mock.calls.MarkProcessed
	mock.lockMarkProcessed.RUnlock()
	return calls
}
