package monitor

import (
	"context"
	"sync"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ embeddingSyncer = &embeddingSyncerMock{}

type embeddingSyncerMock struct {
	SyncPendingFunc func(ctx context.Context) (domain.EmbeddingSummary, error)

	calls struct {
		SyncPending []struct {
			Ctx context.Context
		}
	}
	lockSyncPending sync.RWMutex
}

func (mock *embeddingSyncerMock) SyncPending(ctx context.Context) (domain.EmbeddingSummary, error) {
	if mock.SyncPendingFunc == nil {
		panic("embeddingSyncerMock.SyncPendingFunc: method is nil but embeddingSyncer.SyncPending was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockSyncPending.Lock()
	mock.calls.SyncPending = append(mock.calls.SyncPending, callInfo)
	mock.lockSyncPending.Unlock()
	return mock.SyncPendingFunc(ctx)
}

func (mock *embeddingSyncerMock) SyncPendingCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockSyncPending.RLock()
	calls = mock.calls.SyncPending
	mock.lockSyncPending.RUnlock()
	return calls
}
