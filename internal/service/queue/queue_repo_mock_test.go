package queue

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ queueRepo = &queueRepoMock{}

type queueRepoMock struct {
	StatsFunc       func(ctx context.Context) (domain.QueueStats, error)
	ListPendingFunc func(ctx context.Context, mode domain.DigestMode) ([]domain.UserBatch, error)
	RetryFailedFunc func(ctx context.Context) (int64, error)
	ResetStaleFunc  func(ctx context.Context, claimedBefore time.Time) (int64, error)
	CleanupFunc     func(ctx context.Context, sentBefore time.Time) (int64, error)

	calls struct {
		Stats []struct {
			Ctx context.Context
		}
		ListPending []struct {
			Ctx  context.Context
			Mode domain.DigestMode
		}
		RetryFailed []struct {
			Ctx context.Context
		}
		ResetStale []struct {
			Ctx           context.Context
			ClaimedBefore time.Time
		}
		Cleanup []struct {
			Ctx        context.Context
			SentBefore time.Time
		}
	}
	lockStats       sync.RWMutex
	lockListPending sync.RWMutex
	lockRetryFailed sync.RWMutex
	lockResetStale  sync.RWMutex
	lockCleanup     sync.RWMutex
}

func (mock *queueRepoMock) Stats(ctx context.Context) (domain.QueueStats, error) {
	if mock.StatsFunc == nil {
		panic("queueRepoMock.StatsFunc: method is nil but queueRepo.Stats was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockStats.Lock()
	mock.calls.Stats = append(mock.calls.Stats, callInfo)
	mock.lockStats.Unlock()
	return mock.StatsFunc(ctx)
}

func (mock *queueRepoMock) StatsCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockStats.RLock()
	calls = mock.calls.Stats
	mock.lockStats.RUnlock()
	return calls
}

func (mock *queueRepoMock) ListPending(ctx context.Context, mode domain.DigestMode) ([]domain.UserBatch, error) {
	if mock.ListPendingFunc == nil {
		panic("queueRepoMock.ListPendingFunc: method is nil but queueRepo.ListPending was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Mode domain.DigestMode
	}{
		Ctx:  ctx,
		Mode: mode,
	}
	mock.lockListPending.Lock()
	mock.calls.ListPending = append(mock.calls.ListPending, callInfo)
	mock.lockListPending.Unlock()
	return mock.ListPendingFunc(ctx, mode)
}

func (mock *queueRepoMock) ListPendingCalls() []struct {
	Ctx  context.Context
	Mode domain.DigestMode
} {
	var calls []struct {
		Ctx  context.Context
		Mode domain.DigestMode
	}
	mock.lockListPending.RLock()
	calls = mock.calls.ListPending
	mock.lockListPending.RUnlock()
	return calls
}

func (mock *queueRepoMock) RetryFailed(ctx context.Context) (int64, error) {
	if mock.RetryFailedFunc == nil {
		panic("queueRepoMock.RetryFailedFunc: method is nil but queueRepo.RetryFailed was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockRetryFailed.Lock()
	mock.calls.RetryFailed = append(mock.calls.RetryFailed, callInfo)
	mock.lockRetryFailed.Unlock()
	return mock.RetryFailedFunc(ctx)
}

func (mock *queueRepoMock) RetryFailedCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockRetryFailed.RLock()
	calls = mock.calls.RetryFailed
	mock.lockRetryFailed.RUnlock()
	return calls
}

func (mock *queueRepoMock) ResetStale(ctx context.Context, claimedBefore time.Time) (int64, error) {
	if mock.ResetStaleFunc == nil {
		panic("queueRepoMock.ResetStaleFunc: method is nil but queueRepo.ResetStale was just called")
	}
	callInfo := struct {
		Ctx           context.Context
		ClaimedBefore time.Time
	}{
		Ctx:           ctx,
		ClaimedBefore: claimedBefore,
	}
	mock.lockResetStale.Lock()
	mock.calls.ResetStale = append(mock.calls.ResetStale, callInfo)
	mock.lockResetStale.Unlock()
	return mock.ResetStaleFunc(ctx, claimedBefore)
}

func (mock *queueRepoMock) ResetStaleCalls() []struct {
	Ctx           context.Context
	ClaimedBefore time.Time
} {
	var calls []struct {
		Ctx           context.Context
		ClaimedBefore time.Time
	}
	mock.lockResetStale.RLock()
	calls = mock.calls.ResetStale
	mock.lockResetStale.RUnlock()
	return calls
}

func (mock *queueRepoMock) Cleanup(ctx context.Context, sentBefore time.Time) (int64, error) {
	if mock.CleanupFunc == nil {
		panic("queueRepoMock.CleanupFunc: method is nil but queueRepo.Cleanup was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		SentBefore time.Time
	}{
		Ctx:        ctx,
		SentBefore: sentBefore,
	}
	mock.lockCleanup.Lock()
	mock.calls.Cleanup = append(mock.calls.Cleanup, callInfo)
	mock.lockCleanup.Unlock()
	return mock.CleanupFunc(ctx, sentBefore)
}

func (mock *queueRepoMock) CleanupCalls() []struct {
	Ctx        context.Context
	SentBefore time.Time
} {
	var calls []struct {
		Ctx        context.Context
		SentBefore time.Time
	}
	mock.lockCleanup.RLock()
	calls = mock.calls.Cleanup
	mock.lockCleanup.RUnlock()
	return calls
}
