package digest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ queueRepo = &queueRepoMock{}

type queueRepoMock struct {
	ListPendingUsersFunc func(ctx context.Context, mode domain.DigestMode, cutoff time.Time) ([]uuid.UUID, error)
	ClaimUserBatchFunc   func(ctx context.Context, userID uuid.UUID, mode domain.DigestMode, cutoff time.Time, now time.Time) ([]domain.NotificationEvent, error)
	MarkSentFunc         func(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
	MarkFailedFunc       func(ctx context.Context, ids []uuid.UUID, reason string, at time.Time) (int64, error)
	ReleaseFunc          func(ctx context.Context, ids []uuid.UUID) (int64, error)

	calls struct {
		ListPendingUsers []struct {
			Ctx    context.Context
			Mode   domain.DigestMode
			Cutoff time.Time
		}
		ClaimUserBatch []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Mode   domain.DigestMode
			Cutoff time.Time
			Now    time.Time
		}
		MarkSent []struct {
			Ctx context.Context
			Ids []uuid.UUID
			At  time.Time
		}
		MarkFailed []struct {
			Ctx    context.Context
			Ids    []uuid.UUID
			Reason string
			At     time.Time
		}
		Release []struct {
			Ctx context.Context
			Ids []uuid.UUID
		}
	}
	lockListPendingUsers sync.RWMutex
	lockClaimUserBatch   sync.RWMutex
	lockMarkSent         sync.RWMutex
	lockMarkFailed       sync.RWMutex
	lockRelease          sync.RWMutex
}

func (mock *queueRepoMock) ListPendingUsers(ctx context.Context, mode domain.DigestMode, cutoff time.Time) ([]uuid.UUID, error) {
	if mock.ListPendingUsersFunc == nil {
		panic("queueRepoMock.ListPendingUsersFunc: method is nil but queueRepo.ListPendingUsers was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Mode   domain.DigestMode
		Cutoff time.Time
	}{
		Ctx:    ctx,
		Mode:   mode,
		Cutoff: cutoff,
	}
	mock.lockListPendingUsers.Lock()
	mock.calls.ListPendingUsers = append(mock.calls.ListPendingUsers, callInfo)
	mock.lockListPendingUsers.Unlock()
	return mock.ListPendingUsersFunc(ctx, mode, cutoff)
}

func (mock *queueRepoMock) ListPendingUsersCalls() []struct {
	Ctx    context.Context
	Mode   domain.DigestMode
	Cutoff time.Time
} {
	var calls []struct {
		Ctx    context.Context
		Mode   domain.DigestMode
		Cutoff time.Time
	}
	mock.lockListPendingUsers.RLock()
	calls = mock.calls.ListPendingUsers
	mock.lockListPendingUsers.RUnlock()
	return calls
}

func (mock *queueRepoMock) ClaimUserBatch(ctx context.Context, userID uuid.UUID, mode domain.DigestMode, cutoff time.Time, now time.Time) ([]domain.NotificationEvent, error) {
	if mock.ClaimUserBatchFunc == nil {
		panic("queueRepoMock.ClaimUserBatchFunc: method is nil but queueRepo.ClaimUserBatch was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Mode   domain.DigestMode
		Cutoff time.Time
		Now    time.Time
	}{
		Ctx:    ctx,
		UserID: userID,
		Mode:   mode,
		Cutoff: cutoff,
		Now:    now,
	}
	mock.lockClaimUserBatch.Lock()
	mock.calls.ClaimUserBatch = append(mock.calls.ClaimUserBatch, callInfo)
	mock.lockClaimUserBatch.Unlock()
	return mock.ClaimUserBatchFunc(ctx, userID, mode, cutoff, now)
}

func (mock *queueRepoMock) ClaimUserBatchCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Mode   domain.DigestMode
	Cutoff time.Time
	Now    time.Time
} {
	var calls []struct {
		Ctx    context.Context
		UserID uuid.UUID
		Mode   domain.DigestMode
		Cutoff time.Time
		Now    time.Time
	}
	mock.lockClaimUserBatch.RLock()
	calls = mock.calls.ClaimUserBatch
	mock.lockClaimUserBatch.RUnlock()
	return calls
}

func (mock *queueRepoMock) MarkSent(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	if mock.MarkSentFunc == nil {
		panic("queueRepoMock.MarkSentFunc: method is nil but queueRepo.MarkSent was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []uuid.UUID
		At  time.Time
	}{
		Ctx: ctx,
		Ids: ids,
		At:  at,
	}
	mock.lockMarkSent.Lock()
	mock.calls.MarkSent = append(mock.calls.MarkSent, callInfo)
	mock.lockMarkSent.Unlock()
	return mock.MarkSentFunc(ctx, ids, at)
}

func (mock *queueRepoMock) MarkSentCalls() []struct {
	Ctx context.Context
	Ids []uuid.UUID
	At  time.Time
} {
	var calls []struct {
		Ctx context.Context
		Ids []uuid.UUID
		At  time.Time
	}
	mock.lockMarkSent.RLock()
	calls = mock.calls.MarkSent
	mock.lockMarkSent.RUnlock()
	return calls
}

func (mock *queueRepoMock) MarkFailed(ctx context.Context, ids []uuid.UUID, reason string, at time.Time) (int64, error) {
	if mock.MarkFailedFunc == nil {
		panic("queueRepoMock.MarkFailedFunc: method is nil but queueRepo.MarkFailed was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Ids    []uuid.UUID
		Reason string
		At     time.Time
	}{
		Ctx:    ctx,
		Ids:    ids,
		Reason: reason,
		At:     at,
	}
	mock.lockMarkFailed.Lock()
	mock.calls.MarkFailed = append(mock.calls.MarkFailed, callInfo)
	mock.lockMarkFailed.Unlock()
	return mock.MarkFailedFunc(ctx, ids, reason, at)
}

func (mock *queueRepoMock) MarkFailedCalls() []struct {
	Ctx    context.Context
	Ids    []uuid.UUID
	Reason string
	At     time.Time
} {
	var calls []struct {
		Ctx    context.Context
		Ids    []uuid.UUID
		Reason string
		At     time.Time
	}
	mock.lockMarkFailed.RLock()
	calls = mock.calls.MarkFailed
	mock.lockMarkFailed.RUnlock()
	return calls
}

func (mock *queueRepoMock) Release(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if mock.ReleaseFunc == nil {
		panic("queueRepoMock.ReleaseFunc: method is nil but queueRepo.Release was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []uuid.UUID
	}{
		Ctx: ctx,
		Ids: ids,
	}
	mock.lockRelease.Lock()
	mock.calls.Release = append(mock.calls.Release, callInfo)
	mock.lockRelease.Unlock()
	return mock.ReleaseFunc(ctx, ids)
}

func (mock *queueRepoMock) ReleaseCalls() []struct {
	Ctx context.Context
	Ids []uuid.UUID
} {
	var calls []struct {
		Ctx context.Context
		Ids []uuid.UUID
	}
	mock.lockRelease.RLock()
	calls = mock.calls.Release
	mock.lockRelease.RUnlock()
	return calls
}
