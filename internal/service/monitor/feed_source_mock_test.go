package monitor

import (
	"context"
	"sync"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ FeedSource = &FeedSourceMock{}

type FeedSourceMock struct {
	IDFunc   func() string
	PullFunc func(ctx context.Context) ([]domain.LawChangeInput, error)

	calls struct {
		ID   []struct{}
		Pull []struct {
			Ctx context.Context
		}
	}
	lockID   sync.RWMutex
	lockPull sync.RWMutex
}

func (mock *FeedSourceMock) ID() string {
	if mock.IDFunc == nil {
		panic("FeedSourceMock.IDFunc: method is nil but FeedSource.ID was just called")
	}
	callInfo := struct{}{}
	mock.lockID.Lock()
	mock.calls.ID = append(mock.calls.ID, callInfo)
	mock.lockID.Unlock()
	return mock.IDFunc()
}

func (mock *FeedSourceMock) IDCalls() []struct{} {
	var calls []struct{}
	mock.lockID.RLock()
	calls = mock.calls.ID
	mock.lockID.RUnlock()
	return calls
}

func (mock *FeedSourceMock) Pull(ctx context.Context) ([]domain.LawChangeInput, error) {
	if mock.PullFunc == nil {
		panic("FeedSourceMock.PullFunc: method is nil but FeedSource.Pull was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockPull.Lock()
	mock.calls.Pull = append(mock.calls.Pull, callInfo)
	mock.lockPull.Unlock()
	return mock.PullFunc(ctx)
}

func (mock *FeedSourceMock) PullCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockPull.RLock()
	calls = mock.calls.Pull
	mock.lockPull.RUnlock()
	return calls
}
