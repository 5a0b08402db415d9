package matcher

import (
	"context"
	"sync"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ eventQueue = &eventQueueMock{}

type eventQueueMock struct {
	EnqueueFunc func(ctx context.Context, ev domain.NotificationEvent) (bool, error)

	calls struct {
		Enqueue []struct {
			Ctx context.Context
			Ev  domain.NotificationEvent
		}
	}
	lockEnqueue sync.RWMutex
}

func (mock *eventQueueMock) Enqueue(ctx context.Context, ev domain.NotificationEvent) (bool, error) {
	if mock.EnqueueFunc == nil {
		panic("eventQueueMock.EnqueueFunc: method is nil but eventQueue.Enqueue was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ev  domain.NotificationEvent
	}{
		Ctx: ctx,
		Ev:  ev,
	}
	mock.lockEnqueue.Lock()
	mock.calls.Enqueue = append(mock.calls.Enqueue, callInfo)
	mock.lockEnqueue.Unlock()
	return mock.EnqueueFunc(ctx, ev)
}

func (mock *eventQueueMock) EnqueueCalls() []struct {
	Ctx context.Context
	Ev  domain.NotificationEvent
} {
	var calls []struct {
		Ctx context.Context
		Ev  domain.NotificationEvent
	}
	mock.lockEnqueue.RLock()
	calls = mock.calls.Enqueue
	mock.lockEnqueue.RUnlock()
	return calls
}
