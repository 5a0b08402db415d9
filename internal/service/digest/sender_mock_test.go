package digest

import (
	"context"
	"sync"

	"github.com/heartmarshall/legalpulse/internal/adapter/mailer"
)

var _ sender = &senderMock{}

type senderMock struct {
	SendFunc func(ctx context.Context, m mailer.Message) error

	calls struct {
		Send []struct {
			Ctx context.Context
			M   mailer.Message
		}
	}
	lockSend sync.RWMutex
}

func (mock *senderMock) Send(ctx context.Context, m mailer.Message) error {
	if mock.SendFunc == nil {
		panic("senderMock.SendFunc: method is nil but sender.Send was just called")
	}
	callInfo := struct {
		Ctx context.Context
		M   mailer.Message
	}{
		Ctx: ctx,
		M:   m,
	}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, m)
}

func (mock *senderMock) SendCalls() []struct {
	Ctx context.Context
	M   mailer.Message
} {
	var calls []struct {
		Ctx context.Context
		M   mailer.Message
	}
	mock.lockSend.RLock()
	calls = mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
