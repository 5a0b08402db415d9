package matcher

import (
	"context"
	"sync"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ explainer = &explainerMock{}

type explainerMock struct {
	ExplainFunc func(ctx context.Context, law domain.LawChange) (string, error)

	calls struct {
		Explain []struct {
			Ctx context.Context
			Law domain.LawChange
		}
	}
	lockExplain sync.RWMutex
}

func (mock *explainerMock) Explain(ctx context.Context, law domain.LawChange) (string, error) {
	if mock.ExplainFunc == nil {
		panic("explainerMock.ExplainFunc: method is nil but explainer.Explain was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Law domain.LawChange
	}{
		Ctx: ctx,
		Law: law,
	}
	mock.lockExplain.Lock()
	mock.calls.Explain = append(mock.calls.Explain, callInfo)
	mock.lockExplain.Unlock()
	return mock.ExplainFunc(ctx, law)
}

func (mock *explainerMock) ExplainCalls() []struct {
	Ctx context.Context
	Law domain.LawChange
} {
	var calls []struct {
		Ctx context.Context
		Law domain.LawChange
	}
	mock.lockExplain.RLock()
	calls = mock.calls.Explain
	mock.lockExplain.RUnlock()
	return calls
}
