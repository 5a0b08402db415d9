package monitor

import (
	"context"
	"sync"

	"github.com/heartmarshall/legalpulse/internal/domain"
	"github.com/heartmarshall/legalpulse/internal/service/matcher"
)

var _ lawMatcher = &lawMatcherMock{}

type lawMatcherMock struct {
	ProcessFunc func(ctx context.Context, law domain.LawChange) (matcher.Result, error)

	calls struct {
		Process []struct {
			Ctx context.Context
			Law domain.LawChange
		}
	}
	lockProcess sync.RWMutex
}

func (mock *lawMatcherMock) Process(ctx context.Context, law domain.LawChange) (matcher.Result, error) {
	if mock.ProcessFunc == nil {
		panic("lawMatcherMock.ProcessFunc: method is nil but lawMatcher.Process was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Law domain.LawChange
	}{
		Ctx: ctx,
		Law: law,
	}
	mock.lockProcess.Lock()
	mock.calls.Process = append(mock.calls.Process, callInfo)
	mock.lockProcess.Unlock()
	return mock.ProcessFunc(ctx, law)
}

func (mock *lawMatcherMock) ProcessCalls() []struct {
	Ctx context.Context
	Law domain.LawChange
} {
	var calls []struct {
		Ctx context.Context
		Law domain.LawChange
	}
	mock.lockProcess.RLock()
	calls = mock.calls.Process
	mock.lockProcess.RUnlock()
	return calls
}
