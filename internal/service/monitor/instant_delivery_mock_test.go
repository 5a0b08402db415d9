package monitor

import (
	"context"
	"sync"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ instantDelivery = &instantDeliveryMock{}

type instantDeliveryMock struct {
	ProcessInstantFunc func(ctx context.Context) (domain.DeliverySummary, error)

	calls struct {
		ProcessInstant []struct {
			Ctx context.Context
		}
	}
	lockProcessInstant sync.RWMutex
}

func (mock *instantDeliveryMock) ProcessInstant(ctx context.Context) (domain.DeliverySummary, error) {
	if mock.ProcessInstantFunc == nil {
		panic("instantDeliveryMock.ProcessInstantFunc: method is nil but instantDelivery.ProcessInstant was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockProcessInstant.Lock()
	mock.calls.ProcessInstant = append(mock.calls.ProcessInstant, callInfo)
	mock.lockProcessInstant.Unlock()
	return mock.ProcessInstantFunc(ctx)
}

func (mock *instantDeliveryMock) ProcessInstantCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockProcessInstant.RLock()
	calls = mock.calls.ProcessInstant
	mock.lockProcessInstant.RUnlock()
	return calls
}
