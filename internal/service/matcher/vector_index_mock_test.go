package matcher

import (
	"context"
	"sync"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ vectorIndex = &vectorIndexMock{}

type vectorIndexMock struct {
	QueryFunc func(ctx context.Context, vec []float32, topK int) ([]domain.ChunkMatch, error)

	calls struct {
		Query []struct {
			Ctx  context.Context
			Vec  []float32
			TopK int
		}
	}
	lockQuery sync.RWMutex
}

func (mock *vectorIndexMock) Query(ctx context.Context, vec []float32, topK int) ([]domain.ChunkMatch, error) {
	if mock.QueryFunc == nil {
		panic("vectorIndexMock.QueryFunc: method is nil but vectorIndex.Query was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Vec  []float32
		TopK int
	}{
		Ctx:  ctx,
		Vec:  vec,
		TopK: topK,
	}
	mock.lockQuery.Lock()
	mock.calls.Query = append(mock.calls.Query, callInfo)
	mock.lockQuery.Unlock()
	return mock.QueryFunc(ctx, vec, topK)
}

func (mock *vectorIndexMock) QueryCalls() []struct {
	Ctx  context.Context
	Vec  []float32
	TopK int
} {
	var calls []struct {
		Ctx  context.Context
		Vec  []float32
		TopK int
	}
	mock.lockQuery.RLock()
	calls = mock.calls.Query
	mock.lockQuery.RUnlock()
	return calls
}
