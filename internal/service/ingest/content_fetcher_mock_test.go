package ingest

import (
	"context"
	"sync"
)

var _ contentFetcher = &contentFetcherMock{}

type contentFetcherMock struct {
	FetchFunc func(ctx context.Context, pageURL string) (string, error)

	calls struct {
		Fetch []struct {
			Ctx     context.Context
			PageURL string
		}
	}
	lockFetch sync.RWMutex
}

func (mock *contentFetcherMock) Fetch(ctx context.Context, pageURL string) (string, error) {
	if mock.FetchFunc == nil {
		panic("contentFetcherMock.FetchFunc: method is nil but contentFetcher.Fetch was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		PageURL string
	}{
		Ctx:     ctx,
		PageURL: pageURL,
	}
	mock.lockFetch.Lock()
	mock.calls.Fetch = append(mock.calls.Fetch, callInfo)
	mock.lockFetch.Unlock()
	return mock.FetchFunc(ctx, pageURL)
}

func (mock *contentFetcherMock) FetchCalls() []struct {
	Ctx     context.Context
	PageURL string
} {
	var calls []struct {
		Ctx     context.Context
		PageURL string
	}
	mock.lockFetch.RLock()
	calls = mock.calls.Fetch
	mock.lockFetch.RUnlock()
	return calls
}
