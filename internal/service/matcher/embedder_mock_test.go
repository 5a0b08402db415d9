package matcher

import (
	"context"
	"sync"
)

var _ embedder = &embedderMock{}

type embedderMock struct {
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	calls struct {
		EmbedText []struct {
			Ctx  context.Context
			Text string
		}
	}
	lockEmbedText sync.RWMutex
}

func (mock *embedderMock) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if mock.EmbedTextFunc == nil {
		panic("embedderMock.EmbedTextFunc: method is nil but embedder.EmbedText was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Text string
	}{
		Ctx:  ctx,
		Text: text,
	}
	mock.lockEmbedText.Lock()
	mock.calls.EmbedText = append(mock.calls.EmbedText, callInfo)
	mock.lockEmbedText.Unlock()
	return mock.EmbedTextFunc(ctx, text)
}

func (mock *embedderMock) EmbedTextCalls() []struct {
	Ctx  context.Context
	Text string
} {
	var calls []struct {
		Ctx  context.Context
		Text string
	}
	mock.lockEmbedText.RLock()
	calls = mock.calls.EmbedText
	mock.lockEmbedText.RUnlock()
	return calls
}
