package digest

import (
	"sync"

	"github.com/google/uuid"
)

var _ linkSigner = &linkSignerMock{}

type linkSignerMock struct {
	UnsubscribeURLFunc func(userID uuid.UUID) (string, error)

	calls struct {
		UnsubscribeURL []struct {
			UserID uuid.UUID
		}
	}
	lockUnsubscribeURL sync.RWMutex
}

func (mock *linkSignerMock) UnsubscribeURL(userID uuid.UUID) (string, error) {
	if mock.UnsubscribeURLFunc == nil {
		panic("linkSignerMock.UnsubscribeURLFunc: method is nil but linkSigner.UnsubscribeURL was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
	}{
		UserID: userID,
	}
	mock.lockUnsubscribeURL.Lock()
	mock.calls.UnsubscribeURL = append(mock.calls.UnsubscribeURL, callInfo)
	mock.lockUnsubscribeURL.Unlock()
	return mock.UnsubscribeURLFunc(userID)
}

func (mock *linkSignerMock) UnsubscribeURLCalls() []struct {
	UserID uuid.UUID
} {
	var calls []struct {
		UserID uuid.UUID
	}
	mock.lockUnsubscribeURL.RLock()
	calls = mock.calls.UnsubscribeURL
	mock.lockUnsubscribeURL.RUnlock()
	return calls
}
