package digest

import (
	"sync"

	"github.com/heartmarshall/legalpulse/internal/adapter/mailer"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ renderer = &rendererMock{}

type rendererMock struct {
	SingleFunc func(user domain.User, ev domain.NotificationEvent, unsubscribeURL string) (mailer.Message, error)
	DigestFunc func(user domain.User, events []domain.NotificationEvent, unsubscribeURL string) (mailer.Message, error)

	calls struct {
		Single []struct {
			User           domain.User
			Ev             domain.NotificationEvent
			UnsubscribeURL string
		}
		Digest []struct {
			User           domain.User
			Events         []domain.NotificationEvent
			UnsubscribeURL string
		}
	}
	lockSingle sync.RWMutex
	lockDigest sync.RWMutex
}

func (mock *rendererMock) Single(user domain.User, ev domain.NotificationEvent, unsubscribeURL string) (mailer.Message, error) {
	if mock.SingleFunc == nil {
		panic("rendererMock.SingleFunc: method is nil but renderer.Single was just called")
	}
	callInfo := struct {
		User           domain.User
		Ev             domain.NotificationEvent
		UnsubscribeURL string
	}{
		User:           user,
		Ev:             ev,
		UnsubscribeURL: unsubscribeURL,
	}
	mock.lockSingle.Lock()
	mock.calls.Single = append(mock.calls.Single, callInfo)
	mock.lockSingle.Unlock()
	return mock.SingleFunc(user, ev, unsubscribeURL)
}

func (mock *rendererMock) SingleCalls() []struct {
	User           domain.User
	Ev             domain.NotificationEvent
	UnsubscribeURL string
} {
	var calls []struct {
		User           domain.User
		Ev             domain.NotificationEvent
		UnsubscribeURL string
	}
	mock.lockSingle.RLock()
	calls = mock.calls.Single
	mock.lockSingle.RUnlock()
	return calls
}

func (mock *rendererMock) Digest(user domain.User, events []domain.NotificationEvent, unsubscribeURL string) (mailer.Message, error) {
	if mock.DigestFunc == nil {
		panic("rendererMock.DigestFunc: method is nil but renderer.Digest was just called")
	}
	callInfo := struct {
		User           domain.User
		Events         []domain.NotificationEvent
		UnsubscribeURL string
	}{
		User:           user,
		Events:         events,
		UnsubscribeURL: unsubscribeURL,
	}
	mock.lockDigest.Lock()
	mock.calls.Digest = append(mock.calls.Digest, callInfo)
	mock.lockDigest.Unlock()
	return mock.DigestFunc(user, events, unsubscribeURL)
}

func (mock *rendererMock) DigestCalls() []struct {
	User           domain.User
	Events         []domain.NotificationEvent
	UnsubscribeURL string
} {
	var calls []struct {
		User           domain.User
		Events         []domain.NotificationEvent
		UnsubscribeURL string
	}
	mock.lockDigest.RLock()
	calls = mock.calls.Digest
	mock.lockDigest.RUnlock()
	return calls
}
