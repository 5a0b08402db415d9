package settings

import (
	"sync"

	"github.com/google/uuid"
)

var _ linkVerifier = &linkVerifierMock{}

type linkVerifierMock struct {
	VerifyFunc func(token string) (uuid.UUID, error)

	calls struct {
		Verify []struct {
			Token string
		}
	}
	lockVerify sync.RWMutex
}

func (mock *linkVerifierMock) Verify(token string) (uuid.UUID, error) {
	if mock.VerifyFunc == nil {
		panic("linkVerifierMock.VerifyFunc: method is nil but linkVerifier.Verify was just called")
	}
	callInfo := struct {
		Token string
	}{
		Token: token,
	}
	mock.lockVerify.Lock()
	mock.calls.Verify = append(mock.calls.Verify, callInfo)
	mock.lockVerify.Unlock()
	return mock.VerifyFunc(token)
}

func (mock *linkVerifierMock) VerifyCalls() []struct {
	Token string
} {
	var calls []struct {
		Token string
	}
	mock.lockVerify.RLock()
	calls = mock.calls.Verify
	mock.lockVerify.RUnlock()
	return calls
}
