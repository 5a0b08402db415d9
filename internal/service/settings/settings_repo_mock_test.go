package settings

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ settingsRepo = &settingsRepoMock{}

type settingsRepoMock struct {
	GetSettingsFunc    func(ctx context.Context, userID uuid.UUID) (domain.NotificationSettings, error)
	UpsertSettingsFunc func(ctx context.Context, s domain.NotificationSettings, at time.Time) error

	calls struct {
		GetSettings []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		UpsertSettings []struct {
			Ctx context.Context
			S   domain.NotificationSettings
			At  time.Time
		}
	}
	lockGetSettings    sync.RWMutex
	lockUpsertSettings sync.RWMutex
}

func (mock *settingsRepoMock) GetSettings(ctx context.Context, userID uuid.UUID) (domain.NotificationSettings, error) {
	if mock.GetSettingsFunc == nil {
		panic("settingsRepoMock.GetSettingsFunc: method is nil but settingsRepo.GetSettings was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{
		Ctx:    ctx,
		UserID: userID,
	}
	mock.lockGetSettings.Lock()
	mock.calls.GetSettings = append(mock.calls.GetSettings, callInfo)
	mock.lockGetSettings.Unlock()
	return mock.GetSettingsFunc(ctx, userID)
}

func (mock *settingsRepoMock) GetSettingsCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	var calls []struct {
		Ctx    context.Context
		UserID uuid.UUID
	}
	mock.lockGetSettings.RLock()
	calls = mock.calls.GetSettings
	mock.lockGetSettings.RUnlock()
	return calls
}

func (mock *settingsRepoMock) UpsertSettings(ctx context.Context, s domain.NotificationSettings, at time.Time) error {
	if mock.UpsertSettingsFunc == nil {
		panic("settingsRepoMock.UpsertSettingsFunc: method is nil but settingsRepo.UpsertSettings was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   domain.NotificationSettings
		At  time.Time
	}{
		Ctx: ctx,
		S:   s,
		At:  at,
	}
	mock.lockUpsertSettings.Lock()
	mock.calls.UpsertSettings = append(mock.calls.UpsertSettings, callInfo)
	mock.lockUpsertSettings.Unlock()
	return mock.UpsertSettingsFunc(ctx, s, at)
}

func (mock *settingsRepoMock) UpsertSettingsCalls() []struct {
	Ctx context.Context
	S   domain.NotificationSettings
	At  time.Time
} {
	var calls []struct {
		Ctx context.Context
		S   domain.NotificationSettings
		At  time.Time
	}
	mock.lockUpsertSettings.RLock()
	calls = mock.calls.UpsertSettings
	mock.lockUpsertSettings.RUnlock()
	return calls
}
