// Package settings reads and updates per-user notification preferences.
package settings

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

type settingsRepo interface {
	GetSettings(ctx context.Context, userID uuid.UUID) (domain.NotificationSettings, error)
	UpsertSettings(ctx context.Context, s domain.NotificationSettings, at time.Time) error
}

type linkVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// Service manages notification settings.
type Service struct {
	log              *slog.Logger
	repo             settingsRepo
	links            linkVerifier
	defaultThreshold float64
	now              func() time.Time
}

// NewService creates a new settings service. defaultThreshold applies to
// users without stored settings.
func NewService(logger *slog.Logger, repo settingsRepo, links linkVerifier, defaultThreshold float64) *Service {
	return &Service{
		log:              logger.With("service", "settings"),
		repo:             repo,
		links:            links,
		defaultThreshold: defaultThreshold,
		now:              func() time.Time { return time.Now().UTC() },
	}
}
