// Package queue exposes operational actions on the notification queue.
package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

type queueRepo interface {
	Stats(ctx context.Context) (domain.QueueStats, error)
	ListPending(ctx context.Context, mode domain.DigestMode) ([]domain.UserBatch, error)
	RetryFailed(ctx context.Context) (int64, error)
	ResetStale(ctx context.Context, claimedBefore time.Time) (int64, error)
	Cleanup(ctx context.Context, sentBefore time.Time) (int64, error)
}

// Config holds queue retention settings.
type Config struct {
	RetentionDays int
	StaleAfter    time.Duration
}

// Service runs queue maintenance.
type Service struct {
	log   *slog.Logger
	queue queueRepo
	cfg   Config
	now   func() time.Time
}

// NewService creates a new queue service.
func NewService(logger *slog.Logger, queue queueRepo, cfg Config) *Service {
	return &Service{
		log:   logger.With("service", "queue"),
		queue: queue,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}
