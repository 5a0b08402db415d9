package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// MaintenanceSummary is the outcome of one cleanup run.
type MaintenanceSummary struct {
	Reset   int64
	Deleted int64
}

// Stats returns event counts by status.
func (s *Service) Stats(ctx context.Context) (domain.QueueStats, error) {
	stats, err := s.queue.Stats(ctx)
	if err != nil {
		return domain.QueueStats{}, fmt.Errorf("queue.Stats: %w", err)
	}
	return stats, nil
}

// Pending lists the queued events of one digest mode grouped by user,
// without claiming them.
func (s *Service) Pending(ctx context.Context, mode domain.DigestMode) ([]domain.UserBatch, error) {
	if !mode.IsValid() {
		return nil, domain.NewValidationError("mode", "must be instant, daily or weekly")
	}
	batches, err := s.queue.ListPending(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("queue.Pending: %w", err)
	}
	return batches, nil
}

// RetryFailed requeues every failed event. It is an operator action; the
// delivery runs never call it.
func (s *Service) RetryFailed(ctx context.Context) (int64, error) {
	n, err := s.queue.RetryFailed(ctx)
	if err != nil {
		return 0, fmt.Errorf("queue.RetryFailed: %w", err)
	}
	s.log.InfoContext(ctx, "failed events requeued", slog.Int64("count", n))
	return n, nil
}

// ResetStale returns claims older than olderThan to queued. A non-positive
// olderThan uses the configured stale timeout.
func (s *Service) ResetStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		olderThan = s.cfg.StaleAfter
	}
	n, err := s.queue.ResetStale(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("queue.ResetStale: %w", err)
	}
	if n > 0 {
		s.log.WarnContext(ctx, "stale claims reset", slog.Int64("count", n), slog.Duration("older_than", olderThan))
	}
	return n, nil
}

// Cleanup deletes sent events older than the retention window.
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.cfg.RetentionDays)
	n, err := s.queue.Cleanup(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("queue.Cleanup: %w", err)
	}
	s.log.InfoContext(ctx, "sent events deleted",
		slog.Int64("count", n),
		slog.Time("sent_before", cutoff),
	)
	return n, nil
}

// Maintain resets stale claims and applies retention.
func (s *Service) Maintain(ctx context.Context) (MaintenanceSummary, error) {
	var sum MaintenanceSummary

	reset, err := s.ResetStale(ctx, 0)
	if err != nil {
		return sum, err
	}
	sum.Reset = reset

	deleted, err := s.Cleanup(ctx)
	if err != nil {
		return sum, err
	}
	sum.Deleted = deleted
	return sum, nil
}
