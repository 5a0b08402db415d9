// Package monitor runs one end-to-end legal-change monitoring pass.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
	"github.com/heartmarshall/legalpulse/internal/service/matcher"
)

// FeedSource pulls normalized items from one external feed.
type FeedSource interface {
	ID() string
	Pull(ctx context.Context) ([]domain.LawChangeInput, error)
}

type ingester interface {
	Ingest(ctx context.Context, items []domain.LawChangeInput) (domain.IngestSummary, error)
	Enrich(ctx context.Context, law domain.LawChange) domain.LawChange
}

type lawRepo interface {
	ListUnprocessed(ctx context.Context, limit int) ([]domain.LawChange, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, at time.Time) error
}

type embeddingSyncer interface {
	SyncPending(ctx context.Context) (domain.EmbeddingSummary, error)
}

type lawMatcher interface {
	Process(ctx context.Context, law domain.LawChange) (matcher.Result, error)
}

type instantDelivery interface {
	ProcessInstant(ctx context.Context) (domain.DeliverySummary, error)
}

// Config tunes a monitoring pass.
type Config struct {
	LawBatch        int
	FeedConcurrency int
}

// Service wires the pipeline stages together.
type Service struct {
	log      *slog.Logger
	feeds    []FeedSource
	ingest   ingester
	laws     lawRepo
	embed    embeddingSyncer
	match    lawMatcher
	delivery instantDelivery
	cfg      Config
	now      func() time.Time
}

// NewService creates a monitor. delivery may be nil, in which case instant
// events wait for the next delivery job.
func NewService(
	logger *slog.Logger,
	feeds []FeedSource,
	ingest ingester,
	laws lawRepo,
	embed embeddingSyncer,
	match lawMatcher,
	delivery instantDelivery,
	cfg Config,
) *Service {
	if cfg.LawBatch <= 0 {
		cfg.LawBatch = 100
	}
	if cfg.FeedConcurrency <= 0 {
		cfg.FeedConcurrency = 4
	}
	return &Service{
		log:      logger.With("service", "monitor"),
		feeds:    feeds,
		ingest:   ingest,
		laws:     laws,
		embed:    embed,
		match:    match,
		delivery: delivery,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}
