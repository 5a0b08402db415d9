// Package ingest persists normalized feed items as deduplicated law changes.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

type lawRepo interface {
	Create(ctx context.Context, law domain.LawChange) (domain.LawChange, error)
	GetByFingerprint(ctx context.Context, fingerprint string) (domain.LawChange, error)
	ListPublishedBetween(ctx context.Context, from, to time.Time) ([]domain.LawChange, error)
	UpdateMerged(ctx context.Context, law domain.LawChange) error
	UpdateDescription(ctx context.Context, id uuid.UUID, description string, at time.Time) error
}

type contentFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Service ingests law changes.
type Service struct {
	log     *slog.Logger
	laws    lawRepo
	fetcher contentFetcher
	minDesc int
	now     func() time.Time
}

// NewService creates a new ingest service. fetcher may be nil, which
// disables description enrichment. minDescriptionChars is the length below
// which a description is considered a stub.
func NewService(logger *slog.Logger, laws lawRepo, fetcher contentFetcher, minDescriptionChars int) *Service {
	return &Service{
		log:     logger.With("service", "ingest"),
		laws:    laws,
		fetcher: fetcher,
		minDesc: minDescriptionChars,
		now:     func() time.Time { return time.Now().UTC() },
	}
}
