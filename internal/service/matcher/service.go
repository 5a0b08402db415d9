// Package matcher finds contracts affected by a law change and queues one
// alert per (contract, law) pair.
package matcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

type embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

type vectorIndex interface {
	Query(ctx context.Context, vec []float32, topK int) ([]domain.ChunkMatch, error)
}

type contractRepo interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Contract, error)
}

type settingsRepo interface {
	ListSettings(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.NotificationSettings, error)
}

type eventQueue interface {
	Enqueue(ctx context.Context, ev domain.NotificationEvent) (bool, error)
}

type explainer interface {
	Explain(ctx context.Context, law domain.LawChange) (string, error)
}

// Config holds the matching policy.
type Config struct {
	DefaultThreshold float64
	TopK             int
	CriticalScore    float64
	HighScore        float64
	MediumScore      float64
	// MaxTextChars caps the law text sent to the embedding backend.
	MaxTextChars     int
}

// DefaultMaxTextChars keeps a law's match text well inside the backend's
// per-request token limit.
const DefaultMaxTextChars = 8000

// Service matches law changes against contract chunks.
type Service struct {
	log       *slog.Logger
	emb       embedder
	index     vectorIndex
	contracts contractRepo
	settings  settingsRepo
	queue     eventQueue
	explain   explainer
	cfg       Config
	now       func() time.Time
}

// NewService creates a matcher. explain may be nil.
func NewService(
	logger *slog.Logger,
	emb embedder,
	index vectorIndex,
	contracts contractRepo,
	settings settingsRepo,
	queue eventQueue,
	explain explainer,
	cfg Config,
) *Service {
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = DefaultMaxTextChars
	}
	return &Service{
		log:       logger.With("service", "matcher"),
		emb:       emb,
		index:     index,
		contracts: contracts,
		settings:  settings,
		queue:     queue,
		explain:   explain,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}
