// Package embedding keeps the vector index in step with contract text.
package embedding

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
	"github.com/heartmarshall/legalpulse/internal/service/chunker"
)

type contractRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Contract, error)
	ListNeedingEmbedding(ctx context.Context, limit int) ([]domain.Contract, error)
	MarkEmbedded(ctx context.Context, id uuid.UUID, hash string, at time.Time) error
}

type vectorIndex interface {
	ReplaceContract(ctx context.Context, contractID uuid.UUID, chunks []domain.ContractChunk) error
	DeleteByContract(ctx context.Context, contractID uuid.UUID) error
}

type embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Config tunes the sync pass.
type Config struct {
	MinTextChars int
	Concurrency  int
	SyncBatch    int
	Chunking     chunker.Options
}

// Service chunks, pseudonymizes and embeds contracts.
type Service struct {
	log       *slog.Logger
	contracts contractRepo
	index     vectorIndex
	embedder  embedder
	chunker   *chunker.Chunker
	cfg       Config
	now       func() time.Time
}

// NewService creates a new embedding service.
func NewService(
	logger *slog.Logger,
	contracts contractRepo,
	index vectorIndex,
	emb embedder,
	cfg Config,
) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.SyncBatch <= 0 {
		cfg.SyncBatch = 200
	}
	return &Service{
		log:       logger.With("service", "embedding"),
		contracts: contracts,
		index:     index,
		embedder:  emb,
		chunker:   chunker.New(cfg.Chunking),
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}
