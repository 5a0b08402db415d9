package embedding

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/legalpulse/internal/domain"
	"github.com/heartmarshall/legalpulse/internal/service/chunker"
)

// Outcome is the result of syncing one contract.
type Outcome int

const (
	OutcomeEmbedded Outcome = iota
	OutcomeUnchanged
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmbedded:
		return "embedded"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "skipped"
	}
}

// Result describes what SyncContract did.
type Result struct {
	Outcome Outcome
	Chunks  int
}

// ContentHash fingerprints contract text for change detection.
func ContentHash(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SyncContract brings the index entries of one contract up to date. Text
// that is unchanged since the last embedding only refreshes the bookkeeping.
// Text shorter than the minimum is not embedded and its stale chunks are
// dropped. A backend failure leaves the previous chunks in place.
func (s *Service) SyncContract(ctx context.Context, c domain.Contract) (Result, error) {
	if c.UserID == nil {
		return Result{Outcome: OutcomeSkipped}, nil
	}

	text := strings.TrimSpace(c.Content)
	hash := ContentHash(text)
	now := s.now()

	if c.EmbeddedAt != nil && c.ContentHash != nil && *c.ContentHash == hash {
		if err := s.contracts.MarkEmbedded(ctx, c.ID, hash, now); err != nil {
			return Result{}, fmt.Errorf("embedding.SyncContract %s: %w", c.ID, err)
		}
		return Result{Outcome: OutcomeUnchanged}, nil
	}

	if utf8.RuneCountInString(text) < s.cfg.MinTextChars {
		if err := s.index.DeleteByContract(ctx, c.ID); err != nil {
			return Result{}, fmt.Errorf("embedding.SyncContract %s: drop chunks: %w", c.ID, err)
		}
		if err := s.contracts.MarkEmbedded(ctx, c.ID, hash, now); err != nil {
			return Result{}, fmt.Errorf("embedding.SyncContract %s: %w", c.ID, err)
		}
		return Result{Outcome: OutcomeSkipped}, nil
	}

	parts := s.chunker.Chunk(chunker.Pseudonymize(text))
	if len(parts) == 0 {
		return Result{Outcome: OutcomeSkipped}, nil
	}

	vecs, err := s.embedder.Embed(ctx, parts)
	if err != nil {
		return Result{}, fmt.Errorf("embedding.SyncContract %s: %w", c.ID, err)
	}
	if len(vecs) != len(parts) {
		return Result{}, fmt.Errorf("embedding.SyncContract %s: %w: %d vectors for %d chunks",
			c.ID, domain.ErrEmbedding, len(vecs), len(parts))
	}

	chunks := make([]domain.ContractChunk, len(parts))
	for i, p := range parts {
		chunks[i] = domain.ContractChunk{
			ID:          domain.ChunkID(c.ID, i),
			ContractID:  c.ID,
			UserID:      *c.UserID,
			ChunkIndex:  i,
			TotalChunks: len(parts),
			Text:        p,
			Vector:      vecs[i],
		}
	}

	if err := s.index.ReplaceContract(ctx, c.ID, chunks); err != nil {
		return Result{}, fmt.Errorf("embedding.SyncContract %s: replace chunks: %w", c.ID, err)
	}
	if err := s.contracts.MarkEmbedded(ctx, c.ID, hash, now); err != nil {
		return Result{}, fmt.Errorf("embedding.SyncContract %s: %w", c.ID, err)
	}

	s.log.DebugContext(ctx, "contract embedded",
		slog.String("contract_id", c.ID.String()),
		slog.Int("chunks", len(chunks)),
	)
	return Result{Outcome: OutcomeEmbedded, Chunks: len(chunks)}, nil
}

// SyncByID loads a contract and syncs it.
func (s *Service) SyncByID(ctx context.Context, id uuid.UUID) (Result, error) {
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("embedding.SyncByID: %w", err)
	}
	return s.SyncContract(ctx, c)
}

// RemoveContract drops every index entry of a contract.
func (s *Service) RemoveContract(ctx context.Context, id uuid.UUID) error {
	if err := s.index.DeleteByContract(ctx, id); err != nil {
		return fmt.Errorf("embedding.RemoveContract: %w", err)
	}
	s.log.InfoContext(ctx, "contract chunks removed", slog.String("contract_id", id.String()))
	return nil
}

// SyncPending embeds every contract whose text changed since its last
// embedding. Per-contract failures are logged and counted; a failed
// contract is retried on the next run, not within this one.
func (s *Service) SyncPending(ctx context.Context) (domain.EmbeddingSummary, error) {
	var (
		mu  sync.Mutex
		sum domain.EmbeddingSummary
	)
	seen := make(map[uuid.UUID]struct{})

	for {
		page, err := s.contracts.ListNeedingEmbedding(ctx, s.cfg.SyncBatch)
		if err != nil {
			return sum, fmt.Errorf("embedding.SyncPending: %w", err)
		}

		var fresh []domain.Contract
		for _, c := range page {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			fresh = append(fresh, c)
		}
		if len(fresh) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Concurrency)
		for _, c := range fresh {
			g.Go(func() error {
				res, err := s.SyncContract(gctx, c)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					sum.Errors++
					s.log.ErrorContext(gctx, "embed contract",
						slog.String("contract_id", c.ID.String()),
						slog.String("error", err.Error()),
					)
					return nil
				}
				switch res.Outcome {
				case OutcomeEmbedded:
					sum.Embedded++
					sum.Chunks += res.Chunks
				case OutcomeUnchanged:
					sum.Unchanged++
				default:
					sum.Skipped++
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return sum, fmt.Errorf("embedding.SyncPending: %w", err)
		}

		if len(page) < s.cfg.SyncBatch {
			break
		}
	}

	s.log.InfoContext(ctx, "embedding sync finished",
		slog.Int("embedded", sum.Embedded),
		slog.Int("chunks", sum.Chunks),
		slog.Int("unchanged", sum.Unchanged),
		slog.Int("skipped", sum.Skipped),
		slog.Int("errors", sum.Errors),
	)
	return sum, nil
}
