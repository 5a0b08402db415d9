// Package chunk implements the contract chunk vector index on PostgreSQL
// with the pgvector extension.
package chunk

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	postgres "github.com/heartmarshall/legalpulse/internal/adapter/postgres"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

const table = "contract_chunks"

const deleteSQL = `DELETE FROM contract_chunks WHERE contract_id = $1`

const upsertSQL = `
INSERT INTO contract_chunks (id, contract_id, user_id, chunk_index, total_chunks, text, embedding, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    user_id      = EXCLUDED.user_id,
    chunk_index  = EXCLUDED.chunk_index,
    total_chunks = EXCLUDED.total_chunks,
    text         = EXCLUDED.text,
    embedding    = EXCLUDED.embedding,
    updated_at   = EXCLUDED.updated_at`

// Repo is a vector index backed by the contract_chunks table.
type Repo struct {
	db  postgres.Querier
	now func() time.Time
}

// New creates a new chunk repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db, now: time.Now}
}

type matchRow struct {
	ID          string    `db:"id"`
	ContractID  uuid.UUID `db:"contract_id"`
	UserID      uuid.UUID `db:"user_id"`
	ChunkIndex  int       `db:"chunk_index"`
	TotalChunks int       `db:"total_chunks"`
	Text        string    `db:"text"`
	Distance    float64   `db:"distance"`
}

// ReplaceContract deletes a contract's chunks and writes the given set in
// a single batch. Outside a transaction the batch runs as one implicit
// transaction, so readers never see the contract half replaced.
func (r *Repo) ReplaceContract(ctx context.Context, contractID uuid.UUID, chunks []domain.ContractChunk) error {
	now := r.now()
	batch := &pgx.Batch{}
	batch.Queue(deleteSQL, contractID)
	for _, c := range chunks {
		if c.ContractID != contractID {
			return fmt.Errorf("chunk %s belongs to contract %s: %w", c.ID, c.ContractID, domain.ErrValidation)
		}
		if len(c.Vector) == 0 {
			return fmt.Errorf("chunk %s: empty vector: %w", c.ID, domain.ErrValidation)
		}
		batch.Queue(upsertSQL, c.ID, c.ContractID, c.UserID, c.ChunkIndex, c.TotalChunks, c.Text,
			pgvector.NewVector(c.Vector), now)
	}

	br := postgres.QuerierFromCtx(ctx, r.db).SendBatch(ctx, batch)
	if _, err := br.Exec(); err != nil {
		_ = br.Close()
		return postgres.MapError(err, "contract_chunk", contractID)
	}
	for _, c := range chunks {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return postgres.MapError(err, "contract_chunk", c.ID)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("chunk.ReplaceContract close batch: %w", err)
	}
	return nil
}

// Query returns the topK chunks nearest to vec by cosine distance.
func (r *Repo) Query(ctx context.Context, vec []float32, topK int) ([]domain.ChunkMatch, error) {
	if topK <= 0 {
		return nil, nil
	}
	v := pgvector.NewVector(vec)

	query, args, err := postgres.Builder().
		Select("id", "contract_id", "user_id", "chunk_index", "total_chunks", "text").
		Column(squirrel.Expr("embedding <=> ? AS distance", v)).
		From(table).
		OrderByClause("embedding <=> ?", v).
		Limit(uint64(topK)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("chunk.Query build: %w", err)
	}

	var rows []matchRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("chunk.Query: %w", err)
	}

	out := make([]domain.ChunkMatch, len(rows))
	for i, rw := range rows {
		out[i] = domain.ChunkMatch(rw)
	}
	return out, nil
}

// DeleteByContract removes every chunk of a contract.
func (r *Repo) DeleteByContract(ctx context.Context, contractID uuid.UUID) error {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"contract_id": contractID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("chunk.DeleteByContract build: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "contract_chunk", contractID)
	}
	return nil
}
