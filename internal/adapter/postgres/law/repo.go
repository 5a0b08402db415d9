// Package law implements the law change repository using PostgreSQL.
// Records are never hard-deleted; merges update them in place.
package law

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/legalpulse/internal/adapter/postgres"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

const table = "laws"

var columns = []string{
	"id", "title", "description", "source_feed_id", "url", "published_at", "area",
	"fingerprint", "similarity_key", "metadata", "processed_at", "created_at", "updated_at",
}

// Repo provides law change persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new law repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID            uuid.UUID  `db:"id"`
	Title         string     `db:"title"`
	Description   string     `db:"description"`
	SourceFeedID  string     `db:"source_feed_id"`
	URL           string     `db:"url"`
	PublishedAt   time.Time  `db:"published_at"`
	Area          string     `db:"area"`
	Fingerprint   string     `db:"fingerprint"`
	SimilarityKey string     `db:"similarity_key"`
	Metadata      []byte     `db:"metadata"`
	ProcessedAt   *time.Time `db:"processed_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// Create inserts a new law record. A fingerprint collision returns
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, law domain.LawChange) (domain.LawChange, error) {
	meta, err := json.Marshal(law.Metadata)
	if err != nil {
		return domain.LawChange{}, fmt.Errorf("law.Create marshal metadata: %w", err)
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "title", "description", "source_feed_id", "url", "published_at", "area",
			"fingerprint", "similarity_key", "metadata", "created_at", "updated_at").
		Values(law.ID, law.Title, law.Description, law.SourceFeedID, law.URL, law.PublishedAt, law.Area,
			law.Fingerprint, law.SimilarityKey, meta, law.CreatedAt, law.UpdatedAt).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.LawChange{}, fmt.Errorf("law.Create build: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return domain.LawChange{}, postgres.MapError(err, "law_change", law.ID)
	}
	return toDomain(out)
}

// GetByID returns a single law record.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.LawChange, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, id)
}

// GetByFingerprint returns the live record for a fingerprint.
func (r *Repo) GetByFingerprint(ctx context.Context, fingerprint string) (domain.LawChange, error) {
	return r.getOne(ctx, squirrel.Eq{"fingerprint": fingerprint}, fingerprint)
}

func (r *Repo) getOne(ctx context.Context, where squirrel.Sqlizer, id any) (domain.LawChange, error) {
	query, args, err := postgres.Builder().Select(columns...).From(table).Where(where).ToSql()
	if err != nil {
		return domain.LawChange{}, fmt.Errorf("law.get build: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return domain.LawChange{}, postgres.MapError(err, "law_change", id)
	}
	return toDomain(out)
}

// ListPublishedBetween returns laws published in [from, to), the candidate
// set for near-duplicate checks.
func (r *Repo) ListPublishedBetween(ctx context.Context, from, to time.Time) ([]domain.LawChange, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.GtOrEq{"published_at": from}).
		Where(squirrel.Lt{"published_at": to}).
		OrderBy("published_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("law.ListPublishedBetween build: %w", err)
	}
	return r.list(ctx, query, args)
}

// ListUnprocessed returns laws not yet matched, oldest first.
func (r *Repo) ListUnprocessed(ctx context.Context, limit int) ([]domain.LawChange, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"processed_at": nil}).
		OrderBy("created_at", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("law.ListUnprocessed build: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *Repo) list(ctx context.Context, query string, args []any) ([]domain.LawChange, error) {
	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("law.list: %w", err)
	}

	out := make([]domain.LawChange, 0, len(rows))
	for _, rw := range rows {
		l, err := toDomain(rw)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// UpdateMerged persists the result of a merge. processed_at is left as is so
// a merge never re-fires alerts.
func (r *Repo) UpdateMerged(ctx context.Context, law domain.LawChange) error {
	meta, err := json.Marshal(law.Metadata)
	if err != nil {
		return fmt.Errorf("law.UpdateMerged marshal metadata: %w", err)
	}

	query, args, err := postgres.Builder().
		Update(table).
		Set("description", law.Description).
		Set("url", law.URL).
		Set("area", law.Area).
		Set("metadata", meta).
		Set("updated_at", law.UpdatedAt).
		Where(squirrel.Eq{"id": law.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("law.UpdateMerged build: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "law_change", law.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("law_change %s: %w", law.ID, domain.ErrNotFound)
	}
	return nil
}

// UpdateDescription replaces the description with fetched content.
func (r *Repo) UpdateDescription(ctx context.Context, id uuid.UUID, description string, at time.Time) error {
	query, args, err := postgres.Builder().
		Update(table).
		Set("description", description).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("law.UpdateDescription build: %w", err)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "law_change", id)
	}
	return nil
}

// MarkProcessed records that alert generation for the law completed.
func (r *Repo) MarkProcessed(ctx context.Context, id uuid.UUID, at time.Time) error {
	query, args, err := postgres.Builder().
		Update(table).
		Set("processed_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"processed_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("law.MarkProcessed build: %w", err)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "law_change", id)
	}
	return nil
}

func toDomain(r row) (domain.LawChange, error) {
	var meta domain.LawMetadata
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &meta); err != nil {
			return domain.LawChange{}, fmt.Errorf("law_change %s unmarshal metadata: %w", r.ID, err)
		}
	}
	return domain.LawChange{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		SourceFeedID:  r.SourceFeedID,
		URL:           r.URL,
		PublishedAt:   r.PublishedAt,
		Area:          r.Area,
		Fingerprint:   r.Fingerprint,
		SimilarityKey: r.SimilarityKey,
		Metadata:      meta,
		ProcessedAt:   r.ProcessedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}
