// Package contract implements the lifecycle view of the contracts table.
// Contract CRUD belongs to the product; this repository only moves status,
// expiry and embedding bookkeeping.
package contract

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/legalpulse/internal/adapter/postgres"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

const table = "contracts"

var columns = []string{
	"id", "user_id", "title", "content", "status", "expiry_date", "is_auto_renewal",
	"auto_renew_months", "last_renewal_date", "renewal_count", "content_hash",
	"embedded_at", "created_at", "updated_at",
}

// Repo provides contract persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new contract repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID              uuid.UUID  `db:"id"`
	UserID          *uuid.UUID `db:"user_id"`
	Title           string     `db:"title"`
	Content         string     `db:"content"`
	Status          string     `db:"status"`
	ExpiryDate      *time.Time `db:"expiry_date"`
	IsAutoRenewal   bool       `db:"is_auto_renewal"`
	AutoRenewMonths int        `db:"auto_renew_months"`
	LastRenewalDate *time.Time `db:"last_renewal_date"`
	RenewalCount    int        `db:"renewal_count"`
	ContentHash     *string    `db:"content_hash"`
	EmbeddedAt      *time.Time `db:"embedded_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// GetByID returns a contract.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Contract, error) {
	query, args, err := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Contract{}, fmt.Errorf("contract.GetByID build: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return domain.Contract{}, postgres.MapError(err, "contract", id)
	}
	return toDomain(out), nil
}

// ListByIDs returns the contracts with the given ids keyed by id. Missing ids
// are absent from the map.
func (r *Repo) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Contract, error) {
	out := make(map[uuid.UUID]domain.Contract, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("contract.ListByIDs build: %w", err)
	}

	rows, err := r.list(ctx, query, args)
	if err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

// ListByUser returns a user's contracts ordered by expiry.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Contract, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("expiry_date NULLS LAST", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("contract.ListByUser build: %w", err)
	}
	return r.list(ctx, query, args)
}

// ListForLifecycle pages through contracts that have an expiry date and are
// not cancelled, ordered by id. Pass uuid.Nil to start.
func (r *Repo) ListForLifecycle(ctx context.Context, afterID uuid.UUID, limit int) ([]domain.Contract, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.NotEq{"status": domain.ContractStatusCancelled.String()}).
		Where(squirrel.NotEq{"expiry_date": nil}).
		Where(squirrel.Gt{"id": afterID}).
		OrderBy("id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("contract.ListForLifecycle build: %w", err)
	}
	return r.list(ctx, query, args)
}

// ListNeedingEmbedding returns owned contracts never embedded or edited since
// their last embedding.
func (r *Repo) ListNeedingEmbedding(ctx context.Context, limit int) ([]domain.Contract, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.NotEq{"user_id": nil}).
		Where(squirrel.Or{
			squirrel.Eq{"embedded_at": nil},
			squirrel.Expr("updated_at > embedded_at"),
		}).
		OrderBy("updated_at", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("contract.ListNeedingEmbedding build: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *Repo) list(ctx context.Context, query string, args []any) ([]domain.Contract, error) {
	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("contract.list: %w", err)
	}

	out := make([]domain.Contract, len(rows))
	for i, rw := range rows {
		out[i] = toDomain(rw)
	}
	return out, nil
}

// ApplyTransition performs a guarded status/expiry update. It returns false
// when the contract no longer matches the expected state, so concurrent or
// repeated runs never apply the same transition twice.
func (r *Repo) ApplyTransition(ctx context.Context, t domain.ContractTransition) (bool, error) {
	b := postgres.Builder().
		Update(table).
		Set("status", t.ToStatus.String()).
		Set("expiry_date", t.ToExpiry).
		Set("updated_at", t.At).
		Where(squirrel.Eq{"id": t.ContractID}).
		Where(squirrel.Eq{"status": t.FromStatus.String()}).
		Where(squirrel.Expr("expiry_date IS NOT DISTINCT FROM ?", t.FromExpiry))

	if t.Renewed {
		b = b.Set("renewal_count", squirrel.Expr("renewal_count + 1")).
			Set("last_renewal_date", t.At)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return false, fmt.Errorf("contract.ApplyTransition build: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, "contract", t.ContractID)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkEmbedded records the content hash the chunks were built from.
func (r *Repo) MarkEmbedded(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
	query, args, err := postgres.Builder().
		Update(table).
		Set("content_hash", hash).
		Set("embedded_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("contract.MarkEmbedded build: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "contract", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contract %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func toDomain(r row) domain.Contract {
	return domain.Contract{
		ID:              r.ID,
		UserID:          r.UserID,
		Title:           r.Title,
		Content:         r.Content,
		Status:          domain.ContractStatus(r.Status),
		ExpiryDate:      r.ExpiryDate,
		IsAutoRenewal:   r.IsAutoRenewal,
		AutoRenewMonths: r.AutoRenewMonths,
		LastRenewalDate: r.LastRenewalDate,
		RenewalCount:    r.RenewalCount,
		ContentHash:     r.ContentHash,
		EmbeddedAt:      r.EmbeddedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
