// Package history implements the append-only contract status history.
package history

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

const table = "contract_status_history"

var columns = []string{
	"id", "contract_id", "user_id", "old_status", "new_status", "reason",
	"notes", "old_expiry", "new_expiry", "created_at",
}

// Repo provides status history persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new history repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID         uuid.UUID  `db:"id"`
	ContractID uuid.UUID  `db:"contract_id"`
	UserID     uuid.UUID  `db:"user_id"`
	OldStatus  string     `db:"old_status"`
	NewStatus  string     `db:"new_status"`
	Reason     string     `db:"reason"`
	Notes      *string    `db:"notes"`
	OldExpiry  *time.Time `db:"old_expiry"`
	NewExpiry  *time.Time `db:"new_expiry"`
	CreatedAt  time.Time  `db:"created_at"`
}

// Append stores a status history record.
func (r *Repo) Append(ctx context.Context, rec domain.ContractStatusRecord) error {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(rec.ID, rec.ContractID, rec.UserID, rec.OldStatus.String(), rec.NewStatus.String(),
			rec.Reason.String(), rec.Notes, rec.OldExpiry, rec.NewExpiry, rec.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("history.Append build: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "status_history", rec.ID)
	}
	return nil
}

// ListByContract returns the newest records of a contract first.
func (r *Repo) ListByContract(ctx context.Context, contractID uuid.UUID, limit int) ([]domain.ContractStatusRecord, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"contract_id": contractID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("history.ListByContract build: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("history.ListByContract: %w", err)
	}

	out := make([]domain.ContractStatusRecord, len(rows))
	for i, rw := range rows {
		out[i] = domain.ContractStatusRecord{
			ID:         rw.ID,
			ContractID: rw.ContractID,
			UserID:     rw.UserID,
			OldStatus:  domain.ContractStatus(rw.OldStatus),
			NewStatus:  domain.ContractStatus(rw.NewStatus),
			Reason:     domain.StatusReason(rw.Reason),
			Notes:      rw.Notes,
			OldExpiry:  rw.OldExpiry,
			NewExpiry:  rw.NewExpiry,
			CreatedAt:  rw.CreatedAt,
		}
	}
	return out, nil
}
