// Package queue implements the notification queue using PostgreSQL.
//
// Events move queued -> processing -> sent|failed. Terminal updates are
// guarded by the current status, so marking an event twice is a no-op and
// a sent event never returns to queued.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/legalpulse/internal/adapter/postgres"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

const table = "notification_queue"

var columns = []string{
	"id", "user_id", "contract_id", "law_id", "subject_type", "payload", "digest_mode",
	"status", "dedup_key", "attempts", "last_error", "queued_at", "claimed_at", "sent_at", "failed_at",
}

var open = []string{
	domain.NotificationStatusQueued.String(),
	domain.NotificationStatusProcessing.String(),
}

// Repo provides notification queue persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new queue repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	ContractID  *uuid.UUID `db:"contract_id"`
	LawID       *uuid.UUID `db:"law_id"`
	SubjectType string     `db:"subject_type"`
	Payload     []byte     `db:"payload"`
	DigestMode  string     `db:"digest_mode"`
	Status      string     `db:"status"`
	DedupKey    string     `db:"dedup_key"`
	Attempts    int        `db:"attempts"`
	LastError   *string    `db:"last_error"`
	QueuedAt    time.Time  `db:"queued_at"`
	ClaimedAt   *time.Time `db:"claimed_at"`
	SentAt      *time.Time `db:"sent_at"`
	FailedAt    *time.Time `db:"failed_at"`
}

// Enqueue appends an event. It returns false when an event with the same
// dedup key already exists, whatever its status.
func (r *Repo) Enqueue(ctx context.Context, ev domain.NotificationEvent) (bool, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return false, fmt.Errorf("queue.Enqueue marshal payload: %w", err)
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "user_id", "contract_id", "law_id", "subject_type", "payload",
			"digest_mode", "status", "dedup_key", "queued_at").
		Values(ev.ID, ev.UserID, ev.ContractID, ev.LawID, ev.SubjectType.String(), payload,
			ev.DigestMode.String(), domain.NotificationStatusQueued.String(), ev.DedupKey, ev.QueuedAt).
		Suffix("ON CONFLICT (dedup_key) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("queue.Enqueue build: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, "notification", ev.DedupKey)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPendingUsers returns users with queued events of the given mode queued
// at or before cutoff.
func (r *Repo) ListPendingUsers(ctx context.Context, mode domain.DigestMode, cutoff time.Time) ([]uuid.UUID, error) {
	query, args, err := postgres.Builder().
		Select("DISTINCT user_id").
		From(table).
		Where(squirrel.Eq{"status": domain.NotificationStatusQueued.String()}).
		Where(squirrel.Eq{"digest_mode": mode.String()}).
		Where(squirrel.LtOrEq{"queued_at": cutoff}).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("queue.ListPendingUsers build: %w", err)
	}

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &ids, query, args...); err != nil {
		return nil, fmt.Errorf("queue.ListPendingUsers: %w", err)
	}
	return ids, nil
}

// ListPending returns queued events grouped by user without claiming them.
func (r *Repo) ListPending(ctx context.Context, mode domain.DigestMode) ([]domain.UserBatch, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": domain.NotificationStatusQueued.String()}).
		Where(squirrel.Eq{"digest_mode": mode.String()}).
		OrderBy("user_id", "queued_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("queue.ListPending build: %w", err)
	}

	events, err := r.list(ctx, query, args)
	if err != nil {
		return nil, err
	}

	var batches []domain.UserBatch
	for _, ev := range events {
		if n := len(batches); n > 0 && batches[n-1].UserID == ev.UserID {
			batches[n-1].Events = append(batches[n-1].Events, ev)
			continue
		}
		batches = append(batches, domain.UserBatch{UserID: ev.UserID, Events: []domain.NotificationEvent{ev}})
	}
	return batches, nil
}

// ClaimUserBatch moves a user's queued events of the given mode to
// processing and returns them oldest first. Rows locked by a concurrent
// claim are skipped.
func (r *Repo) ClaimUserBatch(ctx context.Context, userID uuid.UUID, mode domain.DigestMode, cutoff, now time.Time) ([]domain.NotificationEvent, error) {
	sub := postgres.Builder().
		Select("id").
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"digest_mode": mode.String()}).
		Where(squirrel.Eq{"status": domain.NotificationStatusQueued.String()}).
		Where(squirrel.LtOrEq{"queued_at": cutoff}).
		Suffix("FOR UPDATE SKIP LOCKED")

	query, args, err := postgres.Builder().
		Update(table).
		Set("status", domain.NotificationStatusProcessing.String()).
		Set("claimed_at", now).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Where(sub.Prefix("id IN (").Suffix(")")).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("queue.ClaimUserBatch build: %w", err)
	}

	events, err := r.list(ctx, query, args)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(events, func(a, b domain.NotificationEvent) int {
		if c := a.QueuedAt.Compare(b.QueuedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return events, nil
}

// MarkSent marks open events as sent and returns how many changed.
func (r *Repo) MarkSent(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	return r.finish(ctx, "queue.MarkSent", ids, postgres.Builder().
		Update(table).
		Set("status", domain.NotificationStatusSent.String()).
		Set("sent_at", at).
		Set("last_error", nil))
}

// MarkFailed marks open events as failed with a reason and returns how many
// changed.
func (r *Repo) MarkFailed(ctx context.Context, ids []uuid.UUID, reason string, at time.Time) (int64, error) {
	return r.finish(ctx, "queue.MarkFailed", ids, postgres.Builder().
		Update(table).
		Set("status", domain.NotificationStatusFailed.String()).
		Set("failed_at", at).
		Set("last_error", reason))
}

func (r *Repo) finish(ctx context.Context, op string, ids []uuid.UUID, b squirrel.UpdateBuilder) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := b.
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"status": open}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s build: %w", op, err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

// Release returns claimed events to queued, for runs interrupted before
// delivery.
func (r *Repo) Release(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := postgres.Builder().
		Update(table).
		Set("status", domain.NotificationStatusQueued.String()).
		Set("claimed_at", nil).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"status": domain.NotificationStatusProcessing.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("queue.Release build: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("queue.Release: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ResetStale returns processing claims older than claimedBefore to queued.
func (r *Repo) ResetStale(ctx context.Context, claimedBefore time.Time) (int64, error) {
	query, args, err := postgres.Builder().
		Update(table).
		Set("status", domain.NotificationStatusQueued.String()).
		Set("claimed_at", nil).
		Where(squirrel.Eq{"status": domain.NotificationStatusProcessing.String()}).
		Where(squirrel.Lt{"claimed_at": claimedBefore}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("queue.ResetStale build: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("queue.ResetStale: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RetryFailed moves failed events back to queued. Sent events are never
// touched.
func (r *Repo) RetryFailed(ctx context.Context) (int64, error) {
	query, args, err := postgres.Builder().
		Update(table).
		Set("status", domain.NotificationStatusQueued.String()).
		Set("failed_at", nil).
		Set("claimed_at", nil).
		Where(squirrel.Eq{"status": domain.NotificationStatusFailed.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("queue.RetryFailed build: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("queue.RetryFailed: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Cleanup deletes sent events whose sent_at is before the cutoff. Queued and
// failed events are never deleted.
func (r *Repo) Cleanup(ctx context.Context, sentBefore time.Time) (int64, error) {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"status": domain.NotificationStatusSent.String()}).
		Where(squirrel.Lt{"sent_at": sentBefore}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("queue.Cleanup build: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("queue.Cleanup: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Stats returns counts by status.
func (r *Repo) Stats(ctx context.Context) (domain.QueueStats, error) {
	query, args, err := postgres.Builder().
		Select("status", "count(*) AS n").
		From(table).
		GroupBy("status").
		ToSql()
	if err != nil {
		return domain.QueueStats{}, fmt.Errorf("queue.Stats build: %w", err)
	}

	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return domain.QueueStats{}, fmt.Errorf("queue.Stats: %w", err)
	}

	var st domain.QueueStats
	for _, rw := range rows {
		switch domain.NotificationStatus(rw.Status) {
		case domain.NotificationStatusQueued:
			st.Queued = rw.N
		case domain.NotificationStatusProcessing:
			st.Processing = rw.N
		case domain.NotificationStatusSent:
			st.Sent = rw.N
		case domain.NotificationStatusFailed:
			st.Failed = rw.N
		}
		st.Total += rw.N
	}
	return st, nil
}

func (r *Repo) list(ctx context.Context, query string, args []any) ([]domain.NotificationEvent, error) {
	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("queue.list: %w", err)
	}

	out := make([]domain.NotificationEvent, 0, len(rows))
	for _, rw := range rows {
		ev, err := toDomain(rw)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func toDomain(r row) (domain.NotificationEvent, error) {
	var p domain.EventPayload
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, &p); err != nil {
			return domain.NotificationEvent{}, fmt.Errorf("notification %s unmarshal payload: %w", r.ID, err)
		}
	}
	return domain.NotificationEvent{
		ID:          r.ID,
		UserID:      r.UserID,
		ContractID:  r.ContractID,
		LawID:       r.LawID,
		SubjectType: domain.SubjectType(r.SubjectType),
		Payload:     p,
		DigestMode:  domain.DigestMode(r.DigestMode),
		Status:      domain.NotificationStatus(r.Status),
		DedupKey:    r.DedupKey,
		Attempts:    r.Attempts,
		LastError:   r.LastError,
		QueuedAt:    r.QueuedAt,
		ClaimedAt:   r.ClaimedAt,
		SentAt:      r.SentAt,
		FailedAt:    r.FailedAt,
	}, nil
}
