// Package user implements the user and notification settings repository
// using PostgreSQL.
package user

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

// Repo provides user and notification settings persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// User operations
// ---------------------------------------------------------------------------

type userRow struct {
	ID    uuid.UUID `db:"id"`
	Email string    `db:"email"`
	Name  string    `db:"name"`
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	query, args, err := postgres.Builder().
		Select("id", "email", "name").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.User{}, fmt.Errorf("user.GetByID build: %w", err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return domain.User{}, postgres.MapError(err, "user", id)
	}
	return domain.User(row), nil
}

// ---------------------------------------------------------------------------
// Notification settings operations
// ---------------------------------------------------------------------------

var settingsColumns = []string{
	"user_id", "enabled", "similarity_threshold", "categories", "digest_mode", "email_notifications",
}

type settingsRow struct {
	UserID              uuid.UUID `db:"user_id"`
	Enabled             bool      `db:"enabled"`
	SimilarityThreshold float64   `db:"similarity_threshold"`
	Categories          []string  `db:"categories"`
	DigestMode          string    `db:"digest_mode"`
	EmailNotifications  bool      `db:"email_notifications"`
}

// GetSettings returns the stored settings of a user or domain.ErrNotFound.
func (r *Repo) GetSettings(ctx context.Context, userID uuid.UUID) (domain.NotificationSettings, error) {
	query, args, err := postgres.Builder().
		Select(settingsColumns...).
		From("notification_settings").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return domain.NotificationSettings{}, fmt.Errorf("user.GetSettings build: %w", err)
	}

	var row settingsRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return domain.NotificationSettings{}, postgres.MapError(err, "notification_settings", userID)
	}
	return toDomainSettings(row), nil
}

// ListSettings returns stored settings keyed by user. Users without a row
// are absent from the map.
func (r *Repo) ListSettings(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.NotificationSettings, error) {
	out := make(map[uuid.UUID]domain.NotificationSettings, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	query, args, err := postgres.Builder().
		Select(settingsColumns...).
		From("notification_settings").
		Where(squirrel.Eq{"user_id": userIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("user.ListSettings build: %w", err)
	}

	var rows []settingsRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("user.ListSettings: %w", err)
	}
	for _, row := range rows {
		out[row.UserID] = toDomainSettings(row)
	}
	return out, nil
}

// UpsertSettings stores the full settings record of a user.
func (r *Repo) UpsertSettings(ctx context.Context, s domain.NotificationSettings, at time.Time) error {
	categories := s.Categories
	if categories == nil {
		categories = []string{}
	}

	query, args, err := postgres.Builder().
		Insert("notification_settings").
		Columns(append(settingsColumns, "updated_at")...).
		Values(s.UserID, s.Enabled, s.SimilarityThreshold, categories, s.DigestMode.String(), s.EmailNotifications, at).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			similarity_threshold = EXCLUDED.similarity_threshold,
			categories = EXCLUDED.categories,
			digest_mode = EXCLUDED.digest_mode,
			email_notifications = EXCLUDED.email_notifications,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("user.UpsertSettings build: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "notification_settings", s.UserID)
	}
	return nil
}

func toDomainSettings(r settingsRow) domain.NotificationSettings {
	return domain.NotificationSettings{
		UserID:              r.UserID,
		Enabled:             r.Enabled,
		SimilarityThreshold: r.SimilarityThreshold,
		Categories:          r.Categories,
		DigestMode:          domain.DigestMode(r.DigestMode),
		EmailNotifications:  r.EmailNotifications,
	}
}
