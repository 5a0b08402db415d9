// Package digest delivers queued notification events by email, one user
// batch at a time.
package digest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/adapter/mailer"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

type queueRepo interface {
	ListPendingUsers(ctx context.Context, mode domain.DigestMode, cutoff time.Time) ([]uuid.UUID, error)
	ClaimUserBatch(ctx context.Context, userID uuid.UUID, mode domain.DigestMode, cutoff, now time.Time) ([]domain.NotificationEvent, error)
	MarkSent(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
	MarkFailed(ctx context.Context, ids []uuid.UUID, reason string, at time.Time) (int64, error)
	Release(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetSettings(ctx context.Context, userID uuid.UUID) (domain.NotificationSettings, error)
}

type renderer interface {
	Single(user domain.User, ev domain.NotificationEvent, unsubscribeURL string) (mailer.Message, error)
	Digest(user domain.User, events []domain.NotificationEvent, unsubscribeURL string) (mailer.Message, error)
}

type sender interface {
	Send(ctx context.Context, m mailer.Message) error
}

type linkSigner interface {
	UnsubscribeURL(userID uuid.UUID) (string, error)
}

// Config holds the delivery policy.
type Config struct {
	// GroupCutoff is the largest batch still sent as individual emails.
	GroupCutoff int
	// PacingDelay separates individual emails to the same user.
	PacingDelay time.Duration
}

// Service sends queued events.
type Service struct {
	log    *slog.Logger
	queue  queueRepo
	users  userRepo
	render renderer
	mail   sender
	links  linkSigner
	cfg    Config
	now    func() time.Time
}

// NewService creates a new delivery service.
func NewService(
	logger *slog.Logger,
	queue queueRepo,
	users userRepo,
	render renderer,
	mail sender,
	links linkSigner,
	cfg Config,
) *Service {
	return &Service{
		log:    logger.With("service", "digest"),
		queue:  queue,
		users:  users,
		render: render,
		mail:   mail,
		links:  links,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}
