// Package lifecycle moves contracts through their expiry states and records
// every change in the status history.
package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type contractRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Contract, error)
	ListForLifecycle(ctx context.Context, afterID uuid.UUID, limit int) ([]domain.Contract, error)
	ApplyTransition(ctx context.Context, t domain.ContractTransition) (bool, error)
}

type historyRepo interface {
	Append(ctx context.Context, rec domain.ContractStatusRecord) error
	ListByContract(ctx context.Context, contractID uuid.UUID, limit int) ([]domain.ContractStatusRecord, error)
}

type settingsRepo interface {
	GetSettings(ctx context.Context, userID uuid.UUID) (domain.NotificationSettings, error)
}

type eventQueue interface {
	Enqueue(ctx context.Context, ev domain.NotificationEvent) (bool, error)
}

// Config holds the lifecycle policy.
type Config struct {
	LookaheadDays          int
	DefaultAutoRenewMonths int
	PageSize               int
}

// Service evaluates and applies contract status transitions.
type Service struct {
	log       *slog.Logger
	tx        txManager
	contracts contractRepo
	history   historyRepo
	settings  settingsRepo
	queue     eventQueue
	cfg       Config
	now       func() time.Time
}

// NewService creates a new lifecycle service.
func NewService(
	logger *slog.Logger,
	tx txManager,
	contracts contractRepo,
	history historyRepo,
	settings settingsRepo,
	queue eventQueue,
	cfg Config,
) *Service {
	return &Service{
		log:       logger.With("service", "lifecycle"),
		tx:        tx,
		contracts: contracts,
		history:   history,
		settings:  settings,
		queue:     queue,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}
