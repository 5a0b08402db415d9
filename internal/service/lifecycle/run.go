package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// errStale marks a transition whose guard no longer matched.
var errStale = errors.New("contract changed concurrently")

// Run evaluates every contract with an expiry date once. Per-contract
// failures are counted and the pass continues. When ctx is done the partial
// summary is returned with ctx.Err().
func (s *Service) Run(ctx context.Context) (domain.LifecycleSummary, error) {
	var sum domain.LifecycleSummary
	today := s.now()
	after := uuid.Nil

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		page, err := s.contracts.ListForLifecycle(ctx, after, s.cfg.PageSize)
		if err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			return sum, fmt.Errorf("lifecycle.Run: list contracts: %w", err)
		}

		for _, c := range page {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			sum.Checked++
			s.evaluateOne(ctx, c, today, &sum)
		}

		if len(page) < s.cfg.PageSize {
			break
		}
		after = page[len(page)-1].ID
	}

	s.log.InfoContext(ctx, "lifecycle finished",
		slog.Int("checked", sum.Checked),
		slog.Int("expiring", sum.Expiring),
		slog.Int("expired", sum.Expired),
		slog.Int("renewed", sum.Renewed),
		slog.Int("unchanged", sum.Unchanged),
		slog.Int("skipped", sum.Skipped),
		slog.Int("errors", sum.Errors),
	)
	return sum, nil
}

func (s *Service) evaluateOne(ctx context.Context, c domain.Contract, today time.Time, sum *domain.LifecycleSummary) {
	d, ok := Evaluate(c, today, s.cfg.LookaheadDays, s.cfg.DefaultAutoRenewMonths)
	if !ok {
		sum.Unchanged++
		return
	}
	if c.UserID == nil {
		s.log.WarnContext(ctx, "contract without owner", slog.String("contract_id", c.ID.String()))
		sum.Skipped++
		return
	}

	err := s.apply(ctx, c, d, nil)
	switch {
	case errors.Is(err, errStale):
		sum.Skipped++
		return
	case err != nil:
		sum.Errors++
		s.log.ErrorContext(ctx, "apply transition",
			slog.String("contract_id", c.ID.String()),
			slog.String("to", d.To.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	switch {
	case d.Renewed:
		sum.Renewed++
	case d.To == domain.ContractStatusExpiring:
		sum.Expiring++
	case d.To == domain.ContractStatusExpired:
		sum.Expired++
	}
}

// apply writes the guarded transition, its history record and the
// status-change event in one transaction.
func (s *Service) apply(ctx context.Context, c domain.Contract, d Decision, notes *string) error {
	now := s.now()
	userID := *c.UserID

	mode := domain.DigestModeDaily
	st, err := s.settings.GetSettings(ctx, userID)
	switch {
	case err == nil && st.DigestMode.IsValid():
		mode = st.DigestMode
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("load settings: %w", err)
	}

	if notes == nil && d.Renewed {
		n := fmt.Sprintf("auto-renewed from %s to %s", formatDay(c.ExpiryDate), formatDay(d.NewExpiry))
		notes = &n
	}

	rec := domain.ContractStatusRecord{
		ID:         uuid.New(),
		ContractID: c.ID,
		UserID:     userID,
		OldStatus:  c.Status,
		NewStatus:  d.To,
		Reason:     d.Reason,
		Notes:      notes,
		OldExpiry:  c.ExpiryDate,
		NewExpiry:  d.NewExpiry,
		CreatedAt:  now,
	}

	contractID := c.ID
	ev := domain.NotificationEvent{
		ID:          uuid.New(),
		UserID:      userID,
		ContractID:  &contractID,
		SubjectType: domain.SubjectTypeStatusChange,
		DigestMode:  mode,
		Status:      domain.NotificationStatusQueued,
		DedupKey:    domain.StatusChangeDedupKey(c.ID, d.To, d.NewExpiry, rec.ID),
		QueuedAt:    now,
		Payload: domain.EventPayload{
			ContractID:    c.ID.String(),
			ContractTitle: c.Title,
			OldStatus:     c.Status,
			NewStatus:     d.To,
			Reason:        d.Reason,
			OldExpiry:     c.ExpiryDate,
			NewExpiry:     d.NewExpiry,
		},
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		applied, err := s.contracts.ApplyTransition(ctx, domain.ContractTransition{
			ContractID: c.ID,
			FromStatus: c.Status,
			FromExpiry: c.ExpiryDate,
			ToStatus:   d.To,
			ToExpiry:   d.NewExpiry,
			Renewed:    d.Renewed,
			At:         now,
		})
		if err != nil {
			return fmt.Errorf("apply transition: %w", err)
		}
		if !applied {
			return errStale
		}
		if err := s.history.Append(ctx, rec); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		if _, err := s.queue.Enqueue(ctx, ev); err != nil {
			return fmt.Errorf("enqueue status change: %w", err)
		}
		return nil
	})
}

func formatDay(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.UTC().Format(time.DateOnly)
}
