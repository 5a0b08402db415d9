package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

const defaultHistoryLimit = 50

// UpdateStatus sets a contract's status by hand. The reason is manual, or
// cancellation when the new status is cancelled. Setting the current status
// again changes nothing and reports false.
func (s *Service) UpdateStatus(ctx context.Context, contractID uuid.UUID, to domain.ContractStatus, notes string) (bool, error) {
	if !to.IsValid() {
		return false, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", to))
	}

	c, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return false, fmt.Errorf("lifecycle.UpdateStatus: %w", err)
	}
	if c.UserID == nil {
		return false, domain.NewValidationError("contract", "contract has no owner")
	}
	if c.Status == to {
		return false, nil
	}

	d := Decision{To: to, Reason: domain.StatusReasonManual, NewExpiry: c.ExpiryDate}
	if to == domain.ContractStatusCancelled {
		d.Reason = domain.StatusReasonCancellation
	}

	var n *string
	if notes = strings.TrimSpace(notes); notes != "" {
		n = &notes
	}

	if err := s.apply(ctx, c, d, n); err != nil {
		if errors.Is(err, errStale) {
			return false, fmt.Errorf("lifecycle.UpdateStatus: %w: %w", domain.ErrConflict, err)
		}
		return false, fmt.Errorf("lifecycle.UpdateStatus: %w", err)
	}

	s.log.InfoContext(ctx, "contract status changed",
		slog.String("contract_id", contractID.String()),
		slog.String("from", c.Status.String()),
		slog.String("to", to.String()),
		slog.String("reason", d.Reason.String()),
	)
	return true, nil
}

// History returns a contract's status records, newest first.
func (s *Service) History(ctx context.Context, contractID uuid.UUID, limit int) ([]domain.ContractStatusRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	recs, err := s.history.ListByContract(ctx, contractID, limit)
	if err != nil {
		return nil, fmt.Errorf("lifecycle.History: %w", err)
	}
	return recs, nil
}
