package lifecycle

import (
	"time"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// maxRenewals bounds the catch-up loop for contracts whose expiry lies far in
// the past.
const maxRenewals = 1200

// Decision is the transition the engine wants to apply to a contract.
type Decision struct {
	To        domain.ContractStatus
	Reason    domain.StatusReason
	NewExpiry *time.Time
	Renewed   bool
}

// Evaluate decides the automatic transition for a contract on the given day.
// It returns false when the current state is already correct, which keeps
// repeated runs free of side effects.
//
// Auto-renewing contracts are renewed once their expiry enters the lookahead
// window and never pass through expiring. The new expiry is advanced until it
// lies beyond the window, so the next run finds nothing to do. A contract
// that cannot be renewed is treated as a plain fixed-term contract.
func Evaluate(c domain.Contract, today time.Time, lookaheadDays, defaultRenewMonths int) (Decision, bool) {
	if c.Status.IsTerminal() || c.ExpiryDate == nil {
		return Decision{}, false
	}

	today = day(today)
	expiry := day(*c.ExpiryDate)
	windowEnd := today.AddDate(0, 0, lookaheadDays)

	months := c.AutoRenewMonths
	if months <= 0 {
		months = defaultRenewMonths
	}
	if c.IsAutoRenewal && months > 0 {
		if expiry.After(windowEnd) {
			if c.Status != domain.ContractStatusActive {
				return Decision{To: domain.ContractStatusActive, Reason: domain.StatusReasonAutomatic, NewExpiry: c.ExpiryDate}, true
			}
			return Decision{}, false
		}

		next := expiry
		for i := 0; i < maxRenewals && !next.After(windowEnd); i++ {
			next = next.AddDate(0, months, 0)
		}
		if next.After(windowEnd) {
			return Decision{
				To:        domain.ContractStatusActive,
				Reason:    domain.StatusReasonAutoRenewal,
				NewExpiry: &next,
				Renewed:   true,
			}, true
		}
	}

	var to domain.ContractStatus
	switch {
	case expiry.Before(today):
		to = domain.ContractStatusExpired
	case !expiry.After(windowEnd):
		if c.Status == domain.ContractStatusExpired {
			// Only manual edits move a contract out of expired.
			return Decision{}, false
		}
		to = domain.ContractStatusExpiring
	default:
		if c.Status == domain.ContractStatusExpired {
			return Decision{}, false
		}
		to = domain.ContractStatusActive
	}

	if to == c.Status {
		return Decision{}, false
	}
	return Decision{To: to, Reason: domain.StatusReasonAutomatic, NewExpiry: c.ExpiryDate}, true
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
