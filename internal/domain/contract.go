package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contract holds the lifecycle fields of a user contract. The contract
// itself is owned by the CRUD layer; this core only moves Status and
// ExpiryDate and records embedding bookkeeping.
type Contract struct {
	ID              uuid.UUID
	UserID          *uuid.UUID
	Title           string
	Content         string
	Status          ContractStatus
	ExpiryDate      *time.Time
	IsAutoRenewal   bool
	AutoRenewMonths int
	LastRenewalDate *time.Time
	RenewalCount    int
	ContentHash     *string
	EmbeddedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ContractStatusRecord is an immutable history entry for a status change.
type ContractStatusRecord struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	UserID     uuid.UUID
	OldStatus  ContractStatus
	NewStatus  ContractStatus
	Reason     StatusReason
	Notes      *string
	OldExpiry  *time.Time
	NewExpiry  *time.Time
	CreatedAt  time.Time
}

// LifecycleSummary counts the outcomes of one lifecycle pass.
type LifecycleSummary struct {
	Checked   int
	Expiring  int
	Expired   int
	Renewed   int
	Unchanged int
	Skipped   int
	Errors    int
}

// ContractTransition is a guarded change of a contract's status and expiry.
// It applies only while the contract still has FromStatus and FromExpiry.
type ContractTransition struct {
	ContractID uuid.UUID
	FromStatus ContractStatus
	FromExpiry *time.Time
	ToStatus   ContractStatus
	ToExpiry   *time.Time
	Renewed    bool
	At         time.Time
}
