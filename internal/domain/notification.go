package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventPayload carries the references and snapshot data a notification
// needs to be rendered without reloading the law or contract.
type EventPayload struct {
	ContractID    string `json:"contractId,omitempty"`
	ContractTitle string `json:"contractTitle,omitempty"`

	// law-alert
	LawID       string   `json:"lawId,omitempty"`
	LawTitle    string   `json:"lawTitle,omitempty"`
	LawURL      string   `json:"lawUrl,omitempty"`
	Area        string   `json:"area,omitempty"`
	Score       float64  `json:"score,omitempty"`
	Severity    Severity `json:"severity,omitempty"`
	Snippet     string   `json:"snippet,omitempty"`
	ChunkIndex  int      `json:"chunkIndex,omitempty"`
	Explanation string   `json:"explanation,omitempty"`

	// status-change
	OldStatus ContractStatus `json:"oldStatus,omitempty"`
	NewStatus ContractStatus `json:"newStatus,omitempty"`
	Reason    StatusReason   `json:"reason,omitempty"`
	OldExpiry *time.Time     `json:"oldExpiry,omitempty"`
	NewExpiry *time.Time     `json:"newExpiry,omitempty"`
}

// NotificationEvent is one unit of delivery work.
type NotificationEvent struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ContractID  *uuid.UUID
	LawID       *uuid.UUID
	SubjectType SubjectType
	Payload     EventPayload
	DigestMode  DigestMode
	Status      NotificationStatus
	DedupKey    string
	Attempts    int
	LastError   *string
	QueuedAt    time.Time
	ClaimedAt   *time.Time
	SentAt      *time.Time
	FailedAt    *time.Time
}

// Queued reports whether the event still waits for delivery.
func (e NotificationEvent) Queued() bool {
	return e.Status == NotificationStatusQueued || e.Status == NotificationStatusProcessing
}

// Sent reports whether the event was delivered.
func (e NotificationEvent) Sent() bool { return e.Status == NotificationStatusSent }

// Failed reports whether delivery of the event failed permanently.
func (e NotificationEvent) Failed() bool { return e.Status == NotificationStatusFailed }

// LawAlertDedupKey is the queue key of a law alert: one per (contract, law).
func LawAlertDedupKey(contractID, lawID uuid.UUID) string {
	return fmt.Sprintf("law:%s:%s", contractID, lawID)
}

// StatusChangeDedupKey is the queue key of a lifecycle event. It ends with
// the id of the history record, so every applied transition gets its own
// event even when a contract returns to a status it had before.
func StatusChangeDedupKey(contractID uuid.UUID, newStatus ContractStatus, expiry *time.Time, recordID uuid.UUID) string {
	exp := "none"
	if expiry != nil {
		exp = expiry.UTC().Format(time.DateOnly)
	}
	return fmt.Sprintf("status:%s:%s:%s:%s", contractID, newStatus, exp, recordID)
}

// UserBatch groups the pending events of one user, oldest first.
type UserBatch struct {
	UserID uuid.UUID
	Events []NotificationEvent
}

// QueueStats holds aggregate counts by status.
type QueueStats struct {
	Queued     int
	Processing int
	Sent       int
	Failed     int
	Total      int
}

// DeliverySummary is the observable outcome of one delivery run. Sent and
// Errors count events; Emails and Grouped count messages.
type DeliverySummary struct {
	Users    int
	Emails   int
	Grouped  int
	Sent     int
	Errors   int
	Released int
}
