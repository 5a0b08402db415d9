package domain

// DigestMode is the per-user delivery cadence for notifications.
type DigestMode string

const (
	DigestModeInstant DigestMode = "instant"
	DigestModeDaily   DigestMode = "daily"
	DigestModeWeekly  DigestMode = "weekly"
)

func (m DigestMode) String() string { return string(m) }

func (m DigestMode) IsValid() bool {
	switch m {
	case DigestModeInstant, DigestModeDaily, DigestModeWeekly:
		return true
	}
	return false
}

// SubjectType identifies what a notification event is about.
type SubjectType string

const (
	SubjectTypeLawAlert     SubjectType = "law-alert"
	SubjectTypeStatusChange SubjectType = "status-change"
)

func (s SubjectType) String() string { return string(s) }

func (s SubjectType) IsValid() bool {
	switch s {
	case SubjectTypeLawAlert, SubjectTypeStatusChange:
		return true
	}
	return false
}

// NotificationStatus is the delivery state of a queued event.
type NotificationStatus string

const (
	NotificationStatusQueued     NotificationStatus = "queued"
	NotificationStatusProcessing NotificationStatus = "processing"
	NotificationStatusSent       NotificationStatus = "sent"
	NotificationStatusFailed     NotificationStatus = "failed"
)

func (s NotificationStatus) String() string { return string(s) }

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationStatusQueued, NotificationStatusProcessing, NotificationStatusSent, NotificationStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s NotificationStatus) IsTerminal() bool {
	return s == NotificationStatusSent || s == NotificationStatusFailed
}

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "aktiv"
	ContractStatusExpiring  ContractStatus = "bald_ablaufend"
	ContractStatusExpired   ContractStatus = "abgelaufen"
	ContractStatusCancelled ContractStatus = "gekündigt"
)

func (s ContractStatus) String() string { return string(s) }

func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusExpiring, ContractStatusExpired, ContractStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether automatic transitions must skip the contract.
func (s ContractStatus) IsTerminal() bool { return s == ContractStatusCancelled }

// Label returns the human-readable German label used in emails.
func (s ContractStatus) Label() string {
	switch s {
	case ContractStatusActive:
		return "Aktiv"
	case ContractStatusExpiring:
		return "Läuft bald ab"
	case ContractStatusExpired:
		return "Abgelaufen"
	case ContractStatusCancelled:
		return "Gekündigt"
	}
	return string(s)
}

// StatusReason explains why a contract status changed.
type StatusReason string

const (
	StatusReasonAutomatic    StatusReason = "automatic"
	StatusReasonManual       StatusReason = "manual"
	StatusReasonAutoRenewal  StatusReason = "auto_renewal"
	StatusReasonCancellation StatusReason = "cancellation"
)

func (r StatusReason) String() string { return string(r) }

func (r StatusReason) IsValid() bool {
	switch r {
	case StatusReasonAutomatic, StatusReasonManual, StatusReasonAutoRenewal, StatusReasonCancellation:
		return true
	}
	return false
}

// Severity grades a law alert by its similarity score.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

func (s Severity) String() string { return string(s) }
