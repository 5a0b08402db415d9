package domain

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// User is the slice of the product's user record this core reads.
type User struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// NotificationSettings holds per-user alerting preferences.
type NotificationSettings struct {
	UserID              uuid.UUID
	Enabled             bool
	SimilarityThreshold float64
	Categories          []string
	DigestMode          DigestMode
	EmailNotifications  bool
}

// DefaultNotificationSettings returns the settings applied when a user has
// no stored record.
func DefaultNotificationSettings(userID uuid.UUID, threshold float64) NotificationSettings {
	return NotificationSettings{
		UserID:              userID,
		Enabled:             true,
		SimilarityThreshold: threshold,
		DigestMode:          DigestModeDaily,
		EmailNotifications:  true,
	}
}

// AllowsArea reports whether a law area passes the category allow-list.
// An empty list allows every area; a law without an area passes too.
func (s NotificationSettings) AllowsArea(area string) bool {
	if len(s.Categories) == 0 || area == "" {
		return true
	}
	return slices.ContainsFunc(s.Categories, func(c string) bool {
		return strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(area))
	})
}

// SettingsPatch is a partial update of NotificationSettings. Nil fields are
// left unchanged.
type SettingsPatch struct {
	Enabled             *bool
	SimilarityThreshold *float64
	Categories          *[]string
	DigestMode          *DigestMode
	EmailNotifications  *bool
}
