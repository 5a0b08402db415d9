package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user without a notification settings row.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	user := domain.User{
		ID:    uuid.New(),
		Email: "testuser-" + suffix + "@example.com",
		Name:  "Test User " + suffix,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, name) VALUES ($1, $2, $3)`,
		user.ID, user.Email, user.Name,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return user
}

// SeedSettings stores notification settings for an existing user.
func SeedSettings(t *testing.T, pool *pgxpool.Pool, s domain.NotificationSettings) {
	t.Helper()

	categories := s.Categories
	if categories == nil {
		categories = []string{}
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO notification_settings
		   (user_id, enabled, similarity_threshold, categories, digest_mode, email_notifications)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.UserID, s.Enabled, s.SimilarityThreshold, categories, string(s.DigestMode), s.EmailNotifications,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSettings: %v", err)
	}
}

// SeedContract creates a contract owned by userID. expiry may be nil.
func SeedContract(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, status domain.ContractStatus, expiry *time.Time, autoRenew bool) domain.Contract {
	t.Helper()

	uid := userID
	c := domain.Contract{
		ID:            uuid.New(),
		UserID:        &uid,
		Title:         "Kaufvertrag " + uniqueSuffix(),
		Content:       "Der Verkäufer haftet für Sachmängel nach den gesetzlichen Vorschriften. Die Gewährleistungsfrist beträgt zwei Jahre.",
		Status:        status,
		ExpiryDate:    expiry,
		IsAutoRenewal: autoRenew,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO contracts (id, user_id, title, content, status, expiry_date, is_auto_renewal)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.UserID, c.Title, c.Content, string(c.Status), c.ExpiryDate, c.IsAutoRenewal,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedContract: %v", err)
	}
	return c
}
