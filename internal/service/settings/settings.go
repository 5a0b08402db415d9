package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// Get returns the user's settings, or the defaults when none are stored.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (domain.NotificationSettings, error) {
	st, err := s.repo.GetSettings(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultNotificationSettings(userID, s.defaultThreshold), nil
	}
	if err != nil {
		return domain.NotificationSettings{}, fmt.Errorf("settings.Get: %w", err)
	}
	return st, nil
}

// Update applies a partial change. Events already queued keep the digest
// mode they were queued with.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, patch domain.SettingsPatch) (domain.NotificationSettings, error) {
	if err := validatePatch(patch); err != nil {
		return domain.NotificationSettings{}, err
	}

	st, err := s.Get(ctx, userID)
	if err != nil {
		return domain.NotificationSettings{}, err
	}

	if patch.Enabled != nil {
		st.Enabled = *patch.Enabled
	}
	if patch.SimilarityThreshold != nil {
		st.SimilarityThreshold = *patch.SimilarityThreshold
	}
	if patch.Categories != nil {
		st.Categories = normalizeCategories(*patch.Categories)
	}
	if patch.DigestMode != nil {
		st.DigestMode = *patch.DigestMode
	}
	if patch.EmailNotifications != nil {
		st.EmailNotifications = *patch.EmailNotifications
	}

	if err := s.repo.UpsertSettings(ctx, st, s.now()); err != nil {
		return domain.NotificationSettings{}, fmt.Errorf("settings.Update: %w", err)
	}

	s.log.InfoContext(ctx, "settings updated",
		slog.String("user_id", userID.String()),
		slog.Bool("enabled", st.Enabled),
		slog.String("digest_mode", st.DigestMode.String()),
		slog.Bool("email", st.EmailNotifications),
	)
	return st, nil
}

// Unsubscribe validates a signed unsubscribe token and turns off email
// notifications for its user.
func (s *Service) Unsubscribe(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := s.links.Verify(strings.TrimSpace(token))
	if err != nil {
		return uuid.Nil, fmt.Errorf("settings.Unsubscribe: %w: %w", domain.ErrValidation, err)
	}

	off := false
	if _, err := s.Update(ctx, userID, domain.SettingsPatch{EmailNotifications: &off}); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func validatePatch(p domain.SettingsPatch) error {
	var errs []domain.FieldError
	if p.SimilarityThreshold != nil {
		if t := *p.SimilarityThreshold; t <= 0 || t > 1 {
			errs = append(errs, domain.FieldError{Field: "similarityThreshold", Message: "must be in (0, 1]"})
		}
	}
	if p.DigestMode != nil && !p.DigestMode.IsValid() {
		errs = append(errs, domain.FieldError{Field: "digestMode", Message: "must be instant, daily or weekly"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func normalizeCategories(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || slices.ContainsFunc(out, func(o string) bool { return strings.EqualFold(o, c) }) {
			continue
		}
		out = append(out, c)
	}
	return out
}
