package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

const (
	reasonNoEmail   = "recipient has no email address"
	reasonOptedOut  = "recipient opted out"
	reasonNoUser    = "recipient not found"
	reasonRenderErr = "render failed"
)

// ProcessInstant delivers events of instant users.
func (s *Service) ProcessInstant(ctx context.Context) (domain.DeliverySummary, error) {
	return s.Process(ctx, domain.DigestModeInstant)
}

// ProcessDaily delivers the daily digests.
func (s *Service) ProcessDaily(ctx context.Context) (domain.DeliverySummary, error) {
	return s.Process(ctx, domain.DigestModeDaily)
}

// ProcessWeekly delivers the weekly digests.
func (s *Service) ProcessWeekly(ctx context.Context) (domain.DeliverySummary, error) {
	return s.Process(ctx, domain.DigestModeWeekly)
}

// Process delivers every event of the given mode queued before the run
// started. Users are handled one at a time and each user's claimed batch is
// settled as a unit. Failing to list pending users is the only run-level
// error; when ctx is done the run stops taking new users and returns the
// partial summary with ctx.Err().
func (s *Service) Process(ctx context.Context, mode domain.DigestMode) (domain.DeliverySummary, error) {
	var sum domain.DeliverySummary
	if !mode.IsValid() {
		return sum, fmt.Errorf("digest.Process: %w: digest mode %q", domain.ErrValidation, mode)
	}

	cutoff := s.now()
	users, err := s.queue.ListPendingUsers(ctx, mode, cutoff)
	if err != nil {
		return sum, fmt.Errorf("digest.Process: list pending users: %w", err)
	}

	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			s.logSummary(ctx, mode, sum)
			return sum, err
		}
		sum.Users++
		s.processUser(ctx, userID, mode, cutoff, &sum)
	}

	s.logSummary(ctx, mode, sum)
	return sum, nil
}

func (s *Service) logSummary(ctx context.Context, mode domain.DigestMode, sum domain.DeliverySummary) {
	s.log.InfoContext(ctx, "delivery finished",
		slog.String("mode", mode.String()),
		slog.Int("users", sum.Users),
		slog.Int("emails", sum.Emails),
		slog.Int("grouped", sum.Grouped),
		slog.Int("sent", sum.Sent),
		slog.Int("errors", sum.Errors),
		slog.Int("released", sum.Released),
	)
}

func (s *Service) processUser(ctx context.Context, userID uuid.UUID, mode domain.DigestMode, cutoff time.Time, sum *domain.DeliverySummary) {
	log := s.log.With(slog.String("user_id", userID.String()), slog.String("mode", mode.String()))

	events, err := s.queue.ClaimUserBatch(ctx, userID, mode, cutoff, s.now())
	if err != nil {
		log.ErrorContext(ctx, "claim user batch", slog.String("error", err.Error()))
		return
	}
	if len(events) == 0 {
		return
	}

	user, reason, err := s.recipient(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "load recipient", slog.String("error", err.Error()))
		s.release(ctx, events, sum)
		return
	}
	if reason != "" {
		log.WarnContext(ctx, "events not deliverable", slog.String("reason", reason), slog.Int("events", len(events)))
		s.fail(ctx, events, reason, sum)
		return
	}

	unsubscribe, err := s.links.UnsubscribeURL(userID)
	if err != nil {
		log.WarnContext(ctx, "sign unsubscribe link", slog.String("error", err.Error()))
		unsubscribe = ""
	}

	if len(events) > s.cfg.GroupCutoff {
		s.sendDigest(ctx, log, user, events, unsubscribe, sum)
		return
	}
	s.sendEach(ctx, log, user, events, unsubscribe, sum)
}

// recipient loads the user and reports why delivery is impossible, if it is.
func (s *Service) recipient(ctx context.Context, userID uuid.UUID) (domain.User, string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, reasonNoUser, nil
	}
	if err != nil {
		return domain.User{}, "", err
	}
	if user.Email == "" {
		return user, reasonNoEmail, nil
	}

	settings, err := s.users.GetSettings(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return user, "", nil
	case err != nil:
		return domain.User{}, "", err
	case !settings.EmailNotifications:
		return user, reasonOptedOut, nil
	}
	return user, "", nil
}

func (s *Service) sendDigest(ctx context.Context, log *slog.Logger, user domain.User, events []domain.NotificationEvent, unsubscribe string, sum *domain.DeliverySummary) {
	msg, err := s.render.Digest(user, events, unsubscribe)
	if err != nil {
		log.ErrorContext(ctx, "render digest", slog.String("error", err.Error()))
		s.fail(ctx, events, reasonRenderErr+": "+err.Error(), sum)
		return
	}

	if err := s.mail.Send(ctx, msg); err != nil {
		if ctx.Err() != nil {
			s.release(ctx, events, sum)
			return
		}
		log.ErrorContext(ctx, "send digest", slog.Int("events", len(events)), slog.String("error", err.Error()))
		s.fail(ctx, events, err.Error(), sum)
		return
	}

	sum.Emails++
	sum.Grouped++
	s.markSent(ctx, events, sum)
	log.InfoContext(ctx, "digest sent", slog.Int("events", len(events)))
}

func (s *Service) sendEach(ctx context.Context, log *slog.Logger, user domain.User, events []domain.NotificationEvent, unsubscribe string, sum *domain.DeliverySummary) {
	pacer := rate.NewLimiter(rate.Every(s.cfg.PacingDelay), 1)

	for i, ev := range events {
		if err := pacer.Wait(ctx); err != nil {
			s.release(ctx, events[i:], sum)
			return
		}

		msg, err := s.render.Single(user, ev, unsubscribe)
		if err != nil {
			log.ErrorContext(ctx, "render email", slog.String("event_id", ev.ID.String()), slog.String("error", err.Error()))
			s.fail(ctx, events[i:i+1], reasonRenderErr+": "+err.Error(), sum)
			continue
		}

		if err := s.mail.Send(ctx, msg); err != nil {
			if ctx.Err() != nil {
				s.release(ctx, events[i:], sum)
				return
			}
			log.ErrorContext(ctx, "send email", slog.String("event_id", ev.ID.String()), slog.String("error", err.Error()))
			s.fail(ctx, events[i:i+1], err.Error(), sum)
			continue
		}

		sum.Emails++
		s.markSent(ctx, events[i:i+1], sum)
	}
}

// markSent, fail and release write detached from ctx so an interrupted run
// still settles what it already claimed.
func (s *Service) markSent(ctx context.Context, events []domain.NotificationEvent, sum *domain.DeliverySummary) {
	n, err := s.queue.MarkSent(context.WithoutCancel(ctx), ids(events), s.now())
	if err != nil {
		s.log.ErrorContext(ctx, "mark sent", slog.Int("events", len(events)), slog.String("error", err.Error()))
		sum.Errors += len(events)
		return
	}
	sum.Sent += int(n)
}

func (s *Service) fail(ctx context.Context, events []domain.NotificationEvent, reason string, sum *domain.DeliverySummary) {
	sum.Errors += len(events)
	if _, err := s.queue.MarkFailed(context.WithoutCancel(ctx), ids(events), reason, s.now()); err != nil {
		s.log.ErrorContext(ctx, "mark failed", slog.Int("events", len(events)), slog.String("error", err.Error()))
	}
}

func (s *Service) release(ctx context.Context, events []domain.NotificationEvent, sum *domain.DeliverySummary) {
	n, err := s.queue.Release(context.WithoutCancel(ctx), ids(events))
	if err != nil {
		s.log.ErrorContext(ctx, "release claims", slog.Int("events", len(events)), slog.String("error", err.Error()))
		return
	}
	sum.Released += int(n)
}

func ids(events []domain.NotificationEvent) []uuid.UUID {
	out := make([]uuid.UUID, len(events))
	for i, ev := range events {
		out[i] = ev.ID
	}
	return out
}
