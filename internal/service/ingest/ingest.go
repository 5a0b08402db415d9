package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
	"github.com/heartmarshall/legalpulse/internal/service/fingerprint"
)

type outcome int

const (
	outcomeInserted outcome = iota
	outcomeMerged
	outcomeUnchanged
	outcomeSkipped
)

// Ingest stores feed items, merging duplicates into existing records. A
// failing item is counted and logged; the pass continues. When ctx is done
// the partial summary is returned with ctx.Err().
func (s *Service) Ingest(ctx context.Context, items []domain.LawChangeInput) (domain.IngestSummary, error) {
	var sum domain.IngestSummary

	for _, in := range items {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res, err := s.ingestOne(ctx, in)
		if err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			sum.Errors++
			s.log.ErrorContext(ctx, "ingest item",
				slog.String("feed", in.FeedID),
				slog.String("title", in.Title),
				slog.String("error", err.Error()),
			)
			continue
		}

		switch res {
		case outcomeInserted:
			sum.Inserted++
		case outcomeMerged:
			sum.Merged++
		case outcomeUnchanged:
			sum.Unchanged++
		case outcomeSkipped:
			sum.Skipped++
		}
	}

	s.log.InfoContext(ctx, "ingest finished",
		slog.Int("items", len(items)),
		slog.Int("inserted", sum.Inserted),
		slog.Int("merged", sum.Merged),
		slog.Int("unchanged", sum.Unchanged),
		slog.Int("skipped", sum.Skipped),
		slog.Int("errors", sum.Errors),
	)
	return sum, nil
}

func (s *Service) ingestOne(ctx context.Context, in domain.LawChangeInput) (outcome, error) {
	if strings.TrimSpace(in.Title) == "" {
		return outcomeSkipped, nil
	}
	now := s.now()

	existing, found, err := s.findDuplicate(ctx, in, now)
	if err != nil {
		return 0, err
	}
	if found {
		return s.merge(ctx, existing, in, now)
	}

	law := fingerprint.NewLaw(in, uuid.New(), now)
	if _, err := s.laws.Create(ctx, law); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return 0, fmt.Errorf("create law: %w", err)
		}
		// A concurrent run stored the same fingerprint first.
		existing, err := s.laws.GetByFingerprint(ctx, law.Fingerprint)
		if err != nil {
			return 0, fmt.Errorf("reload law after conflict: %w", err)
		}
		return s.merge(ctx, existing, in, now)
	}
	return outcomeInserted, nil
}

// findDuplicate looks up the exact fingerprint first, then same-day records
// that look like the same change. Undated items are compared against today.
func (s *Service) findDuplicate(ctx context.Context, in domain.LawChangeInput, now time.Time) (domain.LawChange, bool, error) {
	law, err := s.laws.GetByFingerprint(ctx, fingerprint.Key(in))
	switch {
	case err == nil:
		return law, true, nil
	case !errors.Is(err, domain.ErrNotFound):
		return domain.LawChange{}, false, fmt.Errorf("get by fingerprint: %w", err)
	}

	published := in.PublishedAt
	if published.IsZero() {
		published = now
	}
	day := published.UTC().Truncate(24 * time.Hour)
	candidates, err := s.laws.ListPublishedBetween(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		return domain.LawChange{}, false, fmt.Errorf("list same-day laws: %w", err)
	}

	incoming := fingerprint.NewLaw(in, uuid.Nil, now)
	for _, c := range candidates {
		if fingerprint.AreLikelyDuplicates(c, incoming) {
			return c, true, nil
		}
	}
	return domain.LawChange{}, false, nil
}

func (s *Service) merge(ctx context.Context, existing domain.LawChange, in domain.LawChangeInput, now time.Time) (outcome, error) {
	merged, changed := fingerprint.MergeDuplicates(existing, in, now)
	if !changed {
		return outcomeUnchanged, nil
	}
	if err := s.laws.UpdateMerged(ctx, merged); err != nil {
		return 0, fmt.Errorf("update merged law: %w", err)
	}
	return outcomeMerged, nil
}
