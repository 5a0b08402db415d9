package ingest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// Enrich replaces a stub description with the text of the law's source page.
// Fetch failures are logged and leave the law untouched. The returned law
// carries the description that is stored after the call.
func (s *Service) Enrich(ctx context.Context, law domain.LawChange) domain.LawChange {
	if s.fetcher == nil || law.URL == "" {
		return law
	}
	if len([]rune(strings.TrimSpace(law.Description))) >= s.minDesc {
		return law
	}

	text, err := s.fetcher.Fetch(ctx, law.URL)
	if err != nil {
		s.log.WarnContext(ctx, "fetch law page",
			slog.String("law_id", law.ID.String()),
			slog.String("url", law.URL),
			slog.String("error", err.Error()),
		)
		return law
	}

	text = strings.TrimSpace(text)
	if len([]rune(text)) <= len([]rune(law.Description)) {
		return law
	}

	now := s.now()
	if err := s.laws.UpdateDescription(ctx, law.ID, text, now); err != nil {
		s.log.ErrorContext(ctx, "store enriched description",
			slog.String("law_id", law.ID.String()),
			slog.String("error", err.Error()),
		)
		return law
	}

	law.Description = text
	law.UpdatedAt = now
	s.log.DebugContext(ctx, "law description enriched",
		slog.String("law_id", law.ID.String()),
		slog.Int("chars", len([]rune(text))),
	)
	return law
}
