package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

const snippetRunes = 400

// Result is the outcome of matching one law change.
type Result struct {
	Hits       int
	Candidates int
	Enqueued   int
	Duplicates int
	Errors     int
}

// Candidate is a surviving (contract, law) pair with its best chunk.
type Candidate struct {
	Contract domain.Contract
	UserID   uuid.UUID
	Settings domain.NotificationSettings
	Match    domain.ChunkMatch
}

// Process matches a law change and enqueues the resulting alerts. An
// enqueue failure is returned after all candidates were tried, so the caller
// keeps the law unprocessed and retries it; already queued pairs collapse on
// their dedup key.
func (s *Service) Process(ctx context.Context, law domain.LawChange) (Result, error) {
	var res Result

	events, hits, err := s.MatchLaw(ctx, law)
	res.Hits = hits
	if err != nil {
		return res, err
	}
	res.Candidates = len(events)
	if len(events) == 0 {
		return res, nil
	}

	if explanation := s.explainLaw(ctx, law); explanation != "" {
		for i := range events {
			events[i].Payload.Explanation = explanation
		}
	}

	var errs []error
	for _, ev := range events {
		ok, err := s.queue.Enqueue(ctx, ev)
		if err != nil {
			res.Errors++
			errs = append(errs, err)
			s.log.ErrorContext(ctx, "enqueue law alert",
				slog.String("law_id", law.ID.String()),
				slog.String("dedup_key", ev.DedupKey),
				slog.String("error", err.Error()),
			)
			continue
		}
		if ok {
			res.Enqueued++
		} else {
			res.Duplicates++
		}
	}

	s.log.InfoContext(ctx, "law matched",
		slog.String("law_id", law.ID.String()),
		slog.Int("hits", res.Hits),
		slog.Int("candidates", res.Candidates),
		slog.Int("enqueued", res.Enqueued),
		slog.Int("duplicates", res.Duplicates),
	)

	if len(errs) > 0 {
		return res, fmt.Errorf("matcher.Process: %w", errors.Join(errs...))
	}
	return res, nil
}

// MatchLaw returns one law-alert event per affected contract, highest score
// first, together with the number of raw index hits. It does not enqueue.
func (s *Service) MatchLaw(ctx context.Context, law domain.LawChange) ([]domain.NotificationEvent, int, error) {
	text := strings.TrimSpace(law.MatchText(s.cfg.MaxTextChars))
	if text == "" {
		s.log.WarnContext(ctx, "law has no text to match", slog.String("law_id", law.ID.String()))
		return nil, 0, nil
	}

	vec, err := s.emb.EmbedText(ctx, text)
	if err != nil {
		return nil, 0, fmt.Errorf("matcher.MatchLaw: embed law: %w", err)
	}
	hits, err := s.index.Query(ctx, vec, s.cfg.TopK)
	if err != nil {
		return nil, 0, fmt.Errorf("matcher.MatchLaw: query index: %w", err)
	}
	if len(hits) == 0 {
		return nil, 0, nil
	}

	best := bestPerContract(hits)
	candidates, err := s.filter(ctx, law, best)
	if err != nil {
		return nil, len(hits), err
	}

	now := s.now()
	events := make([]domain.NotificationEvent, 0, len(candidates))
	for _, c := range candidates {
		events = append(events, s.newEvent(law, c, now))
	}
	return events, len(hits), nil
}

// bestPerContract keeps the strongest chunk of each contract.
func bestPerContract(hits []domain.ChunkMatch) map[uuid.UUID]domain.ChunkMatch {
	best := make(map[uuid.UUID]domain.ChunkMatch, len(hits))
	for _, h := range hits {
		cur, ok := best[h.ContractID]
		if !ok || better(h, cur) {
			best[h.ContractID] = h
		}
	}
	return best
}

// better orders chunks by score, then by the amount of context they carry.
func better(a, b domain.ChunkMatch) bool {
	if a.Score() != b.Score() {
		return a.Score() > b.Score()
	}
	if la, lb := len([]rune(a.Text)), len([]rune(b.Text)); la != lb {
		return la > lb
	}
	return a.ChunkIndex > b.ChunkIndex
}

func (s *Service) filter(ctx context.Context, law domain.LawChange, best map[uuid.UUID]domain.ChunkMatch) ([]Candidate, error) {
	ids := make([]uuid.UUID, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}

	contracts, err := s.contracts.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("matcher.MatchLaw: load contracts: %w", err)
	}

	userSet := make(map[uuid.UUID]struct{})
	for _, c := range contracts {
		if c.UserID != nil {
			userSet[*c.UserID] = struct{}{}
		}
	}
	userIDs := make([]uuid.UUID, 0, len(userSet))
	for id := range userSet {
		userIDs = append(userIDs, id)
	}

	settings, err := s.settings.ListSettings(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("matcher.MatchLaw: load settings: %w", err)
	}

	var out []Candidate
	for id, m := range best {
		c, ok := contracts[id]
		if !ok || c.UserID == nil {
			s.log.WarnContext(ctx, "chunk without owning contract",
				slog.String("contract_id", id.String()),
				slog.String("chunk_id", m.ID),
			)
			continue
		}
		userID := *c.UserID

		st, ok := settings[userID]
		if !ok {
			st = domain.DefaultNotificationSettings(userID, s.cfg.DefaultThreshold)
		}
		threshold := st.SimilarityThreshold
		if threshold <= 0 || threshold > 1 {
			threshold = s.cfg.DefaultThreshold
		}

		switch {
		case !st.Enabled:
			continue
		case m.Score() < threshold:
			continue
		case !st.AllowsArea(law.Area):
			continue
		}
		out = append(out, Candidate{Contract: c, UserID: userID, Settings: st, Match: m})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Match.Score() != out[j].Match.Score() {
			return out[i].Match.Score() > out[j].Match.Score()
		}
		return out[i].Contract.ID.String() < out[j].Contract.ID.String()
	})
	return out, nil
}

func (s *Service) newEvent(law domain.LawChange, c Candidate, now time.Time) domain.NotificationEvent {
	contractID := c.Contract.ID
	lawID := law.ID
	score := c.Match.Score()

	mode := c.Settings.DigestMode
	if !mode.IsValid() {
		mode = domain.DigestModeDaily
	}

	return domain.NotificationEvent{
		ID:          uuid.New(),
		UserID:      c.UserID,
		ContractID:  &contractID,
		LawID:       &lawID,
		SubjectType: domain.SubjectTypeLawAlert,
		DigestMode:  mode,
		Status:      domain.NotificationStatusQueued,
		DedupKey:    domain.LawAlertDedupKey(contractID, lawID),
		QueuedAt:    now,
		Payload: domain.EventPayload{
			ContractID:    contractID.String(),
			ContractTitle: c.Contract.Title,
			LawID:         lawID.String(),
			LawTitle:      law.Title,
			LawURL:        law.URL,
			Area:          law.Area,
			Score:         score,
			Severity:      s.Severity(score),
			Snippet:       snippet(c.Match.Text),
			ChunkIndex:    c.Match.ChunkIndex,
		},
	}
}

// Severity grades a similarity score.
func (s *Service) Severity(score float64) domain.Severity {
	switch {
	case score >= s.cfg.CriticalScore:
		return domain.SeverityCritical
	case score >= s.cfg.HighScore:
		return domain.SeverityHigh
	case score >= s.cfg.MediumScore:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= snippetRunes {
		return text
	}
	return strings.TrimSpace(string(r[:snippetRunes])) + "…"
}

func (s *Service) explainLaw(ctx context.Context, law domain.LawChange) string {
	if s.explain == nil {
		return ""
	}
	text, err := s.explain.Explain(ctx, law)
	if err != nil {
		s.log.WarnContext(ctx, "explain law",
			slog.String("law_id", law.ID.String()),
			slog.String("error", err.Error()),
		)
		return ""
	}
	return text
}
