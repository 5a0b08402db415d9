package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// Summary counts the outcome of every stage of one pass.
type Summary struct {
	Feeds      int
	FeedErrors int
	Items      int
	Ingest     domain.IngestSummary
	Enriched   int
	Embedding  domain.EmbeddingSummary
	Laws       int
	Processed  int
	Enqueued   int
	Duplicates int
	LawErrors  int
	Delivery   domain.DeliverySummary
}

// Run pulls every feed, stores new laws, refreshes contract embeddings,
// enriches and matches each unprocessed law and finally delivers instant
// notifications.
//
// Feed, law and contract failures are counted and the pass moves on. A law
// is marked processed only when all of its alerts were enqueued, so a failed
// law is retried by the next run. The returned error is non-nil only when a
// stage could not run at all or ctx ended.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	var (
		sum      Summary
		runFails []error
	)

	items := s.pullFeeds(ctx, &sum)
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	ing, err := s.ingest.Ingest(ctx, items)
	sum.Ingest = ing
	if err != nil {
		return sum, fmt.Errorf("monitor.Run: ingest: %w", err)
	}

	// A failed sync leaves the index as it was; matching still runs against it.
	emb, err := s.embed.SyncPending(ctx)
	sum.Embedding = emb
	if err != nil {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		s.log.ErrorContext(ctx, "embedding sync", slog.String("error", err.Error()))
	}

	if err := s.processPending(ctx, &sum); err != nil {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		runFails = append(runFails, fmt.Errorf("monitor.Run: %w", err))
	}

	if s.delivery != nil {
		d, err := s.delivery.ProcessInstant(ctx)
		sum.Delivery = d
		if err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			runFails = append(runFails, fmt.Errorf("monitor.Run: instant delivery: %w", err))
		}
	}

	s.log.InfoContext(ctx, "monitor finished",
		slog.Int("feeds", sum.Feeds),
		slog.Int("feed_errors", sum.FeedErrors),
		slog.Int("items", sum.Items),
		slog.Int("inserted", sum.Ingest.Inserted),
		slog.Int("merged", sum.Ingest.Merged),
		slog.Int("laws", sum.Laws),
		slog.Int("processed", sum.Processed),
		slog.Int("enqueued", sum.Enqueued),
		slog.Int("law_errors", sum.LawErrors),
		slog.Int("sent", sum.Delivery.Sent),
	)
	return sum, errors.Join(runFails...)
}

// pullFeeds fetches all feeds concurrently. Items keep the configured feed
// order so that the first feed to report a law becomes its source.
func (s *Service) pullFeeds(ctx context.Context, sum *Summary) []domain.LawChangeInput {
	results := make([][]domain.LawChangeInput, len(s.feeds))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FeedConcurrency)
	for i, f := range s.feeds {
		g.Go(func() error {
			items, err := f.Pull(gctx)
			if err != nil {
				s.log.WarnContext(gctx, "pull feed",
					slog.String("feed", f.ID()),
					slog.String("error", err.Error()),
				)
				mu.Lock()
				sum.FeedErrors++
				mu.Unlock()
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	sum.Feeds = len(s.feeds)
	var all []domain.LawChangeInput
	for _, r := range results {
		all = append(all, r...)
	}
	sum.Items = len(all)
	return all
}

// processPending matches unprocessed laws page by page. A law that failed
// stays unprocessed and is listed again; the pass ends once a page holds no
// law it has not already tried.
func (s *Service) processPending(ctx context.Context, sum *Summary) error {
	seen := make(map[uuid.UUID]struct{})
	for {
		page, err := s.laws.ListUnprocessed(ctx, s.cfg.LawBatch)
		if err != nil {
			return fmt.Errorf("list unprocessed laws: %w", err)
		}

		fresh := 0
		for _, law := range page {
			if _, ok := seen[law.ID]; ok {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			seen[law.ID] = struct{}{}
			fresh++

			enriched := s.ingest.Enrich(ctx, law)
			if enriched.Description != law.Description {
				sum.Enriched++
			}
			s.processLaw(ctx, enriched, sum)
		}

		if fresh == 0 || len(page) < s.cfg.LawBatch {
			return nil
		}
	}
}

func (s *Service) processLaw(ctx context.Context, law domain.LawChange, sum *Summary) {
	sum.Laws++

	res, err := s.match.Process(ctx, law)
	sum.Enqueued += res.Enqueued
	sum.Duplicates += res.Duplicates
	if err != nil {
		sum.LawErrors++
		s.log.ErrorContext(ctx, "match law",
			slog.String("law_id", law.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.laws.MarkProcessed(ctx, law.ID, s.now()); err != nil {
		sum.LawErrors++
		s.log.ErrorContext(ctx, "mark law processed",
			slog.String("law_id", law.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	sum.Processed++
}
