package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/legalpulse/internal/adapter/feed"
	"github.com/heartmarshall/legalpulse/internal/adapter/mailer"
	"github.com/heartmarshall/legalpulse/internal/adapter/postgres"
	"github.com/heartmarshall/legalpulse/internal/adapter/postgres/chunk"
	"github.com/heartmarshall/legalpulse/internal/adapter/postgres/contract"
	"github.com/heartmarshall/legalpulse/internal/adapter/postgres/history"
	"github.com/heartmarshall/legalpulse/internal/adapter/postgres/law"
	queuerepo "github.com/heartmarshall/legalpulse/internal/adapter/postgres/queue"
	"github.com/heartmarshall/legalpulse/internal/adapter/postgres/user"
	"github.com/heartmarshall/legalpulse/internal/adapter/provider/embedder"
	"github.com/heartmarshall/legalpulse/internal/adapter/provider/explainer"
	"github.com/heartmarshall/legalpulse/internal/adapter/provider/lawcontent"
	"github.com/heartmarshall/legalpulse/internal/adapter/vectorstore"
	"github.com/heartmarshall/legalpulse/internal/auth"
	"github.com/heartmarshall/legalpulse/internal/config"
	"github.com/heartmarshall/legalpulse/internal/domain"
	"github.com/heartmarshall/legalpulse/internal/service/chunker"
	"github.com/heartmarshall/legalpulse/internal/service/digest"
	"github.com/heartmarshall/legalpulse/internal/service/embedding"
	"github.com/heartmarshall/legalpulse/internal/service/ingest"
	"github.com/heartmarshall/legalpulse/internal/service/lifecycle"
	"github.com/heartmarshall/legalpulse/internal/service/matcher"
	"github.com/heartmarshall/legalpulse/internal/service/monitor"
	queuesvc "github.com/heartmarshall/legalpulse/internal/service/queue"
	"github.com/heartmarshall/legalpulse/internal/service/settings"
)

// vectorIndex is the union of what embedding sync and matching need from a
// vector backend.
type vectorIndex interface {
	ReplaceContract(ctx context.Context, contractID uuid.UUID, chunks []domain.ContractChunk) error
	Query(ctx context.Context, vec []float32, topK int) ([]domain.ChunkMatch, error)
	DeleteByContract(ctx context.Context, contractID uuid.UUID) error
}

type mailSender interface {
	Send(ctx context.Context, m mailer.Message) error
}

type lawExplainer interface {
	Explain(ctx context.Context, law domain.LawChange) (string, error)
}

type pageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Container holds every long-lived dependency of one process. It is built
// once at startup and closed on shutdown.
type Container struct {
	Config *config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool
	Lock   *postgres.RunLock

	Monitor   *monitor.Service
	Delivery  *digest.Service
	Lifecycle *lifecycle.Service
	Queue     *queuesvc.Service
	Settings  *settings.Service
	Embedding *embedding.Service

	closers []func() error
}

// NewContainer connects to the database and wires all services. The caller
// must call Close when done.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	for _, w := range cfg.Warnings {
		logger.Warn("config value reset to default", slog.String("detail", w))
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	c := &Container{
		Config: cfg,
		Log:    logger,
		Pool:   pool,
		Lock:   postgres.NewRunLock(pool),
	}

	if err := c.wire(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) wire(ctx context.Context) error {
	cfg, logger := c.Config, c.Log

	txm := postgres.NewTxManager(c.Pool)
	laws := law.New(c.Pool)
	contracts := contract.New(c.Pool)
	hist := history.New(c.Pool)
	queue := queuerepo.New(c.Pool)
	users := user.New(c.Pool)

	index, err := c.openVectorIndex(ctx)
	if err != nil {
		return err
	}

	emb := embedder.New(cfg.Embedding, logger)

	links := auth.NewLinkSigner(cfg.Digest.LinkSecret, cfg.Digest.LinkIssuer, cfg.Digest.LinkTTL, cfg.Digest.AppURL)
	if !links.Enabled() {
		logger.Warn("unsubscribe links disabled: digest.link_secret not set")
	}

	render, err := mailer.NewRenderer(cfg.Digest.AppURL)
	if err != nil {
		return fmt.Errorf("build mail renderer: %w", err)
	}

	var mail mailSender
	if cfg.Mail.Enabled {
		smtp, err := mailer.NewSMTPSender(cfg.Mail, logger)
		if err != nil {
			return fmt.Errorf("build smtp sender: %w", err)
		}
		mail = smtp
	} else {
		logger.Warn("mail disabled: notifications are logged, not sent")
		mail = mailer.NewLogSender(logger)
	}

	c.Embedding = embedding.NewService(logger, contracts, index, emb, embedding.Config{
		MinTextChars: cfg.Embedding.MinTextChars,
		Concurrency:  cfg.Embedding.Concurrency,
		SyncBatch:    cfg.Embedding.SyncBatch,
		Chunking: chunker.Options{
			MaxTokens:     cfg.Embedding.MaxTokens,
			ChunkTokens:   cfg.Embedding.ChunkTokens,
			OverlapTokens: cfg.Embedding.OverlapTokens,
			CharsPerToken: cfg.Embedding.CharsPerToken,
		},
	})

	c.Delivery = digest.NewService(logger, queue, users, render, mail, links, digest.Config{
		GroupCutoff: cfg.Digest.GroupCutoff,
		PacingDelay: cfg.Digest.PacingDelay,
	})

	c.Lifecycle = lifecycle.NewService(logger, txm, contracts, hist, users, queue, lifecycle.Config{
		LookaheadDays:          cfg.Lifecycle.LookaheadDays,
		DefaultAutoRenewMonths: cfg.Lifecycle.DefaultAutoRenewMonths,
		PageSize:               cfg.Lifecycle.PageSize,
	})

	c.Queue = queuesvc.NewService(logger, queue, queuesvc.Config{
		RetentionDays: cfg.Queue.RetentionDays,
		StaleAfter:    cfg.Queue.StaleAfter,
	})

	c.Settings = settings.NewService(logger, users, links, cfg.Matcher.DefaultThreshold)

	// Optional collaborators stay untyped nil when disabled.
	var fetcher pageFetcher
	if cfg.Fetcher.Enabled {
		fetcher = lawcontent.New(cfg.Fetcher, logger)
	}
	var explain lawExplainer
	if cfg.Explain.Enabled {
		switch cfg.Explain.Provider {
		case "openai":
			explain = explainer.NewOpenAI(cfg.Explain, logger)
		default:
			explain = explainer.NewAnthropic(cfg.Explain, logger)
		}
	}

	ing := ingest.NewService(logger, laws, fetcher, cfg.Fetcher.MinDescriptionChars)
	match := matcher.NewService(logger, emb, index, contracts, users, queue, explain, matcher.Config{
		DefaultThreshold: cfg.Matcher.DefaultThreshold,
		TopK:             cfg.Matcher.TopK,
		CriticalScore:    cfg.Matcher.CriticalScore,
		HighScore:        cfg.Matcher.HighScore,
		MediumScore:      cfg.Matcher.MediumScore,
		MaxTextChars:     int(float64(cfg.Embedding.ChunkTokens) * cfg.Embedding.CharsPerToken),
	})

	client := &http.Client{Timeout: 30 * time.Second}
	feeds := make([]monitor.FeedSource, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		feeds = append(feeds, feed.NewRSSSource(f, client, cfg.Fetcher.UserAgent))
	}

	c.Monitor = monitor.NewService(logger, feeds, ing, laws, c.Embedding, match, c.Delivery, monitor.Config{
		LawBatch:        cfg.Monitor.LawBatch,
		FeedConcurrency: cfg.Monitor.FeedConcurrency,
	})
	return nil
}

func (c *Container) openVectorIndex(ctx context.Context) (vectorIndex, error) {
	switch c.Config.Vector.Backend {
	case "sqlite":
		s, err := vectorstore.OpenSQLite(ctx, c.Config.Vector.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite vector index: %w", err)
		}
		c.closers = append(c.closers, s.Close)
		return s, nil
	case "memory":
		c.Log.Warn("memory vector index: chunks are lost when the process exits")
		return vectorstore.NewMemory(), nil
	default:
		return chunk.New(c.Pool), nil
	}
}

// Close releases every resource the container opened.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Log.Error("close resource", slog.String("error", err.Error()))
		}
	}
	c.Pool.Close()
}
