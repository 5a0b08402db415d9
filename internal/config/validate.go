package config

import (
	"fmt"
	"strings"
	"time"
)

// Documented defaults used when a tuning value is malformed.
const (
	DefaultThreshold      = 0.70
	DefaultTopK           = 30
	DefaultGroupCutoff    = 5
	DefaultPacingDelay    = 2 * time.Minute
	DefaultLookaheadDays  = 30
	DefaultAutoRenewMonth = 12
	DefaultRetentionDays  = 30
	DefaultChunkTokens    = 4000
	DefaultOverlapTokens  = 100
	DefaultMaxTokens      = 8192
	DefaultCharsPerToken  = 2.5
	DefaultBatchTokens    = 100_000
)

// Validate performs business-rule validation on the loaded configuration.
// Malformed tuning values are reset to their documented defaults and
// recorded in Warnings; only missing required settings return an error.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if c.Mail.Enabled && strings.TrimSpace(c.Mail.Host) == "" {
		return fmt.Errorf("mail.host is required when mail is enabled")
	}

	switch c.Vector.Backend {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("vector.backend must be one of postgres, sqlite, memory (got %q)", c.Vector.Backend)
	}

	if c.Explain.Enabled {
		switch c.Explain.Provider {
		case "anthropic", "openai":
		default:
			return fmt.Errorf("explain.provider must be one of anthropic, openai (got %q)", c.Explain.Provider)
		}
	}

	for i, f := range c.Feeds {
		if f.ID == "" || f.URL == "" {
			return fmt.Errorf("feeds[%d]: id and url are required", i)
		}
	}

	c.Matcher.validate(c)
	c.Embedding.validate(c)
	c.Digest.validate(c)
	c.Lifecycle.validate(c)
	c.Queue.validate(c)

	if c.Monitor.LawBatch <= 0 {
		c.Monitor.LawBatch = 100
	}
	if c.Monitor.FeedConcurrency <= 0 {
		c.Monitor.FeedConcurrency = 4
	}

	return nil
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func (m *MatcherConfig) validate(c *Config) {
	if m.DefaultThreshold <= 0 || m.DefaultThreshold > 1 {
		c.warnf("matcher.default_threshold %v out of range (0,1], using %v", m.DefaultThreshold, DefaultThreshold)
		m.DefaultThreshold = DefaultThreshold
	}
	if m.TopK <= 0 {
		c.warnf("matcher.top_k %d must be > 0, using %d", m.TopK, DefaultTopK)
		m.TopK = DefaultTopK
	}
	if !(m.MediumScore <= m.HighScore && m.HighScore <= m.CriticalScore) {
		c.warnf("matcher severity bands not ascending, using 0.85/0.90/0.95")
		m.MediumScore, m.HighScore, m.CriticalScore = 0.85, 0.90, 0.95
	}
}

func (e *EmbeddingConfig) validate(c *Config) {
	if e.MaxTokens <= 0 {
		c.warnf("embedding.max_tokens %d must be > 0, using %d", e.MaxTokens, DefaultMaxTokens)
		e.MaxTokens = DefaultMaxTokens
	}
	if e.ChunkTokens <= 0 || e.ChunkTokens >= e.MaxTokens {
		want := min(DefaultChunkTokens, e.MaxTokens/2)
		c.warnf("embedding.chunk_tokens %d must be in (0,%d), using %d", e.ChunkTokens, e.MaxTokens, want)
		e.ChunkTokens = want
	}
	if e.OverlapTokens < 0 || e.OverlapTokens >= e.ChunkTokens/2 {
		want := min(DefaultOverlapTokens, e.ChunkTokens/4)
		c.warnf("embedding.overlap_tokens %d must be in [0,%d), using %d", e.OverlapTokens, e.ChunkTokens/2, want)
		e.OverlapTokens = want
	}
	if e.CharsPerToken <= 0 {
		c.warnf("embedding.chars_per_token %v must be > 0, using %v", e.CharsPerToken, DefaultCharsPerToken)
		e.CharsPerToken = DefaultCharsPerToken
	}
	if e.BatchSize <= 0 {
		c.warnf("embedding.batch_size %d must be > 0, using 100", e.BatchSize)
		e.BatchSize = 100
	}
	if e.BatchTokens < e.MaxTokens {
		want := max(DefaultBatchTokens, e.MaxTokens)
		c.warnf("embedding.batch_tokens %d must be >= max_tokens %d, using %d", e.BatchTokens, e.MaxTokens, want)
		e.BatchTokens = want
	}
	if e.Concurrency <= 0 {
		e.Concurrency = 1
	}
	if e.SyncBatch <= 0 {
		e.SyncBatch = 200
	}
}

func (d *DigestConfig) validate(c *Config) {
	if d.GroupCutoff <= 0 {
		c.warnf("digest.group_cutoff %d must be > 0, using %d", d.GroupCutoff, DefaultGroupCutoff)
		d.GroupCutoff = DefaultGroupCutoff
	}
	if d.PacingDelay < 0 {
		c.warnf("digest.pacing_delay %v must be >= 0, using %v", d.PacingDelay, DefaultPacingDelay)
		d.PacingDelay = DefaultPacingDelay
	}
	if d.LinkSecret != "" && len(d.LinkSecret) < 32 {
		c.warnf("digest.link_secret shorter than 32 characters, unsubscribe links disabled")
		d.LinkSecret = ""
	}
}

func (l *LifecycleConfig) validate(c *Config) {
	if l.LookaheadDays <= 0 {
		c.warnf("lifecycle.lookahead_days %d must be > 0, using %d", l.LookaheadDays, DefaultLookaheadDays)
		l.LookaheadDays = DefaultLookaheadDays
	}
	if l.DefaultAutoRenewMonths <= 0 {
		c.warnf("lifecycle.default_auto_renew_months %d must be > 0, using %d", l.DefaultAutoRenewMonths, DefaultAutoRenewMonth)
		l.DefaultAutoRenewMonths = DefaultAutoRenewMonth
	}
	if l.PageSize <= 0 {
		l.PageSize = 500
	}
}

func (q *QueueConfig) validate(c *Config) {
	if q.RetentionDays <= 0 {
		c.warnf("queue.retention_days %d must be > 0, using %d", q.RetentionDays, DefaultRetentionDays)
		q.RetentionDays = DefaultRetentionDays
	}
	if q.StaleAfter <= 0 {
		q.StaleAfter = time.Hour
	}
}
