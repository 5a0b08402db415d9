package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Vector    VectorConfig    `yaml:"vector"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	Queue     QueueConfig     `yaml:"queue"`
	Digest    DigestConfig    `yaml:"digest"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Mail      MailConfig      `yaml:"mail"`
	Feeds     []FeedConfig    `yaml:"feeds"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Explain   ExplainConfig   `yaml:"explain"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Jobs      JobsConfig      `yaml:"jobs"`
	Metrics   MetricsConfig   `yaml:"metrics"`

	// Warnings lists tuning values that were invalid and reset to their
	// defaults during validation.
	Warnings []string `yaml:"-" env:"-"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// EmbeddingConfig holds embedding backend and chunking settings.
type EmbeddingConfig struct {
	APIKey        string        `yaml:"api_key"         env:"OPENAI_API_KEY"`
	BaseURL       string        `yaml:"base_url"        env:"EMBEDDING_BASE_URL"`
	Model         string        `yaml:"model"           env:"EMBEDDING_MODEL"           env-default:"text-embedding-3-small"`
	Dimensions    int           `yaml:"dimensions"      env:"EMBEDDING_DIMENSIONS"      env-default:"1536"`
	BatchSize     int           `yaml:"batch_size"      env:"EMBEDDING_BATCH_SIZE"      env-default:"100"`
	BatchTokens   int           `yaml:"batch_tokens"    env:"EMBEDDING_BATCH_TOKENS"    env-default:"100000"`
	MaxTokens     int           `yaml:"max_tokens"      env:"EMBEDDING_MAX_TOKENS"      env-default:"8192"`
	ChunkTokens   int           `yaml:"chunk_tokens"    env:"EMBEDDING_CHUNK_TOKENS"    env-default:"4000"`
	OverlapTokens int           `yaml:"overlap_tokens"  env:"EMBEDDING_OVERLAP_TOKENS"  env-default:"100"`
	CharsPerToken float64       `yaml:"chars_per_token" env:"EMBEDDING_CHARS_PER_TOKEN" env-default:"2.5"`
	MinTextChars  int           `yaml:"min_text_chars"  env:"EMBEDDING_MIN_TEXT_CHARS"  env-default:"50"`
	Timeout       time.Duration `yaml:"timeout"         env:"EMBEDDING_TIMEOUT"         env-default:"30s"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"   env:"EMBEDDING_RETRY_BACKOFF"   env-default:"1s"`
	Concurrency   int           `yaml:"concurrency"     env:"EMBEDDING_CONCURRENCY"     env-default:"4"`
	SyncBatch     int           `yaml:"sync_batch"      env:"EMBEDDING_SYNC_BATCH"      env-default:"200"`
}

// VectorConfig selects the vector index backend.
type VectorConfig struct {
	Backend    string `yaml:"backend"     env:"VECTOR_BACKEND"     env-default:"postgres"`
	SQLitePath string `yaml:"sqlite_path" env:"VECTOR_SQLITE_PATH" env-default:"./data/vectors.db"`
}

// MatcherConfig holds relevance matching settings.
type MatcherConfig struct {
	DefaultThreshold float64 `yaml:"default_threshold" env:"MATCHER_DEFAULT_THRESHOLD" env-default:"0.70"`
	TopK             int     `yaml:"top_k"             env:"MATCHER_TOP_K"             env-default:"30"`
	CriticalScore    float64 `yaml:"critical_score"    env:"MATCHER_CRITICAL_SCORE"    env-default:"0.95"`
	HighScore        float64 `yaml:"high_score"        env:"MATCHER_HIGH_SCORE"        env-default:"0.90"`
	MediumScore      float64 `yaml:"medium_score"      env:"MATCHER_MEDIUM_SCORE"      env-default:"0.85"`
}

// QueueConfig holds notification queue settings.
type QueueConfig struct {
	RetentionDays int           `yaml:"retention_days" env:"QUEUE_RETENTION_DAYS" env-default:"30"`
	StaleAfter    time.Duration `yaml:"stale_after"    env:"QUEUE_STALE_AFTER"    env-default:"1h"`
}

// DigestConfig holds delivery policy settings.
type DigestConfig struct {
	GroupCutoff int           `yaml:"group_cutoff"     env:"DIGEST_GROUP_CUTOFF"     env-default:"5"`
	PacingDelay time.Duration `yaml:"pacing_delay"     env:"DIGEST_PACING_DELAY"     env-default:"2m"`
	AppURL      string        `yaml:"app_url"          env:"DIGEST_APP_URL"          env-default:"http://localhost:3000"`
	LinkSecret  string        `yaml:"link_secret"      env:"DIGEST_LINK_SECRET"`
	LinkIssuer  string        `yaml:"link_issuer"      env:"DIGEST_LINK_ISSUER"      env-default:"legalpulse"`
	LinkTTL     time.Duration `yaml:"link_ttl"         env:"DIGEST_LINK_TTL"         env-default:"720h"`
}

// LifecycleConfig holds contract status engine settings.
type LifecycleConfig struct {
	LookaheadDays          int `yaml:"lookahead_days"            env:"LIFECYCLE_LOOKAHEAD_DAYS"            env-default:"30"`
	DefaultAutoRenewMonths int `yaml:"default_auto_renew_months" env:"LIFECYCLE_DEFAULT_AUTO_RENEW_MONTHS" env-default:"12"`
	PageSize               int `yaml:"page_size"                 env:"LIFECYCLE_PAGE_SIZE"                 env-default:"500"`
}

// MonitorConfig tunes the monitoring pass.
type MonitorConfig struct {
	LawBatch        int `yaml:"law_batch"        env:"MONITOR_LAW_BATCH"        env-default:"100"`
	FeedConcurrency int `yaml:"feed_concurrency" env:"MONITOR_FEED_CONCURRENCY" env-default:"4"`
}

// MailConfig holds SMTP settings for the email sender.
type MailConfig struct {
	Enabled   bool   `yaml:"enabled"    env:"MAIL_ENABLED"    env-default:"true"`
	Host      string `yaml:"host"       env:"MAIL_HOST"`
	Port      int    `yaml:"port"       env:"MAIL_PORT"       env-default:"587"`
	Username  string `yaml:"username"   env:"MAIL_USERNAME"`
	Password  string `yaml:"password"   env:"MAIL_PASSWORD"`
	From      string `yaml:"from"       env:"MAIL_FROM"       env-default:"Legal Pulse <noreply@localhost>"`
	TLSPolicy string `yaml:"tls_policy" env:"MAIL_TLS_POLICY" env-default:"opportunistic"`
}

// FeedConfig describes one external legal-change feed.
type FeedConfig struct {
	ID   string `yaml:"id"`
	URL  string `yaml:"url"`
	Area string `yaml:"area"`
}

// FetcherConfig holds law content fetcher settings.
type FetcherConfig struct {
	Enabled             bool          `yaml:"enabled"               env:"FETCHER_ENABLED"               env-default:"true"`
	RatePerSecond       float64       `yaml:"rate_per_second"       env:"FETCHER_RATE_PER_SECOND"       env-default:"2"`
	Timeout             time.Duration `yaml:"timeout"               env:"FETCHER_TIMEOUT"               env-default:"10s"`
	MaxChars            int           `yaml:"max_chars"             env:"FETCHER_MAX_CHARS"             env-default:"15000"`
	MinDescriptionChars int           `yaml:"min_description_chars" env:"FETCHER_MIN_DESCRIPTION_CHARS" env-default:"200"`
	UserAgent           string        `yaml:"user_agent"            env:"FETCHER_USER_AGENT"            env-default:"LegalPulseBot/1.0"`
}

// ExplainConfig holds the optional alert explanation generator settings.
type ExplainConfig struct {
	Enabled   bool          `yaml:"enabled"    env:"EXPLAIN_ENABLED"    env-default:"false"`
	Provider  string        `yaml:"provider"   env:"EXPLAIN_PROVIDER"   env-default:"anthropic"`
	APIKey    string        `yaml:"api_key"    env:"EXPLAIN_API_KEY"`
	BaseURL   string        `yaml:"base_url"   env:"EXPLAIN_BASE_URL"`
	Model     string        `yaml:"model"      env:"EXPLAIN_MODEL"      env-default:"claude-haiku-4-5"`
	MaxTokens int           `yaml:"max_tokens" env:"EXPLAIN_MAX_TOKENS" env-default:"300"`
	Timeout   time.Duration `yaml:"timeout"    env:"EXPLAIN_TIMEOUT"    env-default:"20s"`
}

// SchedulerConfig holds cron expressions for the in-process scheduler.
type SchedulerConfig struct {
	TimeZone  string `yaml:"time_zone" env:"SCHEDULER_TIME_ZONE" env-default:"Europe/Berlin"`
	Monitor   string `yaml:"monitor"   env:"SCHEDULER_MONITOR"   env-default:"0 */6 * * *"`
	Instant   string `yaml:"instant"   env:"SCHEDULER_INSTANT"   env-default:"*/10 * * * *"`
	Daily     string `yaml:"daily"     env:"SCHEDULER_DAILY"     env-default:"0 9 * * *"`
	Weekly    string `yaml:"weekly"    env:"SCHEDULER_WEEKLY"    env-default:"0 9 * * 1"`
	Lifecycle string `yaml:"lifecycle" env:"SCHEDULER_LIFECYCLE" env-default:"0 2 * * *"`
	Cleanup   string `yaml:"cleanup"   env:"SCHEDULER_CLEANUP"   env-default:"30 3 * * *"`
}

// JobsConfig bounds the wall-clock time of each job run.
type JobsConfig struct {
	MonitorTimeout   time.Duration `yaml:"monitor_timeout"   env:"JOBS_MONITOR_TIMEOUT"   env-default:"30m"`
	DigestTimeout    time.Duration `yaml:"digest_timeout"    env:"JOBS_DIGEST_TIMEOUT"    env-default:"1h"`
	LifecycleTimeout time.Duration `yaml:"lifecycle_timeout" env:"JOBS_LIFECYCLE_TIMEOUT" env-default:"15m"`
	CleanupTimeout   time.Duration `yaml:"cleanup_timeout"   env:"JOBS_CLEANUP_TIMEOUT"   env-default:"5m"`
}

// MetricsConfig holds Prometheus Pushgateway settings.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url" env:"METRICS_PUSHGATEWAY_URL"`
	Instance       string `yaml:"instance"        env:"METRICS_INSTANCE"`
}
