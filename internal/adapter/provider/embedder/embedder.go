package embedder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"

	"github.com/heartmarshall/legalpulse/internal/config"
	"github.com/heartmarshall/legalpulse/internal/domain"
	"github.com/heartmarshall/legalpulse/internal/service/chunker"
)

// Client turns texts into embedding vectors through an OpenAI-compatible
// embeddings endpoint.
type Client struct {
	client       *openai.Client
	model        openai.EmbeddingModel
	dimensions   int
	batchSize    int
	batchTokens  int
	charsPerTok  float64
	timeout      time.Duration
	retryBackoff time.Duration
	log          *slog.Logger
}

// New creates a Client from the embedding configuration. An empty BaseURL
// targets the public OpenAI API.
func New(cfg config.EmbeddingConfig, logger *slog.Logger) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}
	cpt := cfg.CharsPerToken
	if cpt <= 0 {
		cpt = config.DefaultCharsPerToken
	}

	return &Client{
		client:       openai.NewClientWithConfig(oc),
		model:        openai.EmbeddingModel(cfg.Model),
		dimensions:   cfg.Dimensions,
		batchSize:    batch,
		batchTokens:  cfg.BatchTokens,
		charsPerTok:  cpt,
		timeout:      cfg.Timeout,
		retryBackoff: cfg.RetryBackoff,
		log:          logger.With("adapter", "embedder"),
	}
}

// Dimensions returns the configured vector width.
func (c *Client) Dimensions() int { return c.dimensions }

// Embed returns one vector per input text, in input order. Inputs are sent
// in batches bounded by the configured size and by their summed estimated
// tokens. A backend failure or a malformed response fails the whole call;
// it never yields empty vectors.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for _, batch := range c.batches(texts) {
		vecs, err := c.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// batches splits texts in order. A batch closes when it holds batchSize
// inputs or the next input would push it over batchTokens. An input larger
// than batchTokens goes alone.
func (c *Client) batches(texts []string) [][]string {
	var (
		out    [][]string
		start  int
		tokens int
	)
	for i, t := range texts {
		n := chunker.EstimateTokens(t, c.charsPerTok)
		full := i-start >= c.batchSize || (c.batchTokens > 0 && tokens+n > c.batchTokens)
		if i > start && full {
			out = append(out, texts[start:i])
			start, tokens = i, 0
		}
		tokens += n
	}
	return append(out, texts[start:])
}

// EmbedText embeds a single text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (c *Client) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	req := openai.EmbeddingRequestStrings{
		Input:      batch,
		Model:      c.model,
		Dimensions: c.dimensions,
	}

	var resp openai.EmbeddingResponse
	attempt := 0
	op := func() error {
		attempt++
		callCtx, cancel := c.callContext(ctx)
		defer cancel()

		r, err := c.client.CreateEmbeddings(callCtx, req)
		if err != nil {
			if ctx.Err() != nil || !retryable(err) {
				return backoff.Permanent(err)
			}
			c.log.WarnContext(ctx, "embedding request failed, retrying",
				slog.Int("attempt", attempt),
				slog.Int("inputs", len(batch)),
				slog.String("error", err.Error()),
			)
			return err
		}
		resp = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryBackoff
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, 1), ctx)); err != nil {
		return nil, fmt.Errorf("%w: create embeddings: %w", domain.ErrEmbedding, err)
	}

	if len(resp.Data) != len(batch) {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs", domain.ErrEmbedding, len(resp.Data), len(batch))
	}

	vecs := make([][]float32, len(batch))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(batch) || vecs[d.Index] != nil {
			return nil, fmt.Errorf("%w: unexpected vector index %d", domain.ErrEmbedding, d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty vector at index %d", domain.ErrEmbedding, d.Index)
		}
		if c.dimensions > 0 && len(d.Embedding) != c.dimensions {
			return nil, fmt.Errorf("%w: vector width %d, want %d", domain.ErrEmbedding, len(d.Embedding), c.dimensions)
		}
		vecs[d.Index] = d.Embedding
	}

	c.log.DebugContext(ctx, "embeddings created",
		slog.Int("inputs", len(batch)),
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
	)
	return vecs, nil
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// retryable reports whether a failed call may succeed on a second attempt:
// rate limiting, server errors and transport failures. Other client errors
// are permanent.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError || code == 0
}
