// Package lawcontent fetches the full text of a law change from its
// publication page.
package lawcontent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/legalpulse/internal/adapter/htmltext"
	"github.com/heartmarshall/legalpulse/internal/config"
)

const maxBodyBytes = 4 << 20

// ErrNotHTML is returned for responses that are not HTML pages.
var ErrNotHTML = errors.New("lawcontent: response is not html")

// Fetcher downloads law pages and reduces them to markdown text.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	conv       *htmltext.Converter
	maxChars   int
	userAgent  string
	retryWait  time.Duration
	log        *slog.Logger
}

// New creates a Fetcher. Requests are paced to cfg.RatePerSecond.
func New(cfg config.FetcherConfig, logger *slog.Logger) *Fetcher {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 2
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		conv:       htmltext.New(),
		maxChars:   cfg.MaxChars,
		userAgent:  cfg.UserAgent,
		retryWait:  500 * time.Millisecond,
		log:        logger.With("adapter", "lawcontent"),
	}
}

// Fetch returns the main text of the page at pageURL, truncated to the
// configured maximum.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("lawcontent: wait: %w", err)
	}

	body, err := f.get(ctx, pageURL)
	if err != nil {
		return "", err
	}

	_, text, err := f.conv.Article(body)
	if err != nil {
		return "", fmt.Errorf("lawcontent: convert %s: %w", pageURL, err)
	}
	text = htmltext.Truncate(text, f.maxChars)

	f.log.DebugContext(ctx, "law page fetched",
		slog.String("url", pageURL),
		slog.Int("chars", len([]rune(text))),
	)
	return text, nil
}

// get performs the request with a single retry on 5xx or network errors.
func (f *Fetcher) get(ctx context.Context, pageURL string) ([]byte, error) {
	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("lawcontent: create request: %w", err))
		}
		if f.userAgent != "" {
			req.Header.Set("User-Agent", f.userAgent)
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return fmt.Errorf("lawcontent: request %s: %w", pageURL, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("lawcontent: %s: status %d", pageURL, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("lawcontent: %s: status %d", pageURL, resp.StatusCode))
		}

		if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrNotHTML, ct))
		}

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("lawcontent: read %s: %w", pageURL, err)
		}
		body = b
		return nil
	}

	notify := func(err error, wait time.Duration) {
		f.log.WarnContext(ctx, "lawcontent retry", slog.String("url", pageURL), slog.String("reason", err.Error()))
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(f.retryWait), 1), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, err
	}
	return body, nil
}
