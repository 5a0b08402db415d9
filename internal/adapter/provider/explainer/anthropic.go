package explainer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/legalpulse/internal/config"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

// Anthropic explains law changes with the Claude Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	log       *slog.Logger
}

// NewAnthropic creates an Anthropic explainer.
func NewAnthropic(cfg config.ExplainConfig, logger *slog.Logger) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		timeout:   cfg.Timeout,
		log:       logger.With("adapter", "explainer", "provider", "anthropic"),
	}
}

// Explain returns a short explanation of law.
func (a *Anthropic) Explain(ctx context.Context, law domain.LawChange) (string, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(law))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("explain law %s: %w", law.ID, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	text := clean(b.String())
	if text == "" {
		return "", fmt.Errorf("explain law %s: empty response", law.ID)
	}

	a.log.DebugContext(ctx, "law explained", slog.String("law_id", law.ID.String()), slog.Int("chars", len(text)))
	return text, nil
}
