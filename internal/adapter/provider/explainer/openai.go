package explainer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/heartmarshall/legalpulse/internal/config"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

// OpenAI explains law changes with a chat completion.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	log       *slog.Logger
}

// NewOpenAI creates an OpenAI explainer.
func NewOpenAI(cfg config.ExplainConfig, logger *slog.Logger) *OpenAI {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client:    openai.NewClientWithConfig(oc),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		log:       logger.With("adapter", "explainer", "provider", "openai"),
	}
}

// Explain returns a short explanation of law.
func (o *OpenAI) Explain(ctx context.Context, law domain.LawChange) (string, error) {
	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               o.model,
		MaxCompletionTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(law)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("explain law %s: %w", law.ID, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("explain law %s: no choices", law.ID)
	}

	text := clean(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("explain law %s: empty response", law.ID)
	}

	o.log.DebugContext(ctx, "law explained", slog.String("law_id", law.ID.String()), slog.Int("chars", len(text)))
	return text, nil
}
