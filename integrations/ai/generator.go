package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nicdemeagbeve-afk/synapse/core/config"
	domainWebhook "github.com/nicdemeagbeve-afk/synapse/domains/webhook"
)

const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

var (
	ErrMissingAPIKey = errors.New("ai provider api key is not configured")
	ErrEmptyReply    = errors.New("ai provider returned an empty reply")
)

// NewGenerator builds the reply generator selected by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (domainWebhook.ReplyGenerator, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
		}
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL), nil
	case "gemini", "":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
		}
		g, err := NewGeminiGenerator(ctx, GeminiOptions{APIKey: cfg.GeminiAPIKey, Model: cfg.Model})
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func cleanReply(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
