package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"journalgrader/config"
	"journalgrader/internal/logger"
)

// Generator turns one prompt into one text reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var errEmptyReply = errors.New("model returned an empty reply")

// NewGenerator builds the provider selected in cfg, wrapped with the
// configured per-call timeout.
func NewGenerator(ctx context.Context, cfg *config.Config, log *logger.Logger) (Generator, error) {
	var (
		gen   Generator
		model = cfg.Generation.Model
		err   error
	)
	switch cfg.Generation.Provider {
	case config.ProviderOpenAI:
		if model == "" {
			model = defaultOpenAIModel
		}
		gen = NewChatGPT(cfg.Openai.GptApiKey, cfg.Openai.BaseURL, model)
	case config.ProviderGemini:
		if model == "" {
			model = defaultGeminiModel
		}
		gen, err = NewGemini(ctx, cfg.Gemini.ApiKey, model)
	case config.ProviderAnthropic:
		if model == "" {
			model = defaultAnthropicModel
		}
		gen = NewClaude(cfg.Anthropic.ApiKey, model, int64(cfg.Generation.MaxTokens))
	default:
		return nil, fmt.Errorf("unsupported generation provider %q", cfg.Generation.Provider)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Generation client initialized", "provider", cfg.Generation.Provider, "model", model, "timeout_seconds", cfg.Generation.TimeoutSeconds)
	return WithTimeout(gen, time.Duration(cfg.Generation.TimeoutSeconds)*time.Second), nil
}

type timeoutGenerator struct {
	next    Generator
	timeout time.Duration
}

// WithTimeout bounds every Generate call on next by d.
func WithTimeout(next Generator, d time.Duration) Generator {
	if d <= 0 {
		return next
	}
	return &timeoutGenerator{next: next, timeout: d}
}

func (g *timeoutGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.Generate(ctx, prompt)
}

func cleanModelOutput(text string) string {
	return strings.TrimSpace(text)
}
