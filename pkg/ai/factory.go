package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"triage-backend/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "anthropic", "gemini" or "ollama"

	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"

	Timeout time.Duration
}

// NewCompleter creates a Completer based on the config.
// Switch AI provider by changing config.Provider.
func NewCompleter(cfg Config) (Completer, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case ProviderAnthropic, "":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for Anthropic provider")
		}
		return NewAnthropicService(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel, client), nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return gemini.NewGeminiService(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, client), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, client), nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

type unavailableCompleter struct {
	err error
}

// NewUnavailableCompleter returns a Completer that always fails with err.
// Callers fall back the same way they do on any inference failure.
func NewUnavailableCompleter(err error) Completer {
	return &unavailableCompleter{err: err}
}

func (u *unavailableCompleter) Complete(context.Context, string) (string, error) {
	return "", fmt.Errorf("AI provider unavailable: %w", u.err)
}
