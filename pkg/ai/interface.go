package ai

import (
	"context"
	"fmt"
)

// Completer sends a single prompt to a chat-style model and returns its text reply.
// Implement this interface to add new AI providers (Anthropic, Gemini, Ollama, etc.)
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderGemini    ProviderType = "gemini"
	ProviderOllama    ProviderType = "ollama"
)

// APIError is a non-2xx response from an inference endpoint.
type APIError struct {
	Provider   ProviderType
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Body)
}
