package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 1024

// AnthropicService implements Completer using the Anthropic Messages API
type AnthropicService struct {
	client anthropic.Client
	model  string
}

// NewAnthropicService creates a new Anthropic service
func NewAnthropicService(baseURL, apiKey, model string, client *http.Client) *AnthropicService {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if model == "" {
		model = "claude-haiku-4-5-20251001"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &AnthropicService{
		client: anthropic.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"),
			option.WithHTTPClient(client),
			// classification never retries; the caller falls back instead
			option.WithMaxRetries(0),
		),
		model: model,
	}
}

// Complete implements Completer
func (a *AnthropicService) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &APIError{Provider: ProviderAnthropic, StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON()}
		}
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic response has no text content")
}
