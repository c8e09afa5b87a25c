package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string `json:"role"`
				Content []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, anthropicMaxTokens, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		require.Len(t, req.Messages[0].Content, 1)
		assert.Equal(t, "classify this", req.Messages[0].Content[0].Text)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"test-model","content":[{"type":"text","text":"[{\"lane\":\"reply\"}]"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer server.Close()

	svc := NewAnthropicService(server.URL, "key-1", "test-model", server.Client())
	out, err := svc.Complete(context.Background(), "classify this")
	require.NoError(t, err)
	assert.Equal(t, `[{"lane":"reply"}]`, out)
}

func TestAnthropicNon2xx(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(529)
		w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer server.Close()

	svc := NewAnthropicService(server.URL, "k", "", server.Client())
	_, err := svc.Complete(context.Background(), "x")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 529, apiErr.StatusCode)
	assert.Equal(t, ProviderAnthropic, apiErr.Provider)
	assert.Contains(t, apiErr.Body, "overloaded_error")
	assert.Equal(t, 1, calls, "failed calls are not retried")
}

func TestOllamaComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mistral", body["model"])
		assert.Equal(t, false, body["stream"])
		w.Write([]byte(`{"response":"[]","done":true}`))
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "mistral", server.Client())
	out, err := svc.Complete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestNewCompleter(t *testing.T) {
	_, err := NewCompleter(Config{Provider: ProviderAnthropic})
	assert.Error(t, err)

	_, err = NewCompleter(Config{Provider: ProviderGemini})
	assert.Error(t, err)

	c, err := NewCompleter(Config{Provider: ProviderOllama})
	require.NoError(t, err)
	assert.IsType(t, &OllamaService{}, c)

	_, err = NewCompleter(Config{Provider: "openai"})
	assert.Error(t, err)
}

func TestUnavailableCompleter(t *testing.T) {
	cause := errors.New("ANTHROPIC_API_KEY is required")
	_, err := NewUnavailableCompleter(cause).Complete(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}
