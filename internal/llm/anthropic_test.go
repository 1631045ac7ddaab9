package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("Expected anthropic-version header, got %q", r.Header.Get("anthropic-version"))
		}

		_, _ = w.Write([]byte(`{
			"model": "claude-test",
			"content": [{"type": "text", "text": "Hola "}, {"type": "text", "text": "mundo"}],
			"usage": {"input_tokens": 5, "output_tokens": 7}
		}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-test"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Content != "Hola mundo" {
		t.Errorf("Unexpected content %q", resp.Content)
	}
	if resp.TokensUsed != 12 {
		t.Errorf("Expected 12 tokens, got %d", resp.TokensUsed)
	}
}

func TestAnthropicProvider_Complete_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"type":  "error",
			"error": map[string]string{"type": "rate_limit_error", "message": "slow down"},
		})
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-test"})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "hi"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.IsRateLimit() {
		t.Fatalf("Expected rate limit APIError, got %v", err)
	}
	if apiErr.Message != "rate_limit_error - slow down" {
		t.Errorf("Unexpected message %q", apiErr.Message)
	}
}

func TestAnthropicProvider_Complete_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{malformed`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-test"})
	if _, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "hi"}); err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
}

func TestAnthropicProvider_RequiresKeyAndModel(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{Model: "m"}); err == nil {
		t.Error("Expected error without API key")
	}
	if _, err := NewAnthropicProvider(Config{APIKey: "k"}); err == nil {
		t.Error("Expected error without model")
	}
}
