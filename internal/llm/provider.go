package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider completes a single-turn prompt
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one user message and returns the model's reply
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is a single user prompt
type CompletionRequest struct {
	Prompt string

	// Model overrides the configured model when set
	Model string

	MaxTokens   int
	Temperature float32
}

// CompletionResponse is the model's reply
type CompletionResponse struct {
	Content    string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openrouter", "openai", "deepseek", "anthropic", "ollama", ""
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	// Timeout for a single API request
	Timeout int // seconds

	MaxTokens   int
	Temperature float32

	// Attribution headers sent to OpenRouter
	SiteURL  string
	SiteName string

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the generator defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "openrouter",
		Model:       "deepseek/deepseek-r1-0528-qwen3-8b:free",
		Timeout:     60,
		MaxTokens:   1000,
		Temperature: 0.7,
		SiteURL:     "http://localhost:3000",
		SiteName:    "Storybook Generator",
	}
}

var (
	// ErrRateLimited means the provider kept answering 429 after all retries
	ErrRateLimited = errors.New("rate limited")

	// ErrNoContent means the provider answered without any text
	ErrNoContent = errors.New("no content generated")

	// ErrDisabled means no provider is configured
	ErrDisabled = errors.New("content generation is disabled")
)

// APIError is a non-2xx answer from a provider
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// IsRateLimit reports whether the provider rejected the call for rate limiting
func (e *APIError) IsRateLimit() bool {
	return e.StatusCode == 429
}
