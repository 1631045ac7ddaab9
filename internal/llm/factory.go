package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/storybook/internal/model"
)

// apiKeyEnv names the environment variable holding each provider's key
var apiKeyEnv = map[string]string{
	"openrouter": "OPENROUTER_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"deepseek":   "DEEPSEEK_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
}

// NewProvider creates a provider based on configuration.
// An empty provider name disables generation and returns nil.
func NewProvider(config Config) (Provider, error) {
	name := strings.ToLower(config.Provider)

	switch name {
	case "openrouter", "openai", "deepseek":
		return NewOpenAIProvider(name, config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openrouter, openai, deepseek, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config. A missing API key
// is filled from the provider's environment variable.
func ConfigFromModel(mc model.LLMConfig) Config {
	config := Config{
		Provider:    mc.Provider,
		Model:       mc.Model,
		APIKey:      mc.APIKey,
		BaseURL:     mc.BaseURL,
		Timeout:     mc.Timeout,
		MaxTokens:   mc.MaxTokens,
		Temperature: mc.Temperature,
		SiteURL:     mc.SiteURL,
		SiteName:    mc.SiteName,
		HTTPProxy:   mc.HTTPProxy,
		HTTPSProxy:  mc.HTTPSProxy,
	}
	if config.APIKey == "" {
		if env, ok := apiKeyEnv[strings.ToLower(mc.Provider)]; ok {
			config.APIKey = os.Getenv(env)
		}
	}
	return config
}
