package llm

import (
	"testing"

	"github.com/ppiankov/storybook/internal/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		config   Config
		wantName string
		wantErr  bool
	}{
		{Config{Provider: "openrouter", APIKey: "k"}, "openrouter", false},
		{Config{Provider: "OpenAI", APIKey: "k"}, "openai", false},
		{Config{Provider: "deepseek", APIKey: "k"}, "deepseek", false},
		{Config{Provider: "claude", APIKey: "k", Model: "m"}, "anthropic", false},
		{Config{Provider: "ollama", Model: "llama3.1"}, "ollama", false},
		{Config{Provider: ""}, "", false},
		{Config{Provider: "openrouter"}, "", true},
		{Config{Provider: "bard"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.config.Provider, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantName == "" {
				if p != nil {
					t.Errorf("Expected nil provider, got %s", p.Name())
				}
				return
			}
			if p.Name() != tt.wantName {
				t.Errorf("Expected %s, got %s", tt.wantName, p.Name())
			}
		})
	}
}

func TestConfigFromModel_KeyFromEnvironment(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-key")

	mc := model.DefaultConfig().LLM
	config := ConfigFromModel(mc)
	if config.APIKey != "env-key" {
		t.Errorf("Expected key from environment, got %q", config.APIKey)
	}
	if config.Model != mc.Model || config.SiteName != "Storybook Generator" {
		t.Errorf("Unexpected config %+v", config)
	}

	mc.APIKey = "explicit"
	if got := ConfigFromModel(mc).APIKey; got != "explicit" {
		t.Errorf("Expected explicit key to win, got %q", got)
	}
}

func TestNewProxyFunc(t *testing.T) {
	fn := newProxyFunc("http://proxy:8080", "", "localhost")
	if fn == nil {
		t.Fatal("Expected proxy func")
	}
}
