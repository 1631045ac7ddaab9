package model

import "time"

// Config is the complete Storybook configuration
type Config struct {
	Parse  ParseConfig  `yaml:"parse" mapstructure:"parse"`
	LLM    LLMConfig    `yaml:"llm" mapstructure:"llm"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ParseConfig controls batch parsing
type ParseConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // Concurrent files in batch mode
}

// LLMConfig configures the content generator
type LLMConfig struct {
	Provider          string        `yaml:"provider" mapstructure:"provider"` // openrouter, openai, deepseek, ollama
	Model             string        `yaml:"model" mapstructure:"model"`
	APIKey            string        `yaml:"-" mapstructure:"api_key"` // Read from the environment, never written to disk
	BaseURL           string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout           int           `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens         int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature       float32       `yaml:"temperature" mapstructure:"temperature"`
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
	SiteURL           string        `yaml:"site_url" mapstructure:"site_url"`   // OpenRouter HTTP-Referer
	SiteName          string        `yaml:"site_name" mapstructure:"site_name"` // OpenRouter X-Title
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig configures the generation cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig configures the document store
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // SQLite database file
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// WatchConfig configures file watching
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Parse: ParseConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Provider:          "openrouter",
			Model:             "deepseek/deepseek-r1-0528-qwen3-8b:free",
			Timeout:           60,
			MaxTokens:         1000,
			Temperature:       0.7,
			MaxRetries:        3,
			RetryDelay:        2 * time.Second,
			SiteURL:           "http://localhost:3000",
			SiteName:          "Storybook Generator",
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskDir:   defaultDir("cache"),
			DiskTTL:   7 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Path: defaultDir("documents.db"),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
			MaxBodyBytes: 32 << 20,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
