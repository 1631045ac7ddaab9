package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ppiankov/storybook/internal/cache"
	"github.com/ppiankov/storybook/internal/model"
)

var (
	ErrMissingFields = errors.New("Missing required fields")
	ErrInvalidType   = errors.New("Invalid generation type")
)

// GenerateRequest asks for one book section. Its JSON form is the body of
// POST /api/generate.
type GenerateRequest struct {
	Type     string              `json:"type"`
	Stories  []model.Story       `json:"stories"`
	Metadata *model.BookMetadata `json:"metadata"`
}

// Validate checks required fields and returns the parsed generation type
func (r GenerateRequest) Validate() (model.GenerationType, error) {
	if r.Type == "" || r.Stories == nil || r.Metadata == nil {
		return "", ErrMissingFields
	}
	genType, err := model.ParseGenerationType(r.Type)
	if err != nil {
		return "", ErrInvalidType
	}
	return genType, nil
}

// RateLimiter throttles calls per key
type RateLimiter interface {
	Wait(ctx context.Context, key string) error
}

// Generator writes book sections with an LLM provider, retrying rate-limited
// and failed calls and caching results
type Generator struct {
	provider   Provider
	cache      cache.Cache
	limiter    RateLimiter
	config     Config
	maxRetries int
	retryDelay time.Duration
	cacheTTL   time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	log        *slog.Logger
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithCache stores results in c for ttl (0 uses the cache default)
func WithCache(c cache.Cache, ttl time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.cache = c
		g.cacheTTL = ttl
	}
}

// WithLimiter throttles provider calls
func WithLimiter(l RateLimiter) GeneratorOption {
	return func(g *Generator) { g.limiter = l }
}

// WithRetry sets the attempt count and the delay between attempts
func WithRetry(maxRetries int, delay time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.maxRetries = maxRetries
		g.retryDelay = delay
	}
}

// NewGenerator creates a generator. An empty provider name yields a disabled
// generator whose Generate returns ErrDisabled.
func NewGenerator(config Config, opts ...GeneratorOption) (*Generator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return NewGeneratorWithProvider(provider, config, opts...), nil
}

// NewGeneratorWithProvider wraps an existing provider
func NewGeneratorWithProvider(provider Provider, config Config, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider:   provider,
		cache:      cache.NopCache{},
		config:     config,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
		sleep:      sleepContext,
		log:        slog.Default().With("component", "generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxRetries < 1 {
		g.maxRetries = 1
	}
	return g
}

// IsEnabled reports whether a provider is configured
func (g *Generator) IsEnabled() bool {
	return g.provider != nil
}

// ProviderName returns the configured provider name or "none"
func (g *Generator) ProviderName() string {
	if g.provider == nil {
		return "none"
	}
	return g.provider.Name()
}

// Generate writes one section for the given stories
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*model.GeneratedSection, error) {
	genType, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if g.provider == nil {
		return nil, ErrDisabled
	}

	titles := make([]string, len(req.Stories))
	for i, s := range req.Stories {
		titles[i] = s.TitleOriginal
	}
	meta := *req.Metadata

	key := cache.GenerationKey(genType, meta, titles)
	if data, ok := g.cache.Get(key); ok {
		g.log.Debug("cache hit", "type", genType)
		return &model.GeneratedSection{
			Type:     genType,
			Content:  string(data),
			Provider: g.provider.Name(),
			Model:    g.config.Model,
			Cached:   true,
		}, nil
	}

	prompt, err := BuildPrompt(genType, meta, titles)
	if err != nil {
		return nil, err
	}

	resp, err := g.completeWithRetry(ctx, CompletionRequest{
		Prompt:      prompt,
		Model:       g.config.Model,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(resp.Content)
	if genType == model.GenerateDescription {
		content = SanitizeHTML(content)
	}
	if content == "" {
		return nil, ErrNoContent
	}

	if err := g.cache.Set(key, []byte(content), g.cacheTTL); err != nil {
		g.log.Warn("cache write failed", "error", err)
	}

	modelName := resp.Model
	if modelName == "" {
		modelName = g.config.Model
	}
	return &model.GeneratedSection{
		Type:     genType,
		Content:  content,
		Provider: g.provider.Name(),
		Model:    modelName,
	}, nil
}

// completeWithRetry retries rate-limited and transport failures. Any other
// API error is returned at once.
func (g *Generator) completeWithRetry(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx, g.provider.Name()); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		resp, err := g.provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(ctx, err) {
			return nil, err
		}
		if attempt < g.maxRetries {
			g.log.Info("generation failed, retrying",
				"attempt", attempt, "max", g.maxRetries, "delay", g.retryDelay, "error", err)
			if err := g.sleep(ctx, g.retryDelay); err != nil {
				return nil, err
			}
		}
	}

	var apiErr *APIError
	if errors.As(lastErr, &apiErr) && apiErr.IsRateLimit() {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	}
	return nil, lastErr
}

// isRetryable accepts 429 answers and transport failures
func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, ErrNoContent) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRateLimit()
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
