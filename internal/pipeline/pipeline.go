package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/storybook/internal/cache"
	"github.com/ppiankov/storybook/internal/llm"
	"github.com/ppiankov/storybook/internal/logging"
	"github.com/ppiankov/storybook/internal/model"
	"github.com/ppiankov/storybook/internal/parse"
	"github.com/ppiankov/storybook/internal/render"
	"github.com/ppiankov/storybook/internal/validate"
	"github.com/ppiankov/storybook/internal/worker"
)

// Pipeline is the single orchestration point shared by the CLI and the server:
// decode, parse, validate, optionally generate, render.
type Pipeline struct {
	parser    *parse.Parser
	validator *validate.Validator
	generator *llm.Generator // Disabled generator when no provider is configured
	genErr    error          // Why the configured provider could not be built
	renderer  *render.Renderer
	config    *model.Config
	log       *slog.Logger
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	llmConfig := llm.ConfigFromModel(cfg.LLM)
	opts := []llm.GeneratorOption{
		llm.WithCache(cache.New(cfg.Cache), cfg.Cache.MemoryTTL),
		llm.WithLimiter(worker.NewLimiter(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)),
		llm.WithRetry(cfg.LLM.MaxRetries, cfg.LLM.RetryDelay),
	}

	generator, err := llm.NewGenerator(llmConfig, opts...)
	if err != nil {
		generator = llm.NewGeneratorWithProvider(nil, llmConfig)
	}

	p := NewPipelineWithGenerator(cfg, generator)
	if err != nil {
		// Reported only when generation is requested
		p.genErr = err
		p.log.Debug("LLM provider unavailable", "provider", cfg.LLM.Provider, "error", err)
	}
	return p
}

// NewPipelineWithGenerator wires an existing generator
func NewPipelineWithGenerator(cfg *model.Config, generator *llm.Generator) *Pipeline {
	if generator == nil {
		generator = llm.NewGeneratorWithProvider(nil, llm.ConfigFromModel(cfg.LLM))
	}
	return &Pipeline{
		parser:    parse.NewParser(),
		validator: validate.NewValidator(),
		generator: generator,
		renderer:  render.NewRenderer(cfg.Output.IncludeFooter),
		config:    cfg,
		log:       logging.ForComponent("pipeline"),
	}
}

// Generator exposes the configured generator
func (p *Pipeline) Generator() *llm.Generator {
	return p.generator
}

// GeneratorErr returns why the configured provider is unavailable, or nil
func (p *Pipeline) GeneratorErr() error {
	return p.genErr
}

// Renderer exposes the report renderer
func (p *Pipeline) Renderer() *render.Renderer {
	return p.renderer
}

// Process parses and validates text. Parse errors come first, followed by
// validator diagnostics for the stories that parsed.
func (p *Pipeline) Process(source, input string) *model.Report {
	result := p.parser.Parse(input)
	result.Errors = append(result.Errors, p.validator.Validate(result.Stories)...)

	p.log.Debug("parsed input",
		"source", source,
		"stories", len(result.Stories),
		"diagnostics", len(result.Errors))

	return model.NewReport(source, result)
}

// ProcessBytes decodes raw bytes and processes them
func (p *Pipeline) ProcessBytes(source string, data []byte) (*model.Report, error) {
	text, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return p.Process(source, text), nil
}

// ParseFile reads and processes one file. "-" reads stdin.
func (p *Pipeline) ParseFile(ctx context.Context, path string) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return p.ProcessBytes(path, data)
}

// Generate writes the requested sections for a report's stories and attaches
// them to report.Book. Sections that fail are reported but do not stop the rest;
// the first failure is returned.
func (p *Pipeline) Generate(ctx context.Context, report *model.Report, meta model.BookMetadata, types []model.GenerationType) error {
	if p.genErr != nil {
		return fmt.Errorf("LLM provider %s: %w", p.config.LLM.Provider, p.genErr)
	}
	if report.Book == nil {
		report.Book = &model.BookInfo{Metadata: meta}
	}

	var firstErr error
	for _, t := range types {
		section, err := p.generator.Generate(ctx, llm.GenerateRequest{
			Type:     string(t),
			Stories:  report.Result.Stories,
			Metadata: &meta,
		})
		if err != nil {
			p.log.Warn("generation failed", "type", t, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("generate %s: %w", t, err)
			}
			continue
		}
		report.Book.Generated = append(report.Book.Generated, *section)
	}

	return firstErr
}

// RenderReport writes the requested outputs and prints a summary to stderr
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose && jsonPath != "-" {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose && mdPath != "-" {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(os.Stderr, report)

	return nil
}

// OutputPaths derives per-input output paths for batch runs.
// "stories/a.txt" with dir "out" gives "out/a.json" and "out/a.md".
func OutputPaths(input, dir string) (jsonPath, mdPath string) {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if dir != "" {
		base = filepath.Join(dir, base)
	}
	return base + ".json", base + ".md"
}
