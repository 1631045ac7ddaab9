package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/storybook/internal/model"
	"github.com/ppiankov/storybook/internal/pipeline"
)

// errStrict marks a run that failed only because --strict found errors
var errStrict = errors.New("input has errors")

var (
	outJSON     string
	outMD       string
	strict      bool
	noFooter    bool
	noCache     bool
	timeout     time.Duration
	llmProvider string
	llmModel    string
	genTypes    []string
	bookTitle   string
	bookAuthor  string
	bookLang    string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Parse and validate a story file",
	Long: `Parse reads a story file and reports:
- Stories found, with titles, vocabulary, text and questions
- Format errors per story, with line numbers
- Validation warnings (numbering, answer keys, duplicates)

Errors are data: a broken story is reported and its siblings still parse.
Use "-" to read from stdin.

Example:
  storybook parse stories.txt
  storybook parse stories.txt --json stories.json --md preview.md
  storybook parse stories.txt --strict
  cat stories.txt | storybook parse - --json -
  storybook parse stories.txt --generate introduction,conclusion --title "Cuentos" --author "Ana" --language es`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	// Output flags
	parseCmd.Flags().StringVar(&outJSON, "json", "", `output JSON path ("-" for stdout)`)
	parseCmd.Flags().StringVar(&outMD, "md", "", `output Markdown path ("-" for stdout)`)
	parseCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any error is reported")
	parseCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")

	// Generation flags
	parseCmd.Flags().StringSliceVar(&genTypes, "generate", nil, "book sections to generate (introduction, howToUse, conclusion, description)")
	addBookFlags(parseCmd)
	addLLMFlags(parseCmd)
}

// addBookFlags registers the book metadata flags used by generation
func addBookFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&bookTitle, "title", "", "book title")
	cmd.Flags().StringVar(&bookAuthor, "author", "", "book author")
	cmd.Flags().StringVar(&bookLang, "language", "", "book language code (e.g. es)")
}

// addLLMFlags registers generation provider flags
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the generation cache")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openrouter, openai, deepseek, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// commandConfig loads the effective config and applies command flags on top
func commandConfig(cmd *cobra.Command) *model.Config {
	cfg := loadConfig()
	if f := cmd.Flags().Lookup("no-footer"); f != nil && f.Changed {
		cfg.Output.IncludeFooter = !noFooter
	}
	if f := cmd.Flags().Lookup("no-cache"); f != nil && f.Changed {
		cfg.Cache.Enabled = !noCache
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	return cfg
}

// bookMetadata collects the metadata flags
func bookMetadata() model.BookMetadata {
	return model.BookMetadata{
		Title:    bookTitle,
		Author:   bookAuthor,
		Language: bookLang,
	}
}

// parseGenerationTypes validates --generate values
func parseGenerationTypes(values []string) ([]model.GenerationType, error) {
	types := make([]model.GenerationType, 0, len(values))
	for _, v := range values {
		t, err := model.ParseGenerationType(v)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	input := args[0]

	types, err := parseGenerationTypes(genTypes)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg := commandConfig(cmd)
	p := pipeline.NewPipeline(cfg)

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Parsing: %s\n\n", input)
	}

	report, err := p.ParseFile(ctx, input)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if len(types) > 0 {
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Generating %d section(s) with %s...\n", len(types), p.Generator().ProviderName())
		}
		if err := p.Generate(ctx, report, bookMetadata(), types); err != nil {
			// Stories and diagnostics are still rendered below
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
	}

	if err := p.RenderReport(report, outJSON, outMD, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return strictCheck(report)
}

// strictCheck turns error diagnostics into a command failure under --strict
func strictCheck(report *model.Report) error {
	if strict && report.Summary.Errors > 0 {
		return fmt.Errorf("%s: %w (%d)", report.Source, errStrict, report.Summary.Errors)
	}
	return nil
}
