package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/storybook/internal/llm"
	"github.com/ppiankov/storybook/internal/model"
	"github.com/ppiankov/storybook/internal/pipeline"
)

var genMarkdown bool

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <type> <file>",
	Short: "Generate a book section from parsed stories",
	Long: `Generate writes one section of the book with the configured LLM:
  introduction   opening section for learners
  howToUse       how to work through the stories
  conclusion     closing section
  description    store-page description (HTML: p, b, i, br, ul, li)

The stories are parsed from <file> first; their titles feed the prompt.
The API key is read from OPENROUTER_API_KEY, OPENAI_API_KEY or
DEEPSEEK_API_KEY depending on the provider.

Example:
  storybook generate introduction stories.txt --title "Cuentos" --author "Ana" --language es
  storybook generate description stories.txt --title "Cuentos" --author "Ana" --language es --markdown`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&genMarkdown, "markdown", false, "convert HTML output to Markdown")
	addBookFlags(generateCmd)
	addLLMFlags(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	genType, err := model.ParseGenerationType(args[0])
	if err != nil {
		return err
	}
	input := args[1]

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg := commandConfig(cmd)
	p := pipeline.NewPipeline(cfg)
	if err := p.GeneratorErr(); err != nil {
		return fmt.Errorf("content generation is not available: %w", err)
	}
	if !p.Generator().IsEnabled() {
		return fmt.Errorf("content generation is not configured: set llm.provider and an API key")
	}

	report, err := p.ParseFile(ctx, input)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if len(report.Result.Stories) == 0 {
		p.Renderer().RenderSummary(os.Stderr, report)
		return fmt.Errorf("%s: no stories to generate from", input)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Generating %s for %d stories with %s...\n",
			genType, len(report.Result.Stories), p.Generator().ProviderName())
	}

	if err := p.Generate(ctx, report, bookMetadata(), []model.GenerationType{genType}); err != nil {
		if errors.Is(err, llm.ErrRateLimited) {
			return fmt.Errorf("%w: try again later", err)
		}
		return err
	}

	section := report.Book.Generated[0]
	content := section.Content
	if genMarkdown {
		content = p.Renderer().HTMLToMarkdown(content)
	}

	fmt.Fprintln(cmd.OutOrStdout(), content)
	fmt.Fprintf(os.Stderr, "✓ Generated %s (%d characters)\n", section.Type, len(section.Content))
	return nil
}
