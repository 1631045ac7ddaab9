package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/storybook/internal/pipeline"
	"github.com/ppiankov/storybook/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	listFile     string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <glob...>",
	Short: "Parse many story files in parallel",
	Long: `Batch parses many story files concurrently:
- Expand glob patterns (** is supported) or read paths from a list file
- Parse files in parallel with a configurable worker count
- Write a JSON and Markdown report per input file

Example:
  storybook batch 'books/**/*.txt'
  storybook batch a.txt b.txt --concurrency 8 --output-dir ./reports
  storybook batch --list inputs.txt --strict`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: parse.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./storybook-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&listFile, "list", "", "file listing input paths or patterns, one per line")
	batchCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any file reports errors")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && listFile == "" {
		return fmt.Errorf("no inputs: pass glob patterns or --list")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg := commandConfig(cmd)
	workers := concurrency
	if workers <= 0 {
		workers = cfg.Parse.Workers
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Storybook Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	if listFile != "" {
		fmt.Fprintf(os.Stderr, "  Input list:   %s\n", listFile)
	}
	for _, pattern := range args {
		fmt.Fprintf(os.Stderr, "  Input:        %s\n", pattern)
	}
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, workers)

	patterns := args
	if listFile != "" {
		listed, err := worker.ReadInputList(listFile)
		if err != nil {
			return fmt.Errorf("read input list: %w", err)
		}
		patterns = append(append([]string{}, patterns...), listed...)
	}

	results, err := processor.ProcessPatterns(ctx, patterns)
	if err != nil {
		return fmt.Errorf("expand inputs: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Parsing %d files with %d workers...\n\n", len(results), workers)

	var (
		successCount int
		failureCount int
		invalidCount int
	)
	renderer := p.Renderer()

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		jsonPath, mdPath := pipeline.OutputPaths(result.Path, outputDir)
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		successCount++
		if result.Report.Summary.Errors > 0 {
			invalidCount++
		}
		renderer.RenderSummary(os.Stderr, result.Report)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:        %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "  Parsed:       %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  With errors:  %d\n", invalidCount)
	fmt.Fprintf(os.Stderr, "  Failures:     %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d files failed", failureCount, len(results))
	}
	if strict && invalidCount > 0 {
		return fmt.Errorf("%d files: %w", invalidCount, errStrict)
	}
	return nil
}
