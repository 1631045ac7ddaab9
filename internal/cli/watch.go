package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/storybook/internal/pipeline"
	"github.com/ppiankov/storybook/internal/watch"
)

var watchDebounce time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-parse a story file whenever it changes",
	Long: `Watch parses a story file once, then again after every save.
Bursts of writes within the debounce window trigger a single parse.

Example:
  storybook watch stories.txt
  storybook watch stories.txt --md preview.md --debounce 1s`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path, rewritten on every change")
	watchCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path, rewritten on every change")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "debounce window (default: watch.debounce)")
	watchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg := commandConfig(cmd)
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}
	p := pipeline.NewPipeline(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := func(ctx context.Context, path string) {
		report, err := p.ParseFile(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", path, err)
			return
		}
		if err := p.RenderReport(report, outJSON, outMD, cfg.Output.Verbose); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", path, err)
		}
	}

	w, err := watch.New(cfg.Watch.Debounce, handler)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(input); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}

	handler(ctx, input)
	fmt.Fprintf(os.Stderr, "\nWatching %s (debounce %v). Press Ctrl+C to stop.\n\n", input, cfg.Watch.Debounce)

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
