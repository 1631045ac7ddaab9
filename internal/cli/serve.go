package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/storybook/internal/pipeline"
	"github.com/ppiankov/storybook/internal/server"
	"github.com/ppiankov/storybook/internal/store"
)

var (
	serveAddr string
	noStore   bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes parsing, generation and document storage over HTTP:
  POST   /api/parse            story text in, {stories, errors} out
  POST   /api/generate         {type, stories, metadata} in, {success, content, type} out
  POST   /api/documents        multipart upload (file, metadata, storiesCount)
  GET    /api/documents        list, newest first
  GET    /api/documents/{id}   download
  DELETE /api/documents/{id}   delete
  GET    /metrics              Prometheus metrics

Example:
  storybook serve
  storybook serve --addr :9090 --db ./documents.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().StringVar(&dbPath, "db", "", "document database path (default: store.path)")
	serveCmd.Flags().BoolVar(&noStore, "no-store", false, "disable the document routes")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the generation cache")
	serveCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openrouter, openai, deepseek, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := commandConfig(cmd)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	p := pipeline.NewPipeline(cfg)

	var st store.Store
	if !noStore {
		path := cfg.Store.Path
		if dbPath != "" {
			path = dbPath
		}
		sqlStore, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("open document store: %w", err)
		}
		defer func() { _ = sqlStore.Close() }()
		st = sqlStore
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Storybook API\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Address:      %s\n", cfg.Server.Addr)
	if p.Generator().IsEnabled() {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", p.Generator().ProviderName(), cfg.LLM.Model)
	} else if err := p.GeneratorErr(); err != nil {
		fmt.Fprintf(os.Stderr, "  LLM:          disabled (%v)\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "  LLM:          disabled\n")
	}
	if st != nil {
		fmt.Fprintf(os.Stderr, "  Documents:    enabled\n")
	} else {
		fmt.Fprintf(os.Stderr, "  Documents:    disabled\n")
	}
	fmt.Fprintf(os.Stderr, "\n")

	return server.New(cfg.Server, p, st).ListenAndServe(ctx)
}
