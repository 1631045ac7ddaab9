package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/storybook/internal/logging"
	"github.com/ppiankov/storybook/internal/model"
)

// Version is set at build time with -ldflags "-X github.com/ppiankov/storybook/internal/cli.Version=..."
var Version = "dev"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storybook",
	Short: "Storybook - parse and validate bilingual language-learning stories",
	Long: `Storybook reads the plain-text format used to author bilingual
language-learning story books and turns it into structured stories.

Each story carries a title in two languages, ten vocabulary words,
the story text in both languages, multiple-choice comprehension
questions with an answer key, and an optional illustration prompt.

Problems are reported per story with line numbers. A broken story
never hides its siblings.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		logging.Init(cfg.Log)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "storybook %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.storybook/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, model.HomeDirName))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// STORYBOOK_LLM_MODEL overrides llm.model
	viper.SetEnvPrefix("STORYBOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env vars and Unmarshal see them
func setDefaults(cfg *model.Config) {
	defaults := map[string]any{
		"parse.workers": cfg.Parse.Workers,

		"llm.provider":            cfg.LLM.Provider,
		"llm.model":               cfg.LLM.Model,
		"llm.api_key":             cfg.LLM.APIKey,
		"llm.base_url":            cfg.LLM.BaseURL,
		"llm.timeout":             cfg.LLM.Timeout,
		"llm.max_tokens":          cfg.LLM.MaxTokens,
		"llm.temperature":         cfg.LLM.Temperature,
		"llm.max_retries":         cfg.LLM.MaxRetries,
		"llm.retry_delay":         cfg.LLM.RetryDelay,
		"llm.site_url":            cfg.LLM.SiteURL,
		"llm.site_name":           cfg.LLM.SiteName,
		"llm.requests_per_second": cfg.LLM.RequestsPerSecond,
		"llm.burst":               cfg.LLM.Burst,
		"llm.http_proxy":          cfg.LLM.HTTPProxy,
		"llm.https_proxy":         cfg.LLM.HTTPSProxy,

		"cache.enabled":    cfg.Cache.Enabled,
		"cache.memory_ttl": cfg.Cache.MemoryTTL,
		"cache.disk_dir":   cfg.Cache.DiskDir,
		"cache.disk_ttl":   cfg.Cache.DiskTTL,

		"store.path": cfg.Store.Path,

		"server.addr":           cfg.Server.Addr,
		"server.read_timeout":   cfg.Server.ReadTimeout,
		"server.write_timeout":  cfg.Server.WriteTimeout,
		"server.max_body_bytes": cfg.Server.MaxBodyBytes,

		"watch.debounce": cfg.Watch.Debounce,

		"output.verbose":        cfg.Output.Verbose,
		"output.include_footer": cfg.Output.IncludeFooter,

		"log.level":  cfg.Log.Level,
		"log.format": cfg.Log.Format,
	}
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
}

// loadConfig returns the effective configuration: defaults < file < env < flags.
// Command-specific flags are applied by each command afterwards.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration, using defaults: %v\n", err)
		return model.DefaultConfig()
	}
	// Empty persistent flags must not blank out configured values
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	return cfg
}
