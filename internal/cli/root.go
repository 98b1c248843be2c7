package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/linkeval/internal/model"
)

// Version is the linkeval release, overridable with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "linkeval",
	Short: "linkeval - Entity linking evaluation for LLMs",
	Long: `linkeval measures how well a large language model links the named
entities of a sentence to Wikipedia titles.

It reads a tab-separated, tag-annotated corpus, draws a reproducible sample
of sentences, asks the configured model for the Wikipedia titles in each one
and scores the answers against the gold labels with micro-averaged
precision, recall and F1.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of linkeval.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "linkeval %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.linkeval/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	setDefaults(viper.GetViper(), model.DefaultConfig())

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and ENV variables
func initConfig() {
	// Azure credentials usually live in a local .env next to the corpus
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.linkeval")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LINKEVAL_*
	configureEnv(viper.GetViper())

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
	}
}

// configureEnv maps nested keys such as llm.model to LINKEVAL_LLM_MODEL
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("LINKEVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every configuration key so that env variables and
// bound flags are picked up by Unmarshal
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("corpus.path", cfg.Corpus.Path)
	v.SetDefault("corpus.max_sentences", cfg.Corpus.MaxSentences)
	v.SetDefault("corpus.boundary_policy", string(cfg.Corpus.BoundaryPolicy))
	v.SetDefault("corpus.excluded_classes", cfg.Corpus.ExcludedClasses)

	v.SetDefault("sampling.size", cfg.Sampling.Size)
	v.SetDefault("sampling.seed", cfg.Sampling.Seed)
	v.SetDefault("sampling.max_samples", cfg.Sampling.MaxSamples)

	v.SetDefault("llm.provider", cfg.LLM.Provider)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.api_key", cfg.LLM.APIKey)
	v.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	v.SetDefault("llm.api_version", cfg.LLM.APIVersion)
	v.SetDefault("llm.timeout", cfg.LLM.Timeout)
	v.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)
	v.SetDefault("llm.temperature", cfg.LLM.Temperature)
	v.SetDefault("llm.system_prompt", cfg.LLM.SystemPrompt)
	v.SetDefault("llm.user_prompt", cfg.LLM.UserPrompt)
	v.SetDefault("llm.run_timeout", cfg.LLM.RunTimeout)
	v.SetDefault("llm.http_proxy", cfg.LLM.HTTPProxy)
	v.SetDefault("llm.https_proxy", cfg.LLM.HTTPSProxy)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	v.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)

	v.SetDefault("output.json", cfg.Output.JSONPath)
	v.SetDefault("output.csv", cfg.Output.CSVPath)
	v.SetDefault("output.markdown", cfg.Output.MarkdownPath)
	v.SetDefault("output.verbose", cfg.Output.Verbose)
}

// loadConfig resolves the effective configuration from v.
// Every key has a registered default, so decoding starts from a zero Config.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the console logger shared by all commands
func newLogger(debug bool) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zcfg.DisableStacktrace = true
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
