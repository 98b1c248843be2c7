package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/linkeval/internal/corpus"
	"github.com/ppiankov/linkeval/internal/model"
	"github.com/ppiankov/linkeval/internal/pipeline"
	"github.com/ppiankov/linkeval/internal/sample"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [corpus]",
	Short: "Evaluate LLM entity linking on a sample of the corpus",
	Long: `Evaluate loads the tagged corpus, draws a reproducible sample of sentences
that carry gold entity links, asks the configured model for the Wikipedia
titles in each sentence and scores the answers.

Predictor failures are logged and scored as empty predictions; they never
abort the run. Interrupting the run (Ctrl-C or --timeout) still writes the
partial report.

Example:
  linkeval evaluate dev_nl.tsv
  linkeval evaluate dev_nl.tsv --sample-size 50 --seed 7 --csv results.csv
  linkeval evaluate --provider openai --model gpt-4o-mini --md report.md
  linkeval evaluate dev_nl.tsv --check`,
	Args: cobra.MaximumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, evaluateBindings)
	},
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	defaults := model.DefaultConfig()
	flags := evaluateCmd.Flags()

	// Corpus and sampling flags
	flags.Int("max-sentences", defaults.Corpus.MaxSentences, "maximum sentences to load from the corpus (0 = all)")
	flags.String("boundary", string(defaults.Corpus.BoundaryPolicy), "sentence cap policy: exclusive (count < max) or inclusive (count <= max)")
	flags.Int("sample-size", defaults.Sampling.Size, "number of sentences to sample")
	flags.Uint64("seed", defaults.Sampling.Seed, "sampling seed")
	flags.Int("max-samples", defaults.Sampling.MaxSamples, "evaluate only the first N sampled sentences (0 = all)")

	// LLM flags
	flags.String("provider", defaults.LLM.Provider, "LLM provider (azure, openai, anthropic, ollama)")
	flags.String("model", defaults.LLM.Model, "model name (Azure: deployment name)")
	flags.Duration("timeout", defaults.LLM.RunTimeout, "overall evaluation timeout")
	flags.Bool("no-cache", false, "disable the prediction cache")
	flags.Bool("check", false, "verify the provider is reachable before evaluating")

	// Output flags
	flags.String("json", defaults.Output.JSONPath, "output JSON path")
	flags.String("csv", "", "output CSV path (optional)")
	flags.String("md", "", "output Markdown path (optional)")
}

// evaluateBindings maps viper keys to evaluate flags
var evaluateBindings = map[string]string{
	"corpus.max_sentences":   "max-sentences",
	"corpus.boundary_policy": "boundary",
	"sampling.size":          "sample-size",
	"sampling.seed":          "seed",
	"sampling.max_samples":   "max-samples",
	"llm.provider":           "provider",
	"llm.model":              "model",
	"llm.run_timeout":        "timeout",
	"output.json":            "json",
	"output.csv":             "csv",
	"output.markdown":        "md",
}

// bindFlags binds command flags to viper keys
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

// resolveConfig loads the configuration and applies the corpus argument
func resolveConfig(args []string) (*model.Config, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Corpus.Path = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadSample reads the corpus and draws the configured sample
func loadSample(cfg *model.Config) (all, drawn []model.Sentence, err error) {
	all, err = corpus.NewLoader(cfg.Corpus).LoadFile(cfg.Corpus.Path)
	if err != nil {
		return nil, nil, err
	}
	drawn = sample.NewSampler(cfg.Sampling.Size, cfg.Sampling.Seed).Sample(all)
	return all, drawn, nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	// Credentials are checked once, before anything is loaded
	applyProviderEnv(&cfg.LLM, os.Getenv)
	if err := checkProviderConfig(cfg.LLM); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	all, drawn, err := loadSample(cfg)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	logger.Info("corpus loaded",
		zap.String("path", cfg.Corpus.Path),
		zap.Int("sentences", len(all)),
		zap.Int("sampled", len(drawn)),
		zap.Uint64("seed", cfg.Sampling.Seed))

	predictor, err := pipeline.NewPredictor(cfg, logger)
	if err != nil {
		return err
	}

	if check, _ := cmd.Flags().GetBool("check"); check {
		checkTimeout := time.Duration(cfg.LLM.Timeout) * time.Second
		if checkTimeout <= 0 {
			checkTimeout = 30 * time.Second
		}
		checkCtx, cancelCheck := context.WithTimeout(context.Background(), checkTimeout)
		err := predictor.Check(checkCtx)
		cancelCheck()
		if err != nil {
			return fmt.Errorf("provider check: %w", err)
		}
		logger.Info("provider reachable", zap.String("provider", cfg.LLM.Provider))
	}

	timeout := cfg.LLM.RunTimeout
	if timeout <= 0 {
		timeout = model.DefaultConfig().LLM.RunTimeout
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	p := pipeline.NewPipeline(predictor, cfg, logger)
	report, runErr := p.Evaluate(ctx, drawn)
	if report == nil {
		return fmt.Errorf("evaluation failed: %w", runErr)
	}

	if err := p.RenderReport(report); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nEvaluated %d sentences in %s\n\n", len(report.Results), time.Since(started).Round(time.Second))
	if err := pipeline.NewRenderer().RenderSummary(out, report); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("evaluation incomplete (partial report written): %w", runErr)
	}
	return nil
}
