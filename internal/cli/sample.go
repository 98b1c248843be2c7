package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/linkeval/internal/model"
)

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample [corpus]",
	Short: "Preview the corpus load and the drawn sample",
	Long: `Sample loads the corpus with the configured sentence cap, draws the
configured sample and prints the first sentences with their gold labels.
No model is called.

Example:
  linkeval sample dev_nl.tsv
  linkeval sample dev_nl.tsv --boundary inclusive --show 10`,
	Args: cobra.MaximumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, sampleBindings)
	},
	RunE: runSample,
}

// sampleBindings maps viper keys to sample flags
var sampleBindings = map[string]string{
	"corpus.max_sentences":   "max-sentences",
	"corpus.boundary_policy": "boundary",
	"sampling.size":          "sample-size",
	"sampling.seed":          "seed",
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	defaults := model.DefaultConfig()
	flags := sampleCmd.Flags()
	flags.Int("max-sentences", defaults.Corpus.MaxSentences, "maximum sentences to load from the corpus (0 = all)")
	flags.String("boundary", string(defaults.Corpus.BoundaryPolicy), "sentence cap policy: exclusive or inclusive")
	flags.Int("sample-size", defaults.Sampling.Size, "number of sentences to sample")
	flags.Uint64("seed", defaults.Sampling.Seed, "sampling seed")
	flags.Int("show", 5, "number of sampled sentences to print")
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}

	all, drawn, err := loadSample(cfg)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	show, _ := cmd.Flags().GetInt("show")
	printSample(cmd, all, drawn, show)
	return nil
}

func printSample(cmd *cobra.Command, all, drawn []model.Sentence, show int) {
	out := cmd.OutOrStdout()

	labels := 0
	for _, s := range all {
		labels += len(s.Entities)
	}

	fmt.Fprintf(out, "Total sentences loaded: %d\n", len(all))
	fmt.Fprintf(out, "Total gold labels:      %d\n", labels)
	fmt.Fprintf(out, "Sample size:            %d\n", len(drawn))

	if show > len(drawn) {
		show = len(drawn)
	}
	for i := 0; i < show; i++ {
		fmt.Fprintf(out, "\nSample %d:\n", i+1)
		fmt.Fprintf(out, "  Sentence: %s\n", drawn[i].Text)
		fmt.Fprintf(out, "  Entities: %s\n", strings.Join(drawn[i].Entities, ", "))
	}
}
