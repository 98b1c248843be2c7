package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/linkeval/internal/score"
)

var (
	metricsPred []string
	metricsGold []string
)

// metricsCmd represents the metrics command
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Score a single prediction against gold titles",
	Long: `Metrics compares predicted titles with gold titles using the same
normalisation and scoring as evaluate. Without flags it scores a built-in
example so the calculation can be checked by hand.

Example:
  linkeval metrics
  linkeval metrics --pred Amsterdam,New_York --gold Amsterdam,Antwerpen`,
	Args: cobra.NoArgs,
	RunE: runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().StringSliceVar(&metricsPred, "pred", nil, "predicted titles (comma separated)")
	metricsCmd.Flags().StringSliceVar(&metricsGold, "gold", nil, "gold titles (comma separated)")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	pred, gold := metricsPred, metricsGold
	if !cmd.Flags().Changed("pred") && !cmd.Flags().Changed("gold") {
		pred = []string{"Amsterdam", "Rotterdam", "New_York"}
		gold = []string{"Amsterdam", "Rotterdam", "Antwerpen"}
	}

	m := score.Calculate(pred, gold)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Predicted: %v\n", pred)
	fmt.Fprintf(out, "Gold:      %v\n", gold)
	fmt.Fprintf(out, "TP: %d  FP: %d  FN: %d\n", m.TP, m.FP, m.FN)
	fmt.Fprintf(out, "Precision: %.3f\n", m.Precision)
	fmt.Fprintf(out, "Recall:    %.3f\n", m.Recall)
	fmt.Fprintf(out, "F1:        %.3f\n", m.F1)
	return nil
}
