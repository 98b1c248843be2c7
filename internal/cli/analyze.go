package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/linkeval/internal/pipeline"
	"github.com/ppiankov/linkeval/internal/score"
)

var (
	analyzeLimit int
	analyzeJSON  bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <report.json>",
	Short: "Categorise the errors of an evaluation report",
	Long: `Analyze reads a JSON report and sorts every unmatched label into:
- disambiguation errors: the prediction overlaps a gold title but names another variant
- complete misses: a gold title that was never predicted
- hallucinations: a prediction unrelated to any gold title

Example:
  linkeval analyze evaluation_results.json
  linkeval analyze evaluation_results.json --limit 25 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 10, "maximum examples per category (0 = all)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the categories as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	report, err := pipeline.LoadReport(args[0])
	if err != nil {
		return err
	}

	categories := score.Categorize(report, analyzeLimit)
	out := cmd.OutOrStdout()

	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(categories)
	}

	o := report.Overall
	fmt.Fprintf(out, "Precision: %.3f  Recall: %.3f  F1: %.3f  (TP %d, FP %d, FN %d)\n",
		o.Precision, o.Recall, o.F1, o.TotalTP, o.TotalFP, o.TotalFN)

	printCategories(out, categories)
	return nil
}

func printCategories(out io.Writer, c score.Categories) {
	section(out, "Disambiguation errors", len(c.Disambiguation))
	for _, e := range c.Disambiguation {
		fmt.Fprintf(out, "  %s\n    predicted %q, closest gold %q\n", e.Sentence, e.Predicted, e.ClosestTrue)
	}

	section(out, "Complete misses", len(c.CompleteMiss))
	for _, e := range c.CompleteMiss {
		fmt.Fprintf(out, "  %s\n    missed %q, predicted [%s]\n", e.Sentence, e.Missed, strings.Join(e.Predicted, ", "))
	}

	section(out, "Hallucinations", len(c.Hallucination))
	for _, e := range c.Hallucination {
		fmt.Fprintf(out, "  %s\n    predicted %q, gold [%s]\n", e.Sentence, e.Predicted, strings.Join(e.Gold, ", "))
	}
}

func section(out io.Writer, title string, n int) {
	fmt.Fprintf(out, "\n%s (%d shown)\n%s\n", title, n, strings.Repeat("-", len(title)))
	if n == 0 {
		fmt.Fprintln(out, "  none")
	}
}
