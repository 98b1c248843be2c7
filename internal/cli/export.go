package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/linkeval/internal/pipeline"
	"github.com/ppiankov/linkeval/internal/score"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <report.json> <out.csv>",
	Short: "Export an evaluation report as CSV",
	Long: `Export writes one CSV row per evaluated sentence with its gold and predicted
titles, confusion counts, scores and a Perfect_Match column, then prints
the perfect / partial / zero match breakdown.

Example:
  linkeval export evaluation_results.json evaluation_results.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	report, err := pipeline.LoadReport(args[0])
	if err != nil {
		return err
	}

	if err := pipeline.NewRenderer().RenderCSV(report, args[1]); err != nil {
		return fmt.Errorf("export CSV: %w", err)
	}

	b := score.Summarize(report)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Wrote CSV: %s\n\n", args[1])
	fmt.Fprintf(out, "Total sentences:  %d\n", b.Total)
	fmt.Fprintf(out, "Perfect matches:  %d (%.1f%%)\n", b.Perfect, b.Percent(b.Perfect))
	fmt.Fprintf(out, "Partial matches:  %d (%.1f%%)\n", b.Partial, b.Percent(b.Partial))
	fmt.Fprintf(out, "Zero matches:     %d (%.1f%%)\n", b.Zero, b.Percent(b.Zero))
	return nil
}
