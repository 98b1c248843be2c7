package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ppiankov/linkeval/internal/model"
	"github.com/ppiankov/linkeval/internal/score"
)

// summaryErrorLimit caps the unique false positives/negatives shown in summaries
const summaryErrorLimit = 10

// csvHeader is the column layout of the CSV export
var csvHeader = []string{
	"Sentence_ID",
	"Sentence",
	"Ground_Truth_Entities",
	"Predicted_Entities",
	"True_Positives",
	"False_Positives",
	"False_Negatives",
	"Precision",
	"Recall",
	"F1_Score",
	"Perfect_Match",
}

// Renderer writes evaluation reports in the supported formats
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the report as indented UTF-8 JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf, report); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// WriteJSON encodes the report to w without escaping HTML characters
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return nil
}

// LoadReport reads a JSON report written by RenderJSON
func LoadReport(path string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &report, nil
}

// RenderCSV writes one row per evaluated sentence
func (r *Renderer) RenderCSV(report *model.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if err := r.WriteCSV(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes the CSV export to w
func (r *Renderer) WriteCSV(w io.Writer, report *model.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for i, res := range report.Results {
		perfect := "No"
		if res.IsPerfect() {
			perfect = "Yes"
		}
		row := []string{
			strconv.Itoa(i + 1),
			res.Sentence,
			strings.Join(res.Gold, "; "),
			strings.Join(res.Predicted, "; "),
			strconv.Itoa(res.Metrics.TP),
			strconv.Itoa(res.Metrics.FP),
			strconv.Itoa(res.Metrics.FN),
			formatScore(res.Metrics.Precision),
			formatScore(res.Metrics.Recall),
			formatScore(res.Metrics.F1),
			perfect,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var buf bytes.Buffer
	r.WriteMarkdown(&buf, report)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// WriteMarkdown renders the Markdown report into buf
func (r *Renderer) WriteMarkdown(buf *bytes.Buffer, report *model.Report) {
	o := report.Overall

	buf.WriteString("# Entity Linking Evaluation\n\n")
	if run := report.Run; run != nil {
		fmt.Fprintf(buf, "**Run:** `%s`  \n", run.ID)
		if run.Provider != "" {
			fmt.Fprintf(buf, "**Model:** %s %s  \n", run.Provider, run.Model)
		}
		if run.Corpus != "" {
			fmt.Fprintf(buf, "**Corpus:** %s  \n", run.Corpus)
		}
		fmt.Fprintf(buf, "**Evaluated:** %d of %d sampled sentences (seed %d, %d failures)\n\n",
			run.Evaluated, run.SampleSize, run.Seed, run.Failures)
	}

	buf.WriteString("## Overall Metrics\n\n")
	buf.WriteString("| Metric | Value |\n")
	buf.WriteString("|--------|-------|\n")
	fmt.Fprintf(buf, "| Precision | %.3f |\n", o.Precision)
	fmt.Fprintf(buf, "| Recall | %.3f |\n", o.Recall)
	fmt.Fprintf(buf, "| F1 | %.3f |\n", o.F1)
	fmt.Fprintf(buf, "| True positives | %d |\n", o.TotalTP)
	fmt.Fprintf(buf, "| False positives | %d |\n", o.TotalFP)
	fmt.Fprintf(buf, "| False negatives | %d |\n\n", o.TotalFN)

	b := score.Summarize(report)
	buf.WriteString("## Match Breakdown\n\n")
	buf.WriteString("| Outcome | Sentences | Share |\n")
	buf.WriteString("|---------|-----------|-------|\n")
	fmt.Fprintf(buf, "| Perfect (F1 = 1) | %d | %.1f%% |\n", b.Perfect, b.Percent(b.Perfect))
	fmt.Fprintf(buf, "| Partial | %d | %.1f%% |\n", b.Partial, b.Percent(b.Partial))
	fmt.Fprintf(buf, "| Zero (F1 = 0) | %d | %.1f%% |\n\n", b.Zero, b.Percent(b.Zero))

	buf.WriteString("## Error Analysis\n\n")
	writeMarkdownList(buf, "False positives", score.Unique(report.ErrorAnalysis.FalsePositives))
	writeMarkdownList(buf, "False negatives", score.Unique(report.ErrorAnalysis.FalseNegatives))
}

func writeMarkdownList(buf *bytes.Buffer, title string, labels []string) {
	fmt.Fprintf(buf, "### %s (%d unique)\n\n", title, len(labels))
	if len(labels) == 0 {
		buf.WriteString("_None._\n\n")
		return
	}
	for _, l := range limitLabels(labels) {
		fmt.Fprintf(buf, "- %s\n", l)
	}
	if len(labels) > summaryErrorLimit {
		fmt.Fprintf(buf, "- ... and %d more\n", len(labels)-summaryErrorLimit)
	}
	buf.WriteString("\n")
}

// RenderSummary prints the terminal summary tables
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) error {
	o := report.Overall

	fmt.Fprintln(w, "Overall Metrics:")
	metrics := tablewriter.NewWriter(w)
	metrics.Header("Metric", "Value", "Counts")
	_ = metrics.Append("Precision", formatScore(o.Precision), fmt.Sprintf("%d/%d", o.TotalTP, o.TotalTP+o.TotalFP))
	_ = metrics.Append("Recall", formatScore(o.Recall), fmt.Sprintf("%d/%d", o.TotalTP, o.TotalTP+o.TotalFN))
	_ = metrics.Append("F1", formatScore(o.F1), "")
	if err := metrics.Render(); err != nil {
		return fmt.Errorf("render metrics table: %w", err)
	}

	b := score.Summarize(report)
	fmt.Fprintln(w, "\nMatch Breakdown:")
	breakdown := tablewriter.NewWriter(w)
	breakdown.Header("Outcome", "Sentences", "Share")
	_ = breakdown.Append("Perfect", strconv.Itoa(b.Perfect), fmt.Sprintf("%.1f%%", b.Percent(b.Perfect)))
	_ = breakdown.Append("Partial", strconv.Itoa(b.Partial), fmt.Sprintf("%.1f%%", b.Percent(b.Partial)))
	_ = breakdown.Append("Zero", strconv.Itoa(b.Zero), fmt.Sprintf("%.1f%%", b.Percent(b.Zero)))
	_ = breakdown.Append("Total", strconv.Itoa(b.Total), "")
	if err := breakdown.Render(); err != nil {
		return fmt.Errorf("render breakdown table: %w", err)
	}

	fps := score.Unique(report.ErrorAnalysis.FalsePositives)
	fns := score.Unique(report.ErrorAnalysis.FalseNegatives)
	if len(fps) == 0 && len(fns) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\nUnmatched labels (first %d unique):\n", summaryErrorLimit)
	errs := tablewriter.NewWriter(w)
	errs.Header("False positives", "False negatives")
	fps, fns = limitLabels(fps), limitLabels(fns)
	for i := 0; i < len(fps) || i < len(fns); i++ {
		_ = errs.Append(at(fps, i), at(fns, i))
	}
	if err := errs.Render(); err != nil {
		return fmt.Errorf("render error table: %w", err)
	}
	return nil
}

func limitLabels(labels []string) []string {
	if len(labels) > summaryErrorLimit {
		return labels[:summaryErrorLimit]
	}
	return labels
}

func at(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}

func formatScore(v float64) string {
	return strconv.FormatFloat(score.Round(v, 3), 'f', 3, 64)
}
