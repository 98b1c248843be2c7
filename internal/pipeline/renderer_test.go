package pipeline

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/linkeval/internal/model"
	"github.com/ppiankov/linkeval/internal/score"
)

func testReport() *model.Report {
	results := []model.Result{
		{
			Sentence:  "Van Amsterdam naar Rotterdam.",
			Gold:      []string{"Amsterdam", "Rotterdam"},
			Predicted: []string{"Amsterdam", "Rotterdam"},
		},
		{
			Sentence:  "Jan woont in Gent & Brugge.",
			Gold:      []string{"Gent", "Brugge"},
			Predicted: []string{"Gent", "Antwerpen"},
		},
		{
			Sentence:  "Het regent in Utrecht.",
			Gold:      []string{"Utrecht_(stad)"},
			Predicted: []string{},
			Error:     "deployment not found",
		},
	}

	var totals score.Totals
	report := &model.Report{}
	for _, r := range results {
		r.Metrics = score.Calculate(r.Predicted, r.Gold)
		totals.Add(r.Metrics)
		report.Results = append(report.Results, r)
		report.ErrorAnalysis.FalsePositives = append(report.ErrorAnalysis.FalsePositives, score.FalsePositives(r.Predicted, r.Gold)...)
		report.ErrorAnalysis.FalseNegatives = append(report.ErrorAnalysis.FalseNegatives, score.FalseNegatives(r.Predicted, r.Gold)...)
	}
	report.Overall = totals.Overall()
	report.Run = &model.RunInfo{
		ID:         "run-1",
		Provider:   "azure",
		Model:      "gpt4o-nl",
		Seed:       42,
		SampleSize: 3,
		Evaluated:  3,
		Failures:   1,
		StartedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 5, 1, 12, 1, 0, 0, time.UTC),
	}
	return report
}

func TestRenderJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := testReport()

	require.NoError(t, NewRenderer().RenderJSON(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `"overall_metrics"`)
	assert.Contains(t, text, `"detailed_results"`)
	assert.Contains(t, text, `"true_entities"`)
	assert.Contains(t, text, `"total_tp": 3`)
	assert.Contains(t, text, "Gent & Brugge", "HTML characters must not be escaped")
	assert.Contains(t, text, `"error": "deployment not found"`)

	loaded, err := LoadReport(path)
	require.NoError(t, err)
	assert.Equal(t, report.Overall, loaded.Overall)
	assert.Equal(t, report.Results, loaded.Results)
	assert.Equal(t, report.Run.ID, loaded.Run.ID)
}

func TestLoadReport_Errors(t *testing.T) {
	_, err := LoadReport(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = LoadReport(path)
	assert.Error(t, err)
}

func TestLoadReport_LegacyLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	legacy := `{
  "overall_metrics": {"precision": 0.5, "recall": 1.0, "f1": 0.6667, "total_tp": 1, "total_fp": 1, "total_fn": 0},
  "detailed_results": [
    {"sentence": "Gent.", "true_entities": ["Gent"], "predicted_entities": ["Gent", "Brugge"],
     "metrics": {"tp": 1, "fp": 1, "fn": 0, "precision": 0.5, "recall": 1.0, "f1": 0.6667}}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	report, err := LoadReport(path)
	require.NoError(t, err)
	assert.Nil(t, report.Run)
	require.Len(t, report.Results, 1)
	assert.Equal(t, []string{"Gent", "Brugge"}, report.Results[0].Predicted)
	assert.Equal(t, 1, report.Overall.TotalFP)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().WriteCSV(&buf, testReport()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"1", "Van Amsterdam naar Rotterdam.", "Amsterdam; Rotterdam", "Amsterdam; Rotterdam",
		"2", "0", "0", "1.000", "1.000", "1.000", "Yes",
	}, rows[1])
	assert.Equal(t, []string{
		"2", "Jan woont in Gent & Brugge.", "Gent; Brugge", "Gent; Antwerpen",
		"1", "1", "1", "0.500", "0.500", "0.500", "No",
	}, rows[2])
	assert.Equal(t, "", rows[3][3])
	assert.Equal(t, "No", rows[3][10])
}

func TestRenderCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, NewRenderer().RenderCSV(testReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Sentence_ID,Sentence,Ground_Truth_Entities"))
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer().WriteMarkdown(&buf, testReport())
	md := buf.String()

	assert.Contains(t, md, "# Entity Linking Evaluation")
	assert.Contains(t, md, "**Run:** `run-1`")
	assert.Contains(t, md, "| Precision | 0.750 |")
	assert.Contains(t, md, "| Recall | 0.600 |")
	assert.Contains(t, md, "| Perfect (F1 = 1) | 1 | 33.3% |")
	assert.Contains(t, md, "| Zero (F1 = 0) | 1 | 33.3% |")
	assert.Contains(t, md, "### False positives (1 unique)")
	assert.Contains(t, md, "- Antwerpen")
	assert.Contains(t, md, "- Utrecht_(stad)")
}

func TestWriteMarkdown_NoErrors(t *testing.T) {
	report := &model.Report{Results: []model.Result{}}
	var buf bytes.Buffer
	NewRenderer().WriteMarkdown(&buf, report)

	assert.Contains(t, buf.String(), "_None._")
	assert.NotContains(t, buf.String(), "**Run:**")
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().RenderSummary(&buf, testReport()))
	out := buf.String()

	assert.Contains(t, out, "Overall Metrics:")
	assert.Contains(t, out, "0.750")
	assert.Contains(t, out, "3/4")
	assert.Contains(t, out, "3/5")
	assert.Contains(t, out, "Antwerpen")
	assert.Contains(t, out, "Utrecht_(stad)")
}

func TestLimitLabels(t *testing.T) {
	labels := make([]string, 15)
	for i := range labels {
		labels[i] = strings.Repeat("x", i+1)
	}
	assert.Len(t, limitLabels(labels), summaryErrorLimit)
	assert.Len(t, limitLabels(labels[:3]), 3)
}
