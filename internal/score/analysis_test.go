package score

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/linkeval/internal/model"
)

func TestFalsePositivesAndNegatives(t *testing.T) {
	pred := []string{"Amsterdam", "New_York", "rotterdam"}
	gold := []string{"Amsterdam", "Rotterdam", "Antwerpen"}

	assert.Equal(t, []string{"New_York"}, FalsePositives(pred, gold))
	assert.Equal(t, []string{"Antwerpen"}, FalseNegatives(pred, gold))
	assert.Nil(t, FalsePositives(nil, gold))
}

func TestCategorize(t *testing.T) {
	report := &model.Report{
		Results: []model.Result{
			{
				Sentence:  "Hij woonde in Amsterdam en Parijs.",
				Gold:      []string{"Amsterdam_(stad)", "Antwerpen"},
				Predicted: []string{"Amsterdam", "Parijs"},
			},
			{
				Sentence:  "Perfect.",
				Gold:      []string{"Gent"},
				Predicted: []string{"gent"},
			},
		},
	}

	c := Categorize(report, 10)

	require.Len(t, c.Disambiguation, 1)
	assert.Equal(t, "Amsterdam", c.Disambiguation[0].Predicted)
	assert.Equal(t, "Amsterdam_(stad)", c.Disambiguation[0].ClosestTrue)

	require.Len(t, c.Hallucination, 1)
	assert.Equal(t, "Parijs", c.Hallucination[0].Predicted)
	assert.Equal(t, report.Results[0].Gold, c.Hallucination[0].Gold)

	require.Len(t, c.CompleteMiss, 2)
	assert.Equal(t, "Amsterdam_(stad)", c.CompleteMiss[0].Missed)
	assert.Equal(t, "Antwerpen", c.CompleteMiss[1].Missed)
}

func TestCategorize_LimitAndSnippet(t *testing.T) {
	long := strings.Repeat("x", 150)
	var results []model.Result
	for i := 0; i < 15; i++ {
		results = append(results, model.Result{Sentence: long, Gold: []string{"Gent"}})
	}

	c := Categorize(&model.Report{Results: results}, 10)

	require.Len(t, c.CompleteMiss, 10)
	assert.Equal(t, strings.Repeat("x", 100)+"...", c.CompleteMiss[0].Sentence)

	all := Categorize(&model.Report{Results: results}, 0)
	assert.Len(t, all.CompleteMiss, 15)
}

func TestSummarize(t *testing.T) {
	report := &model.Report{
		Results: []model.Result{
			{Metrics: model.Metrics{F1: 1.0}},
			{Metrics: model.Metrics{F1: 0.0}},
			{Metrics: model.Metrics{F1: 0.5}},
			{Metrics: model.Metrics{F1: 1.0}},
		},
	}

	b := Summarize(report)

	assert.Equal(t, Breakdown{Total: 4, Perfect: 2, Zero: 1, Partial: 1}, b)
	assert.Equal(t, 50.0, b.Percent(b.Perfect))
	assert.Equal(t, 0.0, Breakdown{}.Percent(0))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Unique([]string{"a", "b", "a"}))
	assert.Nil(t, Unique(nil))
}
