package score

import (
	"strings"

	"github.com/ppiankov/linkeval/internal/model"
)

const snippetLength = 100

// FalsePositives returns predictions (original spelling) missing from gold
func FalsePositives(predicted, gold []string) []string {
	return unmatched(predicted, gold)
}

// FalseNegatives returns gold labels (original spelling) missing from predictions
func FalseNegatives(predicted, gold []string) []string {
	return unmatched(gold, predicted)
}

func unmatched(labels, against []string) []string {
	other := normalizedSet(against)
	var out []string
	for _, label := range labels {
		if _, ok := other[NormalizeTitle(label)]; !ok {
			out = append(out, label)
		}
	}
	return out
}

// Categories groups unmatched labels by the likely cause of the error
type Categories struct {
	Disambiguation []DisambiguationError `json:"disambiguation_errors"`
	CompleteMiss   []MissError           `json:"complete_miss_errors"`
	Hallucination  []HallucinationError  `json:"hallucination_errors"`
}

// DisambiguationError is a prediction that overlaps a gold title but names a
// different variant (e.g. "Amsterdam" vs "Amsterdam_(stad)")
type DisambiguationError struct {
	Sentence    string `json:"sentence"`
	Predicted   string `json:"predicted"`
	ClosestTrue string `json:"closest_true"`
}

// MissError is a gold title the predictor did not produce at all
type MissError struct {
	Sentence  string   `json:"sentence"`
	Missed    string   `json:"missed"`
	Predicted []string `json:"predicted_entities"`
}

// HallucinationError is a prediction unrelated to any gold title
type HallucinationError struct {
	Sentence  string   `json:"sentence"`
	Predicted string   `json:"predicted"`
	Gold      []string `json:"true_entities"`
}

// Categorize classifies every unmatched label in the report.
// Each category is truncated to limit entries; limit <= 0 keeps everything.
func Categorize(report *model.Report, limit int) Categories {
	var c Categories

	for _, r := range report.Results {
		sentence := snippet(r.Sentence)
		gold := normalizedSet(r.Gold)
		pred := normalizedSet(r.Predicted)

		for _, p := range r.Predicted {
			key := NormalizeTitle(p)
			if _, ok := gold[key]; ok {
				continue
			}
			if closest, ok := overlapping(key, r.Gold); ok {
				c.Disambiguation = append(c.Disambiguation, DisambiguationError{
					Sentence:    sentence,
					Predicted:   p,
					ClosestTrue: closest,
				})
				continue
			}
			c.Hallucination = append(c.Hallucination, HallucinationError{
				Sentence:  sentence,
				Predicted: p,
				Gold:      r.Gold,
			})
		}

		for _, g := range r.Gold {
			if _, ok := pred[NormalizeTitle(g)]; !ok {
				c.CompleteMiss = append(c.CompleteMiss, MissError{
					Sentence:  sentence,
					Missed:    g,
					Predicted: r.Predicted,
				})
			}
		}
	}

	if limit > 0 {
		c.Disambiguation = truncate(c.Disambiguation, limit)
		c.CompleteMiss = truncate(c.CompleteMiss, limit)
		c.Hallucination = truncate(c.Hallucination, limit)
	}

	return c
}

// overlapping returns the first gold title whose key contains, or is
// contained in, the prediction key
func overlapping(key string, gold []string) (string, bool) {
	for _, g := range gold {
		gk := NormalizeTitle(g)
		if strings.Contains(gk, key) || strings.Contains(key, gk) {
			return g, true
		}
	}
	return "", false
}

func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) > snippetLength {
		return string(runes[:snippetLength]) + "..."
	}
	return s
}

// Breakdown counts how many sentences were matched perfectly, not at all, or partially
type Breakdown struct {
	Total   int `json:"total"`
	Perfect int `json:"perfect"` // F1 = 1
	Zero    int `json:"zero"`    // F1 = 0
	Partial int `json:"partial"`
}

// Summarize computes the match breakdown of a report
func Summarize(report *model.Report) Breakdown {
	b := Breakdown{Total: len(report.Results)}
	for _, r := range report.Results {
		switch {
		case r.IsPerfect():
			b.Perfect++
		case r.Metrics.F1 == 0:
			b.Zero++
		}
	}
	b.Partial = b.Total - b.Perfect - b.Zero
	return b
}

// Percent returns n as a percentage of the total
func (b Breakdown) Percent(n int) float64 {
	return ratio(n, b.Total) * 100
}

// Unique returns the distinct labels in first-seen order
func Unique(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
