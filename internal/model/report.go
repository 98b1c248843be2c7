package model

import "time"

// Report is the complete evaluation output.
// overall_metrics and detailed_results keep the layout expected by the
// downstream analysis scripts; error_analysis and run are additive.
type Report struct {
	Overall       OverallMetrics `json:"overall_metrics"`
	Results       []Result       `json:"detailed_results"`
	ErrorAnalysis ErrorAnalysis  `json:"error_analysis"`
	Run           *RunInfo       `json:"run,omitempty"`
}

// Metrics holds confusion counts and derived scores for one sentence
type Metrics struct {
	TP        int     `json:"tp"`
	FP        int     `json:"fp"`
	FN        int     `json:"fn"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// OverallMetrics holds micro-averaged scores over the whole sample
type OverallMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	TotalTP   int     `json:"total_tp"`
	TotalFP   int     `json:"total_fp"`
	TotalFN   int     `json:"total_fn"`
}

// Result is the scored prediction for a single sentence
type Result struct {
	Sentence  string   `json:"sentence"`
	Gold      []string `json:"true_entities"`
	Predicted []string `json:"predicted_entities"`
	Metrics   Metrics  `json:"metrics"`
	Error     string   `json:"error,omitempty"` // Predictor failure reason, if any
}

// IsPerfect reports whether every gold label was found and nothing else
func (r Result) IsPerfect() bool {
	return r.Metrics.F1 == 1.0
}

// ErrorAnalysis lists the original spellings of unmatched labels
type ErrorAnalysis struct {
	FalsePositives []string `json:"false_positives,omitempty"`
	FalseNegatives []string `json:"false_negatives,omitempty"`
}

// RunInfo records how a report was produced
type RunInfo struct {
	ID         string    `json:"id"`
	Provider   string    `json:"provider,omitempty"`
	Model      string    `json:"model,omitempty"`
	Corpus     string    `json:"corpus,omitempty"`
	Seed       uint64    `json:"seed"`
	SampleSize int       `json:"sample_size"`
	Evaluated  int       `json:"evaluated"`
	Failures   int       `json:"failures"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
