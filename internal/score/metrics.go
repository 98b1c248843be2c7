package score

import (
	"math"

	"github.com/ppiankov/linkeval/internal/model"
)

// Calculate compares predicted titles against gold titles.
// Both sides are normalized and deduplicated first, so
// tp+fp equals the distinct predictions and tp+fn the distinct gold labels.
// Every ratio with a zero denominator is 0.
func Calculate(predicted, gold []string) model.Metrics {
	pred := normalizedSet(predicted)
	truth := normalizedSet(gold)

	tp := 0
	for key := range pred {
		if _, ok := truth[key]; ok {
			tp++
		}
	}
	fp := len(pred) - tp
	fn := len(truth) - tp

	precision, recall, f1 := scores(tp, fp, fn)

	return model.Metrics{
		TP:        tp,
		FP:        fp,
		FN:        fn,
		Precision: precision,
		Recall:    recall,
		F1:        f1,
	}
}

// Totals accumulates confusion counts across sentences for micro-averaging
type Totals struct {
	TP int
	FP int
	FN int
}

// Add adds one sentence's counts
func (t *Totals) Add(m model.Metrics) {
	t.TP += m.TP
	t.FP += m.FP
	t.FN += m.FN
}

// Overall computes precision, recall and F1 from the summed counts
func (t Totals) Overall() model.OverallMetrics {
	precision, recall, f1 := scores(t.TP, t.FP, t.FN)
	return model.OverallMetrics{
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		TotalTP:   t.TP,
		TotalFP:   t.FP,
		TotalFN:   t.FN,
	}
}

func scores(tp, fp, fn int) (precision, recall, f1 float64) {
	precision = ratio(tp, tp+fp)
	recall = ratio(tp, tp+fn)
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0.0
	}
	return float64(num) / float64(den)
}

// Round rounds v to the given number of decimals
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
