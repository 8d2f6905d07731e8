// Package score compares a gold corpus against predictions and reproduces
// the official evaluation of the task: per-criterion met/not-met precision,
// recall and F1, plus micro and macro averages.
package score

import (
	"fmt"
	"math"

	"github.com/cohorttools/cohortsel/internal/corpus"
	"github.com/cohorttools/cohortsel/internal/criteria"
)

// Confusion holds binary classification counts for one class.
type Confusion struct {
	TP, TN, FP, FN int
}

// Observe updates the counts with one (gold, predicted) pair.
func (c *Confusion) Observe(gold, pred bool) {
	switch {
	case gold && pred:
		c.TP++
	case !gold && !pred:
		c.TN++
	case !gold && pred:
		c.FP++
	default:
		c.FN++
	}
}

// Add accumulates another confusion into this one.
func (c *Confusion) Add(o Confusion) {
	c.TP += o.TP
	c.TN += o.TN
	c.FP += o.FP
	c.FN += o.FN
}

// Invert swaps the positive class, turning "met" counts into "not met"
// counts.
func (c Confusion) Invert() Confusion {
	return Confusion{TP: c.TN, TN: c.TP, FP: c.FN, FN: c.FP}
}

// PPV is precision. Zero denominators score 0.
func (c Confusion) PPV() float64 {
	return ratio(float64(c.TP), float64(c.TP+c.FP))
}

// TPR is recall (sensitivity).
func (c Confusion) TPR() float64 {
	return ratio(float64(c.TP), float64(c.TP+c.FN))
}

// F1 is the harmonic mean of precision and recall.
func (c Confusion) F1() float64 {
	p := c.PPV()
	r := c.TPR()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// MCC is the Matthews correlation coefficient.
func (c Confusion) MCC() float64 {
	num := float64(c.TP*c.TN - c.FP*c.FN)
	den := math.Sqrt(float64((c.TP + c.FP) * (c.TP + c.FN) * (c.TN + c.FP) * (c.TN + c.FN)))
	return ratio(num, den)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// CriterionScore carries both class views for one criterion.
type CriterionScore struct {
	Met    Confusion
	NotMet Confusion
}

// OverallF1 is the task's headline number: the mean of the met and not-met
// F1 scores.
func (s CriterionScore) OverallF1() float64 {
	return (s.Met.F1() + s.NotMet.F1()) / 2
}

// Averages holds macro-averaged precision, recall and F1 for one class.
type Averages struct {
	PPV, TPR, F1 float64
}

// Report is the full evaluation of a predicted corpus against gold labels.
type Report struct {
	Patients  int
	Criteria  map[criteria.Criterion]CriterionScore
	Micro     CriterionScore
	MacroMet  Averages
	MacroNot  Averages
	MicroF1   float64
	MacroF1   float64
}

// Evaluate scores predictions against the gold corpus. Both corpora must
// contain the same patients in the same order.
func Evaluate(gold, pred []*corpus.Patient) (*Report, error) {
	if len(gold) != len(pred) {
		return nil, fmt.Errorf("corpus size mismatch: gold has %d patients, predictions have %d", len(gold), len(pred))
	}
	for i := range gold {
		if gold[i].FileName != pred[i].FileName {
			return nil, fmt.Errorf("patient mismatch at position %d: gold %s, prediction %s",
				i, gold[i].FileName, pred[i].FileName)
		}
	}

	r := &Report{
		Patients: len(gold),
		Criteria: make(map[criteria.Criterion]CriterionScore, criteria.Count()),
	}

	for _, c := range criteria.All() {
		var met Confusion
		for i := range gold {
			met.Observe(gold[i].Label(c), pred[i].Label(c))
		}
		s := CriterionScore{Met: met, NotMet: met.Invert()}
		r.Criteria[c] = s
		r.Micro.Met.Add(s.Met)
		r.Micro.NotMet.Add(s.NotMet)
		r.MacroMet.PPV += s.Met.PPV()
		r.MacroMet.TPR += s.Met.TPR()
		r.MacroMet.F1 += s.Met.F1()
		r.MacroNot.PPV += s.NotMet.PPV()
		r.MacroNot.TPR += s.NotMet.TPR()
		r.MacroNot.F1 += s.NotMet.F1()
	}

	n := float64(criteria.Count())
	r.MacroMet.PPV /= n
	r.MacroMet.TPR /= n
	r.MacroMet.F1 /= n
	r.MacroNot.PPV /= n
	r.MacroNot.TPR /= n
	r.MacroNot.F1 /= n

	r.MicroF1 = r.Micro.OverallF1()
	r.MacroF1 = (r.MacroMet.F1 + r.MacroNot.F1) / 2
	return r, nil
}
