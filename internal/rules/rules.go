// Package rules implements the deterministic criterion matchers: regular
// expressions with bounded negation windows, lab-value thresholds, and
// temporal constraints over the raw note text.
package rules

import (
	"github.com/rs/zerolog"

	"github.com/cohorttools/cohortsel/internal/criteria"
)

// Verdict is the outcome of a rule pass over one patient document.
type Verdict int

const (
	// Abstain means no rule set exists for the criterion; a learned
	// evaluator has to decide.
	Abstain Verdict = iota
	NotMet
	Met
)

func (v Verdict) String() string {
	switch v {
	case Met:
		return "met"
	case NotMet:
		return "not met"
	default:
		return "abstain"
	}
}

// Match is a rule verdict with the text span that triggered it.
type Match struct {
	Verdict  Verdict
	Evidence string
}

// Classifier evaluates the rule criteria over raw patient documents. It is
// stateless apart from its compiled patterns, so a single instance serves a
// whole run.
type Classifier struct {
	log zerolog.Logger
}

func NewClassifier(log zerolog.Logger) *Classifier {
	return &Classifier{log: log}
}

// Covers reports whether a rule set exists for the criterion. ABDOMINAL and
// MAJOR-DIABETES have no workable surface patterns and are left to the
// learned evaluators.
func (c *Classifier) Covers(crit criteria.Criterion) bool {
	switch crit {
	case criteria.Abdominal, criteria.MajorDiabetes:
		return false
	default:
		return true
	}
}

// Predict runs the rule set for one criterion over a patient document. The
// document must be the raw (uncleaned) text: the patterns rely on lab
// values, punctuation, and section layout that normalization destroys.
// Predict is deterministic and side-effect free.
func (c *Classifier) Predict(crit criteria.Criterion, doc string) Match {
	var m Match
	switch crit {
	case criteria.AdvancedCAD:
		m = predictAdvancedCAD(doc)
	case criteria.AlcoholAbuse:
		m = predictAlcoholAbuse(doc)
	case criteria.AspForMI:
		m = predictAspForMI(doc)
	case criteria.Creatinine:
		m = predictCreatinine(doc)
	case criteria.DietSupp2Mos:
		m = predictDietSupp(doc)
	case criteria.DrugAbuse:
		m = predictDrugAbuse(doc)
	case criteria.English:
		m = predictEnglish(doc)
	case criteria.HbA1c:
		m = predictHbA1c(doc)
	case criteria.Keto1Yr:
		m = predictKeto(doc)
	case criteria.MakesDecisions:
		m = predictMakesDecisions(doc)
	case criteria.MI6Mos:
		m = predictMI6Mos(doc)
	default:
		return Match{Verdict: Abstain}
	}

	c.log.Debug().
		Str("criterion", crit.String()).
		Str("verdict", m.Verdict.String()).
		Msg("rule verdict")
	return m
}

// Baseline returns the majority-class verdict observed on the training set,
// used when a plain rule policy is configured for an uncovered criterion.
func Baseline(crit criteria.Criterion) bool {
	switch crit {
	case criteria.AdvancedCAD, criteria.AspForMI, criteria.English,
		criteria.MajorDiabetes, criteria.MakesDecisions:
		return true
	default:
		return false
	}
}

// snippet truncates evidence spans so decisions stay readable in logs and
// the results store.
func snippet(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max]
}
