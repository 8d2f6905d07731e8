// Package evaluate turns per-criterion strategies into Decisions. Every
// evaluator is total over well-formed patients: abstention exists only as
// an intermediate state between the rule and learned halves of the hybrid
// strategy.
package evaluate

import (
	"fmt"

	"github.com/cohorttools/cohortsel/internal/corpus"
	"github.com/cohorttools/cohortsel/internal/criteria"
)

// Strategy names the decision procedure that produced a Decision.
type Strategy string

const (
	StrategyRule    Strategy = "rule"
	StrategyLearned Strategy = "learned"
	StrategyHybrid  Strategy = "hybrid"
)

// TieBreak selects the winner when the rule and learned halves of a hybrid
// evaluator disagree.
type TieBreak string

const (
	// TieBreakRule is the default: deterministic rules are tuned for
	// precision, so their verdict wins.
	TieBreakRule    TieBreak = "rule"
	TieBreakLearned TieBreak = "learned"
)

// Decision is the verdict of one evaluator for one patient. Immutable once
// produced.
type Decision struct {
	Criterion  criteria.Criterion
	Met        bool
	Confidence float64
	// Evidence is the text span that triggered a rule verdict; empty for
	// purely learned decisions.
	Evidence string
	Strategy Strategy
}

// Evaluator produces the Decision for one criterion.
type Evaluator interface {
	Criterion() criteria.Criterion
	Evaluate(p *corpus.Patient) (Decision, error)
}

// document selects the window and representation a criterion evaluates:
// rule evaluators read raw text, learned evaluators read cleaned text, and
// windowed criteria only see recent notes.
func document(p *corpus.Patient, crit criteria.Criterion, clean bool) string {
	months, _ := crit.Window()
	return p.Document(months, clean)
}

func checkPatient(p *corpus.Patient, crit criteria.Criterion) error {
	if p == nil {
		return fmt.Errorf("evaluating %s: nil patient", crit)
	}
	return nil
}
