// Package cohort assembles per-criterion Decisions into the final
// per-patient result of a run.
package cohort

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/cohorttools/cohortsel/internal/criteria"
	"github.com/cohorttools/cohortsel/internal/evaluate"
)

// Result maps patient identifier to the Decision for every active
// criterion. A Result handed out by the Aggregator is complete: exactly one
// Decision per active criterion per patient.
type Result map[string]map[criteria.Criterion]evaluate.Decision

// PatientIDs returns the patient identifiers in sorted order.
func (r Result) PatientIDs() []string {
	ids := maps.Keys(r)
	slices.Sort(ids)
	return ids
}

// Aggregator collects Decisions and enforces the completeness invariant.
// It never reinterprets a Decision: combination across criteria is left to
// downstream reporting.
type Aggregator struct {
	active    []criteria.Criterion
	decisions Result
}

func NewAggregator(active []criteria.Criterion) *Aggregator {
	return &Aggregator{
		active:    active,
		decisions: make(Result),
	}
}

// Add records one Decision. Duplicate decisions for a (patient, criterion)
// pair and decisions for inactive criteria are programming errors and are
// rejected.
func (a *Aggregator) Add(patientID string, d evaluate.Decision) error {
	if !slices.Contains(a.active, d.Criterion) {
		return fmt.Errorf("decision for inactive criterion %s (patient %s)", d.Criterion, patientID)
	}
	byCriterion, ok := a.decisions[patientID]
	if !ok {
		byCriterion = make(map[criteria.Criterion]evaluate.Decision, len(a.active))
		a.decisions[patientID] = byCriterion
	}
	if _, dup := byCriterion[d.Criterion]; dup {
		return fmt.Errorf("duplicate decision for patient %s criterion %s", patientID, d.Criterion)
	}
	byCriterion[d.Criterion] = d
	return nil
}

// Result validates completeness and returns the assembled cohort result.
func (a *Aggregator) Result() (Result, error) {
	for patientID, byCriterion := range a.decisions {
		for _, c := range a.active {
			if _, ok := byCriterion[c]; !ok {
				return nil, fmt.Errorf("patient %s is missing a decision for criterion %s", patientID, c)
			}
		}
		if len(byCriterion) != len(a.active) {
			return nil, fmt.Errorf("patient %s has %d decisions, want %d", patientID, len(byCriterion), len(a.active))
		}
	}
	return a.decisions, nil
}
