package evaluate

import (
	"github.com/cohorttools/cohortsel/internal/corpus"
	"github.com/cohorttools/cohortsel/internal/criteria"
	"github.com/cohorttools/cohortsel/internal/model"
	"github.com/cohorttools/cohortsel/internal/rules"
)

// RuleEvaluator wraps the deterministic rule classifier for one criterion.
// For a criterion the rules do not cover it falls back to the majority-class
// baseline, so the evaluator stays total.
type RuleEvaluator struct {
	crit criteria.Criterion
	clf  *rules.Classifier
}

func NewRuleEvaluator(crit criteria.Criterion, clf *rules.Classifier) *RuleEvaluator {
	return &RuleEvaluator{crit: crit, clf: clf}
}

func (e *RuleEvaluator) Criterion() criteria.Criterion {
	return e.crit
}

func (e *RuleEvaluator) Evaluate(p *corpus.Patient) (Decision, error) {
	if err := checkPatient(p, e.crit); err != nil {
		return Decision{}, err
	}
	m := e.clf.Predict(e.crit, document(p, e.crit, false))
	if m.Verdict == rules.Abstain {
		return Decision{
			Criterion:  e.crit,
			Met:        rules.Baseline(e.crit),
			Confidence: 0.5,
			Strategy:   StrategyRule,
		}, nil
	}
	return Decision{
		Criterion:  e.crit,
		Met:        m.Verdict == rules.Met,
		Confidence: 1,
		Evidence:   m.Evidence,
		Strategy:   StrategyRule,
	}, nil
}

// LearnedEvaluator wraps a loaded model classifier for one criterion.
type LearnedEvaluator struct {
	crit criteria.Criterion
	clf  *model.Classifier
}

func NewLearnedEvaluator(crit criteria.Criterion, clf *model.Classifier) *LearnedEvaluator {
	return &LearnedEvaluator{crit: crit, clf: clf}
}

func (e *LearnedEvaluator) Criterion() criteria.Criterion {
	return e.crit
}

func (e *LearnedEvaluator) Evaluate(p *corpus.Patient) (Decision, error) {
	if err := checkPatient(p, e.crit); err != nil {
		return Decision{}, err
	}
	pred := e.clf.Classify(document(p, e.crit, true))
	return Decision{
		Criterion:  e.crit,
		Met:        pred.Met,
		Confidence: pred.Confidence,
		Strategy:   StrategyLearned,
	}, nil
}

// HybridEvaluator composes the rule and learned evaluators. The rules run
// first; when they abstain the learned classifier decides alone. When both
// produce a verdict and disagree, the configured tie-break wins.
type HybridEvaluator struct {
	crit     criteria.Criterion
	ruleClf  *rules.Classifier
	learned  *model.Classifier
	tieBreak TieBreak
}

func NewHybridEvaluator(crit criteria.Criterion, ruleClf *rules.Classifier, learned *model.Classifier, tieBreak TieBreak) *HybridEvaluator {
	if tieBreak == "" {
		tieBreak = TieBreakRule
	}
	return &HybridEvaluator{crit: crit, ruleClf: ruleClf, learned: learned, tieBreak: tieBreak}
}

func (e *HybridEvaluator) Criterion() criteria.Criterion {
	return e.crit
}

func (e *HybridEvaluator) Evaluate(p *corpus.Patient) (Decision, error) {
	if err := checkPatient(p, e.crit); err != nil {
		return Decision{}, err
	}

	ruleMatch := e.ruleClf.Predict(e.crit, document(p, e.crit, false))
	pred := e.learned.Classify(document(p, e.crit, true))

	if ruleMatch.Verdict == rules.Abstain {
		return Decision{
			Criterion:  e.crit,
			Met:        pred.Met,
			Confidence: pred.Confidence,
			Strategy:   StrategyHybrid,
		}, nil
	}

	ruleMet := ruleMatch.Verdict == rules.Met
	if ruleMet == pred.Met {
		return Decision{
			Criterion:  e.crit,
			Met:        ruleMet,
			Confidence: 1,
			Evidence:   ruleMatch.Evidence,
			Strategy:   StrategyHybrid,
		}, nil
	}

	// disagreement
	if e.tieBreak == TieBreakLearned {
		return Decision{
			Criterion:  e.crit,
			Met:        pred.Met,
			Confidence: pred.Confidence,
			Strategy:   StrategyHybrid,
		}, nil
	}
	return Decision{
		Criterion:  e.crit,
		Met:        ruleMet,
		Confidence: 1,
		Evidence:   ruleMatch.Evidence,
		Strategy:   StrategyHybrid,
	}, nil
}
