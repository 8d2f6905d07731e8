package evaluate

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohorttools/cohortsel/internal/corpus"
	"github.com/cohorttools/cohortsel/internal/criteria"
	"github.com/cohorttools/cohortsel/internal/model"
	"github.com/cohorttools/cohortsel/internal/rules"
)

func patientWith(notes ...corpus.Note) *corpus.Patient {
	return &corpus.Patient{ID: "test", FileName: "test.xml", Notes: notes}
}

func note(raw, clean string, ageMonths int) corpus.Note {
	return corpus.Note{RawText: raw, CleanText: clean, AgeMonths: ageMonths}
}

func TestRuleEvaluatorFiredRule(t *testing.T) {
	e := NewRuleEvaluator(criteria.English, rules.NewClassifier(zerolog.Nop()))
	p := patientWith(note("Spanish-speaking woman.", "spanish speaking woman", 0))

	d, err := e.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, criteria.English, d.Criterion)
	assert.False(t, d.Met)
	assert.Equal(t, 1.0, d.Confidence)
	assert.NotEmpty(t, d.Evidence)
	assert.Equal(t, StrategyRule, d.Strategy)
}

func TestRuleEvaluatorBaselineOnAbstain(t *testing.T) {
	clf := rules.NewClassifier(zerolog.Nop())
	p := patientWith(note("status post appendectomy", "status post appendectomy", 0))

	d, err := NewRuleEvaluator(criteria.Abdominal, clf).Evaluate(p)
	require.NoError(t, err)
	assert.False(t, d.Met, "ABDOMINAL baseline is not met")
	assert.Equal(t, 0.5, d.Confidence)
	assert.Empty(t, d.Evidence)

	d, err = NewRuleEvaluator(criteria.MajorDiabetes, clf).Evaluate(p)
	require.NoError(t, err)
	assert.True(t, d.Met, "MAJOR-DIABETES baseline is met")
	assert.Equal(t, 0.5, d.Confidence)
}

func TestRuleEvaluatorIsDeterministic(t *testing.T) {
	e := NewRuleEvaluator(criteria.Creatinine, rules.NewClassifier(zerolog.Nop()))
	p := patientWith(note("creatinine 2.2 noted", "creatinine noted", 0))

	first, err := e.Evaluate(p)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Evaluate(p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRuleEvaluatorAppliesWindow(t *testing.T) {
	e := NewRuleEvaluator(criteria.MI6Mos, rules.NewClassifier(zerolog.Nop()))

	recent := patientWith(note("Admitted with acute STEMI.", "admitted with acute STEMI", 2))
	d, err := e.Evaluate(recent)
	require.NoError(t, err)
	assert.True(t, d.Met)

	// The same event outside the six month window is invisible.
	old := patientWith(note("Admitted with acute STEMI.", "admitted with acute STEMI", 12))
	d, err = e.Evaluate(old)
	require.NoError(t, err)
	assert.False(t, d.Met)
}

func TestRuleEvaluatorNilPatient(t *testing.T) {
	e := NewRuleEvaluator(criteria.English, rules.NewClassifier(zerolog.Nop()))
	_, err := e.Evaluate(nil)
	assert.Error(t, err)
}

func learnedFor(t *testing.T, crit criteria.Criterion, term string, weight float64) *model.Classifier {
	t.Helper()
	a := &model.Artifact{
		SchemaVersion: model.SchemaVersion,
		Criterion:     string(crit),
		Vocabulary:    []string{term},
		IDF:           []float64{1.0},
		Weights:       []float64{weight},
		Bias:          -0.5,
		Threshold:     0.0,
	}
	return model.NewClassifier(crit, a, nil, zerolog.Nop())
}

func TestLearnedEvaluator(t *testing.T) {
	e := NewLearnedEvaluator(criteria.Abdominal, learnedFor(t, criteria.Abdominal, "appendectomy", 2.0))
	p := patientWith(note("s/p appendectomy", "patient appendectomy", 0))

	d, err := e.Evaluate(p)
	require.NoError(t, err)
	assert.True(t, d.Met)
	assert.Equal(t, StrategyLearned, d.Strategy)
	assert.Empty(t, d.Evidence)
	assert.Greater(t, d.Confidence, 0.5)
}

func TestHybridUsesLearnedOnAbstain(t *testing.T) {
	ruleClf := rules.NewClassifier(zerolog.Nop())
	learned := learnedFor(t, criteria.Abdominal, "appendectomy", 2.0)
	e := NewHybridEvaluator(criteria.Abdominal, ruleClf, learned, TieBreakRule)

	p := patientWith(note("s/p appendectomy", "patient appendectomy", 0))
	d, err := e.Evaluate(p)
	require.NoError(t, err)
	assert.True(t, d.Met)
	assert.Equal(t, StrategyHybrid, d.Strategy)
}

func TestHybridAgreement(t *testing.T) {
	ruleClf := rules.NewClassifier(zerolog.Nop())
	// Learned also says not met for a Spanish-speaking note.
	learned := learnedFor(t, criteria.English, "spanish", -5.0)
	e := NewHybridEvaluator(criteria.English, ruleClf, learned, TieBreakRule)

	p := patientWith(note("Spanish-speaking woman.", "spanish speaking woman", 0))
	d, err := e.Evaluate(p)
	require.NoError(t, err)
	assert.False(t, d.Met)
	assert.Equal(t, 1.0, d.Confidence)
	assert.NotEmpty(t, d.Evidence)
}

func TestHybridTieBreak(t *testing.T) {
	ruleClf := rules.NewClassifier(zerolog.Nop())
	// Rules default ENGLISH to met; the learned model votes not met on
	// "gentleman".
	learned := learnedFor(t, criteria.English, "gentleman", -5.0)
	p := patientWith(note("Pleasant gentleman.", "pleasant gentleman", 0))

	d, err := NewHybridEvaluator(criteria.English, ruleClf, learned, TieBreakRule).Evaluate(p)
	require.NoError(t, err)
	assert.True(t, d.Met, "rule verdict wins under the rule tie break")

	d, err = NewHybridEvaluator(criteria.English, ruleClf, learned, TieBreakLearned).Evaluate(p)
	require.NoError(t, err)
	assert.False(t, d.Met, "learned verdict wins under the learned tie break")
}

func TestHybridDefaultsTieBreakToRule(t *testing.T) {
	ruleClf := rules.NewClassifier(zerolog.Nop())
	learned := learnedFor(t, criteria.English, "gentleman", -5.0)
	p := patientWith(note("Pleasant gentleman.", "pleasant gentleman", 0))

	d, err := NewHybridEvaluator(criteria.English, ruleClf, learned, "").Evaluate(p)
	require.NoError(t, err)
	assert.True(t, d.Met)
}
