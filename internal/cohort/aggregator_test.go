package cohort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohorttools/cohortsel/internal/criteria"
	"github.com/cohorttools/cohortsel/internal/evaluate"
)

func decision(c criteria.Criterion, met bool) evaluate.Decision {
	return evaluate.Decision{Criterion: c, Met: met, Confidence: 1, Strategy: evaluate.StrategyRule}
}

func TestAggregatorCompleteRun(t *testing.T) {
	active := criteria.All()
	agg := NewAggregator(active)

	for _, id := range []string{"102", "7"} {
		for _, c := range active {
			require.NoError(t, agg.Add(id, decision(c, c == criteria.English)))
		}
	}

	result, err := agg.Result()
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, []string{"102", "7"}, result.PatientIDs())
	assert.True(t, result["7"][criteria.English].Met)
	assert.False(t, result["7"][criteria.Creatinine].Met)
}

func TestAggregatorRejectsDuplicates(t *testing.T) {
	agg := NewAggregator(criteria.All())
	require.NoError(t, agg.Add("1", decision(criteria.English, true)))
	err := agg.Add("1", decision(criteria.English, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestAggregatorRejectsInactiveCriterion(t *testing.T) {
	agg := NewAggregator([]criteria.Criterion{criteria.English})
	err := agg.Add("1", decision(criteria.Creatinine, true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive")
}

func TestAggregatorResultFailsOnMissingDecision(t *testing.T) {
	agg := NewAggregator(criteria.All())
	require.NoError(t, agg.Add("1", decision(criteria.English, true)))

	_, err := agg.Result()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a decision")
}

func TestAggregatorEmptyRun(t *testing.T) {
	agg := NewAggregator(criteria.All())
	result, err := agg.Result()
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Empty(t, result.PatientIDs())
}
