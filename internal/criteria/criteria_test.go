package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllIsAlphabeticalAndComplete(t *testing.T) {
	all := All()
	require.Len(t, all, Count())
	for i := 1; i < len(all); i++ {
		assert.Less(t, string(all[i-1]), string(all[i]), "criteria must stay in alphabetical order")
	}
}

func TestAllReturnsACopy(t *testing.T) {
	first := All()
	first[0] = Criterion("MUTATED")
	assert.Equal(t, Abdominal, All()[0])
}

func TestParse(t *testing.T) {
	c, err := Parse("ADVANCED-CAD")
	require.NoError(t, err)
	assert.Equal(t, AdvancedCAD, c)

	_, err = Parse("advanced-cad")
	assert.Error(t, err, "criterion names are case sensitive")

	_, err = Parse("SMOKER")
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	months, ok := Keto1Yr.Window()
	require.True(t, ok)
	assert.Equal(t, 12, months)

	months, ok = MI6Mos.Window()
	require.True(t, ok)
	assert.Equal(t, 6, months)

	_, ok = Creatinine.Window()
	assert.False(t, ok, "criteria without a window see the full history")
}
