package textproc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	got := Tokens("The Pt denies EtOH use. HbA1c 8.2, BP 120/80.")
	assert.Equal(t, []string{"the", "patient", "denies", "etoh", "use", "hba", "BP"}, got)
}

func TestTokensKeepsAllCaps(t *testing.T) {
	got := Tokens("CABG x3 and COPD flare")
	assert.Equal(t, []string{"CABG", "and", "COPD", "flare"}, got)
}

func TestCleanJoinsWithSpaces(t *testing.T) {
	assert.Equal(t, "patient with chest pain", Clean("pt with chest\npain"))
}

func TestDeaccent(t *testing.T) {
	assert.Equal(t, "Nutter", Deaccent("Núttèr"))
	assert.Equal(t, "plain ascii", Deaccent("plain ascii"))
}

func TestStripHTMLEntities(t *testing.T) {
	assert.Equal(t, "AMBP ", StripHTMLEntities("AM&#160;BP&#160; "))
}

func TestStripDates(t *testing.T) {
	got := StripDates("seen on 12/03/2091, follow up in 3 months, last visit January 14")
	assert.NotContains(t, got, "12/03/2091")
	assert.NotContains(t, got, "3 months")
	assert.NotContains(t, got, "January 14")
}

func TestLines(t *testing.T) {
	got := Lines("first   line\n\n  second\tline  \n")
	assert.Equal(t, []string{"first line", "second line"}, got)
}

func TestExtractLabRows(t *testing.T) {
	raw := "Patient doing well.\n" +
		"Creatinine          2.1             (0.6-1.5)\n" +
		"Glucose             98              (70-110)\n" +
		"Plan: recheck labs next month."

	narrative, rows := ExtractLabRows(raw)
	assert.Contains(t, narrative, "Patient doing well.")
	assert.Contains(t, narrative, "Plan: recheck labs")
	assert.NotContains(t, narrative, "(0.6-1.5)")

	require.Len(t, rows, 2)
	assert.Equal(t, "Creatinine", rows[0].Analyte)
	assert.InDelta(t, 2.1, rows[0].Value, 1e-9)
	assert.InDelta(t, 0.6, rows[0].Low, 1e-9)
	assert.InDelta(t, 1.5, rows[0].High, 1e-9)
	assert.True(t, rows[0].Abnormal())

	assert.Equal(t, "Glucose", rows[1].Analyte)
	assert.False(t, rows[1].Abnormal())
}

func TestLoadStopwords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(path, []byte("the\n\nand\n of \n"), 0o644))

	words, err := LoadStopwords(path)
	require.NoError(t, err)
	assert.Len(t, words, 3)
	_, ok := words["of"]
	assert.True(t, ok)

	_, err = LoadStopwords(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
