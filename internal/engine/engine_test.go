package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohorttools/cohortsel/internal/config"
	"github.com/cohorttools/cohortsel/internal/corpus"
	"github.com/cohorttools/cohortsel/internal/criteria"
	"github.com/cohorttools/cohortsel/internal/model"
)

func writePatientDoc(t *testing.T, dir, name, noteText string) {
	t.Helper()
	doc := "<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n<PatientMatching>\n" +
		"<TEXT><![CDATA[\nRecord date: 2090-01-15\n\n" + noteText + "\n" +
		strings.Repeat("*", 100) + "\n]]></TEXT>\n</PatientMatching>\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(doc), 0o644))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		CorpusDir: t.TempDir(),
		OutputDir: t.TempDir(),
		CacheDir:  t.TempDir(),
	}
}

func TestRunRulePolicy(t *testing.T) {
	cfg := testConfig(t)
	writePatientDoc(t, cfg.CorpusDir, "1.xml", "Spanish-speaking woman, labs notable for creatinine 2.2.")
	writePatientDoc(t, cfg.CorpusDir, "2.xml", "Pleasant gentleman, routine follow-up.")

	eng, err := New(cfg, nil, zerolog.Nop())
	require.NoError(t, err)

	result, summary, err := eng.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Patients)
	assert.Empty(t, summary.RunID, "no DSN means no persistence")

	require.Len(t, result, 2)
	assert.False(t, result["1"][criteria.English].Met)
	assert.True(t, result["1"][criteria.Creatinine].Met)
	assert.True(t, result["2"][criteria.English].Met)

	// Every patient has a decision for every criterion.
	for _, id := range result.PatientIDs() {
		assert.Len(t, result[id], criteria.Count())
	}

	// Output documents carry the predicted labels and round-trip.
	out, err := corpus.LoadAll(cfg.OutputDir)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].Labeled)
	assert.True(t, out[0].Label(criteria.Creatinine))
}

func TestRunEmptyCorpus(t *testing.T) {
	cfg := testConfig(t)

	eng, err := New(cfg, nil, zerolog.Nop())
	require.NoError(t, err)

	result, summary, err := eng.Run()
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, 0, summary.Patients)
}

func TestRunRefusesOutputIntoCorpus(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = cfg.CorpusDir
	writePatientDoc(t, cfg.CorpusDir, "1.xml", "Routine visit.")

	eng, err := New(cfg, nil, zerolog.Nop())
	require.NoError(t, err)

	_, _, err = eng.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus directory")
}

func TestRunMissingCorpusDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.CorpusDir = filepath.Join(cfg.CorpusDir, "absent")

	eng, err := New(cfg, nil, zerolog.Nop())
	require.NoError(t, err)

	_, _, err = eng.Run()
	var nerr *corpus.NotFoundError
	require.ErrorAs(t, err, &nerr)
	entries, readErr := os.ReadDir(cfg.OutputDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "a failed run writes no output")
}

func TestRunCorruptDocumentAbortsBeforeOutput(t *testing.T) {
	cfg := testConfig(t)
	writePatientDoc(t, cfg.CorpusDir, "1.xml", "Routine visit.")
	require.NoError(t, os.WriteFile(filepath.Join(cfg.CorpusDir, "2.xml"), []byte("<PatientMatching>"), 0o644))

	eng, err := New(cfg, nil, zerolog.Nop())
	require.NoError(t, err)

	_, _, err = eng.Run()
	var ferr *corpus.FormatError
	require.ErrorAs(t, err, &ferr)
	entries, readErr := os.ReadDir(cfg.OutputDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestNewFailsFastOnMissingArtifact(t *testing.T) {
	cfg := testConfig(t)
	cfg.PolicyFile = writePolicyFile(t, `
criteria:
  ABDOMINAL:
    policy: learned
    artifact: `+filepath.Join(t.TempDir(), "missing.json"))

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	require.NoError(t, err)

	_, err = New(cfg, policy, zerolog.Nop())
	var lerr *model.LoadError
	require.ErrorAs(t, err, &lerr)
}

func TestRunHybridPolicy(t *testing.T) {
	cfg := testConfig(t)
	writePatientDoc(t, cfg.CorpusDir, "1.xml", "Status post abdominal surgery with appendectomy.")

	artifact := model.Artifact{
		SchemaVersion: model.SchemaVersion,
		Criterion:     string(criteria.Abdominal),
		Vocabulary:    []string{"appendectomy"},
		IDF:           []float64{1.0},
		Weights:       []float64{2.0},
		Bias:          -0.5,
		Threshold:     0.0,
	}
	data, err := json.Marshal(artifact)
	require.NoError(t, err)
	artifactPath := filepath.Join(t.TempDir(), "abdominal.json")
	require.NoError(t, os.WriteFile(artifactPath, data, 0o644))

	cfg.PolicyFile = writePolicyFile(t, `
criteria:
  ABDOMINAL:
    policy: hybrid
    artifact: `+artifactPath)
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	require.NoError(t, err)

	eng, err := New(cfg, policy, zerolog.Nop())
	require.NoError(t, err)

	result, _, err := eng.Run()
	require.NoError(t, err)
	// Rules abstain on ABDOMINAL, so the learned artifact decides.
	assert.True(t, result["1"][criteria.Abdominal].Met)
}

func TestRunPersistsWhenDSNConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.ResultsDSN = filepath.Join(t.TempDir(), "results.db")
	writePatientDoc(t, cfg.CorpusDir, "1.xml", "Routine visit.")

	eng, err := New(cfg, nil, zerolog.Nop())
	require.NoError(t, err)

	_, summary, err := eng.Run()
	require.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)
}

func writePolicyFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
