package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohorttools/cohortsel/internal/corpus"
	"github.com/cohorttools/cohortsel/internal/criteria"
)

func labelledPatient(file string, met map[criteria.Criterion]bool) *corpus.Patient {
	p := &corpus.Patient{ID: file, FileName: file, Labeled: true}
	for _, c := range criteria.All() {
		p.SetLabel(c, met[c])
	}
	return p
}

func TestConfusionObserve(t *testing.T) {
	var c Confusion
	c.Observe(true, true)
	c.Observe(true, false)
	c.Observe(false, true)
	c.Observe(false, false)
	assert.Equal(t, Confusion{TP: 1, TN: 1, FP: 1, FN: 1}, c)
}

func TestConfusionMetricsHandComputed(t *testing.T) {
	c := Confusion{TP: 8, TN: 5, FP: 2, FN: 1}
	assert.InDelta(t, 0.8, c.PPV(), 1e-9)
	assert.InDelta(t, 8.0/9.0, c.TPR(), 1e-9)
	// F1 = 2*0.8*(8/9) / (0.8 + 8/9)
	assert.InDelta(t, 2*0.8*(8.0/9.0)/(0.8+8.0/9.0), c.F1(), 1e-9)
}

func TestConfusionZeroDenominators(t *testing.T) {
	var c Confusion
	assert.Equal(t, 0.0, c.PPV())
	assert.Equal(t, 0.0, c.TPR())
	assert.Equal(t, 0.0, c.F1())
	assert.Equal(t, 0.0, c.MCC())
}

func TestConfusionInvert(t *testing.T) {
	c := Confusion{TP: 1, TN: 2, FP: 3, FN: 4}
	assert.Equal(t, Confusion{TP: 2, TN: 1, FP: 4, FN: 3}, c.Invert())
}

func TestEvaluateIdentity(t *testing.T) {
	met := map[criteria.Criterion]bool{criteria.English: true, criteria.AdvancedCAD: true}
	gold := []*corpus.Patient{
		labelledPatient("1.xml", met),
		labelledPatient("2.xml", nil),
	}
	pred := []*corpus.Patient{
		labelledPatient("1.xml", met),
		labelledPatient("2.xml", nil),
	}

	r, err := Evaluate(gold, pred)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Patients)
	assert.InDelta(t, 1.0, r.MicroF1, 1e-9)

	// Perfect predictions, but a class with no positive examples scores 0,
	// so the macro average over both classes is not necessarily 1.
	s := r.Criteria[criteria.English]
	assert.InDelta(t, 1.0, s.Met.F1(), 1e-9)
	assert.InDelta(t, 1.0, s.NotMet.F1(), 1e-9)
}

func TestEvaluateHandComputed(t *testing.T) {
	gold := []*corpus.Patient{
		labelledPatient("1.xml", map[criteria.Criterion]bool{criteria.English: true}),
		labelledPatient("2.xml", map[criteria.Criterion]bool{criteria.English: true}),
		labelledPatient("3.xml", nil),
	}
	pred := []*corpus.Patient{
		labelledPatient("1.xml", map[criteria.Criterion]bool{criteria.English: true}),
		labelledPatient("2.xml", nil),
		labelledPatient("3.xml", map[criteria.Criterion]bool{criteria.English: true}),
	}

	r, err := Evaluate(gold, pred)
	require.NoError(t, err)

	s := r.Criteria[criteria.English]
	assert.Equal(t, Confusion{TP: 1, TN: 0, FP: 1, FN: 1}, s.Met)
	assert.Equal(t, Confusion{TP: 0, TN: 1, FP: 1, FN: 1}, s.NotMet)
	assert.InDelta(t, 0.5, s.Met.PPV(), 1e-9)
	assert.InDelta(t, 0.5, s.Met.TPR(), 1e-9)
	assert.InDelta(t, 0.5, s.Met.F1(), 1e-9)
	assert.InDelta(t, 0.25, s.OverallF1(), 1e-9)
}

func TestEvaluateSizeMismatch(t *testing.T) {
	gold := []*corpus.Patient{labelledPatient("1.xml", nil)}
	_, err := Evaluate(gold, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size mismatch")
}

func TestEvaluatePatientMismatch(t *testing.T) {
	gold := []*corpus.Patient{labelledPatient("1.xml", nil)}
	pred := []*corpus.Patient{labelledPatient("2.xml", nil)}
	_, err := Evaluate(gold, pred)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patient mismatch")
}

func TestRender(t *testing.T) {
	gold := []*corpus.Patient{labelledPatient("1.xml", map[criteria.Criterion]bool{criteria.English: true})}
	pred := []*corpus.Patient{labelledPatient("1.xml", map[criteria.Criterion]bool{criteria.English: true})}

	r, err := Evaluate(gold, pred)
	require.NoError(t, err)

	out := r.Render()
	assert.Contains(t, out, "1 patients")
	for _, c := range criteria.All() {
		assert.Contains(t, out, string(c))
	}
	assert.Contains(t, out, "micro-averaged")
	assert.Contains(t, out, "macro-averaged")
	assert.Contains(t, out, "overall")
}
