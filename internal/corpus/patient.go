package corpus

import (
	"strings"
	"time"

	"github.com/cohorttools/cohortsel/internal/criteria"
)

// Note is a single dated clinical record of a patient. AgeMonths is the
// distance in months from the note date to the patient's most recent note,
// so the latest note always has AgeMonths == 0.
type Note struct {
	Date      time.Time
	RawText   string
	CleanText string
	AgeMonths int
}

// Patient is one corpus document: an identifier, the ordered longitudinal
// notes, and the gold criterion labels when the source document carried a
// TAGS section. Immutable after loading; prediction runs work on copies of
// the label map via SetLabel.
type Patient struct {
	// ID is the source filename without extension (e.g. "180").
	ID string
	// FileName is the source filename (e.g. "180.xml"), kept so a predicted
	// corpus can be written back under the original names.
	FileName string

	Notes []Note

	// Labels maps criterion to met/not met. Populated with every criterion
	// defaulting to not met, mirroring the challenge reader semantics.
	Labels map[criteria.Criterion]bool

	// Labeled reports whether the source document carried a TAGS section.
	Labeled bool

	rawText string
}

// Label returns the met/not-met value for one criterion.
func (p *Patient) Label(c criteria.Criterion) bool {
	return p.Labels[c]
}

// SetLabel records a predicted label. The patient keeps its notes untouched.
func (p *Patient) SetLabel(c criteria.Criterion, met bool) {
	if p.Labels == nil {
		p.Labels = make(map[criteria.Criterion]bool, criteria.Count())
	}
	p.Labels[c] = met
}

// Records returns the note texts within the given window. months == 0 means
// the full history. clean selects the normalized text used by the learned
// evaluators; otherwise the raw text is returned.
func (p *Patient) Records(months int, clean bool) []string {
	out := make([]string, 0, len(p.Notes))
	for _, n := range p.Notes {
		if months > 0 && n.AgeMonths > months {
			continue
		}
		if clean {
			out = append(out, n.CleanText)
		} else {
			out = append(out, n.RawText)
		}
	}
	return out
}

// Document concatenates the selected records into one text, the unit the
// evaluators operate on.
func (p *Patient) Document(months int, clean bool) string {
	return strings.Join(p.Records(months, clean), "\n")
}

// monthsBetween is the calendar-month distance between two dates; days are
// ignored, matching the challenge reader.
func monthsBetween(from, to time.Time) int {
	return (to.Year()*12 + int(to.Month())) - (from.Year()*12 + int(from.Month()))
}
