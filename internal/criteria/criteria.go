package criteria

import "fmt"

// Criterion is one named eligibility rule of the cohort-selection task.
// The set is fixed by the challenge annotation guidelines.
type Criterion string

const (
	Abdominal      Criterion = "ABDOMINAL"
	AdvancedCAD    Criterion = "ADVANCED-CAD"
	AlcoholAbuse   Criterion = "ALCOHOL-ABUSE"
	AspForMI       Criterion = "ASP-FOR-MI"
	Creatinine     Criterion = "CREATININE"
	DietSupp2Mos   Criterion = "DIETSUPP-2MOS"
	DrugAbuse      Criterion = "DRUG-ABUSE"
	English        Criterion = "ENGLISH"
	HbA1c          Criterion = "HBA1C"
	Keto1Yr        Criterion = "KETO-1YR"
	MajorDiabetes  Criterion = "MAJOR-DIABETES"
	MakesDecisions Criterion = "MAKES-DECISIONS"
	MI6Mos         Criterion = "MI-6MOS"
)

// all criteria in alphabetical order. The order is load-bearing: it is the
// column order of the score report and the element order of written TAGS.
var all = []Criterion{
	Abdominal,
	AdvancedCAD,
	AlcoholAbuse,
	AspForMI,
	Creatinine,
	DietSupp2Mos,
	DrugAbuse,
	English,
	HbA1c,
	Keto1Yr,
	MajorDiabetes,
	MakesDecisions,
	MI6Mos,
}

// windows holds the per-criterion note window in months. A criterion absent
// from this map considers the patient's full longitudinal history.
var windows = map[Criterion]int{
	Keto1Yr: 12,
	MI6Mos:  6,
}

// All returns the full criterion set in its canonical order.
func All() []Criterion {
	out := make([]Criterion, len(all))
	copy(out, all)
	return out
}

// Count is the number of criteria in the set.
func Count() int {
	return len(all)
}

// Parse validates a criterion name as it appears in corpus TAGS and
// configuration files.
func Parse(s string) (Criterion, error) {
	for _, c := range all {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown criterion %q", s)
}

// Window returns the number of past months of notes the criterion should
// consider. ok is false when the full history applies.
func (c Criterion) Window() (months int, ok bool) {
	months, ok = windows[c]
	return months, ok
}

func (c Criterion) String() string {
	return string(c)
}
