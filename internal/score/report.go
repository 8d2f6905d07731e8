package score

import (
	"fmt"
	"strings"

	"github.com/cohorttools/cohortsel/internal/criteria"
)

const reportWidth = 114

// Render formats the report as the fixed-width table of the official
// track evaluation script.
func (r *Report) Render() string {
	var b strings.Builder

	line := strings.Repeat("-", reportWidth)
	b.WriteString(line + "\n")
	b.WriteString(fmt.Sprintf("%6d patients  %s met %s  %s not met %s  %s overall %s\n",
		r.Patients,
		strings.Repeat("-", 17), strings.Repeat("-", 18),
		strings.Repeat("-", 15), strings.Repeat("-", 16),
		strings.Repeat("-", 2), strings.Repeat("-", 2)))
	b.WriteString(fmt.Sprintf("%15s  %4s %4s %4s %4s %6s %6s %6s  %4s %4s %4s %4s %6s %6s %6s  %13s\n",
		"", "TP", "TN", "FP", "FN", "PPV", "TPR", "F1",
		"TP", "TN", "FP", "FN", "PPV", "TPR", "F1", "F1"))
	b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
		strings.Repeat("-", 15),
		strings.Repeat("-", 40),
		strings.Repeat("-", 40),
		strings.Repeat("-", 13)))

	for _, c := range criteria.All() {
		s := r.Criteria[c]
		b.WriteString(fmt.Sprintf("%15s  %s  %s  %13.4f\n",
			c, classCells(s.Met), classCells(s.NotMet), s.OverallF1()))
	}

	b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
		strings.Repeat("-", 15),
		strings.Repeat("-", 40),
		strings.Repeat("-", 40),
		strings.Repeat("-", 13)))
	b.WriteString(fmt.Sprintf("%15s  %s  %s  %13.4f\n",
		"micro-averaged", classCells(r.Micro.Met), classCells(r.Micro.NotMet), r.MicroF1))
	b.WriteString(fmt.Sprintf("%15s  %s  %s  %13.4f\n",
		"macro-averaged", averageCells(r.MacroMet), averageCells(r.MacroNot), r.MacroF1))
	b.WriteString(line + "\n")

	return b.String()
}

func classCells(c Confusion) string {
	return fmt.Sprintf("%4d %4d %4d %4d %6.4f %6.4f %6.4f",
		c.TP, c.TN, c.FP, c.FN, c.PPV(), c.TPR(), c.F1())
}

func averageCells(a Averages) string {
	return fmt.Sprintf("%4s %4s %4s %4s %6.4f %6.4f %6.4f",
		"", "", "", "", a.PPV, a.TPR, a.F1)
}
