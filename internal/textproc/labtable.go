package textproc

import (
	"regexp"
	"strconv"
	"strings"
)

// LabRow is one parsed laboratory-table row: an analyte name, the measured
// value, and the reference range printed next to it.
type LabRow struct {
	Analyte string
	Value   float64
	Low     float64
	High    float64
}

// Abnormal reports whether the measured value falls outside the printed
// reference range.
func (r LabRow) Abnormal() bool {
	return r.Value < r.Low || r.Value > r.High
}

var (
	labSpacePattern = regexp.MustCompile(`[ \t]+`)
	labRowPattern   = regexp.MustCompile(`(?i)\w+[ ]*[(]?\w*[ ]*\w*[)]?[ \t]+[<]?\d+(([ ]*[A-Za-z])|([.]?\d*[LH]?))[ \t]+[(]*\d+\.*\d*-\d+\.*\d*[)]*[ \t]*`)
	labKeyPattern   = regexp.MustCompile(`[ \t]+[<]?\d+`)
	labValuePattern = regexp.MustCompile(`\d+[.]?\d*`)
	labRangePattern = regexp.MustCompile(`\d+[.]?\d*-\d+[.]?\d*`)
)

// analyte spellings vary between hospital systems; fold the common variants
// so lookups by name work.
var analyteReplacements = [][2]string{
	{"Absolute", "Abs"},
	{"Isoenzymes", "Isoenz"},
	{"Carbon Dioxide", "CO2"},
	{"Bilirubin(Total)", "Total Bilirubin"},
	{"Bilirubin(Direct)", "Direct Bilirubin"},
	{"Bilirubin(Direct", "Direct Bilirubin"},
	{" (Stat Lab)", ""},
	{"Plasma ", ""},
	{"Blood Urea Nitro", "Urea Nitro"},
	{"UREA N", "Urea Nitro"},
	{"Neutrophils - Au", "Neutrophils"},
	{"Neutrophils - Ma", "Neutrophils"},
	{"Lymphocytes - Au", "Lymphocytes"},
	{"Lymphocytes - Ma", "Lymphocytes"},
	{"Monocytes - Manu", "Monocytes"},
	{"Monocytes - Auto", "Monocytes"},
	{"Eosinophils - Ma", "Eosinophils"},
	{"Eosinophils - Au", "Eosinophils"},
	{"Basophils - Manu", "Basophils"},
	{"Basophils - Auto", "Basophils"},
}

// ExtractLabRows separates a raw note into its narrative text and the
// laboratory-table rows embedded in it. Lines that look like lab results
// ("Creatinine   1.6   (0.6-1.5)") become LabRows; everything else is
// returned as narrative.
func ExtractLabRows(raw string) (narrative string, rows []LabRow) {
	var textLines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = labSpacePattern.ReplaceAllString(line, " ")
		if !labRowPattern.MatchString(line) {
			textLines = append(textLines, line)
			continue
		}
		for _, repl := range analyteReplacements {
			line = strings.ReplaceAll(line, repl[0], repl[1])
		}
		row, ok := parseLabRow(line)
		if !ok {
			textLines = append(textLines, line)
			continue
		}
		rows = append(rows, row)
	}
	return strings.Join(textLines, "\n"), rows
}

func parseLabRow(line string) (LabRow, bool) {
	parts := labKeyPattern.Split(line, 2)
	if len(parts) == 0 || parts[0] == "" {
		return LabRow{}, false
	}
	valueMatch := labValuePattern.FindString(line[len(parts[0]):])
	rangeMatch := labRangePattern.FindString(line)
	if valueMatch == "" || rangeMatch == "" {
		return LabRow{}, false
	}
	bounds := strings.SplitN(rangeMatch, "-", 2)
	value, err1 := strconv.ParseFloat(valueMatch, 64)
	low, err2 := strconv.ParseFloat(bounds[0], 64)
	high, err3 := strconv.ParseFloat(bounds[1], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return LabRow{}, false
	}
	return LabRow{Analyte: strings.TrimSpace(parts[0]), Value: value, Low: low, High: high}, true
}
