package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cohorttools/cohortsel/internal/textproc"
)

var (
	// creatinineTextPattern captures the short span following a creatinine
	// mention; the numeric value is extracted from it in a second step so
	// "Cr 1.6", "creatinine of 1.6", and "Creatinine (Stat Lab) 1.6" all
	// resolve.
	creatinineTextPattern     = regexp.MustCompile(`(?i)\b(?:creatinine was elevated to|creatinine stable|creatinine \(stat lab\)|cr|cr\.|cre|creatinine)[\s:]([^,;]{1,10})`)
	creatinineValuePattern    = regexp.MustCompile(`\b\d\.\d{1,2}\b`)
	creatinineElevatedPattern = regexp.MustCompile(`(?i)(?:elevated|rising serum)\b[^.,;:]{1,20}\b(?:creatinine)\b`)

	hba1cHeaderPattern = regexp.MustCompile(`(?i)^date.+(?:a1c|hgbaic|hbaic|hgaic)`)
	hba1cTextPattern   = regexp.MustCompile(`(?i)(?:a1c|hgbaic|hbaic|hgaic)(.{0,50})`)
	hba1cValuePattern  = regexp.MustCompile(`(\d{1,2}(?:\.\d{1,2})?)`)

	ketoNoPattern  = regexp.MustCompile(`(?is)no.{0,30}?(?:dka|ketones|ketoacidosis)`)
	ketoYesPattern = regexp.MustCompile(`(?i)(?:ketones\s+pos)|(?:ketoacidosis)`)

	dietSuppPattern         = regexp.MustCompile(`(?i)(.{0,40})\b(calcium|copper|cyanocobalamin|epogen|ferrous gluconate|ferrous sulfate|fish oil|folate|k-dur|klor-con|minerals|nephrocaps|niferex|procrit|tocopherol|tums|ascorbic acid|folic acid|chromium|iron|magnesium|potassium|selenium|zinc|vitamin B[-\s]?1|vitamin B[-\s]?2|vitamin B[-\s]?6|vitamin B[-\s]?12|vitamin B[-\s]?100|vitamin C|vitamin E|vitamin G|vitamin H|vitamin M|vitamin suppl|mineral suppl|Betaxin|niacin|m\.?v\.?i\.?|thiamine)\b(.{0,10})`)
	dietSuppLeftNegPattern  = regexp.MustCompile(`(?i)(elevated|high|low|normal|check|past|previous|was|recommend|counsel)`)
	dietSuppRightNegPattern = regexp.MustCompile(`(?i)(\s{3,}|[\s\n]*(is|was|were|of)?[\s\n]*\d+\.\d|[\s\n]*(is|was|were)|[\s\n]*(is|was)?[\s(]*(elevated|high|low|deficien|normal|channel|studies|study|stat|lab))`)
)

// creatinineThreshold is the upper normal bound used by the annotators; the
// reference ranges printed in the notes themselves vary between 1.2 and 1.5.
const creatinineThreshold = 1.4

// predictCreatinine is met when any creatinine measurement exceeds the
// normal range at any time. Values are searched in the narrative text and
// in parsed lab-table rows; date-like expressions are stripped first so a
// "1.5" inside 2071/1.5 notation cannot fire.
func predictCreatinine(doc string) Match {
	narrative, labRows := textproc.ExtractLabRows(doc)

	x := textproc.StripHTMLEntities(narrative)
	x = textproc.StripDates(x)
	x = strings.Join(strings.Fields(x), " ")

	for _, m := range creatinineTextPattern.FindAllStringSubmatch(x, -1) {
		v := creatinineValuePattern.FindString(m[1])
		if v == "" {
			continue
		}
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		if value > creatinineThreshold {
			return Match{Verdict: Met, Evidence: snippet(strings.TrimSpace(m[0]))}
		}
	}

	for _, row := range labRows {
		if strings.Contains(strings.ToLower(row.Analyte), "creatinine") && row.Value > row.High {
			return Match{
				Verdict:  Met,
				Evidence: fmt.Sprintf("%s %.2f (%.2f-%.2f)", row.Analyte, row.Value, row.Low, row.High),
			}
		}
	}

	if m := creatinineElevatedPattern.FindString(x); m != "" {
		return Match{Verdict: Met, Evidence: snippet(m)}
	}
	return Match{Verdict: NotMet}
}

// predictHbA1c collects every HbA1c value in note order, from inline
// mentions and from tabular layouts where the value sits on the line below
// a "Date ... A1C" header. The most recent (last) value decides: met when
// it falls within 6.5-9.5.
func predictHbA1c(doc string) Match {
	x := textproc.StripHTMLEntities(doc)
	x = textproc.StripDates(x)

	var values []float64
	var lastEvidence string
	previousLineIsHeader := false
	for _, line := range textproc.Lines(x) {
		if previousLineIsHeader {
			if v := hba1cValuePattern.FindString(line); v != "" {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					values = append(values, f)
					lastEvidence = line
				}
			}
			previousLineIsHeader = false
			continue
		}
		if hba1cHeaderPattern.MatchString(line) {
			previousLineIsHeader = true
			continue
		}
		for _, m := range hba1cTextPattern.FindAllStringSubmatch(line, -1) {
			span := m[1]
			// only the span up to the first comma or semicolon belongs to
			// this mention
			span = strings.SplitN(span, ";", 2)[0]
			span = strings.SplitN(span, ",", 2)[0]
			if v := hba1cValuePattern.FindString(span); v != "" {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					values = append(values, f)
					lastEvidence = line
				}
			}
		}
	}

	if len(values) == 0 {
		return Match{Verdict: NotMet}
	}
	last := values[len(values)-1]
	if last >= 6.5 && last <= 9.5 {
		return Match{Verdict: Met, Evidence: snippet(lastEvidence)}
	}
	return Match{Verdict: NotMet}
}

func predictKeto(doc string) Match {
	if m := ketoNoPattern.FindString(doc); m != "" {
		return Match{Verdict: NotMet, Evidence: snippet(m)}
	}
	if m := ketoYesPattern.FindString(doc); m != "" {
		return Match{Verdict: Met, Evidence: snippet(m)}
	}
	return Match{Verdict: NotMet}
}

// predictDietSupp matches supplement mentions whose context reads like a
// medication list entry. The right-hand negation rejects lab-style
// contexts ("iron 45", "magnesium was low") where the same word names a
// measurement rather than a supplement.
func predictDietSupp(doc string) Match {
	for _, m := range dietSuppPattern.FindAllStringSubmatch(doc, -1) {
		if dietSuppLeftNegPattern.MatchString(m[1]) || dietSuppRightNegPattern.MatchString(m[3]) {
			continue
		}
		return Match{Verdict: Met, Evidence: snippet(strings.TrimSpace(m[0]))}
	}
	return Match{Verdict: NotMet}
}
