package rules

import (
	_ "embed"
	"regexp"
	"strings"
)

// cadDrugsRaw is the medication list used as a proxy for ongoing CAD
// treatment: two or more distinct cardiac medications count as one
// disease-severity signal.
//
//go:embed data/cad_drugs.txt
var cadDrugsRaw string

var (
	cadDrugPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(cadDrugLines(), "|") + `)\b`)

	miMentionPattern = regexp.MustCompile(`(?is)(.{0,40})\b(myocardial infarction|MI|IMI|AMI|ASMI|HMI|NQWMI|NSTEMI|OASMI|SEMI|STEMI|TIMI)\b(.{0,20})`)
	anginaPattern    = regexp.MustCompile(`(?is)(.{0,40})\bangina\b(.{0,20})`)
	ischemiaPattern  = regexp.MustCompile(`(?is)(.{0,40})\bischemia\b(.{0,20})`)

	// cadNegPattern rejects mentions that are negated, speculative, or about
	// a family member rather than the patient.
	cadNegPattern = regexp.MustCompile(`(?i)\b(rule-out|rule out|ruled out|ruling out|r\\?o|r/o|no|not|negative|free|unlikely|any|absence|absent|father|mother|dad|mom|grandfather|grandmother|brother|sister|son|daughter|family|fh)\b`)

	// mi6NegPattern additionally rejects old or post-MI mentions: the
	// criterion asks for an infarction within the last six months.
	mi6NegPattern = regexp.MustCompile(`(?is)\b(rule-out|rule out|ruled out|ruling out|r\\?o|r/o|old|past|prior|post|s\\?p|s/p|no|not|negative|free|unlikely|any|absence|absent|had|father|mother|dad|mom|grandfather|grandmother|brother|sister|son|daughter|family|fh|\w{0,2}story|\w{0,2}hx|flow)\b`)

	aspirinPattern    = regexp.MustCompile(`(?is)(.{0,40})\b(aspirin|asa|acetylsalicylic)\b(.{0,40})`)
	aspirinNegPattern = regexp.MustCompile(`(?is)(avoid|stop|causes|rash|ulcer|allerg|consider|other\sday|none|should)`)
	asaStatusPattern  = regexp.MustCompile(`(?i)asa physical status`)
)

func cadDrugLines() []string {
	var out []string
	for _, line := range strings.Split(cadDrugsRaw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// predictAdvancedCAD counts independent severity signals: two or more
// distinct cardiac medications, a non-negated MI mention, angina, and
// ischemia. Two signals meet the criterion.
func predictAdvancedCAD(doc string) Match {
	signals := 0
	var evidence string

	distinct := make(map[string]struct{})
	for _, m := range cadDrugPattern.FindAllString(doc, -1) {
		distinct[strings.ToLower(m)] = struct{}{}
	}
	if len(distinct) >= 2 {
		signals++
		evidence = "cardiac medications"
	}

	for _, pattern := range []*regexp.Regexp{miMentionPattern, anginaPattern, ischemiaPattern} {
		for _, m := range pattern.FindAllStringSubmatch(doc, -1) {
			left, right := m[1], m[len(m)-1]
			if cadNegPattern.MatchString(left) || cadNegPattern.MatchString(right) {
				continue
			}
			signals++
			if evidence == "" {
				evidence = snippet(strings.TrimSpace(m[0]))
			}
			break
		}
	}

	if signals >= 2 {
		return Match{Verdict: Met, Evidence: evidence}
	}
	return Match{Verdict: NotMet}
}

// predictAspForMI looks for an aspirin mention whose context does not
// suggest avoidance, intolerance, or a mere recommendation.
func predictAspForMI(doc string) Match {
	doc = asaStatusPattern.ReplaceAllString(doc, "")
	for _, m := range aspirinPattern.FindAllStringSubmatch(doc, -1) {
		if aspirinNegPattern.MatchString(m[1]) || aspirinNegPattern.MatchString(m[3]) {
			continue
		}
		return Match{Verdict: Met, Evidence: snippet(strings.TrimSpace(m[0]))}
	}
	return Match{Verdict: NotMet}
}

// predictMI6Mos accepts an MI mention only when its context carries no
// negation and no marker of a past event.
func predictMI6Mos(doc string) Match {
	for _, m := range miMentionPattern.FindAllStringSubmatch(doc, -1) {
		if mi6NegPattern.MatchString(m[1]) || mi6NegPattern.MatchString(m[3]) {
			continue
		}
		return Match{Verdict: Met, Evidence: snippet(strings.TrimSpace(m[0]))}
	}
	return Match{Verdict: NotMet}
}
