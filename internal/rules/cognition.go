package rules

import "regexp"

var (
	// ENGLISH defaults to met; only explicit markers of another language or
	// of interpreter involvement flip it.
	otherLanguagePattern = regexp.MustCompile(`(?is)(?:arabic|aramaic|armenian|bulgarian|burmese|cambodian|cantanese|cantonese|catonese|chinese|creole|croele|ethiopian|farsi|farsti|french|greek|gujarati|haitan|hindi|indonesian|infant|italian|japanese|korean|laotian|latvian|loatian|mandarin|nonenglish|persian|polish|portugese|portuguese|romanian|rusian|russian|somali|spainish|spanish|thai|tiawanese|urdu|vietmanese|vietnamese|yiddish)[\s-]+(?:speaking)`)
	familyInterpretPattern   = regexp.MustCompile(`(?is)\b(?:member|members|family)\b[^.,;]{0,20}\b(?:interpret|translate|interpreting|translating)\b`)
	interpreterNeededPattern = regexp.MustCompile(`(?is)\b(?:interpreter|translator)\b[^.,;]{0,20}\b(?:present|required|necessary)\b`)

	// MAKES-DECISIONS defaults to met; each pattern is one way the notes
	// record that someone else decides for the patient or that the patient
	// cannot.
	decisionsNotMetPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)\b(?:daughter|wife|husband|family|niece|father|mother|son|brother|sister|sibling)\b[^.,;]{0,20}(?:make|makes)\b[^.,;]{0,20}\b(?:decision|decisions)\b`),
		regexp.MustCompile(`(?is)\b(?:pt|patient)\b[^.,;]{0,20}\b(?:not)\b[^.,;]{0,20}\b(?:make|makes)\b[^.,;]{0,20}\b(?:decision|decisions)\b`),
		regexp.MustCompile(`(?is)\b(?:mental)\b[^.,;]{0,20}\b(?:retardation)\b`),
		regexp.MustCompile(`(?is)\b(?:confusion|confused|depression|depressed|worst|worse|bad)\b[^.,;]{0,20}\b(?:mental)[^.,;]{0,20}\b(?:status)\b`),
		regexp.MustCompile(`(?is)\b(?:consult|appointment)\b[^.,;]{0,20}\b(?:neuro|psych|psychiatric)[^.,;]{0,20}\b(?:dementia|alzheimer)\b`),
		regexp.MustCompile(`(?is)\b(?:pt|patient)\b[^.,;]{0,20}\b(?:diagnosed|dx)[^.,;]{0,20}\b(?:dementia|alzheimer)\b`),
		regexp.MustCompile(`(?is)\b(?:severe)\b[^.,;]{0,20}\b(?:dementia|alzheimer)\b`),
		regexp.MustCompile(`(?is)\b(?:unable|not able)\b[^.,;]{0,20}\b(?:answer)\b[^.,;]{0,20}\b(?:question|questions)\b`),
		regexp.MustCompile(`(?is)\b(?:pt|patient)\b[^.,;]{0,20}\b(?:not)\b[^.,;]{0,20}\b[^.,;]{0,20}\b(?:acting|speaking|communicating)\b[^.,;]{0,20}\b(?:himself|herself|self)\b`),
	}
)

func predictEnglish(doc string) Match {
	for _, p := range []*regexp.Regexp{otherLanguagePattern, familyInterpretPattern, interpreterNeededPattern} {
		if m := p.FindString(doc); m != "" {
			return Match{Verdict: NotMet, Evidence: snippet(m)}
		}
	}
	return Match{Verdict: Met}
}

func predictMakesDecisions(doc string) Match {
	for _, p := range decisionsNotMetPatterns {
		if m := p.FindString(doc); m != "" {
			return Match{Verdict: NotMet, Evidence: snippet(m)}
		}
	}
	return Match{Verdict: Met}
}
