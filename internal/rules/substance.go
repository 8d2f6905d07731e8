package rules

import "regexp"

// The substance-use criteria hinge on ordering: a history/negation marker
// before or after the substance mention flips the reading. Every window is
// bounded and stops at clause punctuation so a marker in the next sentence
// cannot negate this one.

var (
	// ALCOHOL-ABUSE, not met.
	alcDeniesPattern       = regexp.MustCompile(`(?is)\b(?:denies|deny)\b[^.,]{0,20}?\b(?:alcohol|drink|drinking|etoh)\b`)
	alcNoAbuseDrinkPattern = regexp.MustCompile(`(?is)\b(?:ago|no|none|past|prev|previous|prior|history|h/o|hx)\b[^.,]{0,20}?\b(?:abuse|dependence|heavy|ingestion)\b[^.,]{0,20}?\b(?:alcohol|drink|drinking|etoh)\b`)
	alcNoDrinkAbusePattern = regexp.MustCompile(`(?is)\b(?:ago|no|none|past|prev|previous|prior|history|h/o|hx)\b[^.,]{0,20}?\b(?:alcohol|drink|drinking|etoh)\b[^.,]{0,20}?\b(?:abuse|dependence|heavy|ingestion)\b`)
	alcDrinkNoAbusePattern = regexp.MustCompile(`(?is)\b(?:alcohol|drink|drinking|etoh)\b[^.,]{0,20}?\b(?:ago|no|none|past|prev|previous|prior|history|h/o|hx)\b[^.,]{0,20}?\b(?:abuse|dependence|heavy|ingestion)\b`)
	alcAbuseDrinkNoPattern = regexp.MustCompile(`(?is)\b(?:abuse|binge|dependence|heavy|ingestion)\b[^.,]{0,20}?\b(?:alcohol|drink|drinking|etoh)\b[^.,]{0,20}?\b(?:ago|no|none|past|prev|previous|prior|history|h/o|hx)\b`)

	// ALCOHOL-ABUSE, met.
	alcLimitPattern      = regexp.MustCompile(`(?is)\blimit\b[^.,]{0,20}?\b(?:alcohol|drink|drinking|etoh)\b`)
	alcAmountPattern     = regexp.MustCompile(`(?is)\bamount\b[^.,]{0,20}?\b(?:alcohol|etoh)\b[^.,]{0,20}?\b(?:drink|drinking)\b`)
	alcTherapyPattern    = regexp.MustCompile(`(?is)\btherapy\b[^.,]{0,20}?\b(?:alcohol|drink|drinking|etoh)\b`)
	alcDrinkAbusePattern = regexp.MustCompile(`(?is)\b(?:alcohol|drink|drinking|etoh)\b[^.,]{0,20}?\b(?:abuse|dependence|heavy|ingestion)\b`)
	alcAbuseDrinkPattern = regexp.MustCompile(`(?is)\b(?:abuse|binge|dependence|heavy|ingestion)\b[^.,]{0,20}?\b(?:alcohol|drink|drinking|etoh)\b`)

	// DRUG-ABUSE, not met: an explicit denial of past use wins over any
	// history pattern.
	drugDeniesHistUsePattern = regexp.MustCompile(`(?i)\b(?:denies|deny|no)\b[^.,;:\n]{0,25}\b(?:ago|past|prev|previous|previously|prior|history|h/o|hx|h/x)\b[^.,;:\n]{0,25}\b(?:crack|cocaine|drug|heroin|illicit|substance)\b[^.,;:\n]{0,25}\b(?:abuse|abused|dependence|heavy|smoke|smoked|smoking|use|used)\b`)
	drugDeniesUseHistPattern = regexp.MustCompile(`(?i)\b(?:denies|deny|no)\b[^.,;:\n]{0,25}\b(?:ago|past|prev|previous|previously|prior|history|h/o|hx|h/x)\b[^.,;:\n]{0,25}\b(?:abuse|abused|dependence|heavy|smoke|smoked|smoking|use|used)\b[^.,;:\n]{0,25}\b(?:crack|cocaine|drug|heroin|illicit|substance)\b`)

	// DRUG-ABUSE, met: a history marker combined with an illicit substance
	// and a use marker, in any of the three orderings.
	drugHistDrugUsePattern = regexp.MustCompile(`(?i)\b(?:ago|past|prev|previous|previously|prior|history|h/o|hx|h/x)\b[^.,;:\n]{0,25}\b(?:crack|cocaine|drug|heroin|illicit|substance)\b[^.,;:\n]{0,25}\b(?:abuse|abused|dependence|heavy|smoke|smoked|smoking|use|used)\b`)
	drugHistUseDrugPattern = regexp.MustCompile(`(?i)\b(?:ago|past|prev|previous|previously|prior|history|h/o|hx|h/x)\b[^.,;:\n]{0,25}\b(?:abuse|abused|dependence|heavy|smoke|smoked|smoking|use|used)\b[^.,;:\n]{0,25}\b(?:crack|cocaine|drug|heroin|illicit|substance)\b`)
	drugUseDrugHistPattern = regexp.MustCompile(`(?i)\b(?:abuse|abused|dependence|heavy|smoke|smoked|smoking|use|used)\b[^.,;:\n]{0,25}\b(?:crack|cocaine|drug|heroin|illicit|substance)\b[^.,;:\n]{0,25}\b(?:ago|past|prev|previous|previously|prior|history|h/o|hx|h/x)\b`)
)

func predictAlcoholAbuse(doc string) Match {
	for _, p := range []*regexp.Regexp{
		alcDeniesPattern,
		alcNoAbuseDrinkPattern,
		alcNoDrinkAbusePattern,
		alcDrinkNoAbusePattern,
		alcAbuseDrinkNoPattern,
	} {
		if m := p.FindString(doc); m != "" {
			return Match{Verdict: NotMet, Evidence: snippet(m)}
		}
	}
	for _, p := range []*regexp.Regexp{
		alcLimitPattern,
		alcAmountPattern,
		alcTherapyPattern,
		alcDrinkAbusePattern,
		alcAbuseDrinkPattern,
	} {
		if m := p.FindString(doc); m != "" {
			return Match{Verdict: Met, Evidence: snippet(m)}
		}
	}
	return Match{Verdict: NotMet}
}

func predictDrugAbuse(doc string) Match {
	for _, p := range []*regexp.Regexp{drugDeniesHistUsePattern, drugDeniesUseHistPattern} {
		if m := p.FindString(doc); m != "" {
			return Match{Verdict: NotMet, Evidence: snippet(m)}
		}
	}
	for _, p := range []*regexp.Regexp{drugHistDrugUsePattern, drugHistUseDrugPattern, drugUseDrugHistPattern} {
		if m := p.FindString(doc); m != "" {
			return Match{Verdict: Met, Evidence: snippet(m)}
		}
	}
	return Match{Verdict: NotMet}
}
