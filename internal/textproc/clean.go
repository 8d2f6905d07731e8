package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokenPattern extracts runs of at least two letters; numbers and
// punctuation are dropped from the cleaned representation.
var tokenPattern = regexp.MustCompile(`[a-zA-Z]{2,}`)

// deaccenter strips combining marks so "Núttèr" becomes "Nutter".
var deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Clean normalizes a clinical note for the learned evaluators:
//
//  1. the text is deaccented,
//  2. sequences of at least two letters are kept as tokens,
//  3. all-uppercase tokens are preserved, the rest are lowercased,
//  4. the abbreviations "pt" and "pts" become "patient".
//
// Rule evaluators run on the raw text instead; cleaning destroys the lab
// values and punctuation their patterns depend on.
func Clean(doc string) string {
	tokens := Tokens(doc)
	return strings.Join(tokens, " ")
}

// Tokens applies the same normalization as Clean but keeps the token list.
func Tokens(doc string) []string {
	doc = Deaccent(doc)
	tokens := tokenPattern.FindAllString(doc, -1)
	for i, token := range tokens {
		if strings.ToUpper(token) != token {
			token = strings.ToLower(token)
		}
		if token == "pt" || token == "pts" {
			token = "patient"
		}
		tokens[i] = token
	}
	return tokens
}

// Deaccent converts accented characters to their ASCII base form.
func Deaccent(s string) string {
	out, _, err := transform.String(deaccenter, s)
	if err != nil {
		return s
	}
	return out
}

var htmlEntityPattern = regexp.MustCompile(`(?i)&#\d+;`)

// StripHTMLEntities removes numeric HTML character references that leak
// into some note exports.
func StripHTMLEntities(doc string) string {
	return htmlEntityPattern.ReplaceAllString(doc, "")
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}/\d{1,2}/\d{1,2}|\d{1,2}/\d{1,2}/\d{4}|\d{1,2}/\d{1,2}/\d{1,2}|\d{4}/\d{1,2}|\d{1,2}/\d{4}|\d{1,2}/\d{1,2}|\d{4}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(?:day|week|month|year)s?`),
	regexp.MustCompile(`(?i)(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}`),
}

// StripDates removes date-like expressions so numeric lab-value patterns do
// not accidentally match fragments of dates.
func StripDates(doc string) string {
	for _, p := range datePatterns {
		doc = p.ReplaceAllString(doc, "")
	}
	return doc
}

// Lines returns the non-empty lines of a document with runs of whitespace
// collapsed to single spaces.
func Lines(doc string) []string {
	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, strings.Join(strings.Fields(line), " "))
	}
	return lines
}
