package scoring

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// sentence boundary: punctuation followed by whitespace
	sentenceRe = regexp.MustCompile(`([.!?])\s+`)

	// measurable outcomes: percentages, dollar amounts, bare figures, durations
	metricRe = regexp.MustCompile(`(\d+(\.\d+)?%|\$?\d+[kKmM]?|\b\d+\b (days?|weeks?|months?|hours?))`)
)

// DefaultVerbs are the action verbs used for keyword alignment when the
// caller does not supply its own list.
var DefaultVerbs = []string{
	"built", "designed", "automated", "optimized", "deployed", "analyzed", "modeled",
	"visualized", "orchestrated", "led", "improved", "reduced", "increased", "streamlined",
	"migrated", "integrated", "refactored", "monitored", "tested", "validated",
}

// CleanText collapses all whitespace runs into single spaces and trims the result.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// SplitSentences splits cleaned text into sentences on `.`, `!` or `?`
// followed by whitespace. Empty fragments are dropped.
func SplitSentences(s string) []string {
	marked := sentenceRe.ReplaceAllString(s, "$1\x00")

	var sentences []string
	for _, part := range strings.Split(marked, "\x00") {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// ExtractTerms returns the vocabulary terms present in text. A term matches
// only on its own word boundary (letters, digits, underscore and hyphen count
// as word characters), and spaces inside a term also match hyphens, so
// "scikit learn" in the vocabulary matches "scikit-learn" in the text.
// Matching is case-insensitive; returned terms keep their vocabulary casing.
func ExtractTerms(text string, vocab []string) []string {
	lowered := strings.ToLower(text)

	var found []string
	for _, term := range vocab {
		if termPattern(term).MatchString(lowered) {
			found = append(found, term)
		}
	}
	return found
}

func termPattern(term string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(term)))
	escaped = strings.ReplaceAll(escaped, " ", `[ \-]`)
	return regexp.MustCompile(`(?:\A|[^\p{L}\p{N}_-])` + escaped + `(?:[^\p{L}\p{N}_-]|\z)`)
}

// EvidenceScore measures how much of the resume is backed by quantified
// outcomes: the fraction of lines containing a metric, capped at 1.
func EvidenceScore(lines []string) float64 {
	if len(lines) == 0 {
		return 0
	}

	metricLines := 0
	for _, line := range lines {
		if metricRe.MatchString(line) {
			metricLines++
		}
	}

	score := float64(metricLines) / float64(len(lines))
	if score > 1 {
		score = 1
	}
	return score
}
