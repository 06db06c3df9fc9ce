package faq

import (
	"strings"
	"unicode"
)

// normalizeQuestion lower-cases text and collapses punctuation and runs of
// whitespace into single spaces.
func normalizeQuestion(q string) string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		// whitespace and punctuation both act as separators
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(builder.String())
}

// canonicalText is the form compared by the scorer. Text made only of
// punctuation keeps its lower-cased original so it can still match itself.
func canonicalText(s string) string {
	if normalized := normalizeQuestion(s); normalized != "" {
		return normalized
	}
	return strings.ToLower(strings.TrimSpace(s))
}
