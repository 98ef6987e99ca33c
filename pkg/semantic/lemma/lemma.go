// Package lemma reduces a surface token to its dictionary form. It is the
// first component in the coordinator's pipeline (spec.md §4.1) and never
// fails: the identity lemma is the confidence floor.
package lemma

import (
	"strings"
	"unicode"
)

// Entry is one row of a morphology table consulted by the table-driven
// tier before it falls back to the rule-based tier.
type Entry struct {
	Lemma      string
	Confidence float64
}

// Lemmatizer reduces surface to its lemma. Implementations must be
// deterministic, must be case-consistent with the engines' indexing
// conventions, and must never fail: the identity lemma is the confidence
// floor of last resort.
//
// Lemmatize panics if surface is empty or contains whitespace — both are
// caller contract violations, not recoverable conditions (spec.md §4.1
// "Empty string: caller error; must not be passed"; multi-word input is
// out of scope for a single lemmatization call).
type Lemmatizer interface {
	Lemmatize(surface string) (lemma string, confidence float64)
}

func validate(surface string) {
	if surface == "" {
		panic("lemma: Lemmatize called with empty surface")
	}
	if strings.ContainsFunc(surface, unicode.IsSpace) {
		panic("lemma: Lemmatize called with multi-word surface " + surface)
	}
}

// isLetterToken reports whether surface is composed entirely of letters,
// i.e. is a candidate for morphological reduction at all. Numerals and
// punctuation pass straight through as identity with confidence 1.0
// (spec.md §4.1 "Edge cases").
func isLetterToken(surface string) bool {
	for _, r := range surface {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
