package lemma

import "strings"

const (
	ruleConfidence = 0.8

	// identityConfidence is assigned when no suffix pattern matches at
	// all. It is deliberately equal to ruleConfidence: without a lexicon
	// of known bases, an unreducible word cannot be distinguished from a
	// word that successfully reduced to its own base form, and the
	// idempotence law (spec.md §8) requires lemmatizing a rule-reduced
	// base to score no lower than the reduction that produced it.
	identityConfidence = ruleConfidence

	passthroughConfidence = 1.0
)

// RuleBased implements the Lemmatizer contract described in spec.md §4.1:
// irregular-form lookup, then suffix-stripping with orthographic repair,
// then identity.
type RuleBased struct{}

// NewRuleBased returns the default rule-based lemmatizer tier.
func NewRuleBased() *RuleBased { return &RuleBased{} }

func (r *RuleBased) Lemmatize(surface string) (string, float64) {
	validate(surface)

	if !isLetterToken(surface) {
		return surface, passthroughConfidence
	}

	lower := strings.ToLower(surface)

	if base, ok := irregulars[lower]; ok {
		return base, irregularConfidence
	}

	if base, ok := stripSuffix(lower); ok {
		return base, ruleConfidence
	}

	return lower, identityConfidence
}

// stripSuffix applies the suffix-stripping rules from spec.md §4.1(b):
// -ing, -ed, -s, -es, -er, -est, doubled-consonant unwind, y→i reversal.
func stripSuffix(lower string) (string, bool) {
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 4:
		return lower[:len(lower)-3] + "y", true
	case strings.HasSuffix(lower, "ing") && len(lower) > 5:
		return undouble(lower[:len(lower)-3]), true
	case strings.HasSuffix(lower, "est") && len(lower) > 5:
		return undouble(lower[:len(lower)-3]), true
	case strings.HasSuffix(lower, "er") && len(lower) > 4:
		return undouble(lower[:len(lower)-2]), true
	case strings.HasSuffix(lower, "es") && len(lower) > 4:
		return lower[:len(lower)-2], true
	case strings.HasSuffix(lower, "ed") && len(lower) > 4:
		return undouble(lower[:len(lower)-2]), true
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(lower) > 3:
		return lower[:len(lower)-1], true
	default:
		return "", false
	}
}

// undouble reverses a doubled final consonant left by stripping -ing/-ed/
// -er/-est (e.g. "stopp" -> "stop", "runn" -> "run"); stems that were never
// doubled pass through unchanged.
func undouble(stem string) string {
	n := len(stem)
	if n < 3 {
		return stem
	}
	last := stem[n-1]
	secondLast := stem[n-2]
	if last == secondLast && isConsonant(last) {
		return stem[:n-1]
	}
	return stem
}

func isConsonant(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	default:
		return b >= 'a' && b <= 'z'
	}
}
