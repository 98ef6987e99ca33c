package lemma

// irregulars covers common irregular past tenses, plurals and comparatives
// that suffix-stripping cannot reduce correctly. This is a small seed table,
// not an exhaustive dictionary; the table-driven tier (NewTableDriven) is
// the extension point for a larger, externally supplied one.
var irregulars = map[string]string{
	"gave":     "give",
	"broke":    "break",
	"broken":   "break",
	"went":     "go",
	"came":     "come",
	"ran":      "run",
	"saw":      "see",
	"took":     "take",
	"taken":    "take",
	"made":     "make",
	"said":     "say",
	"had":      "have",
	"did":      "do",
	"done":     "do",
	"was":      "be",
	"were":     "be",
	"been":     "be",
	"is":       "be",
	"are":      "be",
	"knew":     "know",
	"known":    "know",
	"thought":  "think",
	"bought":   "buy",
	"brought":  "bring",
	"caught":   "catch",
	"taught":   "teach",
	"felt":     "feel",
	"kept":     "keep",
	"left":     "leave",
	"lost":     "lose",
	"sold":     "sell",
	"told":     "tell",
	"found":    "find",
	"sent":     "send",
	"built":    "build",
	"children": "child",
	"men":      "man",
	"women":    "woman",
	"mice":     "mouse",
	"geese":    "goose",
	"feet":     "foot",
	"teeth":    "tooth",
	"better":   "good",
	"best":     "good",
	"worse":    "bad",
	"worst":    "bad",
}

const irregularConfidence = 0.95

// init closes irregulars under self-mapping: every base form a surface
// reduces to (e.g. "give", "break", "go") must itself lemmatize to itself
// at no lower a confidence than the form that reduced to it (the
// idempotence law, spec.md §8: "if lemma(s) = l, then lemma(l) = l with
// confidence >= confidence of lemma(s)"). Without this, looking up a base
// form that never appears as a key in its own right would fall through to
// the identity floor and violate the law.
func init() {
	bases := make([]string, 0, len(irregulars))
	for _, base := range irregulars {
		bases = append(bases, base)
	}
	for _, base := range bases {
		if _, exists := irregulars[base]; !exists {
			irregulars[base] = base
		}
	}
}
