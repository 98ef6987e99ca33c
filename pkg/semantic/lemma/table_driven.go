package lemma

import "strings"

// TableDriven is the morphology-table tier (spec.md §4.1 "Pluggability"):
// it consults a caller-supplied table before falling back to the
// rule-based tier's own algorithm. It implements the same Lemmatizer
// contract and is a drop-in replacement chosen at coordinator construction
// time.
type TableDriven struct {
	table    map[string]Entry
	fallback Lemmatizer
}

// NewTableDriven builds a table-driven lemmatizer. A nil or empty table is
// legal; every lookup then falls through to the rule-based tier.
func NewTableDriven(table map[string]Entry) *TableDriven {
	return &TableDriven{table: table, fallback: NewRuleBased()}
}

func (t *TableDriven) Lemmatize(surface string) (string, float64) {
	validate(surface)

	lower := strings.ToLower(surface)
	if entry, ok := t.table[lower]; ok {
		return entry.Lemma, entry.Confidence
	}
	return t.fallback.Lemmatize(surface)
}
