// Package model holds the data types shared across the semantic coordinator
// core: lemma records, the unified word analysis, dependency arcs and event
// records (spec.md §3). It depends only on pkg/semantic/engine so that
// cache, executor and coordinator can all share these types without an
// import cycle.
package model

// LemmaRecord is the output of lemmatization (spec.md §3, §4.1).
//
// Invariant: if Surface == Lemma then Confidence >= 0.6 (the identity
// floor); irregular-form matches score >= 0.9; rule-reduced forms score
// >= 0.75.
type LemmaRecord struct {
	Surface    string
	Lemma      string
	Confidence float64
}
