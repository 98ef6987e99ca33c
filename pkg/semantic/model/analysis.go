package model

import (
	"sort"

	"github.com/S-Corkum/canopy/pkg/semantic/engine"
)

// EngineOutcomeKind distinguishes a payload hit from the two ways an engine
// can contribute nothing: it was queried and had no data for the lemma
// (Absent) or it was queried and failed (Failed). An engine that is not
// configured has no PerEngine entry at all. Conflating these is forbidden
// by spec.md §3/§7.
type EngineOutcomeKind int

const (
	OutcomeAbsent EngineOutcomeKind = iota
	OutcomeFailed
	OutcomePayload
)

// PerEngineEntry is one engine's contribution to a WordAnalysis.
type PerEngineEntry struct {
	Kind       EngineOutcomeKind
	Payload    engine.Payload
	Confidence float64
	Err        error // set only when Kind == OutcomeFailed
}

// EngineError is one entry of WordAnalysis.Errors — collected from Failed
// entries only, never from Absent ones (spec.md §4.5 "Fusion rules").
type EngineError struct {
	Engine     engine.ID
	Diagnostic string
}

// WordAnalysis is the coordinator's unified output for a single surface
// form (spec.md §3, "Unified word analysis").
//
// Invariants:
//   - Sources contains exactly those engine ids whose PerEngine entry has
//     Kind == OutcomePayload.
//   - OverallConfidence == 0 iff Sources is empty.
//   - A WordAnalysis with an empty Sources is still a valid "we know
//     nothing" record and must never be synthesized from fabricated data.
//
// WordAnalysis values are immutable after construction and may be shared by
// reference across any number of callers and cache tiers.
type WordAnalysis struct {
	Surface         string
	Lemma           string
	LemmaConfidence float64
	HasLemmaConf    bool // false when lemmatization was disabled (spec.md §4.5 step 1)

	PerEngine map[engine.ID]PerEngineEntry

	OverallConfidence float64
	Sources           []engine.ID
	Errors            []EngineError
}

// Finalize derives OverallConfidence and Sources from PerEngine and sorts
// Sources into a canonical, deterministic order (spec.md §4.4 "Ordering":
// "the coordinator imposes a canonical order when enumerating sources").
// weights is consulted for the optional per-engine reliability bias
// (spec.md §4.5); a nil or missing entry defaults to weight 1.0.
func (w *WordAnalysis) Finalize(weights map[engine.ID]float64) {
	w.Sources = w.Sources[:0]
	w.Errors = w.Errors[:0]

	var weightedSum, weightTotal float64
	for id, entry := range w.PerEngine {
		switch entry.Kind {
		case OutcomePayload:
			w.Sources = append(w.Sources, id)
			weight := 1.0
			if weights != nil {
				if ww, ok := weights[id]; ok {
					weight = ww
				}
			}
			weightedSum += entry.Confidence * weight
			weightTotal += weight
		case OutcomeFailed:
			diagnostic := ""
			if entry.Err != nil {
				diagnostic = entry.Err.Error()
			}
			w.Errors = append(w.Errors, EngineError{Engine: id, Diagnostic: diagnostic})
		}
	}

	sort.Slice(w.Sources, func(i, j int) bool { return w.Sources[i] < w.Sources[j] })
	sort.Slice(w.Errors, func(i, j int) bool { return w.Errors[i].Engine < w.Errors[j].Engine })

	if len(w.Sources) == 0 || weightTotal == 0 {
		w.OverallConfidence = 0
		return
	}
	w.OverallConfidence = weightedSum / weightTotal
}

// Clone returns a deep-enough copy of w suitable for handing to a caller
// that might mutate slices in place; PerEngine payloads themselves are
// shared by reference since they are immutable after publication.
func (w *WordAnalysis) Clone() *WordAnalysis {
	out := &WordAnalysis{
		Surface:           w.Surface,
		Lemma:             w.Lemma,
		LemmaConfidence:   w.LemmaConfidence,
		HasLemmaConf:      w.HasLemmaConf,
		OverallConfidence: w.OverallConfidence,
		PerEngine:         make(map[engine.ID]PerEngineEntry, len(w.PerEngine)),
	}
	for k, v := range w.PerEngine {
		out.PerEngine[k] = v
	}
	out.Sources = append([]engine.ID(nil), w.Sources...)
	out.Errors = append([]EngineError(nil), w.Errors...)
	return out
}
