// Package engine defines the capability contract every lexical resource
// (verb-class database, frame-semantics database, sense database, user
// lexicon) must satisfy to be fanned out to by the parallel executor and
// fused by the coordinator. The coordinator holds engines only through this
// interface and must never know a concrete engine's type.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ID identifies an engine within the coordinator's configuration and within
// a WordAnalysis's per-engine map. The four identifiers below are the ones
// spec.md §6 names as collaborator interfaces; additional engines may
// register their own ID without code changes elsewhere in the core.
type ID string

const (
	VerbClass ID = "verb-class"
	Frame     ID = "frame"
	Sense     ID = "sense"
	Lexicon   ID = "lexicon"
)

// ErrAbsent is returned by Analyze when the engine was queried but has
// nothing to say about the lemma. It is distinct from a query failure:
// absence is expected, ordinary behavior and must never be recorded in
// WordAnalysis.errors (spec.md §3, "Per-engine absent vs failed").
var ErrAbsent = errors.New("engine: no analysis for lemma")

// Payload is the opaque, engine-specific analysis result. The coordinator
// never inspects it; only the engine that produced it and, for verb-class
// and frame payloads, the event composer (pkg/semantic/event) know its
// concrete type.
type Payload = interface{}

// Result is what Analyze returns on a hit: the engine's payload plus the
// engine's own confidence in it, in [0,1] (spec.md §3, "each engine
// produces a value of its own analysis type plus an engine-assigned
// confidence"). Confidence is the engine's, not the coordinator's; fusion
// in model.WordAnalysis.Finalize consumes it verbatim (optionally biased
// by a per-engine reliability weight), it does not invent it.
type Result struct {
	Payload    Payload
	Confidence float64
}

// Engine is the uniform contract every lexical resource implements.
//
// Analyze must load real data at construction time (see NewConstructionError);
// no Engine implementation may fabricate a payload for a lemma it has no
// data for. It returns (Result, nil) on a hit, (Result{}, ErrAbsent) when
// the engine has no data for lemma, or (Result{}, err) — any other non-nil
// err — when the query itself failed.
type Engine interface {
	ID() ID
	Analyze(ctx context.Context, lemma string) (Result, error)
	IsLoaded() bool
	Statistics() Stats
}

// Stats is the read-only observability surface every engine exposes.
// Exact values are not required for correctness (spec.md §5); callers may
// use atomics internally.
type Stats struct {
	Queries     uint64
	Hits        uint64
	MeanLatency time.Duration
}

// ConstructionError is returned by an engine constructor when the engine's
// backing data cannot be loaded. Per spec.md §7 (taxonomy item 1), this is
// fatal: no Engine instance is produced, and the caller must not substitute
// an empty or placeholder engine in its place.
type ConstructionError struct {
	Engine ID
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("engine %s: construction failed: %s", e.Engine, e.Reason)
}

// NewConstructionError builds a ConstructionError for the given engine id.
func NewConstructionError(id ID, reason string) error {
	return &ConstructionError{Engine: id, Reason: reason}
}
