package executor

import "errors"

// errTimeout is the diagnostic recorded when an engine query is cancelled
// by the per-engine timeout (spec.md §7 taxonomy item 3).
var errTimeout = errors.New("executor: per-engine timeout exceeded")

// errCircuitOpen is the diagnostic recorded when an engine's circuit
// breaker is open, short-circuiting the query without waiting out the
// per-engine timeout (SPEC_FULL.md supplemented reliability behavior).
var errCircuitOpen = errors.New("executor: circuit breaker open")
