// Package event composes Neo-Davidsonian event records from a sentence's
// per-token word analyses and dependency arcs (spec.md §4.6). It is the
// only component that knows the concrete shape of verb-class and frame
// engine payloads; the coordinator treats them as opaque.
package event

import "github.com/S-Corkum/canopy/pkg/semantic/model"

// SyntacticFrame names an argument pattern a verb class supports, e.g.
// "subject+object+indirect-object" for a ditransitive.
type SyntacticFrame string

const (
	FrameIntransitive SyntacticFrame = "subject"
	FrameTransitive   SyntacticFrame = "subject+object"
	FrameDitransitive SyntacticFrame = "subject+object+indirect-object"
)

// VerbClassPayload is the shape a verb-class engine (spec.md §6) returns.
// LittleV is the class's resolved light-verb primitive (spec.md §4.6 step
// 2 "Mapping derived from the verb-class payload"); Frames gives the
// argument-to-theta mapping per syntactic pattern the verb supports.
type VerbClassPayload struct {
	LittleV model.LittleV
	Frames  map[SyntacticFrame]map[model.Relation]model.ThetaRole
}

// FramePayload is the shape a frame-semantics engine (spec.md §6) returns:
// a frame-element-to-theta-role translation table, consulted when the
// verb-class payload lacks a mapping for the observed syntactic pattern.
type FramePayload struct {
	EvokedFrames   []string
	RelationToRole map[model.Relation]model.ThetaRole
}
