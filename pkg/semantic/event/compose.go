package event

import (
	"sort"

	"github.com/S-Corkum/canopy/pkg/semantic/engine"
	"github.com/S-Corkum/canopy/pkg/semantic/model"
)

// argumentRelations are the relations that introduce an event argument
// (spec.md §4.6 step 4).
var argumentRelations = map[model.Relation]bool{
	model.RelSubject:        true,
	model.RelObject:         true,
	model.RelIndirectObject: true,
	model.RelOblique:        true,
	model.RelPassiveSubject: true,
	model.RelObliqueAgent:   true,
}

// modifierRelations are the relations that introduce an event modifier
// (spec.md §4.6 step 5).
var modifierRelations = map[model.Relation]bool{
	model.RelModifierTemporal:   true,
	model.RelModifierManner:     true,
	model.RelModifierLocation:   true,
	model.RelModifierInstrument: true,
	model.RelModifier:           true,
}

// Compose builds one Event per verbal token in tokens, given the sentence's
// dependency arcs (spec.md §4.6). Malformed arcs (cycle, missing head) fail
// the whole sentence; no partial events are returned in that case.
func Compose(tokens []model.Token, arcs []model.DependencyArc) ([]model.Event, error) {
	if err := validateArcs(len(tokens), arcs); err != nil {
		return nil, err
	}

	childrenOf := make(map[int][]model.DependencyArc)
	for _, arc := range arcs {
		childrenOf[arc.Head] = append(childrenOf[arc.Head], arc)
	}

	var events []model.Event
	for _, tok := range tokens {
		if !isEventHead(tok) {
			continue
		}
		events = append(events, composeOne(tok, tokens, childrenOf[tok.Index]))
	}

	// Deterministic output order: by head token index (spec.md §4.6
	// "Determinism").
	sort.Slice(events, func(i, j int) bool { return events[i].HeadTokenIndex < events[j].HeadTokenIndex })
	return events, nil
}

// isEventHead implements step 1: a verb-class payload marks the token as
// an event head outright; absent that, a frame payload or a verbal POS cue
// does. A token with no sources and no verbal POS cue is skipped.
func isEventHead(tok model.Token) bool {
	if tok.Analysis == nil {
		return tok.POS == "VERB"
	}
	if _, ok := verbClassPayload(tok.Analysis); ok {
		return true
	}
	if _, ok := framePayload(tok.Analysis); ok {
		return true
	}
	return tok.POS == "VERB"
}

func verbClassPayload(wa *model.WordAnalysis) (VerbClassPayload, bool) {
	entry, ok := wa.PerEngine[engine.VerbClass]
	if !ok || entry.Kind != model.OutcomePayload {
		return VerbClassPayload{}, false
	}
	vc, ok := entry.Payload.(VerbClassPayload)
	return vc, ok
}

func framePayload(wa *model.WordAnalysis) (FramePayload, bool) {
	entry, ok := wa.PerEngine[engine.Frame]
	if !ok || entry.Kind != model.OutcomePayload {
		return FramePayload{}, false
	}
	fp, ok := entry.Payload.(FramePayload)
	return fp, ok
}

func composeOne(head model.Token, tokens []model.Token, children []model.DependencyArc) model.Event {
	vc, hasVC := verbClassPayload(head.Analysis)
	fp, hasFP := framePayload(head.Analysis)

	voice, voiceConf := detectVoice(children)
	littleV := selectLittleV(vc, hasVC)

	bindings, thetaConf, provenance := assignThetaRoles(children, tokens, voice, vc, hasVC, fp, hasFP)
	modifiers := collectModifiers(children, tokens)

	headConf := 0.0
	if head.Analysis != nil {
		headConf = head.Analysis.OverallConfidence
	}

	predicate := head.Surface
	if head.Analysis != nil && head.Analysis.Lemma != "" {
		predicate = head.Analysis.Lemma
	}

	return model.Event{
		Predicate:      predicate,
		HeadTokenIndex: head.Index,
		ThetaBindings:  bindings,
		Voice:          voice,
		LittleV:        littleV,
		Modifiers:      modifiers,
		Confidence:     min3(headConf, thetaConf, voiceConf),
		Provenance:     provenance,
	}
}

// detectVoice implements step 3.
func detectVoice(children []model.DependencyArc) (model.Voice, float64) {
	for _, arc := range children {
		if arc.Relation == model.RelPassiveSubject {
			return model.Passive, 1.0
		}
	}
	for _, arc := range children {
		if arc.Relation == model.RelReflexive {
			return model.Reflexive, 1.0
		}
	}
	return model.Active, 1.0
}

// selectLittleV implements step 2: the verb-class payload carries the
// already-resolved primitive for its class (motion/cause/inchoative/
// stative/etc. all require verb-class data to distinguish). Without a
// verb-class payload there is no basis to pick anything but the least
// specific primitive, VDo.
func selectLittleV(vc VerbClassPayload, hasVC bool) model.LittleV {
	if hasVC {
		return vc.LittleV
	}
	return model.VDo
}

const (
	verbClassConfidence = 1.0
	frameConfidence     = 0.75
	heuristicConfidence = 0.5
)

// assignThetaRoles implements step 4, including the passive remap and the
// verb-class > frame > heuristic tie-break.
func assignThetaRoles(
	children []model.DependencyArc,
	tokens []model.Token,
	voice model.Voice,
	vc VerbClassPayload,
	hasVC bool,
	fp FramePayload,
	hasFP bool,
) (map[model.ThetaRole]model.Participant, float64, string) {
	bindings := make(map[model.ThetaRole]model.Participant)
	confidence := 1.0
	provenance := "verb-class"

	frame := observedFrame(children)

	for _, arc := range children {
		if !argumentRelations[arc.Relation] {
			continue
		}
		role, conf, prov := resolveRole(arc, frame, voice, tokens, vc, hasVC, fp, hasFP)
		bindings[role] = model.Participant{TokenIndex: arc.Child, Surface: tokens[arc.Child].Surface}
		if conf < confidence {
			confidence = conf
		}
		if prov == "heuristic" || (prov == "frame" && provenance != "heuristic") {
			provenance = prov
		}
	}

	return bindings, confidence, provenance
}

// observedFrame names the syntactic pattern seen on this event head in
// terms of the underlying active frame, so verb-class lookups key by it:
// a passive-subject counts as the object and an oblique-agent is ignored.
func observedFrame(children []model.DependencyArc) SyntacticFrame {
	has := map[model.Relation]bool{}
	for _, arc := range children {
		has[arc.Relation] = true
	}
	switch {
	case has[model.RelIndirectObject]:
		return FrameDitransitive
	case has[model.RelObject] || has[model.RelPassiveSubject]:
		return FrameTransitive
	default:
		return FrameIntransitive
	}
}

func resolveRole(
	arc model.DependencyArc,
	frame SyntacticFrame,
	voice model.Voice,
	tokens []model.Token,
	vc VerbClassPayload,
	hasVC bool,
	fp FramePayload,
	hasFP bool,
) (model.ThetaRole, float64, string) {
	lookupRelation := arc.Relation
	if voice == model.Passive {
		switch arc.Relation {
		case model.RelPassiveSubject:
			lookupRelation = model.RelObject
		case model.RelObliqueAgent:
			return model.Agent, verbClassConfidence, "verb-class"
		}
	}

	if hasVC {
		if mapping, ok := vc.Frames[frame]; ok {
			if role, ok := mapping[lookupRelation]; ok {
				return role, verbClassConfidence, "verb-class"
			}
		}
	}
	if hasFP {
		if role, ok := fp.RelationToRole[lookupRelation]; ok {
			return role, frameConfidence, "frame"
		}
	}

	return positionalHeuristic(arc, tokens), heuristicConfidence, "heuristic"
}

// positionalHeuristic implements the fallback in step 4: subject is Agent
// if animate else Theme; object is Patient.
func positionalHeuristic(arc model.DependencyArc, tokens []model.Token) model.ThetaRole {
	switch arc.Relation {
	case model.RelSubject, model.RelPassiveSubject:
		if tokens[arc.Child].Animate {
			return model.Agent
		}
		return model.Theme
	case model.RelObliqueAgent:
		return model.Agent
	default:
		return model.Patient
	}
}

func collectModifiers(children []model.DependencyArc, tokens []model.Token) []model.Modifier {
	var mods []model.Modifier
	for _, arc := range children {
		if !modifierRelations[arc.Relation] {
			continue
		}
		mods = append(mods, model.Modifier{
			Relation:   arc.Relation,
			TokenIndex: arc.Child,
			Surface:    tokens[arc.Child].Surface,
		})
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].TokenIndex < mods[j].TokenIndex })
	return mods
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
