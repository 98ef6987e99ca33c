package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S-Corkum/canopy/pkg/semantic/engine"
	"github.com/S-Corkum/canopy/pkg/semantic/model"
)

func verbClassAnalysis(lemma string, littleV model.LittleV, frames map[SyntacticFrame]map[model.Relation]model.ThetaRole) *model.WordAnalysis {
	wa := &model.WordAnalysis{
		Lemma:             lemma,
		OverallConfidence: 0.9,
		PerEngine: map[engine.ID]model.PerEngineEntry{
			engine.VerbClass: {
				Kind:       model.OutcomePayload,
				Confidence: 0.9,
				Payload:    VerbClassPayload{LittleV: littleV, Frames: frames},
			},
		},
	}
	wa.Sources = []engine.ID{engine.VerbClass}
	return wa
}

// TestComposeDitransitiveActive mirrors spec scenario S1: "John gave Mary a
// book".
func TestComposeDitransitiveActive(t *testing.T) {
	giveAnalysis := verbClassAnalysis("give", model.VCause, map[SyntacticFrame]map[model.Relation]model.ThetaRole{
		FrameDitransitive: {
			model.RelSubject:        model.Agent,
			model.RelIndirectObject: model.Recipient,
			model.RelObject:         model.Patient,
		},
	})

	tokens := []model.Token{
		{Index: 0, Surface: "John"},
		{Index: 1, Surface: "gave", Analysis: giveAnalysis},
		{Index: 2, Surface: "Mary"},
		{Index: 3, Surface: "a"},
		{Index: 4, Surface: "book"},
	}
	arcs := []model.DependencyArc{
		{Child: 1, Head: model.Root, Relation: ""},
		{Child: 0, Head: 1, Relation: model.RelSubject},
		{Child: 2, Head: 1, Relation: model.RelIndirectObject},
		{Child: 4, Head: 1, Relation: model.RelObject},
		{Child: 3, Head: 4, Relation: model.RelDeterminer},
	}

	events, err := Compose(tokens, arcs)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "give", ev.Predicate)
	assert.Equal(t, model.Active, ev.Voice)
	assert.Equal(t, model.VCause, ev.LittleV)
	assert.Greater(t, ev.Confidence, 0.0)
	assert.Equal(t, model.Participant{TokenIndex: 0, Surface: "John"}, ev.ThetaBindings[model.Agent])
	assert.Equal(t, model.Participant{TokenIndex: 2, Surface: "Mary"}, ev.ThetaBindings[model.Recipient])
	assert.Equal(t, model.Participant{TokenIndex: 4, Surface: "book"}, ev.ThetaBindings[model.Patient])
}

// TestComposePassiveRemap mirrors spec scenario S2: "The vase was broken by
// John".
func TestComposePassiveRemap(t *testing.T) {
	breakAnalysis := verbClassAnalysis("break", model.VCause, map[SyntacticFrame]map[model.Relation]model.ThetaRole{
		FrameTransitive: {
			model.RelSubject: model.Agent,
			model.RelObject:  model.Patient,
		},
	})

	tokens := []model.Token{
		{Index: 0, Surface: "The"},
		{Index: 1, Surface: "vase"},
		{Index: 2, Surface: "was"},
		{Index: 3, Surface: "broken", Analysis: breakAnalysis},
		{Index: 4, Surface: "by"},
		{Index: 5, Surface: "John"},
	}
	arcs := []model.DependencyArc{
		{Child: 3, Head: model.Root, Relation: ""},
		{Child: 1, Head: 3, Relation: model.RelPassiveSubject},
		{Child: 2, Head: 3, Relation: model.RelCopula},
		{Child: 5, Head: 3, Relation: model.RelObliqueAgent},
		{Child: 0, Head: 1, Relation: model.RelDeterminer},
	}

	events, err := Compose(tokens, arcs)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "break", ev.Predicate)
	assert.Equal(t, model.Passive, ev.Voice)
	assert.Equal(t, model.VCause, ev.LittleV)
	assert.Equal(t, model.Participant{TokenIndex: 5, Surface: "John"}, ev.ThetaBindings[model.Agent])
	assert.Equal(t, model.Participant{TokenIndex: 1, Surface: "vase"}, ev.ThetaBindings[model.Patient])
}

// TestComposeUnaccusativeNoAgent mirrors spec scenario S3: "The ice
// melted" — an unaccusative verb whose surface subject bears Theme, not
// Agent, and produces no Agent binding at all.
func TestComposeUnaccusativeNoAgent(t *testing.T) {
	meltAnalysis := verbClassAnalysis("melt", model.VBecome, map[SyntacticFrame]map[model.Relation]model.ThetaRole{
		FrameIntransitive: {
			model.RelSubject: model.Theme,
		},
	})

	tokens := []model.Token{
		{Index: 0, Surface: "The"},
		{Index: 1, Surface: "ice"},
		{Index: 2, Surface: "melted", Analysis: meltAnalysis},
	}
	arcs := []model.DependencyArc{
		{Child: 2, Head: model.Root, Relation: ""},
		{Child: 1, Head: 2, Relation: model.RelSubject},
		{Child: 0, Head: 1, Relation: model.RelDeterminer},
	}

	events, err := Compose(tokens, arcs)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "melt", ev.Predicate)
	assert.Equal(t, model.Active, ev.Voice)
	assert.Equal(t, model.VBecome, ev.LittleV)
	assert.Equal(t, model.Participant{TokenIndex: 1, Surface: "ice"}, ev.ThetaBindings[model.Theme])
	_, hasAgent := ev.ThetaBindings[model.Agent]
	assert.False(t, hasAgent, "an unaccusative subject must not be bound as Agent")
}

func TestComposeMalformedCycleFails(t *testing.T) {
	tokens := []model.Token{
		{Index: 0, Surface: "a"},
		{Index: 1, Surface: "b"},
	}
	arcs := []model.DependencyArc{
		{Child: 0, Head: 1, Relation: model.RelSubject},
		{Child: 1, Head: 0, Relation: model.RelSubject},
	}

	_, err := Compose(tokens, arcs)
	require.Error(t, err)
	var malformed *MalformedArcError
	require.ErrorAs(t, err, &malformed)
}

func TestComposeSkipsNonVerbalTokensWithNoSources(t *testing.T) {
	tokens := []model.Token{
		{Index: 0, Surface: "hello"},
	}
	events, err := Compose(tokens, nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestComposePositionalHeuristicFallback(t *testing.T) {
	// No verb-class or frame payload at all: falls back to the positional
	// heuristic with reduced confidence.
	wa := &model.WordAnalysis{Lemma: "push", OverallConfidence: 0.5}

	tokens := []model.Token{
		{Index: 0, Surface: "robot", Animate: true},
		{Index: 1, Surface: "pushed", POS: "VERB", Analysis: wa},
		{Index: 2, Surface: "cart"},
	}
	arcs := []model.DependencyArc{
		{Child: 1, Head: model.Root, Relation: ""},
		{Child: 0, Head: 1, Relation: model.RelSubject},
		{Child: 2, Head: 1, Relation: model.RelObject},
	}

	events, err := Compose(tokens, arcs)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "heuristic", ev.Provenance)
	assert.Equal(t, model.Agent, roleOf(ev, 0))
	assert.Equal(t, model.Patient, roleOf(ev, 2))
	assert.Equal(t, heuristicConfidence, ev.Confidence)
}

func roleOf(ev model.Event, tokenIndex int) model.ThetaRole {
	for role, p := range ev.ThetaBindings {
		if p.TokenIndex == tokenIndex {
			return role
		}
	}
	return -1
}
