package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S-Corkum/canopy/pkg/semantic/engine"
)

func TestFinalizeEmptySourcesZeroConfidence(t *testing.T) {
	wa := &WordAnalysis{PerEngine: map[engine.ID]PerEngineEntry{
		engine.VerbClass: {Kind: OutcomeAbsent},
	}}
	wa.Finalize(nil)

	assert.Empty(t, wa.Sources)
	assert.Equal(t, 0.0, wa.OverallConfidence)
}

func TestFinalizeCollectsErrorsFromFailedOnly(t *testing.T) {
	boom := errors.New("boom")
	wa := &WordAnalysis{PerEngine: map[engine.ID]PerEngineEntry{
		engine.VerbClass: {Kind: OutcomeAbsent},
		engine.Frame:     {Kind: OutcomeFailed, Err: boom},
		engine.Sense:     {Kind: OutcomePayload, Confidence: 0.8},
	}}
	wa.Finalize(nil)

	require.Len(t, wa.Errors, 1)
	assert.Equal(t, engine.Frame, wa.Errors[0].Engine)
	assert.Equal(t, "boom", wa.Errors[0].Diagnostic)
	assert.Equal(t, []engine.ID{engine.Sense}, wa.Sources)
	assert.Equal(t, 0.8, wa.OverallConfidence)
}

func TestFinalizeWeightedMean(t *testing.T) {
	wa := &WordAnalysis{PerEngine: map[engine.ID]PerEngineEntry{
		engine.VerbClass: {Kind: OutcomePayload, Confidence: 1.0},
		engine.Frame:     {Kind: OutcomePayload, Confidence: 0.0},
	}}
	wa.Finalize(map[engine.ID]float64{engine.VerbClass: 3.0, engine.Frame: 1.0})

	assert.Equal(t, 0.75, wa.OverallConfidence)
}

func TestFinalizeSourcesDeterministicOrder(t *testing.T) {
	wa := &WordAnalysis{PerEngine: map[engine.ID]PerEngineEntry{
		engine.Sense:     {Kind: OutcomePayload, Confidence: 0.5},
		engine.Lexicon:   {Kind: OutcomePayload, Confidence: 0.5},
		engine.VerbClass: {Kind: OutcomePayload, Confidence: 0.5},
	}}
	wa.Finalize(nil)

	assert.Equal(t, []engine.ID{engine.Lexicon, engine.Sense, engine.VerbClass}, wa.Sources)
}

func TestCloneIsIndependentOfSourceSlices(t *testing.T) {
	wa := &WordAnalysis{PerEngine: map[engine.ID]PerEngineEntry{
		engine.VerbClass: {Kind: OutcomePayload, Confidence: 0.5},
	}}
	wa.Finalize(nil)

	clone := wa.Clone()
	clone.Sources = append(clone.Sources, engine.Lexicon)

	assert.Len(t, wa.Sources, 1, "mutating the clone's slice must not affect the original")
}
