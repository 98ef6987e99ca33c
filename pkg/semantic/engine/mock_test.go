package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEngineHit(t *testing.T) {
	m := NewMockEngine(VerbClass, WithEntries(map[string]Payload{"give": "payload"}))

	result, err := m.Analyze(context.Background(), "give")
	require.NoError(t, err)
	assert.Equal(t, "payload", result.Payload)
	assert.Equal(t, defaultMockConfidence, result.Confidence)
	assert.Equal(t, uint64(1), m.Statistics().Hits)
}

func TestMockEngineHitWithOverriddenConfidence(t *testing.T) {
	m := NewMockEngine(Sense, WithEntries(map[string]Payload{"bank": "riverbank"}), WithConfidence("bank", 0.3))

	result, err := m.Analyze(context.Background(), "bank")
	require.NoError(t, err)
	assert.Equal(t, "riverbank", result.Payload)
	assert.Equal(t, 0.3, result.Confidence)
}

func TestMockEngineAbsent(t *testing.T) {
	m := NewMockEngine(Sense)

	_, err := m.Analyze(context.Background(), "give")
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestMockEngineForcedFailure(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockEngine(Lexicon, WithFailure("give", boom))

	_, err := m.Analyze(context.Background(), "give")
	assert.ErrorIs(t, err, boom)
}

func TestMockEngineRespectsContextCancellation(t *testing.T) {
	m := NewMockEngine(VerbClass, WithLatency(50*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := m.Analyze(ctx, "give")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConstructionErrorFormatting(t *testing.T) {
	err := NewConstructionError(VerbClass, "directory empty")
	assert.Equal(t, "engine verb-class: construction failed: directory empty", err.Error())
}
