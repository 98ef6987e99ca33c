package coordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S-Corkum/canopy/pkg/semantic/cache"
	"github.com/S-Corkum/canopy/pkg/semantic/engine"
)

func newTestCoordinator(t *testing.T, opts ...Option) *Coordinator {
	t.Helper()
	base := []Option{
		WithEngines(engine.NewMockEngine(engine.VerbClass, engine.WithEntries(map[string]engine.Payload{
			"give": "verb-class:give",
		}))),
	}
	c, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewRequiresAtLeastOneEngine(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
}

func TestAnalyzeReturnsSourcesAndConfidence(t *testing.T) {
	c := newTestCoordinator(t)
	result, err := c.Analyze(context.Background(), "gave")
	require.NoError(t, err)

	assert.Equal(t, "give", result.Lemma)
	assert.Contains(t, result.Sources, engine.VerbClass)
	assert.Greater(t, result.OverallConfidence, 0.0)
}

func TestAnalyzeEmptySourcesZeroConfidence(t *testing.T) {
	c, err := New(WithEngines(engine.NewMockEngine(engine.VerbClass)))
	require.NoError(t, err)

	result, err := c.Analyze(context.Background(), "zzyx")
	require.NoError(t, err)

	assert.Empty(t, result.Sources)
	assert.Equal(t, 0.0, result.OverallConfidence)
}

func TestAnalyzeCacheHitSecondCall(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	_, err := c.Analyze(ctx, "gave")
	require.NoError(t, err)
	_, err = c.Analyze(ctx, "gave")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), c.Statistics().CacheHits)
	assert.Equal(t, uint64(2), c.Statistics().Queries)
}

func TestAnalyzeDisabledLemmatizationUsesSurface(t *testing.T) {
	eng := engine.NewMockEngine(engine.VerbClass, engine.WithEntries(map[string]engine.Payload{
		"gave": "verb-class:gave",
	}))
	c, err := New(WithEngines(eng), WithLemmatizationDisabled())
	require.NoError(t, err)

	result, err := c.Analyze(context.Background(), "gave")
	require.NoError(t, err)

	assert.Equal(t, "gave", result.Lemma)
	assert.False(t, result.HasLemmaConf)
	assert.Contains(t, result.Sources, engine.VerbClass)
}

// TestAnalyzeOverallConfidenceReflectsEngineAssignedConfidence mirrors spec
// scenario S5: with a single source, overall_confidence reflects only that
// engine's own number, not a fixed 1.0.
func TestAnalyzeOverallConfidenceReflectsEngineAssignedConfidence(t *testing.T) {
	sense := engine.NewMockEngine(engine.Sense, engine.WithEntries(map[string]engine.Payload{
		"bank": "riverbank",
	}), engine.WithConfidence("bank", 0.3))
	c, err := New(WithEngines(sense), WithLemmatizationDisabled())
	require.NoError(t, err)

	result, err := c.Analyze(context.Background(), "bank")
	require.NoError(t, err)

	assert.Equal(t, 0.3, result.OverallConfidence)
}

func TestAnalyzeRecordsEngineFailureWithoutBlockingOtherSources(t *testing.T) {
	boom := errors.New("boom")
	failing := engine.NewMockEngine(engine.Lexicon, engine.WithFailure("give", boom))
	ok := engine.NewMockEngine(engine.VerbClass, engine.WithEntries(map[string]engine.Payload{
		"give": "payload",
	}))
	c, err := New(WithEngines(failing, ok))
	require.NoError(t, err)

	result, err := c.Analyze(context.Background(), "give")
	require.NoError(t, err)

	assert.Contains(t, result.Sources, engine.VerbClass)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, engine.Lexicon, result.Errors[0].Engine)
}

func TestAnalyzeAfterCloseReturnsErrNotReady(t *testing.T) {
	c := newTestCoordinator(t)
	c.Close()

	_, err := c.Analyze(context.Background(), "gave")
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestAnalyzeBatchMatchesIndependentCalls(t *testing.T) {
	eng := engine.NewMockEngine(engine.VerbClass, engine.WithEntries(map[string]engine.Payload{
		"give": "verb-class:give",
	}))
	batchCoord, err := New(WithEngines(eng))
	require.NoError(t, err)

	independentEng := engine.NewMockEngine(engine.VerbClass, engine.WithEntries(map[string]engine.Payload{
		"give": "verb-class:give",
	}))
	independentCoord, err := New(WithEngines(independentEng))
	require.NoError(t, err)

	batchResults, err := batchCoord.AnalyzeBatch(context.Background(), []string{"gave", "gave", "xyz"})
	require.NoError(t, err)

	for i, surface := range []string{"gave", "gave", "xyz"} {
		independent, err := independentCoord.Analyze(context.Background(), surface)
		require.NoError(t, err)
		assert.Equal(t, independent.Lemma, batchResults[i].Lemma)
		assert.Equal(t, independent.OverallConfidence, batchResults[i].OverallConfidence)
		assert.Equal(t, independent.Sources, batchResults[i].Sources)
	}
}

func TestEngineWeightsBiasConfidence(t *testing.T) {
	a := engine.NewMockEngine(engine.VerbClass, engine.WithEntries(map[string]engine.Payload{"give": "a"}))
	b := engine.NewMockEngine(engine.Frame, engine.WithEntries(map[string]engine.Payload{"give": "b"}),
		engine.WithConfidence("give", 0.0))

	c, err := New(
		WithEngines(a, b),
		WithEngineWeights(map[engine.ID]float64{engine.VerbClass: 3.0, engine.Frame: 1.0}),
	)
	require.NoError(t, err)

	result, err := c.Analyze(context.Background(), "give")
	require.NoError(t, err)
	// (3*1.0 + 1*0.0) / 4; an unweighted mean would give 0.5.
	assert.Equal(t, 0.75, result.OverallConfidence)
}

func TestWithCacheConfigIsHonored(t *testing.T) {
	eng := engine.NewMockEngine(engine.VerbClass, engine.WithEntries(map[string]engine.Payload{
		"give": "payload",
	}))
	c, err := New(WithEngines(eng), WithCacheConfig(cache.Config{TierACapacity: 1, TierBCapacity: 1}))
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), "gave")
	require.NoError(t, err)
	_, err = c.Analyze(context.Background(), "xyz")
	require.NoError(t, err)
	_, err = c.Analyze(context.Background(), "gave")
	require.NoError(t, err)

	// With a Tier-A capacity of 1, "xyz" evicted "give", so the third call
	// misses; the default capacity would have made it a hit.
	assert.Equal(t, uint64(0), c.Statistics().CacheHits)
}
