package coordinator

import (
	"context"

	"github.com/google/uuid"

	"github.com/S-Corkum/canopy/pkg/semantic/model"
)

// AnalyzeBatch analyzes every surface in surfaces. Its outputs are
// identical to what independently calling Analyze on each surface would
// produce; the only difference is that lemmas are deduplicated before fan-
// out so that two surfaces reducing to the same lemma share one round of
// engine queries (spec.md §4.5 "Batch contract").
func (c *Coordinator) AnalyzeBatch(ctx context.Context, surfaces []string) ([]*model.WordAnalysis, error) {
	if state(c.state.Load()) != stateReady {
		return nil, ErrNotReady
	}

	batchID := uuid.New().String()
	c.logger.Debug("analyze batch started", map[string]interface{}{
		"batch_id": batchID, "surfaces": len(surfaces),
	})

	results := make([]*model.WordAnalysis, len(surfaces))
	lemmaOf := make([]string, len(surfaces))
	lemmaConfOf := make([]float64, len(surfaces))
	hasConfOf := make([]bool, len(surfaces))

	pending := make(map[string][]int) // lemma -> indices of surfaces awaiting its result

	for i, surface := range surfaces {
		c.queries.Add(1)
		l, conf, hasConf := c.lemmatize(surface)
		lemmaOf[i] = l
		lemmaConfOf[i] = conf
		hasConfOf[i] = hasConf

		if cached, ok := c.cache.Lookup(l); ok {
			c.cacheHits.Add(1)
			results[i] = cached
			continue
		}
		pending[l] = append(pending[l], i)
	}

	for l, indices := range pending {
		perEngine := c.executor.Run(ctx, c.engines, l)

		result := &model.WordAnalysis{
			Surface:         surfaces[indices[0]],
			Lemma:           l,
			LemmaConfidence: lemmaConfOf[indices[0]],
			HasLemmaConf:    hasConfOf[indices[0]],
			PerEngine:       perEngine,
		}
		result.Finalize(c.weights)
		if len(result.Errors) > 0 && len(result.Sources) == 0 {
			c.fusionErr.Add(1)
		}
		c.cache.Insert(l, result)

		for _, idx := range indices {
			out := result.Clone()
			out.Surface = surfaces[idx]
			out.LemmaConfidence = lemmaConfOf[idx]
			out.HasLemmaConf = hasConfOf[idx]
			results[idx] = out
		}
	}

	c.logger.Debug("analyze batch finished", map[string]interface{}{
		"batch_id": batchID, "unique_lemmas": len(pending),
	})
	return results, nil
}
