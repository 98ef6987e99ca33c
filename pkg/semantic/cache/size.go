package cache

import "github.com/S-Corkum/canopy/pkg/semantic/model"

// estimatedEntryOverhead approximates the bookkeeping bytes a cache entry
// costs beyond its payload: struct headers, map/slice headers, pointers.
const estimatedEntryOverhead = 128

// estimatedPerEngineBytes approximates the bytes contributed by one
// per-engine entry. Payload is an opaque interface{} (spec.md §3); the
// cache cannot inspect its concrete size without reflection, so each entry
// is charged a flat estimate rather than walked field-by-field.
const estimatedPerEngineBytes = 256

// estimateSize is the payload size estimate spec.md §4.3 requires memory
// accounting to be based on. It is deliberately approximate, not an exact
// byte count: the budget it feeds is a soft ceiling on cache growth, not a
// precise allocator accounting.
func estimateSize(wa *model.WordAnalysis) int64 {
	if wa == nil {
		return estimatedEntryOverhead
	}
	size := int64(estimatedEntryOverhead)
	size += int64(len(wa.Surface) + len(wa.Lemma))
	size += int64(len(wa.PerEngine)) * estimatedPerEngineBytes
	size += int64(len(wa.Sources)) * 16
	for _, e := range wa.Errors {
		size += int64(len(e.Diagnostic)) + 16
	}
	return size
}
