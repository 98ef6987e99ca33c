// Package cache implements the coordinator's two-tier lookup cache
// (spec.md §4.3): Tier-A is a recency-bounded set, Tier-B holds entries
// promoted for frequent access and evicts by a frequency-plus-recency
// score. Both tiers are keyed by lemma, not surface.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/S-Corkum/canopy/pkg/observability"
	"github.com/S-Corkum/canopy/pkg/semantic/model"
)

// DefaultPromotionThreshold is the Tier-A access count at which an entry is
// promoted to Tier-B (spec.md §6 "tier_b_promotion_threshold").
const DefaultPromotionThreshold = 3

// DefaultByteBudget is the cache's default memory budget (spec.md §4.3
// "default ≈0.5 MB").
const DefaultByteBudget = 512 * 1024

// MaxByteBudget is the ceiling a configured ByteBudget is clamped to
// (spec.md §4.3 "ceiling ≈10 MB").
const MaxByteBudget = 10 * 1024 * 1024

// Stats is the cache's observability surface (spec.md §4.3, §5 "statistics
// counters may be implemented with relaxed atomics").
type Stats struct {
	TierAHits  uint64
	TierBHits  uint64
	Misses     uint64
	Promotions uint64
	Demotions  uint64
	BytesUsed  int64
}

// Config configures a Cache at construction time.
type Config struct {
	// TierACapacity bounds the number of entries held in the recency tier.
	TierACapacity int
	// TierBCapacity bounds the number of entries held in the
	// frequency-plus-recency tier.
	TierBCapacity int
	// PromotionThreshold is the Tier-A access count that triggers
	// promotion to Tier-B.
	PromotionThreshold int
	// ByteBudget bounds the cache's estimated total payload size across
	// both tiers (spec.md §4.3 "Memory budget", §6 "cache_byte_budget").
	// Accounting is by payload size estimate, not exact allocator bytes.
	ByteBudget int64
	Logger     observability.Logger
	Metrics    observability.MetricsClient
}

func (c *Config) setDefaults() {
	if c.TierACapacity <= 0 {
		c.TierACapacity = 1024
	}
	if c.TierBCapacity <= 0 {
		c.TierBCapacity = 256
	}
	if c.PromotionThreshold <= 0 {
		c.PromotionThreshold = DefaultPromotionThreshold
	}
	if c.ByteBudget <= 0 {
		c.ByteBudget = DefaultByteBudget
	}
	if c.ByteBudget > MaxByteBudget {
		c.ByteBudget = MaxByteBudget
	}
	if c.Logger == nil {
		c.Logger = observability.NewNoopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = observability.NewNoopMetricsClient()
	}
}

// tierAEntry is what lives behind Tier-A's LRU: the analysis, its
// estimated byte size, and an access counter consulted to decide
// promotion.
type tierAEntry struct {
	analysis *model.WordAnalysis
	size     int64
	accesses int
}

// Cache is the two-tier lookup structure described in spec.md §4.3. It is
// safe for concurrent use by multiple goroutines: every operation (lookup,
// insert, promotion, demotion) runs under a single mutex, since lookups
// routinely mutate Tier-A's access counters and may trigger a promotion.
// The cache itself never fails a caller; any internal inconsistency
// degrades to a miss (spec.md §7 taxonomy item 6).
type Cache struct {
	mu sync.Mutex

	tierA *lru.Cache[string, *tierAEntry]
	tierB *tierB

	threshold  int
	byteBudget int64
	logger     observability.Logger
	metrics    observability.MetricsClient

	hitsA     atomic.Uint64
	hitsB     atomic.Uint64
	misses    atomic.Uint64
	promos    atomic.Uint64
	demotes   atomic.Uint64
	bytesUsed atomic.Int64
}

// New builds a Cache from cfg. Capacities of zero fall back to defaults;
// construction of the underlying LRU only fails on a non-positive capacity,
// which setDefaults already rules out, so New never returns an error.
func New(cfg Config) *Cache {
	cfg.setDefaults()

	c := &Cache{
		tierB:      newTierB(cfg.TierBCapacity),
		threshold:  cfg.PromotionThreshold,
		byteBudget: cfg.ByteBudget,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}

	// onEvict fires for both automatic capacity-driven evictions and
	// explicit Remove calls (e.g. promote() moving an entry to Tier-B), so
	// bytesUsed stays accurate without the cache re-deriving what left
	// Tier-A on every call.
	tierA, _ := lru.NewWithEvict[string, *tierAEntry](cfg.TierACapacity, func(_ string, entry *tierAEntry) {
		c.bytesUsed.Add(-entry.size)
	})
	c.tierA = tierA
	return c
}

// Lookup returns the cached WordAnalysis for lemma, or (nil, false) on a
// miss. Order of consultation is Tier-B then Tier-A (spec.md §4.3 "On
// lookup: Tier-B then Tier-A").
func (c *Cache) Lookup(lemma string) (*model.WordAnalysis, bool) {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.tierB.get(lemma); ok {
		c.hitsB.Add(1)
		c.metrics.RecordCacheOperation("lookup-tier-b", true, time.Since(start).Seconds())
		return entry, true
	}

	if entry, ok := c.tierA.Get(lemma); ok {
		c.hitsA.Add(1)
		entry.accesses++
		if entry.accesses >= c.threshold {
			c.promote(lemma, entry)
		}
		c.metrics.RecordCacheOperation("lookup-tier-a", true, time.Since(start).Seconds())
		return entry.analysis, true
	}

	c.misses.Add(1)
	c.metrics.RecordCacheOperation("lookup", false, time.Since(start).Seconds())
	return nil, false
}

// Insert stores analysis under lemma in Tier-A, performing eviction to stay
// within the configured capacity and byte budget (spec.md §4.3
// "insert(...) stores and performs eviction to stay within the memory
// budget").
func (c *Cache) Insert(lemma string, analysis *model.WordAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := estimateSize(analysis)

	if c.tierB.contains(lemma) {
		c.bytesUsed.Add(c.tierB.update(lemma, analysis, size))
		c.enforceByteBudget()
		return
	}

	// Add silently replaces an existing Tier-A key's value without
	// invoking onEvict, so the old estimate must be backed out by hand or
	// re-inserting the same lemma would double-count its bytes.
	if old, ok := c.tierA.Peek(lemma); ok {
		c.bytesUsed.Add(-old.size)
	}
	if evicted := c.tierA.Add(lemma, &tierAEntry{analysis: analysis, size: size}); evicted {
		c.logger.Debug("tier-a eviction", map[string]interface{}{"lemma": lemma})
	}
	c.bytesUsed.Add(size)
	c.enforceByteBudget()
}

// promote moves lemma from Tier-A to Tier-B, demoting Tier-B's
// least-valuable entry back to Tier-A if Tier-B is full (spec.md §4.3 "on
// hit in Tier-A whose access count crosses the threshold, promote to
// Tier-B").
func (c *Cache) promote(lemma string, entry *tierAEntry) {
	c.tierA.Remove(lemma) // fires onEvict, provisionally removing entry.size

	if demotedKey, demoted, demotedSize, ok := c.tierB.insert(lemma, entry.analysis, entry.size); ok {
		c.tierA.Add(demotedKey, &tierAEntry{analysis: demoted, size: demotedSize})
		c.demotes.Add(1)
	}
	c.bytesUsed.Add(entry.size) // entry now lives in Tier-B instead
	c.promos.Add(1)
}

// enforceByteBudget evicts entries — oldest Tier-A first, then Tier-B's
// least-valuable — until bytesUsed is within byteBudget (spec.md §8
// "Cache memory after any number of insertions ≤ configured byte budget").
// It gives up once both tiers are empty, since a budget smaller than a
// single entry's estimated size cannot be satisfied by eviction alone.
func (c *Cache) enforceByteBudget() {
	for c.bytesUsed.Load() > c.byteBudget {
		if _, _, ok := c.tierA.RemoveOldest(); ok {
			continue
		}
		if size, ok := c.tierB.evictLeastValuable(); ok {
			c.bytesUsed.Add(-size)
			continue
		}
		break
	}
}

// Statistics returns a snapshot of the cache's hit/miss/promotion counters.
func (c *Cache) Statistics() Stats {
	return Stats{
		TierAHits:  c.hitsA.Load(),
		TierBHits:  c.hitsB.Load(),
		Misses:     c.misses.Load(),
		Promotions: c.promos.Load(),
		Demotions:  c.demotes.Load(),
		BytesUsed:  c.bytesUsed.Load(),
	}
}
