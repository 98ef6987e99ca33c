package cache

import (
	"time"

	"github.com/S-Corkum/canopy/pkg/semantic/model"
)

// tierBRecord tracks the bookkeeping tierB needs to compute its
// frequency-plus-recency eviction score: how often an entry has been hit
// since being promoted, and when it was last touched.
type tierBRecord struct {
	analysis *model.WordAnalysis
	size     int64
	freq     int
	lastUsed time.Time
}

// tierB is the frequency-plus-recency tier (spec.md §4.3 "Tier-B (frequent)
// holds entries whose access count exceeded a promotion threshold; it
// evicts by frequency-plus-recency score"). It is a plain map guarded by
// Cache's mutex, not a separate lock: tierB is never used concurrently with
// itself outside of Cache's critical sections.
type tierB struct {
	capacity int
	entries  map[string]*tierBRecord
}

func newTierB(capacity int) *tierB {
	return &tierB{capacity: capacity, entries: make(map[string]*tierBRecord, capacity)}
}

func (t *tierB) contains(lemma string) bool {
	_, ok := t.entries[lemma]
	return ok
}

func (t *tierB) get(lemma string) (*model.WordAnalysis, bool) {
	rec, ok := t.entries[lemma]
	if !ok {
		return nil, false
	}
	rec.freq++
	rec.lastUsed = time.Now()
	return rec.analysis, true
}

// update replaces lemma's analysis in place and returns the byte delta
// (newSize - oldSize) the caller should apply to its running total.
func (t *tierB) update(lemma string, analysis *model.WordAnalysis, size int64) int64 {
	rec, ok := t.entries[lemma]
	if !ok {
		return 0
	}
	delta := size - rec.size
	rec.analysis = analysis
	rec.size = size
	rec.lastUsed = time.Now()
	return delta
}

// insert adds lemma to tierB, evicting and returning the least-valuable
// existing entry if tierB is already at capacity. ok is false when no
// eviction was necessary (room was available).
func (t *tierB) insert(lemma string, analysis *model.WordAnalysis, size int64) (demotedKey string, demoted *model.WordAnalysis, demotedSize int64, ok bool) {
	if len(t.entries) < t.capacity {
		t.entries[lemma] = &tierBRecord{analysis: analysis, size: size, freq: 1, lastUsed: time.Now()}
		return "", nil, 0, false
	}

	victim := t.leastValuable()
	demotedRec := t.entries[victim]
	delete(t.entries, victim)
	t.entries[lemma] = &tierBRecord{analysis: analysis, size: size, freq: 1, lastUsed: time.Now()}
	return victim, demotedRec.analysis, demotedRec.size, true
}

// evictLeastValuable drops tierB's lowest-scoring entry, returning its size
// so the caller can update its byte-budget accounting. ok is false when
// tierB is empty.
func (t *tierB) evictLeastValuable() (int64, bool) {
	if len(t.entries) == 0 {
		return 0, false
	}
	victim := t.leastValuable()
	size := t.entries[victim].size
	delete(t.entries, victim)
	return size, true
}

// scoredEntry is one tierB candidate ranked for eviction.
type scoredEntry struct {
	key   string
	freq  int
	stamp time.Time
}

// leastValuable returns the key with the lowest frequency-plus-recency
// score. Recency is expressed as a count of entries touched more recently
// than the candidate, keeping the score unit-consistent with frequency
// without depending on wall-clock scale.
func (t *tierB) leastValuable() string {
	ranked := make([]scoredEntry, 0, len(t.entries))
	for k, rec := range t.entries {
		ranked = append(ranked, scoredEntry{key: k, freq: rec.freq, stamp: rec.lastUsed})
	}

	worst := ranked[0]
	worstScore := score(worst, ranked)
	for _, r := range ranked[1:] {
		s := score(r, ranked)
		if s < worstScore || (s == worstScore && r.key < worst.key) {
			worst = r
			worstScore = s
		}
	}
	return worst.key
}

func score(candidate scoredEntry, all []scoredEntry) int {
	recency := 0
	for _, other := range all {
		if other.stamp.After(candidate.stamp) {
			recency++
		}
	}
	return candidate.freq - recency
}
