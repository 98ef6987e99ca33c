package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// defaultMockConfidence is the confidence WithEntries assigns when the
// caller doesn't also call WithConfidence for that lemma.
const defaultMockConfidence = 1.0

// MockEngine is a configurable Engine implementation for tests. It mirrors
// the teacher's functional-options mock provider: a fixed table of
// lemma→payload entries, optional simulated latency, and an optional forced
// failure. Construction never fails — tests that need a construction
// failure call NewConstructionError directly instead.
type MockEngine struct {
	id          ID
	mu          sync.RWMutex
	entries     map[string]Payload
	confidences map[string]float64
	latency     time.Duration
	failFor     map[string]error

	queries atomic.Uint64
	hits    atomic.Uint64
}

// MockOption configures a MockEngine.
type MockOption func(*MockEngine)

// WithEntries seeds the mock's lemma table. Entries default to
// defaultMockConfidence unless overridden by WithConfidence.
func WithEntries(entries map[string]Payload) MockOption {
	return func(m *MockEngine) {
		m.mu.Lock()
		defer m.mu.Unlock()
		for k, v := range entries {
			m.entries[k] = v
		}
	}
}

// WithConfidence overrides the confidence a hit for lemma reports, letting
// tests exercise engines that are less than fully sure of a payload.
func WithConfidence(lemma string, confidence float64) MockOption {
	return func(m *MockEngine) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.confidences[lemma] = confidence
	}
}

// WithLatency simulates per-query latency, useful for exercising the
// executor's per-engine timeout.
func WithLatency(d time.Duration) MockOption {
	return func(m *MockEngine) { m.latency = d }
}

// WithFailure forces Analyze(lemma) to return err for a specific lemma.
func WithFailure(lemma string, err error) MockOption {
	return func(m *MockEngine) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.failFor[lemma] = err
	}
}

// NewMockEngine creates a mock engine with the given id and options.
func NewMockEngine(id ID, opts ...MockOption) *MockEngine {
	m := &MockEngine{
		id:          id,
		entries:     make(map[string]Payload),
		confidences: make(map[string]float64),
		failFor:     make(map[string]error),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockEngine) ID() ID { return m.id }

func (m *MockEngine) Analyze(ctx context.Context, lemma string) (Result, error) {
	m.queries.Add(1)

	if m.latency > 0 {
		select {
		case <-time.After(m.latency):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failFor[lemma]; ok {
		return Result{}, err
	}

	payload, ok := m.entries[lemma]
	if !ok {
		return Result{}, ErrAbsent
	}
	m.hits.Add(1)

	confidence := defaultMockConfidence
	if c, ok := m.confidences[lemma]; ok {
		confidence = c
	}
	return Result{Payload: payload, Confidence: confidence}, nil
}

func (m *MockEngine) IsLoaded() bool { return true }

func (m *MockEngine) Statistics() Stats {
	return Stats{
		Queries:     m.queries.Load(),
		Hits:        m.hits.Load(),
		MeanLatency: m.latency,
	}
}
