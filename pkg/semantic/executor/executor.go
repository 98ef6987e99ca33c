// Package executor fans a lemma out to every configured engine concurrently,
// applying a per-engine timeout and a per-engine circuit breaker (spec.md
// §4, §5). It never cancels siblings when one engine fails: every engine's
// outcome — payload, absence, or failure — is collected independently.
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/S-Corkum/canopy/pkg/observability"
	"github.com/S-Corkum/canopy/pkg/semantic/engine"
	"github.com/S-Corkum/canopy/pkg/semantic/model"
)

// DefaultPerEngineTimeout is the default per-engine timeout (spec.md §5
// "Per-engine timeout is configured (default ≈5 ms)").
const DefaultPerEngineTimeout = 5 * time.Millisecond

// Config configures an Executor.
type Config struct {
	PerEngineTimeout time.Duration
	Logger           observability.Logger
	Metrics          observability.MetricsClient
}

func (c *Config) setDefaults() {
	if c.PerEngineTimeout <= 0 {
		c.PerEngineTimeout = DefaultPerEngineTimeout
	}
	if c.Logger == nil {
		c.Logger = observability.NewNoopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = observability.NewNoopMetricsClient()
	}
}

// Executor fans a single lemma out to a set of engines concurrently.
type Executor struct {
	timeout time.Duration
	logger  observability.Logger
	metrics observability.MetricsClient

	mu       sync.Mutex
	breakers map[engine.ID]*gobreaker.CircuitBreaker
}

// New builds an Executor from cfg.
func New(cfg Config) *Executor {
	cfg.setDefaults()
	return &Executor{
		timeout:  cfg.PerEngineTimeout,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		breakers: make(map[engine.ID]*gobreaker.CircuitBreaker),
	}
}

func (e *Executor) breakerFor(id engine.ID) *gobreaker.CircuitBreaker {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cb, ok := e.breakers[id]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        string(id),
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.TotalFailures >= 5
		},
		// Absence is an ordinary outcome, not a failure, so it must not
		// count towards tripping the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || err == engine.ErrAbsent
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn("engine circuit breaker state change", map[string]interface{}{
				"engine": name, "from": from.String(), "to": to.String(),
			})
		},
	})
	e.breakers[id] = cb
	return cb
}

// Run queries every engine in engines with lemma concurrently and returns
// one PerEngineEntry per engine, keyed by engine ID. A per-engine timeout
// bounds each query (spec.md §5 "Suspension points"); a tripped circuit
// breaker short-circuits an engine to Failed(circuit-open) without waiting
// out its timeout. If ctx is cancelled before an engine's query completes,
// that engine is recorded as Failed(cancelled) and the remaining engines
// are not awaited further (spec.md §5 "Cancellation & timeouts").
func (e *Executor) Run(ctx context.Context, engines []engine.Engine, lemma string) map[engine.ID]model.PerEngineEntry {
	results := make(map[engine.ID]model.PerEngineEntry, len(engines))
	if len(engines) == 0 {
		return results
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, eng := range engines {
		eng := eng
		g.Go(func() error {
			entry := e.query(gctx, eng, lemma)
			mu.Lock()
			results[eng.ID()] = entry
			mu.Unlock()
			return nil
		})
	}

	// errgroup's own ctx cancellation on first error is unused here: query
	// never returns a non-nil error to the group, so Wait only ever blocks
	// until every engine has reported an outcome. Run itself stops waiting
	// as soon as the caller's ctx is done.
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	mu.Lock()
	out := make(map[engine.ID]model.PerEngineEntry, len(engines))
	for id, entry := range results {
		out[id] = entry
	}
	mu.Unlock()

	for _, eng := range engines {
		if _, ok := out[eng.ID()]; !ok {
			out[eng.ID()] = model.PerEngineEntry{Kind: model.OutcomeFailed, Err: ctx.Err()}
		}
	}

	return out
}

// query executes a single engine's Analyze call under the executor's
// per-engine timeout and circuit breaker, translating the outcome into a
// PerEngineEntry. It never returns an error to its caller: all failure
// information is carried inside the returned entry.
func (e *Executor) query(ctx context.Context, eng engine.Engine, lemma string) model.PerEngineEntry {
	cb := e.breakerFor(eng.ID())

	start := time.Now()
	qctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := cb.Execute(func() (interface{}, error) {
		return eng.Analyze(qctx, lemma)
	})
	elapsed := time.Since(start)

	switch {
	case err == nil:
		e.metrics.RecordEngineQuery(string(eng.ID()), true, elapsed.Seconds())
		result := raw.(engine.Result)
		return model.PerEngineEntry{Kind: model.OutcomePayload, Payload: result.Payload, Confidence: result.Confidence}

	case err == engine.ErrAbsent:
		e.metrics.RecordEngineQuery(string(eng.ID()), true, elapsed.Seconds())
		return model.PerEngineEntry{Kind: model.OutcomeAbsent}

	case err == gobreaker.ErrOpenState, err == gobreaker.ErrTooManyRequests:
		e.metrics.RecordEngineQuery(string(eng.ID()), false, elapsed.Seconds())
		return model.PerEngineEntry{Kind: model.OutcomeFailed, Err: errCircuitOpen}

	case ctx.Err() != nil:
		e.metrics.RecordEngineQuery(string(eng.ID()), false, elapsed.Seconds())
		return model.PerEngineEntry{Kind: model.OutcomeFailed, Err: ctx.Err()}

	case qctx.Err() != nil:
		e.metrics.RecordEngineQuery(string(eng.ID()), false, elapsed.Seconds())
		return model.PerEngineEntry{Kind: model.OutcomeFailed, Err: errTimeout}

	default:
		e.metrics.RecordEngineQuery(string(eng.ID()), false, elapsed.Seconds())
		return model.PerEngineEntry{Kind: model.OutcomeFailed, Err: err}
	}
}
