// Package coordinator wires the lemmatizer, cache, executor and engine set
// together into the single entry point described by spec.md §4.5: given a
// surface form, produce a unified WordAnalysis.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/S-Corkum/canopy/pkg/observability"
	"github.com/S-Corkum/canopy/pkg/semantic/cache"
	"github.com/S-Corkum/canopy/pkg/semantic/engine"
	"github.com/S-Corkum/canopy/pkg/semantic/executor"
	"github.com/S-Corkum/canopy/pkg/semantic/lemma"
	"github.com/S-Corkum/canopy/pkg/semantic/model"
)

// state is the coordinator's lifecycle (spec.md §4.5 "State machine").
type state int32

const (
	stateUninitialized state = iota
	stateReady
	stateClosed
)

// ErrNotReady is returned by Analyze/AnalyzeBatch when the coordinator has
// not finished construction or has already been closed.
var ErrNotReady = errors.New("coordinator: not in ready state")

// Config configures a Coordinator at construction time. Every field has a
// safe default; a Coordinator requires at least one engine.
type Config struct {
	Engines             []engine.Engine
	Lemmatizer          lemma.Lemmatizer
	EnableLemmatization bool
	CacheConfig         cache.Config
	ExecutorConfig      executor.Config
	EngineWeights       map[engine.ID]float64
	Logger              observability.Logger
	Metrics             observability.MetricsClient
}

// Option configures a Coordinator in functional-options style (spec.md §6:
// no file formats or env vars are part of the core contract, so
// configuration is a plain in-process struct built by options).
type Option func(*Config)

// WithEngines sets the engines fanned out to on every call.
func WithEngines(engines ...engine.Engine) Option {
	return func(c *Config) { c.Engines = engines }
}

// WithLemmatizer overrides the default rule-based lemmatizer.
func WithLemmatizer(l lemma.Lemmatizer) Option {
	return func(c *Config) { c.Lemmatizer = l }
}

// WithLemmatizationDisabled turns off lemmatization: surface is used as the
// lemma with no confidence (spec.md §4.5 step 1).
func WithLemmatizationDisabled() Option {
	return func(c *Config) { c.EnableLemmatization = false }
}

// WithEngineWeights sets the per-engine reliability weighting used in
// confidence fusion (spec.md §4.5 "optionally biased by a per-engine
// reliability weight").
func WithEngineWeights(weights map[engine.ID]float64) Option {
	return func(c *Config) { c.EngineWeights = weights }
}

// WithCacheConfig overrides the two-tier cache's configuration.
func WithCacheConfig(cfg cache.Config) Option {
	return func(c *Config) { c.CacheConfig = cfg }
}

// WithExecutorConfig overrides the parallel executor's configuration.
func WithExecutorConfig(cfg executor.Config) Option {
	return func(c *Config) { c.ExecutorConfig = cfg }
}

// WithLogger sets the coordinator's (and its subcomponents') logger.
func WithLogger(l observability.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithMetrics sets the coordinator's (and its subcomponents') metrics
// client.
func WithMetrics(m observability.MetricsClient) Option {
	return func(c *Config) { c.Metrics = m }
}

// Stats is the coordinator's read-only, thread-safe statistics surface
// (spec.md §4.5 "Statistics").
type Stats struct {
	Queries        uint64
	CacheHits      uint64
	FusionFailures uint64
}

// Coordinator is the core's single entry point. It must be built with New
// and is safe for concurrent use once Ready.
type Coordinator struct {
	engines     []engine.Engine
	lemmatizer  lemma.Lemmatizer
	enableLemma bool
	weights     map[engine.ID]float64

	cache    *cache.Cache
	executor *executor.Executor
	logger   observability.Logger
	metrics  observability.MetricsClient

	state atomic.Int32

	queries   atomic.Uint64
	cacheHits atomic.Uint64
	fusionErr atomic.Uint64

	closeOnce sync.Once
}

// New constructs a Coordinator and transitions it directly to Ready.
// Construction fails only if no engines were configured, since an empty
// engine set makes every analysis vacuous (spec.md §7 taxonomy item 7,
// "Configuration failure — fatal at construction").
func New(opts ...Option) (*Coordinator, error) {
	cfg := Config{EnableLemmatization: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(cfg.Engines) == 0 {
		return nil, errors.New("coordinator: at least one engine must be configured")
	}
	if cfg.Lemmatizer == nil {
		cfg.Lemmatizer = lemma.NewRuleBased()
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NewNoopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewNoopMetricsClient()
	}
	cfg.CacheConfig.Logger = cfg.Logger
	cfg.CacheConfig.Metrics = cfg.Metrics
	cfg.ExecutorConfig.Logger = cfg.Logger
	cfg.ExecutorConfig.Metrics = cfg.Metrics

	c := &Coordinator{
		engines:     cfg.Engines,
		lemmatizer:  cfg.Lemmatizer,
		enableLemma: cfg.EnableLemmatization,
		weights:     cfg.EngineWeights,
		cache:       cache.New(cfg.CacheConfig),
		executor:    executor.New(cfg.ExecutorConfig),
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
	c.state.Store(int32(stateReady))
	return c, nil
}

// Analyze produces a unified WordAnalysis for surface (spec.md §4.5).
func (c *Coordinator) Analyze(ctx context.Context, surface string) (*model.WordAnalysis, error) {
	if state(c.state.Load()) != stateReady {
		return nil, ErrNotReady
	}
	c.queries.Add(1)

	lemmaStr, lemmaConf, hasConf := c.lemmatize(surface)

	if cached, ok := c.cache.Lookup(lemmaStr); ok {
		c.cacheHits.Add(1)
		return cached, nil
	}

	perEngine := c.executor.Run(ctx, c.engines, lemmaStr)

	result := &model.WordAnalysis{
		Surface:         surface,
		Lemma:           lemmaStr,
		LemmaConfidence: lemmaConf,
		HasLemmaConf:    hasConf,
		PerEngine:       perEngine,
	}
	result.Finalize(c.weights)
	if len(result.Errors) > 0 && len(result.Sources) == 0 {
		c.fusionErr.Add(1)
	}

	c.cache.Insert(lemmaStr, result)
	return result, nil
}

func (c *Coordinator) lemmatize(surface string) (string, float64, bool) {
	if !c.enableLemma {
		return surface, 0, false
	}
	l, conf := c.lemmatizer.Lemmatize(surface)
	return l, conf, true
}

// Statistics returns a snapshot of the coordinator's counters.
func (c *Coordinator) Statistics() Stats {
	return Stats{
		Queries:        c.queries.Load(),
		CacheHits:      c.cacheHits.Load(),
		FusionFailures: c.fusionErr.Load(),
	}
}

// Close transitions the coordinator to Closed. Subsequent Analyze calls
// return ErrNotReady. Close is idempotent.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(stateClosed))
	})
}
