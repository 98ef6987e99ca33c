package observability

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsClient implements MetricsClient using Prometheus client_golang.
// Metric collectors are created lazily keyed by name + label set, mirroring
// the pattern used by the rest of the engine/cache/executor statistics
// surface: callers never need to pre-register a metric.
type PrometheusMetricsClient struct {
	namespace string
	subsystem string

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec

	registerer prometheus.Registerer
}

// NewPrometheusMetricsClient creates a new Prometheus-backed metrics client.
func NewPrometheusMetricsClient(namespace, subsystem string) *PrometheusMetricsClient {
	return &PrometheusMetricsClient{
		namespace:  namespace,
		subsystem:  subsystem,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		registerer: prometheus.DefaultRegisterer,
	}
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (c *PrometheusMetricsClient) metricKey(name string, names []string) string {
	return name + "|" + strings.Join(names, ",")
}

func (c *PrometheusMetricsClient) getOrCreateCounter(name string, labels map[string]string) *prometheus.CounterVec {
	names := labelNames(labels)
	key := c.metricKey(name, names)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cv, ok := c.counters[key]; ok {
		return cv
	}
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: c.subsystem,
		Name:      name,
		Help:      fmt.Sprintf("Counter for %s", name),
	}, names)
	_ = c.registerer.Register(cv)
	c.counters[key] = cv
	return cv
}

func (c *PrometheusMetricsClient) getOrCreateGauge(name string, labels map[string]string) *prometheus.GaugeVec {
	names := labelNames(labels)
	key := c.metricKey(name, names)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gv, ok := c.gauges[key]; ok {
		return gv
	}
	gv := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Subsystem: c.subsystem,
		Name:      name,
		Help:      fmt.Sprintf("Gauge for %s", name),
	}, names)
	_ = c.registerer.Register(gv)
	c.gauges[key] = gv
	return gv
}

func (c *PrometheusMetricsClient) getOrCreateHistogram(name string, labels map[string]string) *prometheus.HistogramVec {
	names := labelNames(labels)
	key := c.metricKey(name, names)

	c.mu.Lock()
	defer c.mu.Unlock()
	if hv, ok := c.histograms[key]; ok {
		return hv
	}
	hv := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Subsystem: c.subsystem,
		Name:      name,
		Help:      fmt.Sprintf("Histogram for %s", name),
		Buckets:   prometheus.DefBuckets,
	}, names)
	_ = c.registerer.Register(hv)
	c.histograms[key] = hv
	return hv
}

func (c *PrometheusMetricsClient) RecordCounter(name string, value float64, labels map[string]string) {
	c.getOrCreateCounter(name, labels).With(prometheus.Labels(labels)).Add(value)
}

func (c *PrometheusMetricsClient) RecordGauge(name string, value float64, labels map[string]string) {
	c.getOrCreateGauge(name, labels).With(prometheus.Labels(labels)).Set(value)
}

func (c *PrometheusMetricsClient) RecordHistogram(name string, value float64, labels map[string]string) {
	c.getOrCreateHistogram(name, labels).With(prometheus.Labels(labels)).Observe(value)
}

func (c *PrometheusMetricsClient) RecordTimer(name string, d time.Duration, labels map[string]string) {
	c.RecordHistogram(name+"_seconds", d.Seconds(), labels)
}

func (c *PrometheusMetricsClient) RecordCacheOperation(operation string, success bool, durationSeconds float64) {
	labels := map[string]string{"operation": operation, "success": boolLabel(success)}
	c.RecordCounter("cache_operations_total", 1.0, labels)
	c.RecordHistogram("cache_operation_duration_seconds", durationSeconds, labels)
}

func (c *PrometheusMetricsClient) RecordEngineQuery(engineID string, success bool, durationSeconds float64) {
	labels := map[string]string{"engine": engineID, "success": boolLabel(success)}
	c.RecordCounter("engine_queries_total", 1.0, labels)
	c.RecordHistogram("engine_query_duration_seconds", durationSeconds, labels)
}

func (c *PrometheusMetricsClient) IncrementCounter(name string, value float64) {
	c.RecordCounter(name, value, nil)
}

func (c *PrometheusMetricsClient) IncrementCounterWithLabels(name string, value float64, labels map[string]string) {
	c.RecordCounter(name, value, labels)
}

func (c *PrometheusMetricsClient) StartTimer(name string, labels map[string]string) func() {
	start := time.Now()
	return func() {
		c.RecordTimer(name, time.Since(start), labels)
	}
}

func (c *PrometheusMetricsClient) Close() error { return nil }

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// NewMetricsClient creates the default metrics client for the coordinator:
// Prometheus-backed under the "semantic" namespace.
func NewMetricsClient() MetricsClient {
	return NewPrometheusMetricsClient("semantic", "coordinator")
}
