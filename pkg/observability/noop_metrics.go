package observability

import "time"

// noopMetricsClient discards all recorded metrics.
type noopMetricsClient struct{}

// NewNoopMetricsClient creates a metrics client that discards everything.
func NewNoopMetricsClient() MetricsClient {
	return &noopMetricsClient{}
}

func (m *noopMetricsClient) RecordCounter(name string, value float64, labels map[string]string)     {}
func (m *noopMetricsClient) RecordGauge(name string, value float64, labels map[string]string)        {}
func (m *noopMetricsClient) RecordHistogram(name string, value float64, labels map[string]string)    {}
func (m *noopMetricsClient) RecordTimer(name string, d time.Duration, labels map[string]string)      {}
func (m *noopMetricsClient) RecordCacheOperation(operation string, success bool, seconds float64)    {}
func (m *noopMetricsClient) RecordEngineQuery(engineID string, success bool, seconds float64)        {}
func (m *noopMetricsClient) IncrementCounter(name string, value float64)                             {}
func (m *noopMetricsClient) IncrementCounterWithLabels(name string, value float64, labels map[string]string) {
}
func (m *noopMetricsClient) StartTimer(name string, labels map[string]string) func() {
	return func() {}
}
func (m *noopMetricsClient) Close() error { return nil }
