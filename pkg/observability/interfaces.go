// Package observability provides unified logging and metrics for the
// semantic coordinator and its collaborator engines.
package observability

import (
	"time"
)

// Config holds the configuration for the observability components.
type Config struct {
	Metrics MetricsConfig `json:"metrics,omitempty" mapstructure:"metrics"`
	Logging LoggingConfig `json:"logging,omitempty" mapstructure:"logging"`
}

// MetricsConfig holds the configuration for metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Namespace string `json:"namespace,omitempty" mapstructure:"namespace"`
	Subsystem string `json:"subsystem,omitempty" mapstructure:"subsystem"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	Level string `json:"level,omitempty" mapstructure:"level"`
	// Format selects "json" or "console" encoding.
	Format string `json:"format,omitempty" mapstructure:"format"`
}

// LogLevel defines log message severity.
type LogLevel string

// Log levels.
const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelFatal LogLevel = "FATAL"
)

// Logger defines the interface for structured logging used throughout the core.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	WithPrefix(prefix string) Logger
	With(fields map[string]interface{}) Logger

	// Sync flushes any buffered log entries.
	Sync() error
}

// MetricsClient defines the interface for metrics collection. Instances must
// be safe for concurrent use since the coordinator, cache and executor all
// record against the same client from independent goroutines.
type MetricsClient interface {
	RecordCounter(name string, value float64, labels map[string]string)
	RecordGauge(name string, value float64, labels map[string]string)
	RecordHistogram(name string, value float64, labels map[string]string)
	RecordTimer(name string, duration time.Duration, labels map[string]string)

	RecordCacheOperation(operation string, success bool, durationSeconds float64)
	RecordEngineQuery(engineID string, success bool, durationSeconds float64)

	IncrementCounter(name string, value float64)
	IncrementCounterWithLabels(name string, value float64, labels map[string]string)

	StartTimer(name string, labels map[string]string) func()

	Close() error
}
