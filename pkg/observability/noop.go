package observability

// NoopLogger is a logger that discards everything. Useful for tests and for
// callers that have not opted into logging.
type NoopLogger struct{}

func (l *NoopLogger) Debug(msg string, fields map[string]interface{}) {}
func (l *NoopLogger) Info(msg string, fields map[string]interface{})  {}
func (l *NoopLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *NoopLogger) Error(msg string, fields map[string]interface{}) {}
func (l *NoopLogger) Fatal(msg string, fields map[string]interface{}) {}

func (l *NoopLogger) Debugf(format string, args ...interface{}) {}
func (l *NoopLogger) Infof(format string, args ...interface{})  {}
func (l *NoopLogger) Warnf(format string, args ...interface{})  {}
func (l *NoopLogger) Errorf(format string, args ...interface{}) {}
func (l *NoopLogger) Fatalf(format string, args ...interface{}) {}

func (l *NoopLogger) WithPrefix(prefix string) Logger            { return l }
func (l *NoopLogger) With(fields map[string]interface{}) Logger { return l }
func (l *NoopLogger) Sync() error                                { return nil }

// NewNoopLogger creates a new NoopLogger.
func NewNoopLogger() Logger {
	return &NoopLogger{}
}
