package observability

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a *zap.SugaredLogger to the Logger interface. It is the
// standard logger implementation used across the semantic coordinator;
// engines and the CLI wrapper are expected to inject one rather than the
// noop logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewStandardLogger creates a ZapLogger with the given name. Logs are
// written to stderr, which keeps stdout free for any caller that pipes the
// core's output (demos, batch tools) rather than parsing log lines.
func NewStandardLogger(name string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		// Fall back to a bare core rather than failing construction of the
		// whole coordinator over a logging misconfiguration.
		logger = zap.NewNop()
	}
	return &ZapLogger{sugar: logger.Sugar().Named(name)}
}

// NewLogger creates a new logger with the given prefix. This is the primary
// logger factory function used throughout the core.
func NewLogger(prefix string) Logger {
	if prefix == "" {
		prefix = "default"
	}
	return NewStandardLogger(prefix)
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.sugar.Debugw(msg, mapToArgs(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.sugar.Infow(msg, mapToArgs(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.sugar.Warnw(msg, mapToArgs(fields)...)
}

func (l *ZapLogger) Error(msg string, fields map[string]interface{}) {
	l.sugar.Errorw(msg, mapToArgs(fields)...)
}

func (l *ZapLogger) Fatal(msg string, fields map[string]interface{}) {
	l.sugar.Fatalw(msg, mapToArgs(fields)...)
	os.Exit(1)
}

func (l *ZapLogger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *ZapLogger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

func (l *ZapLogger) WithPrefix(prefix string) Logger {
	return &ZapLogger{sugar: l.sugar.Named(prefix)}
}

func (l *ZapLogger) With(fields map[string]interface{}) Logger {
	return &ZapLogger{sugar: l.sugar.With(mapToArgs(fields)...)}
}

func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

func mapToArgs(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
