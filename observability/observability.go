// Package observability carries the logging and tracing hooks the library
// reports through. Nothing is emitted unless a caller installs a Logger or a
// Tracer; the defaults discard everything.
package observability

import (
	"context"
	"log/slog"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is one key/value pair attached to a log line.
type Field interface {
	Key() string
	Value() interface{}
}

type field[T any] struct {
	key string
	val T
}

func (f field[T]) Key() string        { return f.key }
func (f field[T]) Value() interface{} { return f.val }

func String(key, value string) Field        { return field[string]{key, value} }
func Int(key string, value int) Field       { return field[int]{key, value} }
func Int64(key string, value int64) Field   { return field[int64]{key, value} }
func Float(key string, value float64) Field { return field[float64]{key, value} }
func Error(key string, err error) Field     { return field[error]{key, err} }

// NopLogger drops every line.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// SlogLogger forwards to a log/slog logger.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l; a nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(msg string, fields ...Field) { s.log(slog.LevelDebug, msg, fields) }
func (s *SlogLogger) Info(msg string, fields ...Field)  { s.log(slog.LevelInfo, msg, fields) }
func (s *SlogLogger) Warn(msg string, fields ...Field)  { s.log(slog.LevelWarn, msg, fields) }
func (s *SlogLogger) Error(msg string, fields ...Field) { s.log(slog.LevelError, msg, fields) }

func (s *SlogLogger) With(fields ...Field) Logger {
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = attr(f)
	}
	return &SlogLogger{l: s.l.With(args...)}
}

func (s *SlogLogger) log(level slog.Level, msg string, fields []Field) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, len(fields))
	for i, f := range fields {
		attrs[i] = attr(f)
	}
	s.l.LogAttrs(ctx, level, msg, attrs...)
}

func attr(f Field) slog.Attr {
	switch v := f.Value().(type) {
	case string:
		return slog.String(f.Key(), v)
	case int:
		return slog.Int(f.Key(), v)
	case int64:
		return slog.Int64(f.Key(), v)
	case float64:
		return slog.Float64(f.Key(), v)
	case error:
		return slog.String(f.Key(), v.Error())
	}
	return slog.Any(f.Key(), f.Value())
}

// Tracer opens a span around a library operation.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

type Span interface {
	SetTag(key string, value interface{})
	SetError(err error)
	Finish()
}

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, nopSpan{}
}

// NopTracer returns a tracer whose spans record nothing.
func NopTracer() Tracer { return nopTracer{} }

type nopSpan struct{}

func (nopSpan) SetTag(string, interface{}) {}
func (nopSpan) SetError(error)             {}
func (nopSpan) Finish()                    {}

// Names used for log fields and span tags.
const (
	MetricComposeTime = "pdf.compose.duration"
	MetricObjectCount = "pdf.objects.count"
	MetricPageCount   = "pdf.pages.count"
	MetricOutputBytes = "pdf.output.bytes"
)
