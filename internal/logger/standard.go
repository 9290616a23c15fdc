package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// sink is the writer half of a logger. Loggers derived with With share it,
// so lines from a parent and its children never interleave.
type sink struct {
	mu        sync.Mutex
	out       io.Writer
	formatter Formatter
}

func (s *sink) write(entry *Entry) {
	line, err := s.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: format %q: %v\n", entry.Message, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(line); err != nil {
		fmt.Fprintf(os.Stderr, "logger: write: %v\n", err)
	}
}

// StandardLogger writes formatted entries to a single writer.
type StandardLogger struct {
	sink   *sink
	mu     sync.RWMutex
	level  Level
	fields []Field
}

// Option configures a StandardLogger.
type Option func(*StandardLogger)

func WithLevel(level Level) Option {
	return func(l *StandardLogger) { l.level = level }
}

// WithOutput sends entries to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(l *StandardLogger) { l.sink.out = w }
}

func WithFormatter(formatter Formatter) Option {
	return func(l *StandardLogger) { l.sink.formatter = formatter }
}

// WithFields attaches fields to every entry the logger emits.
func WithFields(fields ...Field) Option {
	return func(l *StandardLogger) { l.fields = append(l.fields, fields...) }
}

// NewStandardLogger returns an info-level logger writing plain text to stdout
// unless options say otherwise.
func NewStandardLogger(options ...Option) *StandardLogger {
	l := &StandardLogger{
		sink:  &sink{},
		level: LevelInfo,
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	if l.sink.out == nil {
		l.sink.out = os.Stdout
	}
	if l.sink.formatter == nil {
		l.sink.formatter = &TextFormatter{}
	}
	return l
}

func (l *StandardLogger) Debug(format string, args ...interface{}) {
	l.emit(context.Background(), LevelDebug, fmt.Sprintf(format, args...), nil)
}

func (l *StandardLogger) Info(format string, args ...interface{}) {
	l.emit(context.Background(), LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (l *StandardLogger) Warn(format string, args ...interface{}) {
	l.emit(context.Background(), LevelWarn, fmt.Sprintf(format, args...), nil)
}

func (l *StandardLogger) Error(format string, args ...interface{}) {
	l.emit(context.Background(), LevelError, fmt.Sprintf(format, args...), nil)
}

func (l *StandardLogger) DebugContext(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, LevelDebug, msg, fields)
}

func (l *StandardLogger) InfoContext(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, LevelInfo, msg, fields)
}

func (l *StandardLogger) WarnContext(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, LevelWarn, msg, fields)
}

func (l *StandardLogger) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, LevelError, msg, fields)
}

// With returns a child that shares this logger's writer and starts at its
// current level. Changing the child's level does not affect the parent.
func (l *StandardLogger) With(fields ...Field) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	return &StandardLogger{
		sink:   l.sink,
		level:  l.level,
		fields: append(merged, fields...),
	}
}

func (l *StandardLogger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *StandardLogger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// emit builds the entry: logger fields first, then the ctx trace, then the
// call-site fields. A ctx without a trace adds nothing.
func (l *StandardLogger) emit(ctx context.Context, level Level, msg string, fields []Field) {
	l.mu.RLock()
	if level < l.level {
		l.mu.RUnlock()
		return
	}
	all := make([]Field, 0, len(l.fields)+len(fields)+2)
	all = append(all, l.fields...)
	l.mu.RUnlock()

	all = append(all, traceFieldsFromContext(ctx)...)
	all = append(all, fields...)

	l.sink.write(&Entry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  all,
	})
}
