package logger

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockLogger keeps entries in memory for test assertions. It starts at
// LevelDebug, and With returns the same logger.
type MockLogger struct {
	mu      sync.Mutex
	entries []MockEntry
	level   Level
}

// MockEntry is one recorded emission. Structured entries include trace fields.
type MockEntry struct {
	Level   Level
	Message string
	Fields  []Field
}

func NewMockLogger() *MockLogger {
	return &MockLogger{level: LevelDebug}
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.record(LevelDebug, fmt.Sprintf(format, args...), nil)
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.record(LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (m *MockLogger) Warn(format string, args ...interface{}) {
	m.record(LevelWarn, fmt.Sprintf(format, args...), nil)
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.record(LevelError, fmt.Sprintf(format, args...), nil)
}

func (m *MockLogger) DebugContext(ctx context.Context, msg string, fields ...Field) {
	m.record(LevelDebug, msg, append(traceFieldsFromContext(ctx), fields...))
}

func (m *MockLogger) InfoContext(ctx context.Context, msg string, fields ...Field) {
	m.record(LevelInfo, msg, append(traceFieldsFromContext(ctx), fields...))
}

func (m *MockLogger) WarnContext(ctx context.Context, msg string, fields ...Field) {
	m.record(LevelWarn, msg, append(traceFieldsFromContext(ctx), fields...))
}

func (m *MockLogger) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	m.record(LevelError, msg, append(traceFieldsFromContext(ctx), fields...))
}

func (m *MockLogger) With(...Field) Logger {
	return m
}

func (m *MockLogger) SetLevel(level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

func (m *MockLogger) GetLevel() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

func (m *MockLogger) record(level Level, msg string, fields []Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if level < m.level {
		return
	}
	m.entries = append(m.entries, MockEntry{Level: level, Message: msg, Fields: fields})
}

// Field returns the value of the first field named key.
func (e MockEntry) Field(key string) (interface{}, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// match returns the recorded entries accepted by keep, in emission order.
func (m *MockLogger) match(keep func(MockEntry) bool) []MockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []MockEntry
	for _, e := range m.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (m *MockLogger) GetEntries() []MockEntry {
	return m.match(func(MockEntry) bool { return true })
}

// Messages returns the messages logged at level.
func (m *MockLogger) Messages(level Level) []string {
	var msgs []string
	for _, e := range m.match(func(e MockEntry) bool { return e.Level == level }) {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// HasEntry reports whether some entry at level has a message containing substr.
func (m *MockLogger) HasEntry(level Level, substr string) bool {
	return len(m.match(func(e MockEntry) bool {
		return e.Level == level && strings.Contains(e.Message, substr)
	})) > 0
}

func (m *MockLogger) CountEntries(level Level) int {
	return len(m.Messages(level))
}

func (m *MockLogger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}
