package logger

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Logger is implemented by every logger in this package. The printf-style
// methods are for human-oriented progress lines; the *Context variants carry
// structured fields plus whatever run trace is stored in ctx.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})

	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)

	With(fields ...Field) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Level is the severity of an entry. Entries below a logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel accepts the names printed by Level.String, case-insensitively,
// plus "warning". An empty name means info.
func ParseLevel(name string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch upper {
	case "":
		return LevelInfo, nil
	case "WARNING":
		return LevelWarn, nil
	}
	for lvl, n := range levelNames {
		if n == upper {
			return Level(lvl), nil
		}
	}
	return LevelInfo, errors.Errorf("unknown log level %q", name)
}

// Field is a key/value pair attached to a structured entry.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Duration stores value.String() so text and JSON output agree.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Error stores err's message under "error"; a nil err yields a nil value.
func Error(err error) Field {
	f := Field{Key: "error"}
	if err != nil {
		f.Value = err.Error()
	}
	return f
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
