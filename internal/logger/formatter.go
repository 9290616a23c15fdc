package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Formatter renders an entry as one line, including the trailing newline.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Entry is a single log record handed to a Formatter.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  []Field
}

// TextFormatter renders "15:04:05 [LEVEL] message key=value ...". Values
// containing spaces, quotes or '=' are Go-quoted.
type TextFormatter struct {
	TimestampFormat  string
	DisableTimestamp bool
	// Colors renders the level, and dims the fields, with ANSI escapes.
	Colors bool
}

var levelColors = map[Level]color.Attribute{
	LevelDebug: color.FgCyan,
	LevelInfo:  color.FgBlue,
	LevelWarn:  color.FgYellow,
	LevelError: color.FgRed,
}

func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer

	if !f.DisableTimestamp {
		layout := f.TimestampFormat
		if layout == "" {
			layout = "15:04:05"
		}
		buf.WriteString(entry.Time.Format(layout))
		buf.WriteByte(' ')
	}

	level := entry.Level.String()
	if attr, ok := levelColors[entry.Level]; f.Colors && ok {
		level = sprintForced(attr, level)
	}
	buf.WriteByte('[')
	buf.WriteString(level)
	buf.WriteString("] ")
	buf.WriteString(entry.Message)

	for _, field := range entry.Fields {
		pair := field.Key + "=" + textValue(field.Value)
		if f.Colors {
			pair = sprintForced(color.Faint, pair)
		}
		buf.WriteByte(' ')
		buf.WriteString(pair)
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// sprintForced colours s even when fatih/color has globally disabled colour
// because stdout is not a terminal; the caller has already decided.
func sprintForced(attr color.Attribute, s string) string {
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func textValue(v interface{}) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

// JSONFormatter renders one JSON object per entry with "time", "level" and
// "msg" keys. A field using one of those keys is stored as "fields.<key>".
type JSONFormatter struct {
	TimestampFormat string
}

func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	layout := f.TimestampFormat
	if layout == "" {
		layout = time.RFC3339
	}

	data := make(map[string]interface{}, len(entry.Fields)+3)
	for _, field := range entry.Fields {
		key := field.Key
		if key == "time" || key == "level" || key == "msg" {
			key = "fields." + key
		}
		data[key] = field.Value
	}
	data["time"] = entry.Time.Format(layout)
	data["level"] = entry.Level.String()
	data["msg"] = entry.Message

	line, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}
