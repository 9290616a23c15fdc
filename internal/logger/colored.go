package logger

import "os"

// ColoredLogger is a StandardLogger whose text output colours the level when
// writing to a terminal and NO_COLOR is unset.
type ColoredLogger struct {
	*StandardLogger
}

// NewColoredLogger applies options, then replaces the formatter with a
// TextFormatter coloured according to the final output.
func NewColoredLogger(options ...Option) *ColoredLogger {
	std := NewStandardLogger(options...)
	std.sink.formatter = &TextFormatter{
		Colors: isTerminal(std.sink.out) && os.Getenv("NO_COLOR") == "",
	}
	return &ColoredLogger{StandardLogger: std}
}
