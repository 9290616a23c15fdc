package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"modelfetch/internal/fetcher"
)

const barWidth = 30

// ConsoleProgressReporter redraws one status line per file with a carriage
// return, at most every interval. It is not safe for concurrent transfers.
type ConsoleProgressReporter struct {
	w        io.Writer
	interval time.Duration
	started  time.Time
	drawn    time.Time
}

func NewConsoleProgressReporter(w io.Writer) *ConsoleProgressReporter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleProgressReporter{w: w, interval: 200 * time.Millisecond}
}

func (c *ConsoleProgressReporter) Started(e fetcher.Entry, size int64) {
	c.started = time.Now()
	c.drawn = c.started

	total := "size unknown"
	if size >= 0 {
		total = humanize.IBytes(uint64(size))
	}
	fmt.Fprintf(c.w, "  %s: starting download (%s)\n", e.RelPath, total)
}

func (c *ConsoleProgressReporter) Advanced(e fetcher.Entry, done, size int64) {
	now := time.Now()
	if now.Sub(c.drawn) < c.interval {
		return
	}
	c.drawn = now

	if size <= 0 {
		fmt.Fprintf(c.w, "\r  %s: %s downloaded", e.RelPath, humanize.IBytes(uint64(done)))
		return
	}
	frac := float64(done) / float64(size)
	fmt.Fprintf(c.w, "\r  %s: [%s] %5.1f%% (%s/%s) %s/s",
		e.RelPath, bar(frac), frac*100,
		humanize.IBytes(uint64(done)), humanize.IBytes(uint64(size)),
		rate(done, now.Sub(c.started)))
}

func (c *ConsoleProgressReporter) Finished(e fetcher.Entry, done int64, elapsed time.Duration) {
	fmt.Fprintf(c.w, "\r  %s: [%s] 100.0%% (%s) %s/s\n",
		e.RelPath, bar(1), humanize.IBytes(uint64(done)), rate(done, elapsed))
}

func rate(bytes int64, elapsed time.Duration) string {
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	return humanize.IBytes(uint64(float64(bytes) / elapsed.Seconds()))
}

// bar draws "===>   " filled to frac, clamped to [0, 1].
func bar(frac float64) string {
	filled := int(frac * barWidth)
	switch {
	case filled >= barWidth:
		return strings.Repeat("=", barWidth)
	case filled < 0:
		filled = 0
	}
	return strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barWidth-filled-1)
}
