package fetcher

import (
	"io"
	"time"
)

// ProgressReporter follows a single transfer. size is -1 when the server sent
// no Content-Length. Finished is only called for transfers that succeeded.
type ProgressReporter interface {
	Started(entry Entry, size int64)
	Advanced(entry Entry, done, size int64)
	Finished(entry Entry, done int64, elapsed time.Duration)
}

type noProgress struct{}

func (noProgress) Started(Entry, int64)                 {}
func (noProgress) Advanced(Entry, int64, int64)         {}
func (noProgress) Finished(Entry, int64, time.Duration) {}

// progressReader reports every read of a response body and keeps the first
// read error, which lets transfer tell a dropped connection from a disk error
// after io.Copy has merged the two.
type progressReader struct {
	r        io.Reader
	entry    Entry
	size     int64
	done     int64
	started  time.Time
	reporter ProgressReporter
	readErr  error
}

func newProgressReader(r io.Reader, entry Entry, size int64, reporter ProgressReporter) *progressReader {
	reporter.Started(entry, size)
	return &progressReader{
		r:        r,
		entry:    entry,
		size:     size,
		started:  time.Now(),
		reporter: reporter,
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.done += int64(n)
		p.reporter.Advanced(p.entry, p.done, p.size)
	}
	if err != nil && err != io.EOF && p.readErr == nil {
		p.readErr = err
	}
	return n, err
}

func (p *progressReader) finish() {
	p.reporter.Finished(p.entry, p.done, time.Since(p.started))
}
