package fetcher

import "time"

// Status is the outcome of a single fetch.
type Status string

const (
	StatusSucceeded Status = "success"
	StatusFailed    Status = "failed"
)

// Result records what happened to one entry.
type Result struct {
	Entry     Entry
	Status    Status
	Bytes     int64
	SHA256    string
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// OK reports whether the entry was downloaded.
func (r Result) OK() bool {
	return r.Status == StatusSucceeded
}

// Summary aggregates the results of one run, in manifest order.
type Summary struct {
	RunID      string
	Model      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []Result
}

// Total is the number of entries attempted.
func (s Summary) Total() int {
	return len(s.Results)
}

// Succeeded counts successful fetches.
func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed counts failed fetches.
func (s Summary) Failed() int {
	return s.Total() - s.Succeeded()
}

// Failures returns the failed results.
func (s Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Bytes is the total size of all successful downloads.
func (s Summary) Bytes() int64 {
	var n int64
	for _, r := range s.Results {
		if r.OK() {
			n += r.Bytes
		}
	}
	return n
}
