package history

import (
	"context"
	"time"

	"modelfetch/internal/fetcher"
)

// Store persists fetch runs.
type Store interface {
	// Bootstrap prepares the backing store.
	Bootstrap(ctx context.Context) error
	RecordRun(ctx context.Context, summary fetcher.Summary) error
	Runs(ctx context.Context, limit int) ([]RunRecord, error)
	Fetches(ctx context.Context, runID string) ([]FetchRecord, error)
	Close() error
}

// RunRecord is one recorded run.
type RunRecord struct {
	ID         string
	Model      string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Succeeded  int
	Failed     int
	Bytes      int64
}

// FetchRecord is one recorded entry of a run.
type FetchRecord struct {
	RunID     string
	Position  int
	RelPath   string
	URL       string
	LocalPath string
	Status    fetcher.Status
	Bytes     int64
	SHA256    string
	Error     string
	Duration  time.Duration
}
