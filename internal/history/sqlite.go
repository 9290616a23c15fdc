package history

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	apperrors "modelfetch/internal/errors"
	"modelfetch/internal/fetcher"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	model       TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	total       INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	bytes       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS fetches (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	position    INTEGER NOT NULL,
	rel_path    TEXT NOT NULL,
	url         TEXT NOT NULL,
	local_path  TEXT NOT NULL,
	status      TEXT NOT NULL,
	bytes       INTEGER NOT NULL,
	sha256      TEXT NOT NULL,
	error       TEXT NOT NULL,
	duration_ns INTEGER NOT NULL,
	PRIMARY KEY (run_id, position)
);
`

// SQLiteStore persists run history in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already opened database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db: db,
	}
}

// Open opens (creating if needed) the database at path and bootstraps the schema.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, dbError(apperrors.CodeDatabaseOpen, "failed to open history database", err, "Open").
			WithField("path", path)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	store := NewSQLiteStore(db)
	if err := store.Bootstrap(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Bootstrap creates the schema when missing.
func (s *SQLiteStore) Bootstrap(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return dbError(apperrors.CodeDatabaseOpen, "failed to create history schema", err, "Bootstrap")
	}
	return nil
}

// RecordRun stores the summary and each of its results in one transaction.
func (s *SQLiteStore) RecordRun(ctx context.Context, summary fetcher.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError(apperrors.CodeDatabaseWrite, "failed to begin transaction", err, "RecordRun")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, model, started_at, finished_at, total, succeeded, failed, bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.Model,
		formatTime(summary.StartedAt),
		formatTime(summary.FinishedAt),
		summary.Total(),
		summary.Succeeded(),
		summary.Failed(),
		summary.Bytes(),
	)
	if err != nil {
		return dbError(apperrors.CodeDatabaseWrite, "failed to insert run", err, "RecordRun").
			WithField("run_id", summary.RunID)
	}

	for i, r := range summary.Results {
		var errText string
		if r.Err != nil {
			errText = r.Err.Error()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO fetches (run_id, position, rel_path, url, local_path, status, bytes, sha256, error, duration_ns)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			summary.RunID, i, r.Entry.RelPath, r.Entry.URL, r.Entry.LocalPath,
			string(r.Status), r.Bytes, r.SHA256, errText, int64(r.Duration),
		)
		if err != nil {
			return dbError(apperrors.CodeDatabaseWrite, "failed to insert fetch", err, "RecordRun").
				WithFields(apperrors.Metadata{"run_id": summary.RunID, "path": r.Entry.RelPath})
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError(apperrors.CodeDatabaseWrite, "failed to commit run", err, "RecordRun").
			WithField("run_id", summary.RunID)
	}
	return nil
}

// Runs returns the most recent runs, newest first. A non-positive limit returns all runs.
func (s *SQLiteStore) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, model, started_at, finished_at, total, succeeded, failed, bytes
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, dbError(apperrors.CodeDatabaseQuery, "failed to query runs", err, "Runs")
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec               RunRecord
			started, finished string
		)
		if err := rows.Scan(&rec.ID, &rec.Model, &started, &finished, &rec.Total, &rec.Succeeded, &rec.Failed, &rec.Bytes); err != nil {
			return nil, dbError(apperrors.CodeDatabaseQuery, "failed to scan run", err, "Runs")
		}
		rec.StartedAt = parseTime(started)
		rec.FinishedAt = parseTime(finished)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(apperrors.CodeDatabaseQuery, "failed to iterate runs", err, "Runs")
	}
	return out, nil
}

// Fetches returns the recorded entries of a run in manifest order.
func (s *SQLiteStore) Fetches(ctx context.Context, runID string) ([]FetchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, rel_path, url, local_path, status, bytes, sha256, error, duration_ns
		 FROM fetches WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, dbError(apperrors.CodeDatabaseQuery, "failed to query fetches", err, "Fetches").
			WithField("run_id", runID)
	}
	defer rows.Close()

	var out []FetchRecord
	for rows.Next() {
		var (
			rec      FetchRecord
			status   string
			duration int64
		)
		if err := rows.Scan(&rec.Position, &rec.RelPath, &rec.URL, &rec.LocalPath, &status, &rec.Bytes, &rec.SHA256, &rec.Error, &duration); err != nil {
			return nil, dbError(apperrors.CodeDatabaseQuery, "failed to scan fetch", err, "Fetches")
		}
		rec.RunID = runID
		rec.Status = fetcher.Status(status)
		rec.Duration = time.Duration(duration)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(apperrors.CodeDatabaseQuery, "failed to iterate fetches", err, "Fetches")
	}
	return out, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func dbError(code, msg string, err error, op string) *apperrors.AppError {
	return apperrors.DatabaseError(code, msg, err).
		WithModule("history").
		WithOperation(op)
}

// Fixed-width so that started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ Store = (*SQLiteStore)(nil)
