package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	apperrors "modelfetch/internal/errors"
	errlogging "modelfetch/internal/errors/logging"
	"modelfetch/internal/logger"
	"modelfetch/internal/manifest"
)

const (
	copyBufferSize = 32 * 1024
	moduleName     = "fetcher"
)

// HTTPClient represents the subset of http.Client methods required by the fetcher.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads manifest entries one at a time.
type Fetcher struct {
	logger   logger.Logger
	client   HTTPClient
	fs       FileSystem
	reporter ProgressReporter
	timeout  time.Duration
}

// Option customises Fetcher construction.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client used for downloads.
func WithHTTPClient(client HTTPClient) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithFileSystem overrides the filesystem implementation.
func WithFileSystem(fs FileSystem) Option {
	return func(f *Fetcher) {
		f.fs = fs
	}
}

// WithProgressReporter overrides the progress reporter implementation.
func WithProgressReporter(reporter ProgressReporter) Option {
	return func(f *Fetcher) {
		f.reporter = reporter
	}
}

// WithTimeout bounds each transfer. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// New constructs a Fetcher using the provided logger and options.
func New(log logger.Logger, opts ...Option) (*Fetcher, error) {
	if log == nil {
		return nil, apperrors.ConfigError(apperrors.CodeConfigGeneric, "logger must not be nil", nil).
			WithModule(moduleName).
			WithOperation("New")
	}

	f := &Fetcher{
		logger:   log,
		client:   defaultHTTPClient(),
		fs:       OSFileSystem{},
		reporter: noProgress{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	if f.client == nil {
		f.client = defaultHTTPClient()
	}
	if f.fs == nil {
		f.fs = OSFileSystem{}
	}
	if f.reporter == nil {
		f.reporter = noProgress{}
	}
	if f.timeout < 0 {
		f.timeout = 0
	}

	return f, nil
}

// RunModel fetches every file of model in manifest order.
func (f *Fetcher) RunModel(ctx context.Context, model manifest.Model) (Summary, error) {
	summary, err := f.Run(ctx, BuildEntries(model))
	summary.Model = model.Name
	return summary, err
}

// Run fetches entries sequentially. A failed transfer is recorded and the run moves
// on; a local filesystem failure or a cancelled context stops the run and is
// returned together with the results gathered so far.
func (f *Fetcher) Run(ctx context.Context, entries []Entry) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make([]Result, 0, len(entries)),
	}
	if len(entries) > 0 {
		summary.Model = entries[0].Model
	}

	ctx = logger.ContextWithTrace(ctx, logger.TraceContext{RunID: summary.RunID, Model: summary.Model})

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = time.Now()
			return summary, cancelled(err, len(entries)-i)
		}

		result, err := f.Fetch(ctx, entry)
		summary.Results = append(summary.Results, result)
		if err != nil {
			summary.FinishedAt = time.Now()
			if appErr, ok := apperrors.As(err); ok {
				errlogging.Error(ctx, f.logger, fmt.Sprintf("Aborting: cannot write %s", entry.LocalPath), appErr)
			}
			return summary, err
		}
	}

	summary.FinishedAt = time.Now()
	if err := ctx.Err(); err != nil {
		return summary, cancelled(err, 0)
	}
	f.logger.InfoContext(ctx, fmt.Sprintf("Fetched %d of %d files", summary.Succeeded(), summary.Total()),
		logger.Int("failed", summary.Failed()),
		logger.Int64("bytes", summary.Bytes()),
		logger.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

func cancelled(err error, remaining int) error {
	return apperrors.SystemError(apperrors.CodeSystemGeneric, "run cancelled", err).
		WithModule(moduleName).
		WithOperation("Run").
		WithField("remaining", remaining)
}

// Fetch transfers a single entry. The returned error is non-nil only for failures
// that should stop the run; transfer failures are reported in the Result.
func (f *Fetcher) Fetch(ctx context.Context, entry Entry) (Result, error) {
	result := Result{
		Entry:     entry,
		Status:    StatusFailed,
		StartedAt: time.Now(),
	}

	dir := filepath.Dir(entry.LocalPath)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		appErr := apperrors.SystemError(apperrors.CodeSystemMkdir, "failed to create directory", err).
			WithModule(moduleName).
			WithOperation("Fetch").
			WithField("path", dir)
		result.Err = appErr
		return result, appErr
	}

	f.logger.InfoContext(ctx, fmt.Sprintf("Downloading %s to %s...", entry.URL, entry.LocalPath))

	n, digest, err := f.transfer(ctx, entry)
	result.Duration = time.Since(result.StartedAt)
	if err != nil {
		result.Err = err
		if !apperrors.IsRecoverable(err) {
			return result, err
		}
		appErr, _ := apperrors.As(err)
		errlogging.Warn(ctx, f.logger, fmt.Sprintf("Failed to download %s: %v", entry.RelPath, err), appErr)
		return result, nil
	}

	result.Status = StatusSucceeded
	result.Bytes = n
	result.SHA256 = digest
	f.logger.InfoContext(ctx, "Done.",
		logger.String("path", entry.RelPath),
		logger.Int64("bytes", n),
		logger.Duration("elapsed", result.Duration),
	)
	return result, nil
}

func (f *Fetcher) transfer(ctx context.Context, entry Entry) (int64, string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.URL, nil)
	if err != nil {
		return 0, "", apperrors.NetworkError(apperrors.CodeNetworkRequest, "failed to create download request", err).
			WithModule(moduleName).
			WithOperation("transfer").
			WithField("url", entry.URL)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", apperrors.NetworkError(apperrors.CodeNetworkRequest, "download request failed", err).
			WithModule(moduleName).
			WithOperation("transfer").
			WithField("url", entry.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, "", apperrors.NetworkError(apperrors.CodeNetworkStatus, "download failed with unexpected status", fmt.Errorf("HTTP %s", resp.Status)).
			WithModule(moduleName).
			WithOperation("transfer").
			WithFields(apperrors.Metadata{
				"url":    entry.URL,
				"status": resp.StatusCode,
			})
	}

	file, err := f.fs.Create(entry.LocalPath)
	if err != nil {
		return 0, "", apperrors.SystemError(apperrors.CodeSystemCreate, "failed to create local file", err).
			WithModule(moduleName).
			WithOperation("transfer").
			WithField("path", entry.LocalPath)
	}

	hasher := sha256.New()
	body := newProgressReader(resp.Body, entry, resp.ContentLength, f.reporter)
	buf := make([]byte, copyBufferSize)

	n, copyErr := io.CopyBuffer(io.MultiWriter(file, hasher), body, buf)
	closeErr := file.Close()

	if copyErr != nil {
		if readErr := body.readErr; readErr != nil {
			return n, "", apperrors.NetworkError(apperrors.CodeNetworkRead, "failed to read response body", readErr).
				WithModule(moduleName).
				WithOperation("transfer").
				WithFields(apperrors.Metadata{
					"url":   entry.URL,
					"bytes": n,
				})
		}
		return n, "", apperrors.SystemError(apperrors.CodeSystemWrite, "failed to write file to disk", copyErr).
			WithModule(moduleName).
			WithOperation("transfer").
			WithField("path", entry.LocalPath)
	}
	if closeErr != nil {
		return n, "", apperrors.SystemError(apperrors.CodeSystemWrite, "failed to write file to disk", closeErr).
			WithModule(moduleName).
			WithOperation("transfer").
			WithField("path", entry.LocalPath)
	}

	body.finish()
	return n, hex.EncodeToString(hasher.Sum(nil)), nil
}

// defaultHTTPClient has no overall timeout; WithTimeout applies one per request.
func defaultHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    true,
	}

	return &http.Client{
		Transport: transport,
	}
}
