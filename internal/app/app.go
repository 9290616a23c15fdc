package app

import (
	"context"
	"io"

	apperrors "modelfetch/internal/errors"
	errlogging "modelfetch/internal/errors/logging"
	"modelfetch/internal/fetcher"
	"modelfetch/internal/history"
	"modelfetch/internal/logger"
	"modelfetch/internal/manifest"
	"modelfetch/internal/ui"
)

// App runs the configured models through the fetcher and reports the outcome.
type App struct {
	cfg     *manifest.Config
	logger  logger.Logger
	fetcher *fetcher.Fetcher
	printer *ui.Printer
	history history.Store
}

type options struct {
	output      io.Writer
	history     history.Store
	fetcherOpts []fetcher.Option
	noColor     bool
}

// Option customises App construction.
type Option func(*options)

// WithOutput sets where summary tables are printed.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithHistory records every run in store. The App takes ownership and closes it,
// also when New fails.
func WithHistory(store history.Store) Option {
	return func(o *options) {
		o.history = store
	}
}

// WithoutColor disables colour in summary tables regardless of the output.
func WithoutColor() Option {
	return func(o *options) {
		o.noColor = true
	}
}

// WithFetcherOptions passes options through to the fetcher.
func WithFetcherOptions(opts ...fetcher.Option) Option {
	return func(o *options) {
		o.fetcherOpts = append(o.fetcherOpts, opts...)
	}
}

// New wires an App for cfg.
func New(cfg *manifest.Config, log logger.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a, err := newApp(cfg, log, o)
	if err != nil && o.history != nil {
		_ = o.history.Close()
	}
	return a, err
}

func newApp(cfg *manifest.Config, log logger.Logger, o options) (*App, error) {
	if cfg == nil {
		return nil, apperrors.ConfigError(apperrors.CodeConfigGeneric, "manifest configuration must not be nil", nil).
			WithModule("app").
			WithOperation("New")
	}

	fetcherOpts := append([]fetcher.Option{fetcher.WithTimeout(cfg.Timeout)}, o.fetcherOpts...)
	f, err := fetcher.New(log, fetcherOpts...)
	if err != nil {
		return nil, err
	}

	printer := ui.NewPrinter(o.output)
	if o.noColor {
		printer.SetColor(false)
	}

	return &App{
		cfg:     cfg,
		logger:  log,
		fetcher: f,
		printer: printer,
		history: o.history,
	}, nil
}

// Models resolves names to manifest models, preserving the given order.
// No names selects every model.
func (a *App) Models(names ...string) ([]manifest.Model, error) {
	if len(names) == 0 {
		return append([]manifest.Model(nil), a.cfg.Models...), nil
	}

	models := make([]manifest.Model, 0, len(names))
	for _, name := range names {
		m, ok := a.cfg.Model(name)
		if !ok {
			return nil, apperrors.ConfigError(apperrors.CodeConfigInvalid, "unknown model", nil).
				WithModule("app").
				WithOperation("Models").
				WithFields(apperrors.Metadata{"model": name, "available": a.cfg.Names()})
		}
		models = append(models, m)
	}
	return models, nil
}

// Run fetches the named models (all when none are given) one after another.
// Transfer failures do not make Run fail; only fatal fetch errors and
// cancellation do, in which case later models are not attempted.
func (a *App) Run(ctx context.Context, names ...string) ([]fetcher.Summary, error) {
	models, err := a.Models(names...)
	if err != nil {
		return nil, err
	}

	summaries := make([]fetcher.Summary, 0, len(models))
	for _, model := range models {
		summary, runErr := a.fetcher.RunModel(ctx, model)
		summaries = append(summaries, summary)

		a.record(ctx, summary)
		a.printer.PrintSummary(summary)

		if runErr != nil {
			return summaries, runErr
		}
	}
	return summaries, nil
}

// record stores summary in the history store; failures are logged, not returned.
func (a *App) record(ctx context.Context, summary fetcher.Summary) {
	if a.history == nil || summary.RunID == "" {
		return
	}
	// A cancelled run is still recorded.
	if err := a.history.RecordRun(context.WithoutCancel(ctx), summary); err != nil {
		appErr, ok := apperrors.As(err)
		if !ok {
			appErr = apperrors.DatabaseError(apperrors.CodeDatabaseWrite, "failed to record run", err)
		}
		errlogging.Warn(ctx, a.logger, "Could not record run history", appErr)
	}
}

// Close releases the history store, if any.
func (a *App) Close() error {
	if a.history == nil {
		return nil
	}
	return a.history.Close()
}
