package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"modelfetch/internal/app"
	apperrors "modelfetch/internal/errors"
	errlogging "modelfetch/internal/errors/logging"
	"modelfetch/internal/fetcher"
	"modelfetch/internal/history"
	"modelfetch/internal/logger"
	"modelfetch/internal/ui"
)

type rootOptions struct {
	configPath  string
	models      []string
	selectModel bool
	timeout     time.Duration
	historyPath string
	progress    bool
	verbose     bool
	logLevel    string
	jsonLogs    bool
	noColor     bool

	// selector is swapped out in tests.
	selector ui.Selector
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(&rootOptions{selector: ui.PromptSelector{}})
}

func newRootCommandWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modelfetch",
		Short: "Download model asset files into a local directory tree",
		Long: `modelfetch downloads every file listed in a model manifest from its source
root into its destination root, creating directories as needed. A failed file
is logged and skipped; the run still exits successfully.

Without flags it fetches the built-in whisper-tiny-en manifest into
public/models/whisper-tiny-en.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.historyPath, "history", "", "SQLite file recording each run")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging (same as --log-level debug)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "minimum log level: debug, info, warn or error")
	flags.BoolVar(&opts.jsonLogs, "json", false, "emit log lines as JSON")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	local := cmd.Flags()
	local.StringVarP(&opts.configPath, "config", "c", "", "manifest YAML merged over the built-in one")
	local.StringArrayVarP(&opts.models, "model", "m", nil, "model to fetch (repeatable; default all)")
	local.BoolVar(&opts.selectModel, "select", false, "choose the model interactively")
	local.DurationVar(&opts.timeout, "timeout", 0, "per-file transfer timeout (0 = none)")
	local.BoolVar(&opts.progress, "progress", false, "show per-file progress bars")

	cmd.AddCommand(newHistoryCommand(opts))
	return cmd
}

// newLogger always returns a usable logger, at info level when the
// requested level cannot be parsed.
func newLogger(opts *rootOptions, out io.Writer) (logger.Logger, error) {
	var log logger.Logger
	switch {
	case opts.jsonLogs:
		log = logger.NewStandardLogger(logger.WithOutput(out), logger.WithFormatter(&logger.JSONFormatter{}))
	case opts.noColor:
		log = logger.NewStandardLogger(logger.WithOutput(out), logger.WithFormatter(&logger.TextFormatter{}))
	default:
		log = logger.NewColoredLogger(logger.WithOutput(out))
	}

	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return log, apperrors.ConfigError(apperrors.CodeConfigInvalid, "invalid --log-level", err)
	}
	if opts.verbose {
		level = logger.LevelDebug
	}
	log.SetLevel(level)
	return log, nil
}

// signalContext cancels the returned context on SIGINT or SIGTERM.
func signalContext(parent context.Context, log logger.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			log.Info("Received exit signal, stopping after the current file...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func runFetch(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()
	log, err := newLogger(opts, out)
	if err != nil {
		return fail(cmd.Context(), log, "Cannot start", err)
	}

	ctx, cancel := signalContext(cmd.Context(), log)
	defer cancel()

	cfg, err := app.LoadConfig(opts.configPath, opts.timeout)
	if err != nil {
		return fail(ctx, log, "Invalid manifest", err)
	}

	names := opts.models
	if opts.selectModel {
		names, err = opts.selector.Select(cfg.Models)
		if err != nil {
			return fail(ctx, log, "Model selection aborted", err)
		}
	}

	appOpts := []app.Option{app.WithOutput(out)}
	if opts.noColor {
		appOpts = append(appOpts, app.WithoutColor())
	}
	if opts.historyPath != "" {
		store, err := history.Open(ctx, opts.historyPath)
		if err != nil {
			return fail(ctx, log, "Cannot open run history", err)
		}
		appOpts = append(appOpts, app.WithHistory(store))
	}
	if opts.progress {
		appOpts = append(appOpts, app.WithFetcherOptions(fetcher.WithProgressReporter(ui.NewConsoleProgressReporter(out))))
	}

	application, err := app.New(cfg, log, appOpts...)
	if err != nil {
		return fail(ctx, log, "Failed to initialise", err)
	}
	defer application.Close()

	if _, err := application.Run(ctx, names...); err != nil {
		return fail(ctx, log, "Run aborted", err)
	}
	return nil
}

func fail(ctx context.Context, log logger.Logger, msg string, err error) error {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.SystemError(apperrors.CodeSystemGeneric, "unexpected error", err)
	}
	errlogging.Error(ctx, log, msg, appErr)
	return err
}
