package main

import (
	"github.com/spf13/cobra"

	apperrors "modelfetch/internal/errors"
	"modelfetch/internal/history"
	"modelfetch/internal/ui"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded with --history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log, err := newLogger(root, cmd.OutOrStdout())
			if err != nil {
				return fail(ctx, log, "Cannot start", err)
			}

			if root.historyPath == "" {
				return fail(ctx, log, "No history database",
					apperrors.ConfigError(apperrors.CodeConfigInvalid, "--history is required", nil))
			}

			store, err := history.Open(ctx, root.historyPath)
			if err != nil {
				return fail(ctx, log, "Cannot open run history", err)
			}
			defer store.Close()

			runs, err := store.Runs(ctx, limit)
			if err != nil {
				return fail(ctx, log, "Cannot read run history", err)
			}

			printer := ui.NewPrinter(cmd.OutOrStdout())
			if root.noColor {
				printer.SetColor(false)
			}
			printer.PrintRuns(runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show (0 = all)")
	return cmd
}
