package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"webpmill/internal/index"
	"webpmill/internal/pipeline"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert once, then keep converting as files appear",
		Long: `Runs an initial convert pass, then monitors the input tree and converts
files as they are created or modified. The CSV index is rewritten after each
settled batch. Stops on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			pipeCfg, csvOut, err := flags.resolveSettings(cmd, cfg)
			if err != nil {
				return err
			}

			runner, err := pipeline.New(pipeCfg, logger)
			if err != nil {
				return err
			}

			unlock, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer unlock()

			signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, finish, err := beginManifestRun(signalCtx, cfg, runner)
			if err != nil {
				return err
			}
			defer store.Close()

			var last pipeline.Result
			watchErr := runner.Watch(signalCtx, func(result pipeline.Result) error {
				last = result
				if err := index.WriteCSV(csvOut, result.Rows); err != nil {
					return fmt.Errorf("rewrite index: %w", err)
				}
				logger.Info("index updated",
					slog.Int("rows", len(result.Rows)),
					slog.Int64("converted", result.Counters.Converted),
					slog.Int64("skipped", result.Counters.Skipped),
					slog.Int64("errors", result.Counters.Errors),
				)
				return nil
			})

			// Normal shutdown arrives as context.Canceled from the signal.
			if watchErr != nil && !errors.Is(watchErr, context.Canceled) {
				return watchErr
			}

			if err := finish(context.Background(), &last); err != nil {
				logger.Warn("record run in manifest", slog.String("error", err.Error()))
			}
			printSummary(cmd.OutOrStdout(), &last, csvOut, runner.OutputDir())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
