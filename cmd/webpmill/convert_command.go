package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"webpmill/internal/config"
	"webpmill/internal/encoder"
	"webpmill/internal/index"
	"webpmill/internal/manifest"
	"webpmill/internal/pipeline"
)

// convertFlags carries the raw flag values for convert and watch. Flags the
// user did not set fall back to config file values in resolveSettings.
type convertFlags struct {
	inputDir       string
	outputDir      string
	baseURL        string
	csvOut         string
	quality        int
	lossless       bool
	keepMetadata   bool
	overwrite      bool
	skipWebPInputs bool
	effort         int
	jobs           int
	exclude        []string
}

func (f *convertFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.inputDir, "input-dir", "", "Folder with source images")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "Folder where WebP images will be written")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Base URL prepended to each relative path")
	cmd.Flags().StringVar(&f.csvOut, "csv-out", "", "Path to write the CSV index")
	cmd.Flags().IntVar(&f.quality, "quality", 82, "WebP quality (ignored with --lossless)")
	cmd.Flags().BoolVar(&f.lossless, "lossless", false, "Use lossless WebP (larger files)")
	cmd.Flags().BoolVar(&f.keepMetadata, "keep-metadata", false, "Keep EXIF metadata when present")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "Re-convert even if the output file exists")
	cmd.Flags().BoolVar(&f.skipWebPInputs, "skip-webp-inputs", false, "Skip inputs that are already .webp")
	cmd.Flags().IntVar(&f.effort, "effort", 6, "Encoding effort (0-6); higher is smaller but slower")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "Parallel workers (default from config; 1 = sequential)")
	cmd.Flags().StringArrayVar(&f.exclude, "exclude", nil, "Glob pattern (relative to input root) to exclude; repeatable")
	_ = cmd.MarkFlagRequired("input-dir")
	_ = cmd.MarkFlagRequired("output-dir")
}

// resolveSettings merges flags over config file values. A flag the user set
// always wins; otherwise the config value applies.
func (f *convertFlags) resolveSettings(cmd *cobra.Command, cfg *config.Config) (pipeline.Config, string, error) {
	changed := cmd.Flags().Changed

	inputDir, err := config.ExpandPath(f.inputDir)
	if err != nil {
		return pipeline.Config{}, "", fmt.Errorf("resolve input dir: %w", err)
	}
	outputDir, err := config.ExpandPath(f.outputDir)
	if err != nil {
		return pipeline.Config{}, "", fmt.Errorf("resolve output dir: %w", err)
	}

	baseURL := cfg.Index.BaseURL
	if changed("base-url") {
		baseURL = f.baseURL
	}
	if baseURL == "" {
		return pipeline.Config{}, "", errors.New("a base URL is required (--base-url or index.base_url)")
	}

	csvOut := cfg.Index.CSVOut
	if changed("csv-out") {
		csvOut, err = config.ExpandPath(f.csvOut)
		if err != nil {
			return pipeline.Config{}, "", fmt.Errorf("resolve csv path: %w", err)
		}
	}
	if csvOut == "" {
		return pipeline.Config{}, "", errors.New("a CSV output path is required (--csv-out or index.csv_out)")
	}

	encOpts := encoder.Options{
		Quality:      cfg.Encoder.Quality,
		Lossless:     cfg.Encoder.Lossless,
		KeepMetadata: cfg.Encoder.KeepMetadata,
		Effort:       cfg.Encoder.Effort,
	}
	if changed("quality") {
		encOpts.Quality = f.quality
	}
	if changed("lossless") {
		encOpts.Lossless = f.lossless
	}
	if changed("keep-metadata") {
		encOpts.KeepMetadata = f.keepMetadata
	}
	if changed("effort") {
		encOpts.Effort = f.effort
	}

	pipeCfg := pipeline.Config{
		InputDir:       inputDir,
		OutputDir:      outputDir,
		BaseURL:        baseURL,
		Overwrite:      cfg.Pipeline.Overwrite,
		SkipWebPInputs: cfg.Pipeline.SkipWebPInputs,
		Exclude:        cfg.Pipeline.Exclude,
		Jobs:           cfg.Pipeline.Jobs,
		Encoder:        encOpts,
	}
	if changed("overwrite") {
		pipeCfg.Overwrite = f.overwrite
	}
	if changed("skip-webp-inputs") {
		pipeCfg.SkipWebPInputs = f.skipWebPInputs
	}
	if changed("jobs") {
		pipeCfg.Jobs = f.jobs
	}
	if changed("exclude") {
		pipeCfg.Exclude = f.exclude
	}

	return pipeCfg, csvOut, nil
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an image tree to WebP and write the CSV index",
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

			store, finish, err := beginManifestRun(cmd.Context(), cfg, runner)
			if err != nil {
				return err
			}
			defer store.Close()

			start := time.Now()
			result, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			if err := index.WriteCSV(csvOut, result.Rows); err != nil {
				return err
			}
			if err := finish(cmd.Context(), result); err != nil {
				logger.Warn("record run in manifest", slog.String("error", err.Error()))
			}

			logger.Info("run complete",
				slog.Int64("seen", result.Counters.Seen()),
				slog.Int64("converted", result.Counters.Converted),
				slog.Int64("skipped", result.Counters.Skipped),
				slog.Int64("errors", result.Counters.Errors),
				slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
			)
			printSummary(cmd.OutOrStdout(), result, csvOut, runner.OutputDir())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// acquireRunLock takes the state-dir lock so two passes cannot interleave
// writes into the same manifest.
func acquireRunLock(cfg *config.Config) (func(), error) {
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another webpmill run is already active (lock %s)", cfg.LockPath())
	}
	return func() { _ = lock.Unlock() }, nil
}

// beginManifestRun opens the manifest store and starts a run row. With the
// manifest disabled it returns no-op handles.
func beginManifestRun(ctx context.Context, cfg *config.Config, runner *pipeline.Runner) (*manifest.Store, func(context.Context, *pipeline.Result) error, error) {
	if !cfg.Manifest.Enabled {
		return nil, func(context.Context, *pipeline.Result) error { return nil }, nil
	}

	store, err := manifest.Open(cfg.ManifestPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open manifest: %w", err)
	}
	runID, err := store.BeginRun(ctx, runner.InputDir(), runner.OutputDir())
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("record run start: %w", err)
	}

	finish := func(ctx context.Context, result *pipeline.Result) error {
		return store.FinishRun(ctx, runID,
			result.Counters.Converted, result.Counters.Skipped, result.Counters.Errors,
			result.Files)
	}
	return store, finish, nil
}
