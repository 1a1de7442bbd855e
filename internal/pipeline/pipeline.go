package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"webpmill/internal/encoder"
	"webpmill/internal/index"
)

// Config holds one run's behavioral knobs.
type Config struct {
	InputDir       string
	OutputDir      string
	BaseURL        string
	Overwrite      bool
	SkipWebPInputs bool
	Exclude        []string
	Jobs           int
	Encoder        encoder.Options
}

// Runner executes conversion passes over an input tree.
type Runner struct {
	cfg    Config
	logger *slog.Logger

	// encode is swappable in tests.
	encode func(src, dst string, opts encoder.Options) error
}

// New constructs a Runner. The input directory's existence is checked at run
// time, not here, so a Runner can outlive a tree that appears later (watch
// mode creates one up front).
func New(cfg Config, logger *slog.Logger) (*Runner, error) {
	if cfg.InputDir == "" {
		return nil, errors.New("input directory is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("output directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	cfg.InputDir = filepath.Clean(cfg.InputDir)
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)

	return &Runner{
		cfg:    cfg,
		logger: logger,
		encode: encoder.Encode,
	}, nil
}

// InputDir returns the cleaned input root.
func (r *Runner) InputDir() string { return r.cfg.InputDir }

// OutputDir returns the cleaned output root.
func (r *Runner) OutputDir() string { return r.cfg.OutputDir }

type task struct {
	path string
	rel  string
}

// Run performs one full pass. A missing input directory is a fatal error
// returned before any file is touched; per-file failures are logged, counted,
// and never abort the pass.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	info, err := os.Stat(r.cfg.InputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("input dir does not exist: %s", r.cfg.InputDir)
		}
		return nil, fmt.Errorf("inspect input dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path is not a directory: %s", r.cfg.InputDir)
	}

	tasks := make(chan task, 64)
	partials := make([]partial, r.cfg.Jobs)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Jobs; i++ {
		wg.Add(1)
		go func(p *partial) {
			defer wg.Done()
			for t := range tasks {
				p.absorb(r.processFile(t.path, t.rel))
			}
		}(&partials[i])
	}

	walkErr := filepath.WalkDir(r.cfg.InputDir, func(path string, entry fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			// Unreadable entries are logged and skipped; they are not
			// counted as file errors.
			r.logger.Warn("walk error", slog.String("path", path), slog.String("error", err.Error()))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(r.cfg.InputDir, path)
		if relErr != nil {
			r.logger.Warn("walk error", slog.String("path", path), slog.String("error", relErr.Error()))
			return nil
		}
		tasks <- task{path: path, rel: rel}
		return nil
	})
	close(tasks)
	wg.Wait()

	if walkErr != nil {
		return nil, walkErr
	}

	result := &Result{}
	for i := range partials {
		result.Rows = append(result.Rows, partials[i].rows...)
		result.Files = append(result.Files, partials[i].files...)
		result.Counters.add(partials[i].counters)
	}
	sortRows(result.Rows)
	return result, nil
}

// sortRows orders rows by relative path so the index is identical no matter
// how many workers produced it.
func sortRows(rows []index.Row) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].RelPath < rows[j].RelPath })
}
