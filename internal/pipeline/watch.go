package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"webpmill/internal/index"
	"webpmill/internal/manifest"
)

// settleDelay is how long the watcher waits after the last event before
// processing a batch, so half-written files are not picked up mid-copy.
const settleDelay = 500 * time.Millisecond

// Watch performs an initial pass and then monitors the input tree,
// converting files as they appear or change. After the initial pass and
// after every settled event batch, onUpdate receives the cumulative result;
// rows are keyed by relative path, so a re-converted file replaces its
// earlier row instead of duplicating it. Watch blocks until ctx is cancelled
// or onUpdate returns an error.
func (r *Runner) Watch(ctx context.Context, onUpdate func(Result) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	initial, err := r.Run(ctx)
	if err != nil {
		return err
	}

	// Register watches before announcing the initial pass so nothing slips
	// between the first update and the event loop.
	if err := addWatchDirs(watcher, r.cfg.InputDir); err != nil {
		return fmt.Errorf("watch input tree: %w", err)
	}

	state := newWatchState(initial)
	if err := onUpdate(state.result()); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	settle := time.NewTimer(settleDelay)
	if !settle.Stop() {
		<-settle.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			info, statErr := os.Stat(event.Name)
			if statErr != nil {
				continue
			}
			if info.IsDir() {
				if err := addWatchDirs(watcher, event.Name); err != nil {
					r.logger.Warn("watch new directory",
						slog.String("path", event.Name),
						slog.String("error", err.Error()))
				}
				continue
			}
			pending[event.Name] = struct{}{}
			settle.Reset(settleDelay)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", slog.String("error", watchErr.Error()))

		case <-settle.C:
			for path := range pending {
				rel, relErr := filepath.Rel(r.cfg.InputDir, path)
				if relErr != nil {
					continue
				}
				state.absorb(r.processFile(path, rel))
			}
			clear(pending)
			if err := onUpdate(state.result()); err != nil {
				return err
			}
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// watchState carries the cumulative outcome of a watch session.
type watchState struct {
	rowsByRel map[string]index.Row
	files     []manifest.FileRecord
	counters  Counters
}

func newWatchState(initial *Result) *watchState {
	state := &watchState{rowsByRel: make(map[string]index.Row, len(initial.Rows))}
	for _, row := range initial.Rows {
		state.rowsByRel[row.RelPath] = row
	}
	state.files = append(state.files, initial.Files...)
	state.counters = initial.Counters
	return state
}

func (s *watchState) absorb(o outcome) {
	if o.row != nil {
		s.rowsByRel[o.row.RelPath] = *o.row
	}
	if o.record != nil {
		s.files = append(s.files, *o.record)
	}
	s.counters.add(o.counters)
}

func (s *watchState) result() Result {
	rows := make([]index.Row, 0, len(s.rowsByRel))
	for _, row := range s.rowsByRel {
		rows = append(rows, row)
	}
	sortRows(rows)
	return Result{
		Rows:     rows,
		Files:    append([]manifest.FileRecord(nil), s.files...),
		Counters: s.counters,
	}
}
