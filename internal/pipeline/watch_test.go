package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"webpmill/internal/index"
	"webpmill/internal/testsupport"
)

func TestWatchProcessesNewFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")
	testsupport.WritePNG(t, filepath.Join(in, "initial_a_b.png"), 4, 4)

	runner := newTestRunner(t, Config{InputDir: in, OutputDir: out, BaseURL: "https://e.com"})
	stubEncode(runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan Result, 8)
	done := make(chan error, 1)
	go func() {
		done <- runner.Watch(ctx, func(result Result) error {
			updates <- result
			return nil
		})
	}()

	first := waitForUpdate(t, updates)
	if len(first.Rows) != 1 || first.Counters.Converted != 1 {
		t.Fatalf("initial pass result = %+v", first)
	}

	// Drop a new file into the watched root and wait for it to settle.
	testsupport.WritePNG(t, filepath.Join(in, "late_c_d.png"), 4, 4)

	deadline := time.After(10 * time.Second)
	for {
		var result Result
		select {
		case result = <-updates:
		case <-deadline:
			t.Fatal("timed out waiting for watch update")
		}
		if len(result.Rows) == 2 {
			cancel()
			break
		}
	}

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("watch returned %v, want context.Canceled", err)
	}
}

func TestWatchReplacesRowsOnReconvert(t *testing.T) {
	state := newWatchState(&Result{})

	row := rowOutcome("a/b.webp")
	state.absorb(row)
	state.absorb(row)

	result := state.result()
	if len(result.Rows) != 1 {
		t.Fatalf("re-converted file duplicated: %d rows", len(result.Rows))
	}
	if result.Counters.Converted != 2 {
		t.Fatalf("counters should accumulate: %+v", result.Counters)
	}
}

func TestWatchMissingInputDirIsFatal(t *testing.T) {
	dir := t.TempDir()
	runner := newTestRunner(t, Config{
		InputDir:  filepath.Join(dir, "nope"),
		OutputDir: filepath.Join(dir, "out"),
	})
	err := runner.Watch(context.Background(), func(Result) error { return nil })
	if err == nil {
		t.Fatal("expected fatal error for missing input dir")
	}
}

func waitForUpdate(t *testing.T, updates <-chan Result) Result {
	t.Helper()
	select {
	case result := <-updates:
		return result
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for watch update")
		return Result{}
	}
}

func rowOutcome(rel string) outcome {
	row := index.BuildRow(rel, "https://e.com")
	return outcome{row: &row, counters: Counters{Converted: 1}}
}
