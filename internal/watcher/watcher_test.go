package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const waitFor = 5 * time.Second

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// startWatch runs Watch in the background and returns once the file is
// being watched.
func startWatch(t *testing.T, w *Watcher, path string, fn Func) (cancel func() error) {
	t.Helper()
	ready := make(chan struct{})
	w.ready = func() { close(ready) }

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, path, fn)
	}()

	select {
	case <-ready:
	case err := <-done:
		stop()
		t.Fatalf("Watch() returned early: %v", err)
	case <-time.After(waitFor):
		stop()
		t.Fatal("timed out waiting for the watch to start")
	}

	return func() error {
		stop()
		select {
		case err := <-done:
			return err
		case <-time.After(waitFor):
			t.Fatal("Watch() did not return after cancellation")
			return nil
		}
	}
}

func TestWatchDebouncesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	writeFile(t, path, "v0")

	var runs atomic.Int32
	called := make(chan struct{}, 10)
	fn := func(_ context.Context, p string) error {
		runs.Add(1)
		called <- struct{}{}
		return nil
	}

	w := New(WithDebounce(100 * time.Millisecond))
	cancel := startWatch(t, w, path, fn)

	for i := 1; i <= 3; i++ {
		writeFile(t, path, "v"+string(rune('0'+i)))
	}

	select {
	case <-called:
	case <-time.After(waitFor):
		t.Fatal("callback was not called")
	}

	// No further call for the same burst.
	time.Sleep(300 * time.Millisecond)
	if n := runs.Load(); n != 1 {
		t.Errorf("expected 1 run for a burst of writes, got %d", n)
	}

	if err := cancel(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.lua")
	writeFile(t, path, "")

	var runs atomic.Int32
	fn := func(context.Context, string) error {
		runs.Add(1)
		return nil
	}

	w := New(WithDebounce(20 * time.Millisecond))
	cancel := startWatch(t, w, path, fn)

	writeFile(t, filepath.Join(dir, "other.lua"), "x = 1")
	time.Sleep(200 * time.Millisecond)
	_ = cancel()

	if n := runs.Load(); n != 0 {
		t.Errorf("changes to other files should not run the callback, got %d runs", n)
	}
}

func TestWatchInitialRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	writeFile(t, path, "")

	got := make(chan string, 1)
	fn := func(_ context.Context, p string) error {
		got <- p
		return errors.New("failures are logged, not returned")
	}

	w := New(WithInitialRun(true))
	cancel := startWatch(t, w, path, fn)
	defer cancel()

	select {
	case p := <-got:
		if filepath.Base(p) != "s.yaml" {
			t.Errorf("unexpected path %q", p)
		}
	case <-time.After(waitFor):
		t.Fatal("initial run did not happen")
	}
}

func TestWatchErrors(t *testing.T) {
	dir := t.TempDir()
	w := New()

	err := w.Watch(context.Background(), filepath.Join(dir, "missing.yaml"), nil)
	if !errors.Is(err, ErrPathNotExist) {
		t.Errorf("expected ErrPathNotExist, got %v", err)
	}

	err = w.Watch(context.Background(), dir, nil)
	if !errors.Is(err, ErrIsDirectory) {
		t.Errorf("expected ErrIsDirectory, got %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	w := New(WithDebounce(-1))
	if w.delay != DefaultDebounce {
		t.Errorf("expected default debounce, got %v", w.delay)
	}
}
