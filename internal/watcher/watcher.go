// Package watcher re-runs a callback whenever a file changes.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/cursorseq/internal/logging"
)

// DefaultDebounce is how long a file must stay quiet before the callback
// runs.
const DefaultDebounce = 200 * time.Millisecond

// Func handles a settled change to path. An error is logged and does not
// stop the watch.
type Func func(ctx context.Context, path string) error

// Watcher watches a single file.
type Watcher struct {
	delay      time.Duration
	log        *logging.Logger
	initialRun bool

	// ready is called once the file is being watched.
	ready func()
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero or less uses DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.delay = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// WithInitialRun calls the callback once before waiting for changes.
func WithInitialRun(run bool) Option {
	return func(w *Watcher) {
		w.initialRun = run
	}
}

// New creates a watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		delay: DefaultDebounce,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.delay <= 0 {
		w.delay = DefaultDebounce
	}
	w.log = w.log.WithComponent("watcher")
	return w
}

// Watch calls fn each time the file at path is written or re-created,
// after changes have been quiet for the debounce period. Changes arriving
// while fn runs are coalesced into one more call. Watch blocks until ctx
// is done and then returns ctx.Err().
//
// The parent directory is watched rather than the file so that editors
// which save by renaming a temporary file over the original are seen.
func (w *Watcher) Watch(ctx context.Context, path string, fn Func) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrPathNotExist)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	log := w.log.WithField("path", abs)
	log.Info("watching")
	if w.ready != nil {
		w.ready()
	}

	if w.initialRun {
		w.call(ctx, log, abs, fn)
	}

	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug("event %s", ev.Op)
			timer.Reset(w.delay)

		case err, ok := <-fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			log.Warn("watch error: %v", err)

		case <-timer.C:
			w.call(ctx, log, abs, fn)
		}
	}
}

func (w *Watcher) call(ctx context.Context, log *logging.Logger, path string, fn Func) {
	start := time.Now()
	if err := fn(ctx, path); err != nil {
		log.Warn("run failed: %v", err)
		return
	}
	log.Debug("run took %s", time.Since(start))
}
