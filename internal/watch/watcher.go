// Package watch re-runs the console statement check when source files
// change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/conlog/internal/logging"
	"github.com/yaklabco/conlog/pkg/runner"
)

// DefaultDebounce is the quiet period after the last event before a run.
const DefaultDebounce = 200 * time.Millisecond

// Handler receives the result of each run.
type Handler func(ctx context.Context, result *runner.Result) error

// Options configures a Watcher.
type Options struct {
	// Run selects the files to watch and how they are processed. Write
	// and DryRun in Run.Config are ignored; watching never writes.
	Run runner.Options

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

}

// Watcher runs the check on start and again for every batch of changed
// files.
type Watcher struct {
	runner  *runner.Runner
	opts    Options
	handler Handler
	logger  *log.Logger
}

// New creates a Watcher. handler must not be nil.
func New(r *runner.Runner, opts Options, handler Handler) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Run.Config != nil {
		cfg := opts.Run.Config.Clone()
		cfg.Write = false
		cfg.DryRun = false
		opts.Run.Config = cfg
	}
	return &Watcher{runner: r, opts: opts, handler: handler}
}

// Run performs an initial check, then watches until ctx is done. It returns
// nil on cancellation. It logs to the logger carried by ctx.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger = logging.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsw.Close()

	dirs, err := runner.Dirs(ctx, w.opts.Run)
	if err != nil {
		return fmt.Errorf("list directories: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching", logging.FieldDirs, len(dirs))

	files, err := runner.Discover(ctx, w.opts.Run)
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}
	if err := w.check(ctx, files); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, event, pending)
			if len(pending) > 0 {
				timer.Reset(w.opts.Debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.FieldError, err)

		case <-timer.C:
			changed := drain(pending)
			if err := w.check(ctx, changed); err != nil {
				return err
			}
		}
	}
}

// handleEvent records a changed source file, and starts watching new
// directories.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event, pending map[string]struct{}) {
	w.logger.Debug("file event", logging.FieldEvent, event.Op.String(), logging.FieldPath, event.Name)

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := fsw.Add(event.Name); err != nil {
				w.logger.Warn("cannot watch directory", logging.FieldPath, event.Name, logging.FieldError, err)
			}
		}
		return
	}

	if runner.Matches(w.opts.Run, event.Name) {
		pending[event.Name] = struct{}{}
	}
}

func (w *Watcher) check(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}

	result, err := w.runner.RunFiles(ctx, files, w.opts.Run)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("check: %w", err)
	}

	if err := w.handler(ctx, result); err != nil {
		return fmt.Errorf("handle result: %w", err)
	}
	return nil
}

// drain empties pending and returns its paths sorted.
func drain(pending map[string]struct{}) []string {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
		delete(pending, path)
	}
	sort.Strings(paths)
	return paths
}
