package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/folio/pkg/log"
)

// DefaultDebounce is the time a [Watcher] waits for further events before
// reloading.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc is called by a [Watcher] with the reloaded configuration, or
// with the error that prevented loading it.
type ReloadFunc func(ctx context.Context, c *Config, err error)

// Watcher reloads a configuration file when it changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onReload ReloadFunc
	path     string
	opts     []LoaderOpt
	debounce time.Duration
}

// WatcherOpt configures a [Watcher].
type WatcherOpt func(*Watcher)

// WithDebounce sets the delay between the last file event and the reload.
func WithDebounce(d time.Duration) WatcherOpt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLoaderOpts sets the options used to load the file.
func WithLoaderOpts(opts ...LoaderOpt) WatcherOpt {
	return func(w *Watcher) {
		w.opts = opts
	}
}

// NewWatcher creates a [Watcher] for the config file at path. The parent
// directory is watched, so that files replaced by editors are noticed.
func NewWatcher(path string, onReload ReloadFunc, opts ...WatcherOpt) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	err = fw.Add(filepath.Dir(abs))
	if err != nil {
		closeErr := fw.Close()

		return nil, errors.Join(fmt.Errorf("add path to watcher: %w", err), closeErr)
	}

	w := &Watcher{
		watcher:  fw,
		onReload: onReload,
		path:     abs,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Run handles file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	logger := log.WithContext(ctx).With(slog.String("path", w.path))

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()

			return

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(evt.Name) != w.path || evt.Has(fsnotify.Chmod) {
				continue
			}

			logger.DebugContext(ctx, "config file changed", slog.String("event", evt.Op.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			c, err := Load(w.path, w.opts...)
			if err != nil {
				logger.WarnContext(ctx, "reload config", slog.Any("err", err))
			} else {
				logger.InfoContext(ctx, "reloaded config")
			}

			w.onReload(ctx, c, err)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			logger.ErrorContext(ctx, "watch config", slog.Any("err", err))
		}
	}
}

// Close stops watching. Run returns once it notices.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
