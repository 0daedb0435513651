package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a [Watcher] waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a configuration file whenever it changes.
type Watcher struct {
	path     string
	debounce time.Duration
	load     func(path string) (*Config, error)
	log      *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher returns a watcher of the file at path. Files are loaded with
// [LoadConfigWithEnvOverrides] unless configured otherwise.
func NewWatcher(path string, opts ...WatchOption) *Watcher {
	w := Watcher{
		path:     path,
		debounce: DefaultDebounce,
		load:     LoadConfigWithEnvOverrides,
	}
	for _, opt := range opts {
		opt(&w)
	}
	if w.log == nil {
		w.log = slog.New(slog.DiscardHandler)
	}
	return &w
}

// Watch blocks until ctx is done, calling onChange with every valid
// configuration written to the file. Files that fail to load are logged and
// skipped.
func (w *Watcher) Watch(ctx context.Context, onChange func(*Config)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	// The directory is watched so files replaced by rename are still seen.
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}
	defer w.stop()

	name := filepath.Clean(w.path)
	w.log.Info("config watcher started", slog.String("path", w.path))
	for {
		select {
		case <-ctx.Done():
			w.log.Info("config watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != name || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("config event", slog.String("op", event.Op.String()))
			w.trigger(ctx, onChange)

		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.log.Error("config watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) trigger(ctx context.Context, onChange func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		cfg, err := w.load(w.path)
		if err != nil {
			w.log.Error("config reload failed", slog.Any("error", err))
			return
		}
		w.log.Info("config reloaded", slog.String("path", w.path))
		onChange(cfg)
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
