package config

import (
	"log/slog"
	"time"
)

// WithDebounce sets how long the watcher waits after the last write before
// reloading. Non-positive values are ignored.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLoader sets the function used to load the watched file.
func WithLoader(load func(path string) (*Config, error)) WatchOption {
	return func(w *Watcher) {
		if load != nil {
			w.load = load
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *slog.Logger) WatchOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// WatchOption configures Watcher behavior through the functional options
// pattern.
type WatchOption func(*Watcher)
