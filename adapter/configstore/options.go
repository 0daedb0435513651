package configstore

import (
	"log/slog"
	"time"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// WithIDGenerator sets the generator of config ids.
func WithIDGenerator(g domain.IDGenerator) Option {
	return func(s *Store) {
		s.idGen = g
	}
}

// WithTimeGetter sets the source of the timestamps of saved configurations.
func WithTimeGetter(t domain.TimeGetter) Option {
	return func(s *Store) {
		s.timeGetter = t
	}
}

// WithBusyTimeout sets how long [Open] waits for database locks.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// WithLogger sets the store logger. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// Option configures store behavior through the functional options pattern.
type Option func(*Store)
