// Package timegetter contains the default [domain.TimeGetter] implementation.
package timegetter

import (
	"sync"
	"time"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// TimeGetter implements [domain.TimeGetter]. Times are truncated to the
// configured precision and strictly increase between calls on the same
// getter, so configurations saved within one clock tick keep their order.
type TimeGetter struct {
	mu        sync.Mutex
	now       func() time.Time
	loc       *time.Location
	precision time.Duration
	last      time.Time
}

// NewTimeGetter returns a new implementation of domain.TimeGetter. By default
// it reads the system clock, in UTC, with nanosecond precision.
func NewTimeGetter(opts ...Option) domain.TimeGetter {
	t := TimeGetter{
		now:       time.Now,
		loc:       time.UTC,
		precision: time.Nanosecond,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return &t
}

// GetTime implements [domain.TimeGetter].
func (t *TimeGetter) GetTime() time.Time {
	now := t.now().In(t.loc).Truncate(t.precision)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !now.After(t.last) {
		now = t.last.Add(t.precision)
	}
	t.last = now
	return now
}
