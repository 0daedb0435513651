package timegetter

import "time"

// WithLocation sets the location of returned times.
func WithLocation(loc *time.Location) Option {
	return func(t *TimeGetter) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithPrecision truncates returned times to a multiple of d. Non-positive
// values are ignored.
func WithPrecision(d time.Duration) Option {
	return func(t *TimeGetter) {
		if d > 0 {
			t.precision = d
		}
	}
}

// WithClock replaces the system clock.
func WithClock(now func() time.Time) Option {
	return func(t *TimeGetter) {
		if now != nil {
			t.now = now
		}
	}
}

// Option configures time getter behavior through the functional options
// pattern.
type Option func(*TimeGetter)
