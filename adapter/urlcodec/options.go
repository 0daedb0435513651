package urlcodec

import (
	"log/slog"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// WithLogger sets the logger that reports ignored parameters.
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) {
		c.log = l
	}
}

// WithDefaults sets the function returning the query whose sorting and paging
// values are left out of encoded parameters. It should match the defaults
// used when hydrating decoded parameters.
func WithDefaults(fn func() domain.Query) Option {
	return func(c *Codec) {
		if fn != nil {
			c.defaults = fn
		}
	}
}

// Option configures codec behavior through the functional options pattern.
type Option func(*Codec)
