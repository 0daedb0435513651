package store

import "github.com/vinicius-lino-figueiredo/gefilter/domain"

// WithIDGenerator sets the generator of new group ids.
func WithIDGenerator(g domain.IDGenerator) Option {
	return func(s *Store) {
		s.idGen = g
	}
}

// WithDefaults sets the query a view starts with. The function is called once
// per view.
func WithDefaults(fn func() domain.Query) Option {
	return func(s *Store) {
		if fn != nil {
			s.defaults = func() domain.Query { return normalize(fn().Clone()) }
		}
	}
}

// Option configures store behavior through the functional options pattern.
type Option func(*Store)
