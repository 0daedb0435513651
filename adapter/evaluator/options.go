package evaluator

import "github.com/vinicius-lino-figueiredo/gefilter/domain"

// WithComparer sets the comparer implementation for sorting operations.
func WithComparer(c domain.Comparer) Option {
	return func(e *Evaluator) {
		e.cmpr = c
	}
}

// WithFieldNavigator sets the field navigator for accessing record fields.
func WithFieldNavigator(f domain.FieldNavigator) Option {
	return func(e *Evaluator) {
		e.fn = f
	}
}

// Option configures evaluator behavior through the functional options
// pattern.
type Option func(*Evaluator)
