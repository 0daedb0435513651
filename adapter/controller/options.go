package controller

import (
	"log/slog"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// WithCodec sets the codec used to read and write the URL.
func WithCodec(c domain.Codec) Option {
	return func(ctrl *Controller) {
		ctrl.codec = c
	}
}

// WithEvaluator sets the evaluator used to sort and paginate filtered records.
func WithEvaluator(e domain.Evaluator) Option {
	return func(ctrl *Controller) {
		ctrl.eval = e
	}
}

// WithLocation sets the location kept in sync with the active view. The
// default is an empty in-memory history.
func WithLocation(l domain.Location) Option {
	return func(ctrl *Controller) {
		ctrl.loc = l
	}
}

// WithLogger sets the controller logger. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(ctrl *Controller) {
		ctrl.log = l
	}
}

// WithMetrics sets the receiver of controller measurements.
func WithMetrics(m domain.Metrics) Option {
	return func(ctrl *Controller) {
		ctrl.metrics = m
	}
}

// WithGroupCombinator sets how effective groups are combined with each other
// when filtering. Invalid values are ignored. The default is [domain.And].
func WithGroupCombinator(op domain.LogicOp) Option {
	return func(ctrl *Controller) {
		if op.Valid() {
			ctrl.combinator = op
		}
	}
}

// WithDefaults sets the query a view goes back to when the user navigates to
// a URL without query parameters. It should match the store defaults.
func WithDefaults(fn func() domain.Query) Option {
	return func(ctrl *Controller) {
		if fn != nil {
			ctrl.defaults = fn
		}
	}
}

// WithAutoApply makes the controller apply filters again, with the last
// records given to [Controller.ApplyToDataset], after every query change.
func WithAutoApply(enabled bool) Option {
	return func(ctrl *Controller) {
		ctrl.autoApply = enabled
	}
}

// Option configures controller behavior through the functional options
// pattern.
type Option func(*Controller)
