package catalog

import "github.com/vinicius-lino-figueiredo/gefilter/domain"

// WithView adds the suggestions of a view.
func WithView(view string, s []domain.Suggestion) Option {
	return func(c *Catalog) {
		c.views[view] = cloneSuggestions(s)
	}
}

// WithViews adds the suggestions of several views.
func WithViews(views map[string][]domain.Suggestion) Option {
	return func(c *Catalog) {
		for view, s := range views {
			c.views[view] = cloneSuggestions(s)
		}
	}
}

// WithBuiltin adds the views returned by [Builtin].
func WithBuiltin() Option {
	return WithViews(Builtin())
}

// Option configures catalog behavior through the functional options pattern.
type Option func(*Catalog)
