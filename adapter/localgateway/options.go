package localgateway

import "github.com/vinicius-lino-figueiredo/gefilter/domain"

// WithSuggestions sets where suggestions come from.
func WithSuggestions(s domain.SuggestionSource) Option {
	return func(g *Gateway) {
		g.suggestions = s
	}
}

// WithConfigs sets where saved configurations are kept.
func WithConfigs(c domain.ConfigRepository) Option {
	return func(g *Gateway) {
		g.configs = c
	}
}

// WithFilterer sets what filters records.
func WithFilterer(f domain.Filterer) Option {
	return func(g *Gateway) {
		g.filterer = f
	}
}

// Option configures gateway behavior through the functional options pattern.
type Option func(*Gateway)
