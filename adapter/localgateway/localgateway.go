// Package localgateway composes in-process components into a
// [domain.Gateway], for embedded use and tests.
package localgateway

import (
	"context"

	"github.com/vinicius-lino-figueiredo/gefilter/adapter/catalog"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// Gateway implements [domain.Gateway] by delegating each concern.
type Gateway struct {
	suggestions domain.SuggestionSource
	configs     domain.ConfigRepository
	filterer    domain.Filterer
}

// NewGateway returns a new gateway. Without options it has no suggestions,
// keeps configurations in memory and cannot filter.
func NewGateway(opts ...Option) domain.Gateway {
	g := Gateway{}
	for _, opt := range opts {
		opt(&g)
	}
	if g.suggestions == nil {
		g.suggestions = catalog.NewCatalog()
	}
	if g.configs == nil {
		g.configs = NewMemoryConfigs()
	}
	return &g
}

// FetchSuggestions implements [domain.Gateway].
func (g *Gateway) FetchSuggestions(ctx context.Context, view string) ([]domain.Suggestion, error) {
	return g.suggestions.FetchSuggestions(ctx, view)
}

// FetchConfig implements [domain.Gateway].
func (g *Gateway) FetchConfig(ctx context.Context, view string) (*domain.Query, error) {
	return g.configs.FetchConfig(ctx, view)
}

// SaveConfig implements [domain.Gateway].
func (g *Gateway) SaveConfig(ctx context.Context, view string, q domain.Query) error {
	return g.configs.SaveConfig(ctx, view, q)
}

// ApplyFilters implements [domain.Gateway].
func (g *Gateway) ApplyFilters(ctx context.Context, view string, req domain.FilterRequest, records []domain.Record) ([]domain.Record, error) {
	if g.filterer == nil {
		return nil, domain.ErrNoFilterer
	}
	return g.filterer.ApplyFilters(ctx, view, req, records)
}

// FilterFunc adapts a function to [domain.Filterer].
type FilterFunc func(ctx context.Context, view string, req domain.FilterRequest, records []domain.Record) ([]domain.Record, error)

// ApplyFilters implements [domain.Filterer].
func (f FilterFunc) ApplyFilters(ctx context.Context, view string, req domain.FilterRequest, records []domain.Record) ([]domain.Record, error) {
	return f(ctx, view, req, records)
}
