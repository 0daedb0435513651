// Package catalog contains a static [domain.SuggestionSource].
package catalog

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// Catalog implements [domain.SuggestionSource] with a fixed list of
// suggestions per view.
type Catalog struct {
	mu    sync.RWMutex
	views map[string][]domain.Suggestion
}

// NewCatalog returns an empty catalog, filled by the given options.
func NewCatalog(opts ...Option) *Catalog {
	c := Catalog{views: make(map[string][]domain.Suggestion)}
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// FetchSuggestions implements [domain.SuggestionSource]. Unknown views return
// [domain.ErrNotFound].
func (c *Catalog) FetchSuggestions(_ context.Context, view string) ([]domain.Suggestion, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.views[view]
	if !ok {
		return nil, fmt.Errorf("%w: suggestions of view %q", domain.ErrNotFound, view)
	}
	return cloneSuggestions(s), nil
}

// Set replaces the suggestions of a view.
func (c *Catalog) Set(view string, s []domain.Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[view] = cloneSuggestions(s)
}

// Replace replaces every view of the catalog. Views missing from views are
// removed.
func (c *Catalog) Replace(views map[string][]domain.Suggestion) {
	next := make(map[string][]domain.Suggestion, len(views))
	for view, s := range views {
		next[view] = cloneSuggestions(s)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views = next
}

// Views returns the names of the known views, sorted.
func (c *Catalog) Views() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.views))
}

func cloneSuggestions(s []domain.Suggestion) []domain.Suggestion {
	res := make([]domain.Suggestion, len(s))
	for n, sg := range s {
		sg.Options = slices.Clone(sg.Options)
		res[n] = sg
	}
	return res
}
