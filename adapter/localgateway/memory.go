package localgateway

import (
	"context"
	"sync"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// MemoryConfigs is a [domain.ConfigRepository] kept in memory.
type MemoryConfigs struct {
	mu      sync.RWMutex
	configs map[string]domain.Query
}

// NewMemoryConfigs returns an empty repository.
func NewMemoryConfigs() *MemoryConfigs {
	return &MemoryConfigs{configs: make(map[string]domain.Query)}
}

// FetchConfig implements [domain.ConfigRepository].
func (m *MemoryConfigs) FetchConfig(_ context.Context, view string) (*domain.Query, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.configs[view]
	if !ok {
		return nil, nil
	}
	q = q.Clone()
	return &q, nil
}

// SaveConfig implements [domain.ConfigRepository].
func (m *MemoryConfigs) SaveConfig(_ context.Context, view string, q domain.Query) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[view] = q.Clone()
	return nil
}
