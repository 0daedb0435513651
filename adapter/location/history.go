// Package location contains an in-memory [domain.Location] that behaves like
// a browser history.
package location

import (
	"slices"
	"strings"
	"sync"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

type listener struct {
	id uint64
	fn domain.LocationListener
}

// History implements [domain.Location]. Entries are raw query strings.
type History struct {
	mu        sync.Mutex
	entries   []string
	pos       int
	listeners []listener
	nextID    uint64
}

// NewHistory returns a history positioned on rawQuery.
func NewHistory(rawQuery string) *History {
	return &History{entries: []string{strings.TrimPrefix(rawQuery, "?")}}
}

// Query implements [domain.Location].
func (h *History) Query() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos]
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Push adds a new entry after the current one, dropping forward history.
func (h *History) Push(rawQuery string) {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	h.change(domain.Push, func() bool {
		h.entries = append(h.entries[:h.pos+1], rawQuery)
		h.pos++
		return true
	})
}

// Replace implements [domain.Location].
func (h *History) Replace(rawQuery string) {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	h.change(domain.Replace, func() bool {
		h.entries[h.pos] = rawQuery
		return true
	})
}

// Back moves to the previous entry. It returns false at the first entry.
func (h *History) Back() bool {
	return h.change(domain.Pop, func() bool {
		if h.pos == 0 {
			return false
		}
		h.pos--
		return true
	})
}

// Forward moves to the next entry. It returns false at the last entry.
func (h *History) Forward() bool {
	return h.change(domain.Pop, func() bool {
		if h.pos == len(h.entries)-1 {
			return false
		}
		h.pos++
		return true
	})
}

func (h *History) change(nav domain.Navigation, fn func() bool) bool {
	h.mu.Lock()
	if !fn() {
		h.mu.Unlock()
		return false
	}
	curr := h.entries[h.pos]
	fns := make([]domain.LocationListener, len(h.listeners))
	for n, l := range h.listeners {
		fns[n] = l.fn
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(curr, nav)
	}
	return true
}

// Subscribe implements [domain.Location].
func (h *History) Subscribe(fn domain.LocationListener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.listeners = slices.DeleteFunc(h.listeners, func(l listener) bool {
				return l.id == id
			})
		})
	}
}
