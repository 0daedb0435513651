// Package store contains the default [domain.Store] implementation.
//
// A Store is the single owner of every view query and suggestion list. It is
// created explicitly and handed to whoever needs it; there is no package level
// instance.
package store

import (
	"slices"
	"strconv"
	"sync"

	"github.com/vinicius-lino-figueiredo/gefilter/adapter/idgenerator"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

type subscriber struct {
	id   uint64
	view string
	all  bool
	fn   domain.QueryListener
}

// Store implements [domain.Store]. It is safe to use concurrently; listeners
// are called synchronously, after the change, without any lock held.
type Store struct {
	mu          sync.RWMutex
	idGen       domain.IDGenerator
	defaults    func() domain.Query
	queries     map[string]domain.Query
	suggestions map[string][]domain.Suggestion
	status      domain.Status
	subs        []subscriber
	nextSub     uint64
}

// NewStore returns a new implementation of [domain.Store].
func NewStore(opts ...Option) domain.Store {
	s := Store{
		defaults:    domain.DefaultQuery,
		queries:     make(map[string]domain.Query),
		suggestions: make(map[string][]domain.Suggestion),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.idGen == nil {
		s.idGen = idgenerator.NewIDGenerator()
	}
	return &s
}

// Query implements [domain.Store].
func (s *Store) Query(view string) domain.Query {
	s.mu.RLock()
	q, ok := s.queries[view]
	s.mu.RUnlock()
	if ok {
		return q.Clone()
	}

	s.mu.Lock()
	q = s.get(view)
	s.mu.Unlock()
	return q.Clone()
}

// get returns the view query, creating it if needed. Lock must be held.
func (s *Store) get(view string) domain.Query {
	q, ok := s.queries[view]
	if !ok {
		q = s.defaults()
		s.queries[view] = q
	}
	return q
}

// mutate applies fn to the view query and notifies listeners.
func (s *Store) mutate(view string, fn func(q *domain.Query)) {
	s.mu.Lock()
	q := s.get(view).Clone()
	fn(&q)
	s.queries[view] = q
	listeners := s.listeners(view)
	s.mu.Unlock()

	for _, l := range listeners {
		l(view, q.Clone())
	}
}

func (s *Store) listeners(view string) []domain.QueryListener {
	res := make([]domain.QueryListener, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.all || sub.view == view {
			res = append(res, sub.fn)
		}
	}
	return res
}

// SetQuery implements [domain.Store].
func (s *Store) SetQuery(view string, q domain.Query) {
	s.mutate(view, func(curr *domain.Query) {
		*curr = normalize(q.Clone())
	})
}

// SetGroups implements [domain.Store].
func (s *Store) SetGroups(view string, groups []domain.Group) {
	s.mutate(view, func(q *domain.Query) {
		q.Groups = domain.Query{Groups: groups}.Clone().Groups
	})
}

// AddGroup implements [domain.Store].
func (s *Store) AddGroup(view string) domain.Group {
	id, err := s.idGen.GenerateID()
	if err != nil {
		// ids only need to be unique within a query
		id = s.fallbackID(view)
	}
	g := domain.NewGroup(id)
	s.mutate(view, func(q *domain.Query) {
		q.Groups = append(q.Groups, g.Clone())
	})
	return g
}

func (s *Store) fallbackID(view string) string {
	q := s.Query(view)
	for n := len(q.Groups); ; n++ {
		id := "group-" + strconv.Itoa(n)
		if !slices.ContainsFunc(q.Groups, func(g domain.Group) bool { return g.ID == id }) {
			return id
		}
	}
}

// UpdateGroup implements [domain.Store].
func (s *Store) UpdateGroup(view string, index int, g domain.Group) {
	s.mutate(view, func(q *domain.Query) {
		if index < 0 || index >= len(q.Groups) {
			return
		}
		q.Groups[index] = g.Clone()
	})
}

// RemoveGroup implements [domain.Store].
func (s *Store) RemoveGroup(view string, index int) {
	s.mutate(view, func(q *domain.Query) {
		if index < 0 || index >= len(q.Groups) {
			return
		}
		q.Groups = slices.Delete(q.Groups, index, index+1)
	})
}

// ClearGroups implements [domain.Store].
func (s *Store) ClearGroups(view string) {
	s.mutate(view, func(q *domain.Query) {
		q.Groups = []domain.Group{}
	})
}

// SetSort implements [domain.Store].
func (s *Store) SetSort(view, field string, dir domain.SortDirection) {
	if !dir.Valid() {
		dir = domain.Asc
	}
	s.mutate(view, func(q *domain.Query) {
		q.SortField = field
		q.SortDirection = dir
	})
}

// SetPageSize implements [domain.Store].
func (s *Store) SetPageSize(view string, size int) {
	s.mutate(view, func(q *domain.Query) {
		if size <= 0 {
			return
		}
		q.PageSize = size
		q.PageNumber = 1
	})
}

// SetPageNumber implements [domain.Store].
func (s *Store) SetPageNumber(view string, n int) {
	s.mutate(view, func(q *domain.Query) {
		q.PageNumber = max(n, 1)
	})
}

// Suggestions implements [domain.Store].
func (s *Store) Suggestions(view string) []domain.Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sg, ok := s.suggestions[view]
	if !ok {
		return []domain.Suggestion{}
	}
	return slices.Clone(sg)
}

// SetSuggestions implements [domain.Store].
func (s *Store) SetSuggestions(view string, sg []domain.Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sg == nil {
		sg = []domain.Suggestion{}
	}
	s.suggestions[view] = slices.Clone(sg)
}

// Status implements [domain.Store].
func (s *Store) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetLoading implements [domain.Store].
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Loading = loading
}

// SetError implements [domain.Store].
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastError = msg
}

// ClearError implements [domain.Store].
func (s *Store) ClearError() {
	s.SetError("")
}

// Subscribe implements [domain.Store].
func (s *Store) Subscribe(view string, fn domain.QueryListener) func() {
	return s.subscribe(subscriber{view: view, fn: fn})
}

// SubscribeAll registers fn to be called after a change of any view.
func (s *Store) SubscribeAll(fn domain.QueryListener) func() {
	return s.subscribe(subscriber{all: true, fn: fn})
}

func (s *Store) subscribe(sub subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	sub.id = s.nextSub
	s.subs = append(s.subs, sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(other subscriber) bool {
				return other.id == sub.id
			})
		})
	}
}

// normalize makes an externally built query satisfy the store invariants.
func normalize(q domain.Query) domain.Query {
	if !q.SortDirection.Valid() {
		q.SortDirection = domain.Asc
	}
	if q.PageSize <= 0 {
		q.PageSize = domain.DefaultPageSize
	}
	q.PageNumber = max(q.PageNumber, 1)
	return q
}
