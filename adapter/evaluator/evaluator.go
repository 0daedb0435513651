// Package evaluator contains the default [domain.Evaluator] implementation.
//
// Filtering is delegated to a gateway; the evaluator only sorts and paginates
// what comes back.
package evaluator

import (
	"slices"

	"github.com/vinicius-lino-figueiredo/gefilter/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/fieldnavigator"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// Evaluator implements [domain.Evaluator].
type Evaluator struct {
	cmpr domain.Comparer
	fn   domain.FieldNavigator
}

// NewEvaluator returns a new implementation of [domain.Evaluator].
func NewEvaluator(opts ...Option) domain.Evaluator {
	e := Evaluator{}
	for _, opt := range opts {
		opt(&e)
	}
	if e.cmpr == nil {
		e.cmpr = comparer.NewComparer()
	}
	if e.fn == nil {
		e.fn = fieldnavigator.NewFieldNavigator()
	}
	return &e
}

// Evaluate implements [domain.Evaluator].
func (e *Evaluator) Evaluate(q domain.Query, records []domain.Record) domain.Result {
	sorted := records
	if q.SortField != "" {
		sorted = e.Sort(records, q.SortField, q.SortDirection)
	}
	return domain.Result{
		Records:    e.Paginate(sorted, q.PageNumber, q.PageSize),
		Total:      len(records),
		TotalPages: e.TotalPages(len(records), q.PageSize),
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
	}
}

// Sort implements [domain.Evaluator].
func (e *Evaluator) Sort(records []domain.Record, field string, dir domain.SortDirection) []domain.Record {
	res := slices.Clone(records)
	addr := e.fn.GetAddress(field)
	if len(addr) == 0 {
		return res
	}

	order := 1
	if dir == domain.Desc {
		order = -1
	}

	type keyed struct {
		rec     domain.Record
		val     any
		present bool
	}

	// resolving every key once instead of twice per comparison
	items := make([]keyed, len(res))
	for n, rec := range res {
		v, ok := e.fn.GetField(rec, addr...)
		items[n] = keyed{rec: rec, val: v, present: ok && v != nil}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case !a.present && !b.present:
			return 0
		case !a.present:
			return 1
		case !b.present:
			return -1
		}
		comp, err := e.cmpr.Compare(a.val, b.val)
		if err != nil {
			return 0
		}
		return comp * order
	})

	for n, it := range items {
		res[n] = it.rec
	}
	return res
}

// Paginate implements [domain.Evaluator].
func (e *Evaluator) Paginate(records []domain.Record, pageNumber, pageSize int) []domain.Record {
	if pageSize <= 0 || pageNumber < 1 {
		return []domain.Record{}
	}

	length := len(records)

	start := min((pageNumber-1)*pageSize, length)
	end := min(start+pageSize, length)

	return slices.Clone(records[start:end])
}

// TotalPages implements [domain.Evaluator].
func (e *Evaluator) TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
