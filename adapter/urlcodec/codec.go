// Package urlcodec contains the default [domain.Codec] implementation, which
// keeps a query in the URL parameters filters, sortBy, sortOrder, pageSize and
// pageNumber.
package urlcodec

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// Names of the URL parameters managed by the codec.
const (
	ParamFilters    = "filters"
	ParamSortBy     = "sortBy"
	ParamSortOrder  = "sortOrder"
	ParamPageSize   = "pageSize"
	ParamPageNumber = "pageNumber"
)

var managed = [...]string{ParamFilters, ParamSortBy, ParamSortOrder, ParamPageSize, ParamPageNumber}

// Codec implements [domain.Codec].
type Codec struct {
	log      *slog.Logger
	defaults func() domain.Query
}

// NewCodec returns a new implementation of [domain.Codec].
func NewCodec(opts ...Option) domain.Codec {
	c := Codec{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	if c.defaults == nil {
		c.defaults = domain.DefaultQuery
	}
	return &c
}

// Encode implements [domain.Codec]. Sorting and paging values equal to the
// configured defaults are omitted.
func (c *Codec) Encode(q domain.Query) domain.Params {
	res := make(domain.Params, 0, len(managed))
	def := c.defaults()

	if groups := q.EffectiveGroups(); len(groups) > 0 {
		b, err := json.Marshal(groups)
		if err != nil {
			// only unsupported scalar types get here
			c.log.Error("encoding filters", slog.Any("error", err))
		} else {
			res = append(res, domain.Param{Key: ParamFilters, Value: string(b)})
		}
	}
	if q.SortField != def.SortField {
		res = append(res, domain.Param{Key: ParamSortBy, Value: q.SortField})
	}
	if dir := sortDirection(q.SortDirection); dir != sortDirection(def.SortDirection) {
		res = append(res, domain.Param{Key: ParamSortOrder, Value: string(dir)})
	}
	if q.PageSize > 0 && q.PageSize != pageSize(def.PageSize) {
		res = append(res, domain.Param{Key: ParamPageSize, Value: strconv.Itoa(q.PageSize)})
	}
	if q.PageNumber > 0 && q.PageNumber != pageNumber(def.PageNumber) {
		res = append(res, domain.Param{Key: ParamPageNumber, Value: strconv.Itoa(q.PageNumber)})
	}
	return res
}

// Decode implements [domain.Codec].
func (c *Codec) Decode(params domain.Params) (domain.QueryPatch, error) {
	var (
		patch domain.QueryPatch
		errs  []error
	)

	if raw, ok := Get(params, ParamFilters); ok {
		groups, err := c.decodeGroups(raw)
		if err != nil {
			errs = append(errs, &domain.ErrDecode{Param: ParamFilters, Value: raw, Err: err})
			groups = []domain.Group{}
		}
		patch.Groups = groups
		patch.HasGroups = true
	}

	if raw, ok := Get(params, ParamSortBy); ok {
		patch.SortField = &raw
	}

	if raw, ok := Get(params, ParamSortOrder); ok {
		dir := domain.SortDirection(strings.ToLower(raw))
		if dir.Valid() {
			patch.SortDirection = &dir
		} else {
			errs = append(errs, &domain.ErrDecode{Param: ParamSortOrder, Value: raw, Err: errors.New("must be asc or desc")})
		}
	}

	if raw, ok := Get(params, ParamPageSize); ok {
		if n, err := c.decodePositive(raw); err != nil {
			errs = append(errs, &domain.ErrDecode{Param: ParamPageSize, Value: raw, Err: err})
		} else {
			patch.PageSize = &n
		}
	}

	if raw, ok := Get(params, ParamPageNumber); ok {
		if n, err := c.decodePositive(raw); err != nil {
			errs = append(errs, &domain.ErrDecode{Param: ParamPageNumber, Value: raw, Err: err})
		} else {
			patch.PageNumber = &n
		}
	}

	for _, err := range errs {
		c.log.Warn("ignoring url parameter", slog.Any("error", err))
	}

	return patch, errors.Join(errs...)
}

func sortDirection(d domain.SortDirection) domain.SortDirection {
	if d == domain.Desc {
		return d
	}
	return domain.Asc
}

func pageSize(n int) int {
	if n < 1 {
		return domain.DefaultPageSize
	}
	return n
}

func pageNumber(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (c *Codec) decodeGroups(raw string) ([]domain.Group, error) {
	var groups []domain.Group
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil, err
	}
	for n, g := range groups {
		if !g.Operator.Valid() {
			g.Operator = domain.And
		}
		groups[n] = g.Clone()
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	return groups, nil
}

func (c *Codec) decodePositive(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

// Reconcile implements [domain.Codec].
func (c *Codec) Reconcile(current domain.Params, q domain.Query) domain.Params {
	encoded := c.Encode(q)
	res := current
	for _, key := range managed {
		if v, ok := Get(encoded, key); ok {
			res = Set(res, key, v)
		} else {
			res = Del(res, key)
		}
	}
	return res
}
