// Package wire contains the JSON structures exchanged with a filter backend.
package wire

import (
	"time"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// Config is a saved query as stored and transmitted by the backend.
type Config struct {
	View       string         `json:"page,omitempty"`
	Filters    []domain.Group `json:"filters"`
	SortBy     *string        `json:"sort_by"`
	SortOrder  string         `json:"sort_order,omitempty"`
	PageSize   int            `json:"page_size,omitempty"`
	PageNumber int            `json:"page_number,omitempty"`
	CreatedAt  *time.Time     `json:"created_at,omitempty"`
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`
}

// FromQuery returns the wire form of the query of view.
func FromQuery(view string, q domain.Query) Config {
	c := Config{
		View:       view,
		Filters:    q.Clone().Groups,
		SortOrder:  string(q.SortDirection),
		PageSize:   q.PageSize,
		PageNumber: q.PageNumber,
	}
	if q.SortField != "" {
		c.SortBy = &q.SortField
	}
	return c
}

// Query returns the query described by c. Missing or invalid values take
// their default.
func (c Config) Query() domain.Query {
	q := domain.DefaultQuery()
	q.Groups = domain.Query{Groups: c.Filters}.Clone().Groups
	for n, g := range q.Groups {
		if !g.Operator.Valid() {
			q.Groups[n].Operator = domain.And
		}
	}
	if c.SortBy != nil {
		q.SortField = *c.SortBy
	}
	if dir := domain.SortDirection(c.SortOrder); dir.Valid() {
		q.SortDirection = dir
	}
	if c.PageSize > 0 {
		q.PageSize = c.PageSize
	}
	if c.PageNumber > 0 {
		q.PageNumber = c.PageNumber
	}
	return q
}

// Suggestions is the suggestion list of a view.
type Suggestions struct {
	View        string              `json:"page"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// ApplyRequest asks the backend to filter its records of a view.
type ApplyRequest struct {
	Filters    []domain.Group  `json:"filters"`
	Combinator domain.LogicOp  `json:"combinator"`
	Records    []domain.Record `json:"records,omitempty"`
}

// ApplyResponse holds the records matching an [ApplyRequest], in input order.
type ApplyResponse struct {
	Records []domain.Record `json:"data"`
	Total   int             `json:"total"`
}

// Error is the body of an unsuccessful response.
type Error struct {
	Error string `json:"error"`
}
