// Package domain contains the entities and interfaces shared by every GEFilter
// component.
//
// Adapters implement these interfaces and can be replaced independently, which
// keeps each component easy to mock in tests.
package domain

import (
	"context"
	"time"
)

// IDGenerator creates identifiers for new groups.
type IDGenerator interface {
	// GenerateID returns a new unique identifier.
	GenerateID() (string, error)
}

// TimeGetter returns the current time. Saved configurations are timestamped
// with it.
type TimeGetter interface {
	GetTime() time.Time
}

// Comparer provides ordering and comparison operations for record values.
type Comparer interface {
	// Compare returns -1, 0, or 1 based on the comparison of two values.
	Compare(any, any) (int, error)
}

// FieldNavigator reads record fields using dot notation.
type FieldNavigator interface {
	// GetAddress splits a field name in its path parts.
	GetAddress(field string) []string
	// GetField returns the value under the given path and whether it is
	// defined. An explicit nil value counts as defined.
	GetField(obj any, addr ...string) (value any, defined bool)
}

// Evaluator applies sort and pagination to filtered records.
type Evaluator interface {
	// Sort returns a stably sorted copy of records. Undefined and nil
	// values are placed last regardless of direction.
	Sort(records []Record, field string, dir SortDirection) []Record
	// Paginate returns the 1-based page of records.
	Paginate(records []Record, pageNumber, pageSize int) []Record
	// TotalPages returns how many pages count records take.
	TotalPages(count, pageSize int) int
	// Evaluate sorts and paginates records using the query settings.
	Evaluate(q Query, records []Record) Result
}

// Codec converts a [Query] to and from URL parameters.
type Codec interface {
	// Encode returns the parameters representing q. Default values are
	// omitted.
	Encode(q Query) Params
	// Decode returns the query described by params. The patch is always
	// usable; a non-nil error only reports parameters that were ignored.
	Decode(params Params) (QueryPatch, error)
	// Reconcile returns current with the query parameters replaced by the
	// encoding of q. Other parameters are kept in place.
	Reconcile(current Params, q Query) Params
}

// Params is an ordered list of URL query parameters.
type Params = []Param

// Param is a single URL query parameter.
type Param struct {
	Key   string
	Value string
}

// QueryListener is notified with a snapshot of a view query after each
// change.
type QueryListener = func(view string, q Query)

// Store holds the query, suggestions and shared status of every view. Views
// are created on first access and live as long as the store.
type Store interface {
	// Query returns a snapshot of the view query.
	Query(view string) Query
	// SetQuery replaces the view query.
	SetQuery(view string, q Query)
	// SetGroups replaces the filter groups of a view.
	SetGroups(view string, groups []Group)
	// AddGroup appends a new empty group to the view and returns it.
	AddGroup(view string) Group
	// UpdateGroup replaces the group at index. Out of range is a no-op.
	UpdateGroup(view string, index int, g Group)
	// RemoveGroup removes the group at index. Out of range is a no-op.
	RemoveGroup(view string, index int)
	// ClearGroups removes every group of the view.
	ClearGroups(view string)
	// SetSort sets the sort field and direction. An empty field disables
	// sorting.
	SetSort(view, field string, dir SortDirection)
	// SetPageSize sets the page size and goes back to the first page.
	SetPageSize(view string, size int)
	// SetPageNumber sets the current page.
	SetPageNumber(view string, n int)
	// Suggestions returns the field suggestions of a view.
	Suggestions(view string) []Suggestion
	// SetSuggestions replaces the field suggestions of a view.
	SetSuggestions(view string, s []Suggestion)
	// Status returns the shared loading/error status.
	Status() Status
	// SetLoading sets the shared loading flag.
	SetLoading(loading bool)
	// SetError sets the last error message.
	SetError(msg string)
	// ClearError clears the last error message.
	ClearError()
	// Subscribe registers fn to be called after every change of the view
	// query. The returned function cancels the subscription.
	Subscribe(view string, fn QueryListener) (cancel func())
}

// LocationListener is notified when a [Location] changes.
type LocationListener = func(rawQuery string, nav Navigation)

// Location is the shareable address of the current screen. Only its query
// string is relevant.
type Location interface {
	// Query returns the current raw query string, without the leading '?'.
	Query() string
	// Replace changes the current query string without adding history.
	Replace(rawQuery string)
	// Subscribe registers fn to be called after every change.
	Subscribe(fn LocationListener) (cancel func())
}

// SuggestionSource provides field suggestions for views.
type SuggestionSource interface {
	// FetchSuggestions returns the suggestions of a view.
	FetchSuggestions(ctx context.Context, view string) ([]Suggestion, error)
}

// ConfigRepository persists saved queries.
type ConfigRepository interface {
	// FetchConfig returns the saved query of a view, or nil if there is
	// none.
	FetchConfig(ctx context.Context, view string) (*Query, error)
	// SaveConfig stores q as the saved query of the view, replacing the
	// previous one.
	SaveConfig(ctx context.Context, view string, q Query) error
}

// Filterer filters records using effective groups.
type Filterer interface {
	// ApplyFilters returns the records matching req, in input order.
	ApplyFilters(ctx context.Context, view string, req FilterRequest, records []Record) ([]Record, error)
}

// Gateway is the backend boundary: suggestions, saved configurations and
// record filtering.
type Gateway interface {
	SuggestionSource
	ConfigRepository
	Filterer
}

// Metrics receives measurements from the controller.
type Metrics interface {
	// ObserveGateway records a gateway call.
	ObserveGateway(op string, d time.Duration, err error)
	// StaleResult records a discarded result.
	StaleResult(view string)
	// DecodeError records an ignored URL parameter.
	DecodeError(param string)
}
