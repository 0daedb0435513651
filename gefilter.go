// Package gefilter keeps declarative record filters in sync between a view,
// its shareable URL and a backend.
//
// Each view owns a [Query] made of filter groups, a sort and a page. The query
// lives in a [Store], is mirrored into the URL parameters of a [Location], can
// be saved to and restored from a [Gateway], and is applied to datasets
// through [Controller.ApplyToDataset].
//
// The basic usage starts with creating a new [Controller], which can be done
// by calling [New] with a gateway, or by calling [Load] with a configuration
// file.
package gefilter

import (
	"log/slog"

	"github.com/vinicius-lino-figueiredo/gefilter/adapter/controller"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/store"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

var (
	// ErrStaleResult is returned by [Controller.ApplyToDataset] when a newer
	// call was issued for the same view before this one finished.
	ErrStaleResult = domain.ErrStaleResult
	// ErrViewInactive is returned by [Controller.ApplyToDataset] when the
	// view stopped being the active one while filtering.
	ErrViewInactive = domain.ErrViewInactive
	// ErrViewNotReady is returned by operations that need [Controller.Open]
	// to have succeeded first.
	ErrViewNotReady = domain.ErrViewNotReady
	// ErrNoFilterer is returned by local gateways that were not given a
	// [Filterer].
	ErrNoFilterer = domain.ErrNoFilterer
	// ErrNotFound is returned when a view or saved configuration does not
	// exist.
	ErrNotFound = domain.ErrNotFound
)

// ErrTransport is a recoverable failure talking to a [Gateway]. It is also
// the kind of error kept in [Status.LastError].
type ErrTransport = domain.ErrTransport

// ErrHTTPStatus is wrapped by [ErrTransport] when a remote gateway answers
// with a non successful status.
type ErrHTTPStatus = domain.ErrHTTPStatus

// ErrDecode is a URL parameter that was ignored because it could not be
// decoded.
type ErrDecode = domain.ErrDecode

// ErrValidation describes a condition that is not fully specified.
type ErrValidation = domain.ErrValidation

// Query model.
type (
	// Operator is the comparison applied by a [Condition].
	Operator = domain.Operator
	// LogicOp combines conditions inside a group, or groups of a query.
	LogicOp = domain.LogicOp
	// SortDirection is either [Asc] or [Desc].
	SortDirection = domain.SortDirection
	// Condition is a single field comparison.
	Condition = domain.Condition
	// Group is a list of conditions joined by the same [LogicOp].
	Group = domain.Group
	// Query is the filter, sort and page state of a view.
	Query = domain.Query
	// QueryPatch is a partial [Query] decoded from URL parameters.
	QueryPatch = domain.QueryPatch
	// FilterRequest is what a [Gateway] receives to filter a dataset.
	FilterRequest = domain.FilterRequest
	// Suggestion describes a field the user can filter by.
	Suggestion = domain.Suggestion
	// Record is a single item of a dataset.
	Record = domain.Record
	// Result is the visible page of a filtered dataset.
	Result = domain.Result
	// Status is the shared loading and error state.
	Status = domain.Status
	// ViewState is the lifecycle state of a view.
	ViewState = domain.ViewState
)

// Supported operators.
const (
	Equals           = domain.Equals
	NotEquals        = domain.NotEquals
	Contains         = domain.Contains
	NotContains      = domain.NotContains
	GreaterThan      = domain.GreaterThan
	LessThan         = domain.LessThan
	GreaterThanEqual = domain.GreaterThanEqual
	LessThanEqual    = domain.LessThanEqual
	In               = domain.In
	NotIn            = domain.NotIn
	Between          = domain.Between
	IsNull           = domain.IsNull
	IsNotNull        = domain.IsNotNull
)

// Logic operators and sort directions.
const (
	And  = domain.And
	Or   = domain.Or
	Asc  = domain.Asc
	Desc = domain.Desc
)

// View states.
const (
	Uninitialized = domain.Uninitialized
	Loading       = domain.Loading
	Ready         = domain.Ready
)

// DefaultQuery returns the query of a view that was never changed.
func DefaultQuery() Query {
	return domain.DefaultQuery()
}

// Interfaces that can be reimplemented by the user.
type (
	// Gateway is the backend boundary.
	Gateway = domain.Gateway
	// Filterer filters records using effective groups.
	Filterer = domain.Filterer
	// Store holds the query of every view.
	Store = domain.Store
	// Location is the shareable address of the current screen.
	Location = domain.Location
	// Codec converts a query to and from URL parameters.
	Codec = domain.Codec
	// Evaluator sorts and paginates records.
	Evaluator = domain.Evaluator
	// Metrics receives measurements from the controller.
	Metrics = domain.Metrics
	// IDGenerator creates identifiers for new groups.
	IDGenerator = domain.IDGenerator
)

// Controller keeps the views of a [Store] in sync with a [Location] and a
// [Gateway].
type Controller = controller.Controller

// Draft is an edit buffer of the groups of a view.
type Draft = controller.Draft

// Option configures a [Controller].
type Option = controller.Option

// New creates a controller over a new in-memory store. The following options
// can be provided:
//
// - [WithLocation]: sets the URL the views are mirrored to.
//
// - [WithLogger]: sets the logger.
//
// - [WithMetrics]: sets the metrics receiver.
//
// - [WithGroupCombinator]: sets how effective groups combine.
//
// - [WithDefaults]: sets the query views start with.
//
// - [WithAutoApply]: re-applies filters after every change.
//
// - [WithCodec]: sets the URL codec.
//
// - [WithEvaluator]: sets the local sort and pagination.
func New(gateway Gateway, opts ...Option) *Controller {
	return NewWithStore(store.NewStore(), gateway, opts...)
}

// NewWithStore is like [New], but uses the given store.
func NewWithStore(s Store, gateway Gateway, opts ...Option) *Controller {
	return controller.NewController(s, gateway, opts...)
}

// WithLocation sets the URL the active view is mirrored to.
func WithLocation(l Location) Option {
	return controller.WithLocation(l)
}

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return controller.WithLogger(l)
}

// WithMetrics sets the receiver of controller measurements.
func WithMetrics(m Metrics) Option {
	return controller.WithMetrics(m)
}

// WithGroupCombinator sets how effective groups combine. Defaults to [And].
func WithGroupCombinator(op LogicOp) Option {
	return controller.WithGroupCombinator(op)
}

// WithDefaults sets the function returning the query views reset to.
func WithDefaults(fn func() Query) Option {
	return controller.WithDefaults(fn)
}

// WithAutoApply makes the controller re-apply filters to the last dataset of
// the active view after every query change.
func WithAutoApply(enabled bool) Option {
	return controller.WithAutoApply(enabled)
}

// WithCodec sets the codec used for URL parameters.
func WithCodec(c Codec) Option {
	return controller.WithCodec(c)
}

// WithEvaluator sets the local sort and pagination.
func WithEvaluator(e Evaluator) Option {
	return controller.WithEvaluator(e)
}
