package domain

import "time"

// DefaultPageSize is the page size of a [Query] that was never paginated.
const DefaultPageSize = 50

// Operator is the comparison applied by a [Condition] to a record field.
type Operator string

// Supported condition operators. The string values are the wire names used in
// URLs and by the remote gateway.
const (
	Equals           Operator = "equals"
	NotEquals        Operator = "not_equals"
	Contains         Operator = "contains"
	NotContains      Operator = "not_contains"
	GreaterThan      Operator = "greater_than"
	LessThan         Operator = "less_than"
	GreaterThanEqual Operator = "greater_than_equal"
	LessThanEqual    Operator = "less_than_equal"
	In               Operator = "in"
	NotIn            Operator = "not_in"
	Between          Operator = "between"
	IsNull           Operator = "is_null"
	IsNotNull        Operator = "is_not_null"
)

// LogicOp combines boolean results, either the conditions of a single [Group]
// or the groups of a [Query].
type LogicOp string

// Supported logic operators.
const (
	And LogicOp = "AND"
	Or  LogicOp = "OR"
)

// SortDirection is the order applied to a sort field.
type SortDirection string

// Supported sort directions.
const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Record is a single item of a dataset. Fields are addressed by name, nested
// fields using dot notation.
type Record = map[string]any

// Condition is a single rule over a record field. Value and Value2 hold
// canonical scalars (string, float64, bool or nil). Value2 is only meaningful
// for [Between], and both values are ignored by [IsNull] and [IsNotNull].
type Condition struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    any      `json:"value" yaml:"value"`
	Value2   any      `json:"value2" yaml:"value2"`
}

// Group is an ordered set of conditions combined by Operator. ID is unique
// within a [Query] and stable across edits.
type Group struct {
	ID         string      `json:"group_id" yaml:"group_id"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
	Operator   LogicOp     `json:"operator" yaml:"operator"`
}

// Query is the full filter, sort and pagination state of a view. An empty
// SortField means the dataset is not sorted.
type Query struct {
	Groups        []Group
	SortField     string
	SortDirection SortDirection
	PageSize      int
	PageNumber    int
}

// QueryPatch is a partial [Query]. A nil field means the value was not
// specified and the current one should be kept.
type QueryPatch struct {
	Groups        []Group
	HasGroups     bool
	SortField     *string
	SortDirection *SortDirection
	PageSize      *int
	PageNumber    *int
}

// SuggestionType tells a filter builder which kind of input a field takes.
type SuggestionType string

// Supported suggestion types.
const (
	TypeText        SuggestionType = "text"
	TypeNumber      SuggestionType = "number"
	TypeDate        SuggestionType = "date"
	TypeSelect      SuggestionType = "select"
	TypeMultiSelect SuggestionType = "multi_select"
)

// SuggestionOption is one choice of a select suggestion.
type SuggestionOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Suggestion describes a field that can be filtered in a view.
type Suggestion struct {
	Field       string             `json:"field" yaml:"field"`
	Label       string             `json:"label" yaml:"label"`
	Type        SuggestionType     `json:"type" yaml:"type"`
	Options     []SuggestionOption `json:"options,omitempty" yaml:"options,omitempty"`
	Min         any                `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	Max         any                `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	Placeholder string             `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// SavedConfig is a [Query] persisted for a view.
type SavedConfig struct {
	View      string
	Query     Query
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FilterRequest is what gets sent to a [Gateway] when filtering a dataset.
// Groups are always effective; Combinator tells how they combine.
type FilterRequest struct {
	Groups     []Group `json:"filters"`
	Combinator LogicOp `json:"combinator"`
}

// Status is the loading/error pair shared by every view of a [Store].
type Status struct {
	Loading   bool
	LastError string
}

// Result is the visible slice of a dataset after filtering, sorting and
// pagination.
type Result struct {
	Records    []Record
	Total      int
	TotalPages int
	PageNumber int
	PageSize   int
}

// ViewState is the lifecycle state of a view in a controller.
type ViewState uint8

// View lifecycle states.
const (
	Uninitialized ViewState = iota
	Loading
	Ready
)

func (v ViewState) String() string {
	switch v {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Navigation tells how a [Location] changed.
type Navigation uint8

// Navigation kinds.
const (
	// Push is a new history entry, usually a user following a link.
	Push Navigation = iota
	// Replace overwrites the current entry without adding history.
	Replace
	// Pop moves through history, like back and forward buttons.
	Pop
)

// Gateway operation names, used in errors and metrics.
const (
	OpFetchSuggestions = "fetch_suggestions"
	OpFetchConfig      = "fetch_config"
	OpSaveConfig       = "save_config"
	OpApplyFilters     = "apply_filters"
)
