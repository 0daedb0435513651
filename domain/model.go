package domain

import (
	"slices"
	"strings"
)

var operators = []Operator{
	Equals, NotEquals, Contains, NotContains, GreaterThan, LessThan,
	GreaterThanEqual, LessThanEqual, In, NotIn, Between, IsNull, IsNotNull,
}

// Operators returns every supported [Operator], in declaration order.
func Operators() []Operator {
	return slices.Clone(operators)
}

// Valid reports whether o is one of the supported operators.
func (o Operator) Valid() bool {
	return slices.Contains(operators, o)
}

// NeedsValue reports whether the operator reads [Condition.Value].
func (o Operator) NeedsValue() bool {
	return o != IsNull && o != IsNotNull
}

// NeedsSecondValue reports whether the operator reads [Condition.Value2].
func (o Operator) NeedsSecondValue() bool {
	return o == Between
}

// Valid reports whether l is [And] or [Or].
func (l LogicOp) Valid() bool {
	return l == And || l == Or
}

// Valid reports whether d is [Asc] or [Desc].
func (d SortDirection) Valid() bool {
	return d == Asc || d == Desc
}

// Validate returns an [ErrValidation] if the condition cannot be evaluated.
func (c Condition) Validate() error {
	switch {
	case c.Field == "":
		return &ErrValidation{Condition: c, Reason: "field is empty"}
	case !c.Operator.Valid():
		return &ErrValidation{Condition: c, Reason: "unknown operator"}
	case c.Operator.NeedsSecondValue() && (c.Value == nil || c.Value2 == nil):
		return &ErrValidation{Condition: c, Reason: "operator requires two values"}
	}
	return nil
}

// List splits the value of an [In] or [NotIn] condition in its scalars.
func (c Condition) List() []string {
	s, ok := c.Value.(string)
	if !ok || s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

// NewGroup returns an empty [Group] combining its conditions with [And].
func NewGroup(id string) Group {
	return Group{ID: id, Conditions: []Condition{}, Operator: And}
}

// IsEffective reports whether g can be sent to a gateway: it has at least one
// condition and every condition is valid.
func (g Group) IsEffective() bool {
	if len(g.Conditions) == 0 {
		return false
	}
	for _, c := range g.Conditions {
		if c.Validate() != nil {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of g.
func (g Group) Clone() Group {
	g.Conditions = slices.Clone(g.Conditions)
	if g.Conditions == nil {
		g.Conditions = []Condition{}
	}
	return g
}

// DefaultQuery returns the query of a view that was never modified.
func DefaultQuery() Query {
	return Query{
		Groups:        []Group{},
		SortDirection: Asc,
		PageSize:      DefaultPageSize,
		PageNumber:    1,
	}
}

// EffectiveGroups returns the groups of q that are effective, in order.
func (q Query) EffectiveGroups() []Group {
	res := make([]Group, 0, len(q.Groups))
	for _, g := range q.Groups {
		if g.IsEffective() {
			res = append(res, g.Clone())
		}
	}
	return res
}

// Clone returns a deep copy of q.
func (q Query) Clone() Query {
	groups := make([]Group, len(q.Groups))
	for n, g := range q.Groups {
		groups[n] = g.Clone()
	}
	q.Groups = groups
	return q
}

// ApplyTo returns a copy of q with every specified field of p set.
func (p QueryPatch) ApplyTo(q Query) Query {
	q = q.Clone()
	if p.HasGroups {
		q.Groups = Query{Groups: p.Groups}.Clone().Groups
	}
	if p.SortField != nil {
		q.SortField = *p.SortField
	}
	if p.SortDirection != nil {
		q.SortDirection = *p.SortDirection
	}
	if p.PageSize != nil {
		q.PageSize = *p.PageSize
	}
	if p.PageNumber != nil {
		q.PageNumber = *p.PageNumber
	}
	return q
}
