// Package fieldnavigator contains the default [domain.FieldNavigator]
// implementation.
package fieldnavigator

import (
	"strconv"
	"strings"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// FieldNavigator implements [domain.FieldNavigator]. Addresses are split on
// dots; numeric parts index arrays.
type FieldNavigator struct{}

// NewFieldNavigator returns a new instance of [domain.FieldNavigator].
func NewFieldNavigator() domain.FieldNavigator {
	return &FieldNavigator{}
}

// GetAddress implements [domain.FieldNavigator].
func (fn *FieldNavigator) GetAddress(field string) []string {
	if field == "" {
		return nil
	}
	return strings.Split(field, ".")
}

// GetField implements [domain.FieldNavigator].
func (fn *FieldNavigator) GetField(obj any, addr ...string) (any, bool) {
	if len(addr) == 0 {
		return nil, false
	}

	curr := obj
	for _, part := range addr {
		switch t := curr.(type) {
		case map[string]any:
			v, ok := t[part]
			if !ok {
				return nil, false
			}
			curr = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			curr = t[i]
		default:
			// primitives and nil have no fields
			return nil, false
		}
	}
	return curr, true
}
