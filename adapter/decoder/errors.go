package decoder

import "errors"

// ErrNotSlice is returned when a slice was expected.
var ErrNotSlice = errors.New("value is not a slice")
