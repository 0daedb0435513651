package decoder

// WithTagName sets the struct tag used to name fields. It defaults to
// [DefaultTagName].
func WithTagName(name string) Option {
	return func(d *Decoder) {
		if name != "" {
			d.tagName = name
		}
	}
}

// Option configures decoder behavior through the functional options pattern.
type Option func(*Decoder)
