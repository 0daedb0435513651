// Package decoder converts between typed values and [domain.Record] values.
package decoder

import (
	"fmt"

	"github.com/goccy/go-reflect"
	"github.com/mitchellh/mapstructure"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// DefaultTagName is the struct tag read when decoding.
const DefaultTagName = "json"

// Decoder uses mapstructure to move data between records and structs.
type Decoder struct {
	tagName string
}

// NewDecoder returns a new Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := Decoder{tagName: DefaultTagName}
	for _, opt := range opts {
		opt(&d)
	}
	return &d
}

// Decode decodes source into target, which must be a non-nil pointer.
func (d *Decoder) Decode(source any, target any) error {
	if target == nil {
		return domain.ErrTargetNil
	}

	value := reflect.ValueNoEscapeOf(target)
	if value.Kind() != reflect.Ptr {
		return domain.ErrNonPointer
	}
	if value.IsNil() {
		return domain.ErrTargetNil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: d.tagName,
		Result:  target,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(source); err != nil {
		return fmt.Errorf("decoding %T into %T: %w", source, target, err)
	}
	return nil
}

// ToRecords converts a slice of structs or maps into records. Struct fields
// are named after their tag.
func (d *Decoder) ToRecords(items any) ([]domain.Record, error) {
	value := reflect.ValueNoEscapeOf(items)
	if !value.IsValid() {
		return []domain.Record{}, nil
	}
	if value.Kind() != reflect.Slice && value.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: got %T", ErrNotSlice, items)
	}

	res := make([]domain.Record, value.Len())
	for n := range value.Len() {
		item := value.Index(n).Interface()
		if rec, ok := item.(map[string]any); ok {
			res[n] = d.copyRecord(rec)
			continue
		}
		rec := domain.Record{}
		if err := d.Decode(item, &rec); err != nil {
			return nil, fmt.Errorf("item %d: %w", n, err)
		}
		res[n] = rec
	}
	return res, nil
}

func (d *Decoder) copyRecord(rec map[string]any) domain.Record {
	res := make(domain.Record, len(rec))
	for k, v := range rec {
		res[k] = v
	}
	return res
}

// Scan decodes records into target, which must point to a slice.
func (d *Decoder) Scan(records []domain.Record, target any) error {
	if target == nil {
		return domain.ErrTargetNil
	}
	value := reflect.ValueNoEscapeOf(target)
	if value.Kind() != reflect.Ptr {
		return domain.ErrNonPointer
	}
	if value.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: got %T", ErrNotSlice, target)
	}
	src := make([]any, len(records))
	for n, rec := range records {
		src[n] = map[string]any(rec)
	}
	return d.Decode(src, target)
}
