package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a field of a partial update. The zero value means "absent":
// leave the stored value unchanged. Set with Valid=false means "set to null".
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some returns a present, non-null value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null returns a present value that clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// Ptr returns nil for absent or null values, otherwise a pointer to a copy.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON is only invoked when the key is present in the document, so
// reaching it always marks the field as set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
