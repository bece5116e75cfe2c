package product

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON value that may be absent, null, or of an unexpected type.
//
// Decoding never fails: Present records that the key appeared in the object,
// Valid that its value decoded into T. A present but mistyped value is
// therefore Present && !Valid, which callers treat exactly like absence.
type Optional[T any] struct {
	Value   T
	Present bool
	Valid   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	o.Valid = false
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	o.Value = v
	o.Valid = true
	return nil
}

// Get returns the value and whether it is valid.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// Ptr returns a pointer to the value, or nil when it is not valid.
// Database parameters use nil for NULL.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
