package gateway

import (
	"bytes"
	"encoding/json"
)

// Tri is a three-way JSON value: absent, explicitly null, or present
// with a value. The zero Tri is "absent"; encoding/json leaves absent
// fields untouched, so a struct field of type Tri[T] reports absence
// for free.
type Tri[T any] struct {
	present bool
	null    bool
	value   T
}

// TriValue returns a present Tri holding v.
func TriValue[T any](v T) Tri[T] {
	return Tri[T]{present: true, value: v}
}

// TriNull returns a Tri representing an explicit JSON null.
func TriNull[T any]() Tri[T] {
	return Tri[T]{present: true, null: true}
}

// Present reports whether the field appeared in the document at all,
// including as null.
func (t Tri[T]) Present() bool {
	return t.present
}

// Null reports whether the field was an explicit null.
func (t Tri[T]) Null() bool {
	return t.present && t.null
}

// Value returns the held value and whether one exists (present and
// not null).
func (t Tri[T]) Value() (T, bool) {
	if !t.present || t.null {
		var zero T
		return zero, false
	}
	return t.value, true
}

func (t *Tri[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = TriNull[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = TriValue(v)
	return nil
}

// MarshalJSON emits null for both absent and null states; JSON cannot
// express absence at the value level.
func (t Tri[T]) MarshalJSON() ([]byte, error) {
	if !t.present || t.null {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}
