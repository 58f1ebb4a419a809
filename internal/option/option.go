// Package option provides a generic optional value for lookups that may come back empty.
//
// A chain of lookups is written with FlatMap and Map: the first step that yields None
// short-circuits the rest of the chain.
package option

import (
	"encoding/json"
	"fmt"
)

// Option holds either a value of type T (Some) or nothing (None).
// The zero value is None.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps v as a present value.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// IsNone reports whether the Option is empty.
func (o Option[T]) IsNone() bool {
	return !o.ok
}

// OrElse returns the value or def when empty.
func (o Option[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Or returns o when present, otherwise the result of next. next is not
// evaluated when o already holds a value.
func (o Option[T]) Or(next func() Option[T]) Option[T] {
	if o.ok {
		return o
	}
	return next()
}

// Filter keeps the value only if keep returns true.
func (o Option[T]) Filter(keep func(T) bool) Option[T] {
	if o.ok && keep(o.value) {
		return o
	}
	return None[T]()
}

func (o Option[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// Map applies fn to a present value.
func Map[T, U any](o Option[T], fn func(T) U) Option[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(fn(o.value))
}

// FlatMap chains a lookup that may itself come back empty.
func FlatMap[T, U any](o Option[T], fn func(T) Option[U]) Option[U] {
	if !o.ok {
		return None[U]()
	}
	return fn(o.value)
}

// MarshalJSON encodes None as null and Some(v) as v.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	b, err := json.Marshal(o.value)
	if err != nil {
		return nil, fmt.Errorf("marshal option value: %w", err)
	}
	return b, nil
}
