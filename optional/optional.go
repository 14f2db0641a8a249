// Copyright 2026 The openvecu Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package optional provides a generic container for a value that may be
// absent. A disengaged Optional serializes as a default-constructed value in
// fixed layouts and is omitted entirely from tag/length/value payloads.
package optional

// Optional holds a value of type T together with an engagement flag.
// The zero Optional is disengaged.
type Optional[T any] struct {
	Value T
	Has   bool
}

// Some returns an engaged Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Has: true}
}

// None returns a disengaged Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr returns an Optional engaged with *p, or disengaged if p is nil.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Optional[T]{}
	}
	return Some(*p)
}

// IsSome reports whether the Optional is engaged.
func (o Optional[T]) IsSome() bool { return o.Has }

// IsNone reports whether the Optional is disengaged.
func (o Optional[T]) IsNone() bool { return !o.Has }

// Get returns the held value and whether it is engaged.
func (o Optional[T]) Get() (T, bool) { return o.Value, o.Has }

// Unwrap returns the held value. It panics if the Optional is disengaged.
func (o Optional[T]) Unwrap() T {
	if !o.Has {
		panic("optional: unwrap of disengaged Optional")
	}
	return o.Value
}

// UnwrapOr returns the held value, or fallback if disengaged.
func (o Optional[T]) UnwrapOr(fallback T) T {
	if !o.Has {
		return fallback
	}
	return o.Value
}

// Ptr returns a pointer to a copy of the held value, or nil if disengaged.
func (o Optional[T]) Ptr() *T {
	if !o.Has {
		return nil
	}
	v := o.Value
	return &v
}

// Set engages the Optional with v.
func (o *Optional[T]) Set(v T) {
	o.Value = v
	o.Has = true
}

// Reset disengages the Optional and zeroes the held value.
func (o *Optional[T]) Reset() {
	var zero T
	o.Value = zero
	o.Has = false
}

// Take returns the held value and disengages the Optional.
func (o *Optional[T]) Take() (T, bool) {
	v, ok := o.Value, o.Has
	o.Reset()
	return v, ok
}
