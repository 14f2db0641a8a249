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

package someip

import "strconv"

// InfSize is a byte count extended with an explicit unbounded value, used for
// worst-case buffer sizing where no finite maximum exists (an unbounded
// vector, any string). Arithmetic on the unbounded value is absorbing.
type InfSize struct {
	n   int
	inf bool
}

// Infinite is the unbounded size.
var Infinite = InfSize{inf: true}

// SizeOf returns a finite size of n bytes.
func SizeOf(n int) InfSize {
	return InfSize{n: n}
}

// IsInfinite reports whether the size is unbounded.
func (s InfSize) IsInfinite() bool { return s.inf }

// Bytes returns the finite byte count. ok is false for the unbounded size.
func (s InfSize) Bytes() (n int, ok bool) {
	if s.inf {
		return 0, false
	}
	return s.n, true
}

// Add returns s + t, absorbing to Infinite if either side is unbounded.
func (s InfSize) Add(t InfSize) InfSize {
	if s.inf || t.inf {
		return Infinite
	}
	return InfSize{n: s.n + t.n}
}

// AddBytes returns s + n bytes.
func (s InfSize) AddBytes(n int) InfSize {
	if s.inf {
		return Infinite
	}
	return InfSize{n: s.n + n}
}

// Times returns s scaled by a non-negative element count.
func (s InfSize) Times(count int) InfSize {
	if s.inf {
		return Infinite
	}
	return InfSize{n: s.n * count}
}

// Max returns the larger of s and t.
func (s InfSize) Max(t InfSize) InfSize {
	if s.inf || t.inf {
		return Infinite
	}
	if t.n > s.n {
		return t
	}
	return s
}

// Covers reports whether a buffer of size s can hold n bytes.
func (s InfSize) Covers(n int) bool {
	return s.inf || s.n >= n
}

func (s InfSize) String() string {
	if s.inf {
		return "infinite"
	}
	return strconv.Itoa(s.n)
}
