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

import (
	"encoding/binary"
	"fmt"

	"github.com/spaolacci/murmur3"
)

// ByteOrder selects the wire byte order for multi-byte values.
type ByteOrder uint8

const (
	// BigEndian is network byte order and the SOME/IP default.
	BigEndian ByteOrder = iota
	LittleEndian
)

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}

// order returns the encoding/binary implementation for o.
func (o ByteOrder) order() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// isLittleEndian is true when the host is little-endian. Used to decide whether
// primitive spans can be bulk-copied without byte swapping.
var isLittleEndian = func() bool {
	var x uint16 = 0x0102
	b := [2]byte{}
	binary.NativeEndian.PutUint16(b[:], x)
	return b[0] == 0x02
}()

// matchesHost reports whether values in order o have the host's memory layout.
func (o ByteOrder) matchesHost() bool {
	return (o == LittleEndian) == isLittleEndian
}

// LengthFieldSize is the byte width of a length field preceding a payload.
// Zero means no length field, which is legal only for fixed-size arrays and
// structs whose size the receiver can derive from the model.
type LengthFieldSize uint8

const (
	LengthFieldNone LengthFieldSize = 0
	LengthField8    LengthFieldSize = 1
	LengthField16   LengthFieldSize = 2
	LengthField32   LengthFieldSize = 4
)

func (s LengthFieldSize) valid() bool {
	switch s {
	case LengthFieldNone, LengthField8, LengthField16, LengthField32:
		return true
	}
	return false
}

// maxPayload is the largest payload byte count representable in the field.
func (s LengthFieldSize) maxPayload() int {
	switch s {
	case LengthField8:
		return 0xFF
	case LengthField16:
		return 0xFFFF
	default:
		return 0x7FFFFFFF
	}
}

// StringEncoding selects the on-wire string representation.
type StringEncoding uint8

const (
	UTF8 StringEncoding = iota
	UTF16
)

func (e StringEncoding) String() string {
	if e == UTF16 {
		return "utf-16"
	}
	return "utf-8"
}

// ============================================================================
// TpPack - Transformation Property Pack
// ============================================================================

// TpPack bundles the serialization policy for a whole call tree: byte order,
// per-container length-field widths, and string encoding rules. A pack is
// fixed for the lifetime of a Codec and never mutated.
type TpPack struct {
	ByteOrder ByteOrder

	ArrayLengthField  LengthFieldSize
	VectorLengthField LengthFieldSize
	MapLengthField    LengthFieldSize
	StringLengthField LengthFieldSize
	StructLengthField LengthFieldSize
	UnionLengthField  LengthFieldSize

	// UnionTypeSelector is the width of the variant type-selector field.
	// It holds the one-based alternative index; zero is reserved on the wire
	// for "no valid alternative".
	UnionTypeSelector LengthFieldSize

	// StringBOM emits a byte-order mark before string content: the fixed
	// 3-byte UTF-8 sequence, or a 2-byte UTF-16 mark in the configured order.
	StringBOM bool

	// StringNullTerminated appends a terminator after string content:
	// one zero byte for UTF-8, two for UTF-16.
	StringNullTerminated bool

	// DynamicLengthField shrinks TLV length fields to the smallest width that
	// holds the payload instead of the statically configured width.
	DynamicLengthField bool

	StringEncoding StringEncoding
}

// DefaultTpPack returns the classic SOME/IP payload policy: big-endian,
// 4-byte length fields everywhere, BOM and null termination active, UTF-8.
func DefaultTpPack() TpPack {
	return TpPack{
		ByteOrder:            BigEndian,
		ArrayLengthField:     LengthField32,
		VectorLengthField:    LengthField32,
		MapLengthField:       LengthField32,
		StringLengthField:    LengthField32,
		StructLengthField:    LengthFieldNone,
		UnionLengthField:     LengthField32,
		UnionTypeSelector:    LengthField32,
		StringBOM:            true,
		StringNullTerminated: true,
		StringEncoding:       UTF8,
	}
}

// Validate checks the pack against the SOME/IP transformation rules.
// Vectors, maps, strings and unions always need a length field; only fixed
// arrays and structs may omit theirs.
func (p TpPack) Validate() error {
	for _, f := range []struct {
		name string
		size LengthFieldSize
	}{
		{"array", p.ArrayLengthField},
		{"vector", p.VectorLengthField},
		{"map", p.MapLengthField},
		{"string", p.StringLengthField},
		{"struct", p.StructLengthField},
		{"union", p.UnionLengthField},
		{"union type selector", p.UnionTypeSelector},
	} {
		if !f.size.valid() {
			return fmt.Errorf("someip: invalid %s length field width %d", f.name, f.size)
		}
	}
	if p.VectorLengthField == LengthFieldNone {
		return fmt.Errorf("someip: vectors require a length field")
	}
	if p.MapLengthField == LengthFieldNone {
		return fmt.Errorf("someip: maps require a length field")
	}
	if p.StringLengthField == LengthFieldNone {
		return fmt.Errorf("someip: strings require a length field")
	}
	if p.UnionTypeSelector == LengthFieldNone {
		return fmt.Errorf("someip: unions require a type selector field")
	}
	if p.ByteOrder > LittleEndian {
		return fmt.Errorf("someip: invalid byte order %d", p.ByteOrder)
	}
	if p.StringEncoding > UTF16 {
		return fmt.Errorf("someip: invalid string encoding %d", p.StringEncoding)
	}
	return nil
}

// Fingerprint returns a stable 64-bit hash of the pack. Two codecs agree on
// the wire format iff their fingerprints match, which makes it a cheap policy
// mismatch check for diagnostics and tests.
func (p TpPack) Fingerprint() uint64 {
	raw := [16]byte{
		byte(p.ByteOrder),
		byte(p.ArrayLengthField),
		byte(p.VectorLengthField),
		byte(p.MapLengthField),
		byte(p.StringLengthField),
		byte(p.StructLengthField),
		byte(p.UnionLengthField),
		byte(p.UnionTypeSelector),
		boolByte(p.StringBOM),
		boolByte(p.StringNullTerminated),
		boolByte(p.DynamicLengthField),
		byte(p.StringEncoding),
	}
	return murmur3.Sum64(raw[:])
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// ============================================================================
// FieldConfig - per-member transformation property overrides
// ============================================================================

// FieldConfig carries the position-specific overrides for a single member of
// a container. The model may give each member its own byte order and length
// field, differing from the enclosing pack; unset entries fall back to the
// pack's defaults. The zero value means "no overrides".
type FieldConfig struct {
	Order    ByteOrder
	HasOrder bool

	LengthField    LengthFieldSize
	HasLengthField bool

	// MaxElements bounds a vector's serialized element count. Zero means
	// unbounded. Excess live elements are truncated with a logged warning.
	MaxElements int
}

// byteOrder resolves the effective byte order for this member.
func (c FieldConfig) byteOrder(p TpPack) ByteOrder {
	if c.HasOrder {
		return c.Order
	}
	return p.ByteOrder
}

// lengthField resolves the effective length-field width, given the pack
// default for the member's container category.
func (c FieldConfig) lengthField(packDefault LengthFieldSize) LengthFieldSize {
	if c.HasLengthField {
		return c.LengthField
	}
	return packDefault
}
