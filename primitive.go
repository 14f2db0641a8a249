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
	"math"
	"reflect"
)

// ============================================================================
// Primitive Serializers
// ============================================================================

// boolSerializer writes exactly one byte, 0 or 1. Wire size is fixed at one
// byte regardless of the host bool representation.
type boolSerializer struct{}

func (s boolSerializer) WriteData(ctx *WriteContext, value reflect.Value) error {
	ctx.Writer().WriteBool(value.Bool())
	return nil
}

func (s boolSerializer) ReadData(ctx *ReadContext, value reflect.Value) error {
	b, err := ctx.Reader().ReadBool()
	if err != nil {
		return err
	}
	value.SetBool(b)
	return nil
}

func (s boolSerializer) RequiredSize(reflect.Value) int { return 1 }
func (s boolSerializer) MaximumSize() InfSize           { return SizeOf(1) }
func (s boolSerializer) StaticSize() (int, bool)        { return 1, true }
func (s boolSerializer) WireType() WireType             { return WireType8 }

// numericSerializer handles every fixed-width numeric category: unsigned and
// signed integers and IEEE-754 floats, each written as `width` bytes in the
// configured byte order. Enum types need no separate serializer; a named
// integer type dispatches here through its underlying kind and width.
type numericSerializer struct {
	width  int
	order  ByteOrder
	signed bool
	float  bool
}

func (s numericSerializer) bits(value reflect.Value) uint64 {
	switch {
	case s.float:
		if s.width == 4 {
			return uint64(math.Float32bits(float32(value.Float())))
		}
		return math.Float64bits(value.Float())
	case s.signed:
		return uint64(value.Int())
	default:
		return value.Uint()
	}
}

func (s numericSerializer) setBits(value reflect.Value, bits uint64) {
	switch {
	case s.float:
		if s.width == 4 {
			value.SetFloat(float64(math.Float32frombits(uint32(bits))))
		} else {
			value.SetFloat(math.Float64frombits(bits))
		}
	case s.signed:
		// Sign-extend from the wire width.
		shift := uint(64 - 8*s.width)
		value.SetInt(int64(bits<<shift) >> shift)
	default:
		value.SetUint(bits)
	}
}

func (s numericSerializer) WriteData(ctx *WriteContext, value reflect.Value) error {
	ctx.Writer().WriteUnsigned(s.bits(value), s.width, s.order)
	return nil
}

func (s numericSerializer) ReadData(ctx *ReadContext, value reflect.Value) error {
	bits, err := ctx.Reader().ReadUnsigned(s.width, s.order)
	if err != nil {
		return err
	}
	s.setBits(value, bits)
	return nil
}

func (s numericSerializer) RequiredSize(reflect.Value) int { return s.width }
func (s numericSerializer) MaximumSize() InfSize           { return SizeOf(s.width) }
func (s numericSerializer) StaticSize() (int, bool)        { return s.width, true }

func (s numericSerializer) WireType() WireType {
	switch s.width {
	case 1:
		return WireType8
	case 2:
		return WireType16
	case 4:
		return WireType32
	default:
		return WireType64
	}
}
