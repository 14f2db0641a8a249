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
	"fmt"
	"reflect"
	"unsafe"
)

// arraySerializer handles fixed-size Go arrays [N]T. Unlike vectors, the
// element count is part of the model, so the length field may be omitted
// entirely; an array without a length field whose elements are static is the
// one container the classifier treats as static.
type arraySerializer struct {
	elemType    reflect.Type
	elem        Serializer
	length      int
	lengthField LengthFieldSize
	order       ByteOrder

	elemWidth int
	elemFixed bool
}

func (r *resolver) newArraySerializer(t reflect.Type, conf FieldConfig) (Serializer, error) {
	elemConf := FieldConfig{Order: conf.Order, HasOrder: conf.HasOrder}
	elem, err := r.serializerFor(t.Elem(), elemConf)
	if err != nil {
		return nil, fmt.Errorf("someip: array %v: %w", t, err)
	}
	s := &arraySerializer{
		elemType:    t.Elem(),
		elem:        elem,
		length:      t.Len(),
		lengthField: conf.lengthField(r.pack.ArrayLengthField),
		order:       conf.byteOrder(r.pack),
	}
	s.elemWidth, s.elemFixed = elem.StaticSize()
	return s, nil
}

func (s *arraySerializer) WriteData(ctx *WriteContext, value reflect.Value) error {
	if s.lengthField == LengthFieldNone {
		return s.WritePayload(ctx, value)
	}
	sub := ctx.Writer().ConsumeSubStream(int(s.lengthField))
	before := ctx.Writer().Cursor()
	if err := s.WritePayload(ctx, value); err != nil {
		return err
	}
	sub.WriteLengthField(s.lengthField, s.order, ctx.Writer().Cursor()-before)
	return nil
}

func (s *arraySerializer) WritePayload(ctx *WriteContext, value reflect.Value) error {
	if s.length == 0 {
		return nil
	}
	if s.writeSpan(ctx.Writer(), value) {
		return nil
	}
	for i := 0; i < s.length; i++ {
		if err := s.elem.WriteData(ctx, value.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// writeSpan bulk-writes the whole array as one raw span when the element type
// is a primitive sharing the configured endianness with the host. Arrays
// reached by value (not via an addressable struct) fall back to the element
// loop; both paths produce byte-identical output.
func (s *arraySerializer) writeSpan(w *Writer, value reflect.Value) bool {
	if !value.CanAddr() {
		return false
	}
	switch s.elemType.Kind() {
	case reflect.Uint8, reflect.Int8, reflect.Bool:
	case reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		if !s.order.matchesHost() {
			return false
		}
	default:
		return false
	}
	size := s.length * int(s.elemType.Size())
	w.WriteBytes(unsafe.Slice((*byte)(value.Addr().UnsafePointer()), size))
	return true
}

func (s *arraySerializer) ReadData(ctx *ReadContext, value reflect.Value) error {
	if s.lengthField != LengthFieldNone {
		n, _, err := ctx.Reader().ReadLengthField(s.lengthField, s.order)
		if err != nil {
			return err
		}
		sub, err := ctx.Reader().Sub(n)
		if err != nil {
			return err
		}
		ctx = ctx.sub(sub)
	}
	return s.ReadPayload(ctx, value)
}

func (s *arraySerializer) ReadPayload(ctx *ReadContext, value reflect.Value) error {
	for i := 0; i < s.length; i++ {
		if err := s.elem.ReadData(ctx, value.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (s *arraySerializer) RequiredSize(value reflect.Value) int {
	return int(s.lengthField) + s.RequiredPayloadSize(value)
}

func (s *arraySerializer) RequiredPayloadSize(value reflect.Value) int {
	if s.elemFixed {
		// Static elements have no value-dependent size, so no iteration.
		return s.length * s.elemWidth
	}
	total := 0
	for i := 0; i < s.length; i++ {
		total += s.elem.RequiredSize(value.Index(i))
	}
	return total
}

func (s *arraySerializer) MaximumSize() InfSize {
	if s.elemFixed {
		return SizeOf(int(s.lengthField) + s.length*s.elemWidth)
	}
	return s.elem.MaximumSize().Times(s.length).AddBytes(int(s.lengthField))
}

// StaticSize: static iff the length field is omitted and the element type is
// itself static under the element configuration.
func (s *arraySerializer) StaticSize() (int, bool) {
	if s.lengthField != LengthFieldNone || !s.elemFixed {
		return 0, false
	}
	return s.length * s.elemWidth, true
}

func (s *arraySerializer) PayloadLengthField() LengthFieldSize { return s.lengthField }

func (s *arraySerializer) WireType() WireType { return wireTypeForLength(s.lengthField) }
