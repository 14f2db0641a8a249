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

	"go.uber.org/zap"
)

// vectorSerializer handles Go slices: a length field followed by the
// elements. Element count never appears on the wire; the receiver derives it
// from the payload length. A configured MaxElements bound makes serialization
// lossy: excess trailing elements are dropped with a logged warning rather
// than failing the whole message.
type vectorSerializer struct {
	elemType    reflect.Type
	elem        Serializer
	lengthField LengthFieldSize
	order       ByteOrder

	// maxElements is 0 for unbounded vectors.
	maxElements int

	// elemWidth is the fixed per-element wire size when the element type is
	// static; boolElem forces 1 byte per element independent of the element
	// static-size analysis.
	elemWidth int
	elemFixed bool
	boolElem  bool
}

func (r *resolver) newVectorSerializer(t reflect.Type, conf FieldConfig) (Serializer, error) {
	elemConf := FieldConfig{Order: conf.Order, HasOrder: conf.HasOrder}
	elem, err := r.serializerFor(t.Elem(), elemConf)
	if err != nil {
		return nil, fmt.Errorf("someip: vector %v: %w", t, err)
	}
	s := &vectorSerializer{
		elemType:    t.Elem(),
		elem:        elem,
		lengthField: conf.lengthField(r.pack.VectorLengthField),
		order:       conf.byteOrder(r.pack),
		maxElements: conf.MaxElements,
		boolElem:    t.Elem().Kind() == reflect.Bool,
	}
	if s.lengthField == LengthFieldNone {
		return nil, fmt.Errorf("someip: vector %v requires a length field", t)
	}
	if s.boolElem {
		// Each bool element is exactly one serialized byte.
		s.elemWidth, s.elemFixed = 1, true
	} else {
		s.elemWidth, s.elemFixed = elem.StaticSize()
	}
	if s.elemFixed && s.elemWidth == 0 {
		// The receiver derives the element count from the payload length,
		// which is impossible when elements occupy zero bytes.
		return nil, fmt.Errorf("someip: vector %v elements occupy zero wire bytes, element count cannot be recovered", t)
	}
	return s, nil
}

// liveCount caps the element count at the configured bound.
func (s *vectorSerializer) liveCount(value reflect.Value) (count, skipped int) {
	count = value.Len()
	if s.maxElements > 0 && count > s.maxElements {
		return s.maxElements, count - s.maxElements
	}
	return count, 0
}

func (s *vectorSerializer) WriteData(ctx *WriteContext, value reflect.Value) error {
	sub := ctx.Writer().ConsumeSubStream(int(s.lengthField))
	before := ctx.Writer().Cursor()
	if err := s.WritePayload(ctx, value); err != nil {
		return err
	}
	sub.WriteLengthField(s.lengthField, s.order, ctx.Writer().Cursor()-before)
	return nil
}

func (s *vectorSerializer) WritePayload(ctx *WriteContext, value reflect.Value) error {
	count, skipped := s.liveCount(value)
	if skipped > 0 {
		ctx.Logger().Warn("vector exceeds configured maximum element count, truncating",
			zap.String("type", value.Type().String()),
			zap.Int("max", s.maxElements),
			zap.Int("skipped", skipped))
	}
	if count == 0 {
		return nil
	}
	if s.writeSpan(ctx.Writer(), value, count) {
		return nil
	}
	for i := 0; i < count; i++ {
		if err := s.elem.WriteData(ctx, value.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// writeSpan bulk-writes primitive elements as one raw span when that produces
// byte-identical output: byte and bool elements always, wider numerics only
// when the configured order matches the host's memory layout.
func (s *vectorSerializer) writeSpan(w *Writer, value reflect.Value, count int) bool {
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
	size := count * int(s.elemType.Size())
	w.WriteBytes(unsafe.Slice((*byte)(value.UnsafePointer()), size))
	return true
}

func (s *vectorSerializer) ReadData(ctx *ReadContext, value reflect.Value) error {
	n, _, err := ctx.Reader().ReadLengthField(s.lengthField, s.order)
	if err != nil {
		return err
	}
	sub, err := ctx.Reader().Sub(n)
	if err != nil {
		return err
	}
	return s.ReadPayload(ctx.sub(sub), value)
}

func (s *vectorSerializer) ReadPayload(ctx *ReadContext, value reflect.Value) error {
	r := ctx.Reader()
	if s.elemFixed {
		payload := r.Remaining()
		if payload%s.elemWidth != 0 {
			return fmt.Errorf("someip: vector payload of %d bytes is not a multiple of the %d-byte element size",
				payload, s.elemWidth)
		}
		length := payload / s.elemWidth
		value.Set(reflect.MakeSlice(value.Type(), length, length))
		for i := 0; i < length; i++ {
			if err := s.elem.ReadData(ctx, value.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
	// Dynamic element size: decode until the payload is exhausted.
	out := reflect.MakeSlice(value.Type(), 0, 0)
	elem := reflect.New(s.elemType).Elem()
	for r.Remaining() > 0 {
		before := r.Remaining()
		elem.SetZero()
		if err := s.elem.ReadData(ctx, elem); err != nil {
			return err
		}
		if r.Remaining() == before {
			return fmt.Errorf("someip: vector element of type %v consumed no bytes, payload cannot terminate", s.elemType)
		}
		out = reflect.Append(out, elem)
	}
	value.Set(out)
	return nil
}

func (s *vectorSerializer) RequiredSize(value reflect.Value) int {
	return int(s.lengthField) + s.RequiredPayloadSize(value)
}

func (s *vectorSerializer) RequiredPayloadSize(value reflect.Value) int {
	count, _ := s.liveCount(value)
	if s.elemFixed {
		return count * s.elemWidth
	}
	total := 0
	for i := 0; i < count; i++ {
		total += s.elem.RequiredSize(value.Index(i))
	}
	return total
}

// MaximumSize is Infinite for unbounded vectors; bounded vectors multiply the
// per-element maximum by the bound.
func (s *vectorSerializer) MaximumSize() InfSize {
	if s.maxElements == 0 {
		return Infinite
	}
	if s.boolElem {
		return SizeOf(int(s.lengthField) + s.maxElements)
	}
	return s.elem.MaximumSize().Times(s.maxElements).AddBytes(int(s.lengthField))
}

// StaticSize: vectors are never static, their content drives their size.
func (s *vectorSerializer) StaticSize() (int, bool) { return 0, false }

func (s *vectorSerializer) PayloadLengthField() LengthFieldSize { return s.lengthField }

func (s *vectorSerializer) WireType() WireType { return wireTypeForLength(s.lengthField) }
