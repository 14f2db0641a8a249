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
)

// mapSerializer writes a length field followed by (key, value) entries in the
// container's natural iteration order with no reordering. Go maps iterate in
// randomized order, so two equal maps may serialize to different byte
// sequences; callers needing bit-for-bit reproducibility across processes
// must impose their own deterministic ordering before serializing.
type mapSerializer struct {
	keyType, valType reflect.Type
	key, val         Serializer
	lengthField      LengthFieldSize
	order            ByteOrder
}

func (r *resolver) newMapSerializer(t reflect.Type, conf FieldConfig) (Serializer, error) {
	entryConf := FieldConfig{Order: conf.Order, HasOrder: conf.HasOrder}
	key, err := r.serializerFor(t.Key(), entryConf)
	if err != nil {
		return nil, fmt.Errorf("someip: map %v key: %w", t, err)
	}
	val, err := r.serializerFor(t.Elem(), entryConf)
	if err != nil {
		return nil, fmt.Errorf("someip: map %v value: %w", t, err)
	}
	s := &mapSerializer{
		keyType:     t.Key(),
		valType:     t.Elem(),
		key:         key,
		val:         val,
		lengthField: conf.lengthField(r.pack.MapLengthField),
		order:       conf.byteOrder(r.pack),
	}
	if s.lengthField == LengthFieldNone {
		return nil, fmt.Errorf("someip: map %v requires a length field", t)
	}
	keyWidth, keyFixed := key.StaticSize()
	valWidth, valFixed := val.StaticSize()
	if keyFixed && valFixed && keyWidth+valWidth == 0 {
		// The receiver derives the entry count from the payload length,
		// which is impossible when entries occupy zero bytes.
		return nil, fmt.Errorf("someip: map %v entries occupy zero wire bytes, entry count cannot be recovered", t)
	}
	return s, nil
}

func (s *mapSerializer) WriteData(ctx *WriteContext, value reflect.Value) error {
	sub := ctx.Writer().ConsumeSubStream(int(s.lengthField))
	before := ctx.Writer().Cursor()
	if err := s.WritePayload(ctx, value); err != nil {
		return err
	}
	sub.WriteLengthField(s.lengthField, s.order, ctx.Writer().Cursor()-before)
	return nil
}

func (s *mapSerializer) WritePayload(ctx *WriteContext, value reflect.Value) error {
	iter := value.MapRange()
	for iter.Next() {
		if err := s.key.WriteData(ctx, iter.Key()); err != nil {
			return err
		}
		if err := s.val.WriteData(ctx, iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func (s *mapSerializer) ReadData(ctx *ReadContext, value reflect.Value) error {
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

func (s *mapSerializer) ReadPayload(ctx *ReadContext, value reflect.Value) error {
	r := ctx.Reader()
	out := reflect.MakeMap(value.Type())
	key := reflect.New(s.keyType).Elem()
	val := reflect.New(s.valType).Elem()
	for r.Remaining() > 0 {
		before := r.Remaining()
		key.SetZero()
		val.SetZero()
		if err := s.key.ReadData(ctx, key); err != nil {
			return err
		}
		if err := s.val.ReadData(ctx, val); err != nil {
			return err
		}
		if r.Remaining() == before {
			return fmt.Errorf("someip: map entry of type %v/%v consumed no bytes, payload cannot terminate", s.keyType, s.valType)
		}
		out.SetMapIndex(key, val)
	}
	value.Set(out)
	return nil
}

func (s *mapSerializer) RequiredSize(value reflect.Value) int {
	return int(s.lengthField) + s.RequiredPayloadSize(value)
}

func (s *mapSerializer) RequiredPayloadSize(value reflect.Value) int {
	total := 0
	iter := value.MapRange()
	for iter.Next() {
		total += s.key.RequiredSize(iter.Key())
		total += s.val.RequiredSize(iter.Value())
	}
	return total
}

// MaximumSize: maps carry no element-count bound, so the worst case is
// unbounded.
func (s *mapSerializer) MaximumSize() InfSize { return Infinite }

func (s *mapSerializer) StaticSize() (int, bool) { return 0, false }

func (s *mapSerializer) PayloadLengthField() LengthFieldSize { return s.lengthField }

func (s *mapSerializer) WireType() WireType { return wireTypeForLength(s.lengthField) }
