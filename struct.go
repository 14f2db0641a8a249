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
	"strconv"
	"strings"
)

// ============================================================================
// Field tags
// ============================================================================

// fieldTag is the parsed `someip:"..."` struct tag. The tag is the Go stand-in
// for the model's per-member transformation properties: length-field width,
// byte order, vector bounds, and the TLV data identifier.
//
//	type Door struct {
//		Position uint8             `someip:"id=0x01"`
//		Label    string            `someip:"id=0x02,len=2"`
//		Readings []uint16          `someip:"max=16,order=le"`
//		Ignored  int               `someip:"-"`
//	}
type fieldTag struct {
	skip   bool
	conf   FieldConfig
	dataID uint16
	hasID  bool
}

func parseFieldTag(tag string) (fieldTag, error) {
	var out fieldTag
	if tag == "-" {
		out.skip = true
		return out, nil
	}
	if tag == "" {
		return out, nil
	}
	for _, part := range strings.Split(tag, ",") {
		key, val, hasVal := strings.Cut(part, "=")
		switch key {
		case "id":
			if !hasVal {
				return out, fmt.Errorf("someip: tag entry %q needs a value", part)
			}
			id, err := strconv.ParseUint(val, 0, 16)
			if err != nil || id > maxDataID {
				return out, fmt.Errorf("someip: data id %q is not a 12-bit identifier", val)
			}
			out.dataID = uint16(id)
			out.hasID = true
		case "len":
			if !hasVal {
				return out, fmt.Errorf("someip: tag entry %q needs a value", part)
			}
			n, err := strconv.Atoi(val)
			if err != nil || !LengthFieldSize(n).valid() {
				return out, fmt.Errorf("someip: length field width %q must be 0, 1, 2 or 4", val)
			}
			out.conf.LengthField = LengthFieldSize(n)
			out.conf.HasLengthField = true
		case "order":
			switch val {
			case "be":
				out.conf.Order = BigEndian
			case "le":
				out.conf.Order = LittleEndian
			default:
				return out, fmt.Errorf("someip: byte order %q must be \"be\" or \"le\"", val)
			}
			out.conf.HasOrder = true
		case "max":
			if !hasVal {
				return out, fmt.Errorf("someip: tag entry %q needs a value", part)
			}
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return out, fmt.Errorf("someip: max element count %q must be a positive integer", val)
			}
			out.conf.MaxElements = n
		default:
			return out, fmt.Errorf("someip: unknown tag entry %q", part)
		}
	}
	return out, nil
}

// ============================================================================
// Struct serializer
// ============================================================================

// structField is one serializable member with its resolved serializer.
type structField struct {
	name  string
	index int
	ser   Serializer
}

// structSerializer writes members in declaration order, each under its own
// member configuration, optionally wrapped in a struct length field.
type structSerializer struct {
	type_       reflect.Type
	fields      []structField
	lengthField LengthFieldSize
	order       ByteOrder
}

func (r *resolver) newStructSerializer(t reflect.Type, conf FieldConfig) (Serializer, error) {
	s := &structSerializer{
		type_:       t,
		lengthField: conf.lengthField(r.pack.StructLengthField),
		order:       conf.byteOrder(r.pack),
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, err := parseFieldTag(f.Tag.Get("someip"))
		if err != nil {
			return nil, fmt.Errorf("%w (field %s.%s)", err, t, f.Name)
		}
		if tag.skip {
			continue
		}
		ser, err := r.serializerFor(f.Type, tag.conf)
		if err != nil {
			return nil, fmt.Errorf("someip: struct %v field %s: %w", t, f.Name, err)
		}
		s.fields = append(s.fields, structField{name: f.Name, index: i, ser: ser})
	}
	return s, nil
}

func (s *structSerializer) WriteData(ctx *WriteContext, value reflect.Value) error {
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

func (s *structSerializer) WritePayload(ctx *WriteContext, value reflect.Value) error {
	for _, f := range s.fields {
		if err := f.ser.WriteData(ctx, value.Field(f.index)); err != nil {
			return fmt.Errorf("field %s.%s: %w", s.type_, f.name, err)
		}
	}
	return nil
}

func (s *structSerializer) ReadData(ctx *ReadContext, value reflect.Value) error {
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

func (s *structSerializer) ReadPayload(ctx *ReadContext, value reflect.Value) error {
	for _, f := range s.fields {
		if err := f.ser.ReadData(ctx, value.Field(f.index)); err != nil {
			return fmt.Errorf("field %s.%s: %w", s.type_, f.name, err)
		}
	}
	return nil
}

func (s *structSerializer) RequiredSize(value reflect.Value) int {
	return int(s.lengthField) + s.RequiredPayloadSize(value)
}

func (s *structSerializer) RequiredPayloadSize(value reflect.Value) int {
	total := 0
	for _, f := range s.fields {
		total += f.ser.RequiredSize(value.Field(f.index))
	}
	return total
}

func (s *structSerializer) MaximumSize() InfSize {
	total := SizeOf(int(s.lengthField))
	for _, f := range s.fields {
		total = total.Add(f.ser.MaximumSize())
	}
	return total
}

// StaticSize: static iff the length field is omitted and every member is
// static under its own configuration.
func (s *structSerializer) StaticSize() (int, bool) {
	if s.lengthField != LengthFieldNone {
		return 0, false
	}
	total := 0
	for _, f := range s.fields {
		size, static := f.ser.StaticSize()
		if !static {
			return 0, false
		}
		total += size
	}
	return total, true
}

func (s *structSerializer) PayloadLengthField() LengthFieldSize { return s.lengthField }

func (s *structSerializer) WireType() WireType { return wireTypeForLength(s.lengthField) }
