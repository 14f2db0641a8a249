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

import "reflect"

// ApApplicationError is the adaptive-platform application error wire struct:
// an 8-byte error domain value, a 4-byte error code, 4 bytes of support data,
// and a user message. For wire compatibility with the current protocol
// version the user message is always serialized as an empty string, whatever
// the in-memory value holds; deserialization accordingly always yields "".
type ApApplicationError struct {
	Domain      uint64
	Code        uint32
	SupportData uint32
	UserMessage string
}

var apApplicationErrorType = reflect.TypeOf(ApApplicationError{})

type appErrorSerializer struct {
	order ByteOrder
	str   stringSerializer
}

func newAppErrorSerializer(pack TpPack) Serializer {
	return &appErrorSerializer{
		order: pack.ByteOrder,
		str:   newStringSerializer(pack, FieldConfig{}),
	}
}

var emptyString = reflect.ValueOf("")

func (s *appErrorSerializer) WriteData(ctx *WriteContext, value reflect.Value) error {
	w := ctx.Writer()
	w.WriteUint64(value.Field(0).Uint(), s.order)
	w.WriteUint32(uint32(value.Field(1).Uint()), s.order)
	w.WriteUint32(uint32(value.Field(2).Uint()), s.order)
	return s.str.WriteData(ctx, emptyString)
}

func (s *appErrorSerializer) ReadData(ctx *ReadContext, value reflect.Value) error {
	r := ctx.Reader()
	domain, err := r.ReadUint64(s.order)
	if err != nil {
		return err
	}
	code, err := r.ReadUint32(s.order)
	if err != nil {
		return err
	}
	support, err := r.ReadUint32(s.order)
	if err != nil {
		return err
	}
	value.Field(0).SetUint(domain)
	value.Field(1).SetUint(uint64(code))
	value.Field(2).SetUint(uint64(support))
	return s.str.ReadData(ctx, value.Field(3))
}

func (s *appErrorSerializer) RequiredSize(reflect.Value) int {
	return 16 + s.str.RequiredSize(emptyString)
}

// MaximumSize is finite despite the string member: the message is pinned to
// empty on the wire.
func (s *appErrorSerializer) MaximumSize() InfSize {
	return SizeOf(s.RequiredSize(reflect.Value{}))
}

func (s *appErrorSerializer) StaticSize() (int, bool) {
	return s.RequiredSize(reflect.Value{}), true
}

// The error struct carries no length field of its own; a tag-scoped one is
// supplied by the TLV layer when the struct is used as a tagged member.
func (s *appErrorSerializer) WritePayload(ctx *WriteContext, value reflect.Value) error {
	return s.WriteData(ctx, value)
}

func (s *appErrorSerializer) ReadPayload(ctx *ReadContext, value reflect.Value) error {
	return s.ReadData(ctx, value)
}

func (s *appErrorSerializer) RequiredPayloadSize(value reflect.Value) int {
	return s.RequiredSize(value)
}

func (s *appErrorSerializer) PayloadLengthField() LengthFieldSize { return LengthFieldNone }

func (s *appErrorSerializer) WireType() WireType {
	return wireTypeForLength(LengthFieldNone)
}
