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
	"strings"
)

const optionalPkgPath = "github.com/openvecu/someip/optional"

// optionalInfo describes an instantiation of optional.Optional[T] discovered
// by reflection.
type optionalInfo struct {
	valueField int
	hasField   int
	valueType  reflect.Type
}

// getOptionalInfo reports whether t is an instantiation of optional.Optional
// and returns its field layout.
func getOptionalInfo(t reflect.Type) (optionalInfo, bool) {
	if t.Kind() != reflect.Struct || t.PkgPath() != optionalPkgPath ||
		!strings.HasPrefix(t.Name(), "Optional[") {
		return optionalInfo{}, false
	}
	value, okV := t.FieldByName("Value")
	has, okH := t.FieldByName("Has")
	if !okV || !okH || has.Type.Kind() != reflect.Bool {
		return optionalInfo{}, false
	}
	return optionalInfo{
		valueField: value.Index[0],
		hasField:   has.Index[0],
		valueType:  value.Type,
	}, true
}

// ============================================================================
// Optional serializer (fixed layouts)
// ============================================================================

// optionalSerializer handles Optional members outside tag/length/value
// payloads. Without tags the receiver cannot tell presence from absence, so
// the wrapped type must occupy the same space either way: a disengaged
// Optional writes a default-constructed value, which restricts the wrapped
// type to static sizes. The tag/length/value layer bypasses this serializer
// and omits disengaged members instead.
type optionalSerializer struct {
	info optionalInfo
	elem Serializer
	size int
}

func (r *resolver) newOptionalSerializer(t reflect.Type, info optionalInfo, conf FieldConfig) (Serializer, error) {
	elem, err := r.serializerFor(info.valueType, conf)
	if err != nil {
		return nil, err
	}
	size, static := elem.StaticSize()
	if !static {
		return nil, fmt.Errorf("someip: optional %v used outside a tag/length/value payload must wrap a static-size type", t)
	}
	return &optionalSerializer{info: info, elem: elem, size: size}, nil
}

func (s *optionalSerializer) WriteData(ctx *WriteContext, value reflect.Value) error {
	if value.Field(s.info.hasField).Bool() {
		return s.elem.WriteData(ctx, value.Field(s.info.valueField))
	}
	// Disengaged: the default-constructed value stands in.
	zero := reflect.New(s.info.valueType).Elem()
	return s.elem.WriteData(ctx, zero)
}

func (s *optionalSerializer) ReadData(ctx *ReadContext, value reflect.Value) error {
	if err := s.elem.ReadData(ctx, value.Field(s.info.valueField)); err != nil {
		return err
	}
	value.Field(s.info.hasField).SetBool(true)
	return nil
}

func (s *optionalSerializer) RequiredSize(reflect.Value) int { return s.size }

func (s *optionalSerializer) MaximumSize() InfSize { return SizeOf(s.size) }

func (s *optionalSerializer) StaticSize() (int, bool) { return s.size, true }

func (s *optionalSerializer) WireType() WireType { return s.elem.WireType() }
