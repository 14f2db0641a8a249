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

// ============================================================================
// Variant value types
// ============================================================================

// Variant2 holds at most one of two alternatives. Selector is the wire value:
// the one-based alternative index, with zero meaning no valid alternative
// ("valueless"). Even a variant with a single populated alternative has no
// static size, because the valueless state is always possible.
type Variant2[A, B any] struct {
	Selector uint8
	A        A
	B        B
}

// V2First returns a Variant2 holding the first alternative.
func V2First[A, B any](v A) Variant2[A, B] { return Variant2[A, B]{Selector: 1, A: v} }

// V2Second returns a Variant2 holding the second alternative.
func V2Second[A, B any](v B) Variant2[A, B] { return Variant2[A, B]{Selector: 2, B: v} }

// First returns the first alternative and whether it is the one held.
func (v Variant2[A, B]) First() (A, bool) { return v.A, v.Selector == 1 }

// Second returns the second alternative and whether it is the one held.
func (v Variant2[A, B]) Second() (B, bool) { return v.B, v.Selector == 2 }

// IsEmpty reports whether the variant is valueless.
func (v Variant2[A, B]) IsEmpty() bool { return v.Selector == 0 }

// Variant3 holds at most one of three alternatives. See Variant2.
type Variant3[A, B, C any] struct {
	Selector uint8
	A        A
	B        B
	C        C
}

// V3First returns a Variant3 holding the first alternative.
func V3First[A, B, C any](v A) Variant3[A, B, C] { return Variant3[A, B, C]{Selector: 1, A: v} }

// V3Second returns a Variant3 holding the second alternative.
func V3Second[A, B, C any](v B) Variant3[A, B, C] { return Variant3[A, B, C]{Selector: 2, B: v} }

// V3Third returns a Variant3 holding the third alternative.
func V3Third[A, B, C any](v C) Variant3[A, B, C] { return Variant3[A, B, C]{Selector: 3, C: v} }

// First returns the first alternative and whether it is the one held.
func (v Variant3[A, B, C]) First() (A, bool) { return v.A, v.Selector == 1 }

// Second returns the second alternative and whether it is the one held.
func (v Variant3[A, B, C]) Second() (B, bool) { return v.B, v.Selector == 2 }

// Third returns the third alternative and whether it is the one held.
func (v Variant3[A, B, C]) Third() (C, bool) { return v.C, v.Selector == 3 }

// IsEmpty reports whether the variant is valueless.
func (v Variant3[A, B, C]) IsEmpty() bool { return v.Selector == 0 }

// ============================================================================
// Variant detection
// ============================================================================

const someipPkgPath = "github.com/openvecu/someip"

var variantAltFields = [...]string{"A", "B", "C"}

// variantInfo describes a Variant2/Variant3 instantiation for fast access.
type variantInfo struct {
	selectorIndex int
	altIndices    []int
	altTypes      []reflect.Type
}

func getVariantInfo(t reflect.Type) (variantInfo, bool) {
	if t.Kind() != reflect.Struct || t.PkgPath() != someipPkgPath {
		return variantInfo{}, false
	}
	name := t.Name()
	var alts int
	switch {
	case strings.HasPrefix(name, "Variant2["):
		alts = 2
	case strings.HasPrefix(name, "Variant3["):
		alts = 3
	default:
		return variantInfo{}, false
	}
	sel, ok := t.FieldByName("Selector")
	if !ok || sel.Type.Kind() != reflect.Uint8 {
		return variantInfo{}, false
	}
	info := variantInfo{selectorIndex: sel.Index[0]}
	for i := 0; i < alts; i++ {
		f, ok := t.FieldByName(variantAltFields[i])
		if !ok {
			return variantInfo{}, false
		}
		info.altIndices = append(info.altIndices, f.Index[0])
		info.altTypes = append(info.altTypes, f.Type)
	}
	return info, true
}

// ============================================================================
// Variant serializer
// ============================================================================

// variantSerializer writes the type-selector field (one-based alternative
// index, zero reserved for valueless), a length field covering the payload,
// then the held alternative. The alternative is found by a linear
// index-matching unwind; a selector beyond the declared alternatives is a
// generated-code/runtime type mismatch and aborts.
type variantSerializer struct {
	info          variantInfo
	alts          []Serializer
	selectorWidth LengthFieldSize
	lengthField   LengthFieldSize
	order         ByteOrder
}

func (r *resolver) newVariantSerializer(t reflect.Type, info variantInfo, conf FieldConfig) (Serializer, error) {
	s := &variantSerializer{
		info:          info,
		selectorWidth: r.pack.UnionTypeSelector,
		lengthField:   conf.lengthField(r.pack.UnionLengthField),
		order:         conf.byteOrder(r.pack),
	}
	if s.selectorWidth == LengthFieldNone {
		return nil, fmt.Errorf("someip: variant %v requires a type selector field", t)
	}
	altConf := FieldConfig{Order: conf.Order, HasOrder: conf.HasOrder}
	for i, altType := range info.altTypes {
		alt, err := r.serializerFor(altType, altConf)
		if err != nil {
			return nil, fmt.Errorf("someip: variant %v alternative %d: %w", t, i, err)
		}
		s.alts = append(s.alts, alt)
	}
	return s, nil
}

func (s *variantSerializer) selector(value reflect.Value) int {
	sel := int(value.Field(s.info.selectorIndex).Uint())
	if sel > len(s.alts) {
		contractViolationf("variant type selector %d does not match any of %d alternatives",
			sel, len(s.alts))
	}
	return sel
}

// heldAlternative resolves the selector to (serializer, field value) by
// walking the alternatives in order. The caller has already rejected
// selectors beyond the declared set, so the walk always terminates on a
// match for sel > 0.
func (s *variantSerializer) heldAlternative(value reflect.Value, sel int) (Serializer, reflect.Value) {
	for i := range s.alts {
		if sel == i+1 {
			return s.alts[i], value.Field(s.info.altIndices[i])
		}
	}
	contractViolationf("variant type selector %d unwound past every alternative", sel)
	return nil, reflect.Value{}
}

func (s *variantSerializer) WriteData(ctx *WriteContext, value reflect.Value) error {
	sel := s.selector(value)
	ctx.Writer().WriteUnsigned(uint64(sel), int(s.selectorWidth), s.order)

	sub := ctx.Writer().ConsumeSubStream(int(s.lengthField))
	before := ctx.Writer().Cursor()
	if sel > 0 {
		alt, held := s.heldAlternative(value, sel)
		if err := alt.WriteData(ctx, held); err != nil {
			return err
		}
	}
	sub.WriteLengthField(s.lengthField, s.order, ctx.Writer().Cursor()-before)
	return nil
}

// WritePayload writes the TLV form: selector then alternative, without the
// union's own length field (the TLV tag's length field takes its place).
func (s *variantSerializer) WritePayload(ctx *WriteContext, value reflect.Value) error {
	sel := s.selector(value)
	ctx.Writer().WriteUnsigned(uint64(sel), int(s.selectorWidth), s.order)
	if sel == 0 {
		return nil
	}
	alt, held := s.heldAlternative(value, sel)
	return alt.WriteData(ctx, held)
}

func (s *variantSerializer) ReadData(ctx *ReadContext, value reflect.Value) error {
	sel, err := ctx.Reader().ReadUnsigned(int(s.selectorWidth), s.order)
	if err != nil {
		return err
	}
	n, ok, err := ctx.Reader().ReadLengthField(s.lengthField, s.order)
	if err != nil {
		return err
	}
	if !ok {
		// No length field configured: the alternative is read in place.
		return s.readAlternative(ctx, value, sel)
	}
	sub, err := ctx.Reader().Sub(n)
	if err != nil {
		return err
	}
	return s.readAlternative(ctx.sub(sub), value, sel)
}

// ReadPayload decodes the TLV form: selector then alternative.
func (s *variantSerializer) ReadPayload(ctx *ReadContext, value reflect.Value) error {
	sel, err := ctx.Reader().ReadUnsigned(int(s.selectorWidth), s.order)
	if err != nil {
		return err
	}
	return s.readAlternative(ctx, value, sel)
}

func (s *variantSerializer) readAlternative(ctx *ReadContext, value reflect.Value, sel uint64) error {
	value.SetZero()
	if sel == 0 {
		return nil
	}
	if sel > uint64(len(s.alts)) {
		return fmt.Errorf("someip: variant type selector %d does not match any of %d alternatives",
			sel, len(s.alts))
	}
	i := int(sel) - 1
	if err := s.alts[i].ReadData(ctx, value.Field(s.info.altIndices[i])); err != nil {
		return err
	}
	value.Field(s.info.selectorIndex).SetUint(sel)
	return nil
}

func (s *variantSerializer) RequiredSize(value reflect.Value) int {
	return int(s.selectorWidth) + int(s.lengthField) + s.heldSize(value)
}

// RequiredPayloadSize covers the TLV form: selector plus alternative.
func (s *variantSerializer) RequiredPayloadSize(value reflect.Value) int {
	return int(s.selectorWidth) + s.heldSize(value)
}

func (s *variantSerializer) heldSize(value reflect.Value) int {
	sel := s.selector(value)
	if sel == 0 {
		return 0
	}
	alt, held := s.heldAlternative(value, sel)
	return alt.RequiredSize(held)
}

// MaximumSize is the maximum across all alternatives, not their sum: only one
// alternative is ever present at a time.
func (s *variantSerializer) MaximumSize() InfSize {
	max := SizeOf(0)
	for _, alt := range s.alts {
		max = max.Max(alt.MaximumSize())
	}
	return max.AddBytes(int(s.selectorWidth) + int(s.lengthField))
}

// StaticSize: variants are never static; the valueless state rules out a
// content-independent size even with a single alternative.
func (s *variantSerializer) StaticSize() (int, bool) { return 0, false }

func (s *variantSerializer) PayloadLengthField() LengthFieldSize { return s.lengthField }

func (s *variantSerializer) WireType() WireType { return wireTypeForLength(s.lengthField) }
