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

	"go.uber.org/zap"
)

// ============================================================================
// Wire types and tags
// ============================================================================

// WireType is the 3-bit payload category carried in a TLV tag. Codes 0-3
// identify primitive widths directly; codes 5-7 announce a length field of
// the given width; code 4 announces a length field whose width comes from the
// data definition instead of the tag.
type WireType uint8

const (
	WireType8  WireType = 0 // 1-byte primitive, no length field
	WireType16 WireType = 1 // 2-byte primitive, no length field
	WireType32 WireType = 2 // 4-byte primitive, no length field
	WireType64 WireType = 3 // 8-byte primitive, no length field

	// WireTypeComplex marks a payload preceded by a length field whose width
	// is statically configured in the data definition.
	WireTypeComplex WireType = 4

	WireTypeLen1 WireType = 5 // payload preceded by a 1-byte length field
	WireTypeLen2 WireType = 6 // payload preceded by a 2-byte length field
	WireTypeLen4 WireType = 7 // payload preceded by a 4-byte length field
)

// maxDataID is the largest representable data identifier: the tag keeps only
// 12 bits for it.
const maxDataID = 0xFFF

func (t WireType) primitive() bool { return t <= WireType64 }

// primitiveWidth is the payload byte count announced by a primitive wire
// type.
func (t WireType) primitiveWidth() int { return 1 << t }

// announcedLengthField returns the length-field width a dynamic wire type
// announces, or ok=false for primitive and statically-configured codes.
func (t WireType) announcedLengthField() (LengthFieldSize, bool) {
	switch t {
	case WireTypeLen1:
		return LengthField8, true
	case WireTypeLen2:
		return LengthField16, true
	case WireTypeLen4:
		return LengthField32, true
	default:
		return LengthFieldNone, false
	}
}

// wireTypeForLength maps a configured length-field width to the dynamic wire
// type announcing it. Width 0 maps to the fixed 4-byte default used whenever
// the model omits the field but the TLV layer still needs one.
func wireTypeForLength(lf LengthFieldSize) WireType {
	switch lf {
	case LengthField8:
		return WireTypeLen1
	case LengthField16:
		return WireTypeLen2
	default:
		return WireTypeLen4
	}
}

// tlvLengthField is the length-field width the TLV layer actually emits for a
// length-delimited payload: the configured width, or the 4-byte default when
// the model specifies none.
func tlvLengthField(lf LengthFieldSize) LengthFieldSize {
	if lf == LengthFieldNone {
		return LengthField32
	}
	return lf
}

// shrunkLengthField picks the narrowest width holding payloadLen, used when
// dynamic length fields are active and the sender may choose the width.
func shrunkLengthField(payloadLen int) LengthFieldSize {
	switch {
	case payloadLen <= LengthField8.maxPayload():
		return LengthField8
	case payloadLen <= LengthField16.maxPayload():
		return LengthField16
	default:
		return LengthField32
	}
}

// writeTag emits the 2-byte tag: wire type in bits 6-4 of the first byte, the
// 12-bit data identifier split across the low nibble and the second byte. Bit
// 7 is reserved and written as zero.
func writeTag(w *Writer, t WireType, dataID uint16) {
	w.WriteUint8(byte(t)<<4 | byte(dataID>>8))
	w.WriteUint8(byte(dataID))
}

func readTag(r *Reader) (WireType, uint16, error) {
	b0, err := r.ReadUint8()
	if err != nil {
		return 0, 0, err
	}
	b1, err := r.ReadUint8()
	if err != nil {
		return 0, 0, err
	}
	return WireType(b0>>4) & 0x7, uint16(b0&0x0F)<<8 | uint16(b1), nil
}

// ============================================================================
// TLV struct info
// ============================================================================

// tlvField is one tagged member of a TLV struct. For Optional members ser
// serializes the wrapped type; the engagement flag decides whether the field
// appears at all.
type tlvField struct {
	name     string
	index    int
	dataID   uint16
	ser      Serializer
	optional bool
	optInfo  optionalInfo
}

type tlvStructInfo struct {
	type_  reflect.Type
	fields []tlvField
	byID   map[uint16]*tlvField
}

// tlvInfoFor builds (and caches) the TLV field table for struct type t. Every
// serialized member must carry a data identifier; members tagged "-" are
// skipped.
func (r *resolver) tlvInfoFor(t reflect.Type) (*tlvStructInfo, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("someip: tag/length/value payloads require a struct type, got %v", t)
	}

	r.tlvMu.RLock()
	info, ok := r.tlvCache[t]
	r.tlvMu.RUnlock()
	if ok {
		return info, nil
	}

	info = &tlvStructInfo{type_: t, byID: make(map[uint16]*tlvField)}
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
		if !tag.hasID {
			return nil, fmt.Errorf("someip: TLV struct %v field %s has no data id tag", t, f.Name)
		}

		field := tlvField{
			name:   f.Name,
			index:  i,
			dataID: tag.dataID,
		}
		if optInfo, ok := getOptionalInfo(f.Type); ok {
			field.optional = true
			field.optInfo = optInfo
			field.ser, err = r.serializerFor(optInfo.valueType, tag.conf)
		} else {
			field.ser, err = r.serializerFor(f.Type, tag.conf)
		}
		if err != nil {
			return nil, fmt.Errorf("someip: TLV struct %v field %s: %w", t, f.Name, err)
		}
		if _, dup := info.byID[field.dataID]; dup {
			return nil, fmt.Errorf("someip: TLV struct %v reuses data id 0x%03X", t, field.dataID)
		}
		info.fields = append(info.fields, field)
	}
	for i := range info.fields {
		info.byID[info.fields[i].dataID] = &info.fields[i]
	}

	r.tlvMu.Lock()
	if cached, ok := r.tlvCache[t]; ok {
		info = cached
	} else {
		r.tlvCache[t] = info
	}
	r.tlvMu.Unlock()
	return info, nil
}

// ============================================================================
// TLV serialization
// ============================================================================

// SerializeTLVField writes one tagged field: the 2-byte tag, then for
// primitive payloads the value directly, otherwise a length field and the
// payload. An Optional value that is disengaged writes nothing at all and
// leaves the cursor untouched.
func (c *Codec) SerializeTLVField(w *Writer, dataID uint16, v any) error {
	if dataID > maxDataID {
		return fmt.Errorf("someip: data id 0x%X exceeds the 12-bit tag range", dataID)
	}
	value := reflect.ValueOf(v)
	if info, ok := getOptionalInfo(value.Type()); ok {
		if !value.Field(info.hasField).Bool() {
			return nil
		}
		ser, err := c.res.serializerFor(info.valueType, FieldConfig{})
		if err != nil {
			return err
		}
		ctx := NewWriteContext(w, c.pack, c.logger)
		return c.writeTaggedValue(ctx, dataID, ser, value.Field(info.valueField))
	}
	ser, err := c.res.serializerFor(value.Type(), FieldConfig{})
	if err != nil {
		return err
	}
	ctx := NewWriteContext(w, c.pack, c.logger)
	return c.writeTaggedValue(ctx, dataID, ser, value)
}

func (c *Codec) writeTaggedValue(ctx *WriteContext, dataID uint16, ser Serializer, value reflect.Value) error {
	wt := ser.WireType()
	if wt.primitive() {
		writeTag(ctx.Writer(), wt, dataID)
		return ser.WriteData(ctx, value)
	}

	ld, ok := ser.(lengthDelimited)
	if !ok {
		return fmt.Errorf("someip: %v cannot carry a tag-scoped length field", value.Type())
	}

	if c.pack.DynamicLengthField {
		// The sender chooses the width; announce it through the wire type and
		// write the length up front since the payload size is already known.
		n := ld.RequiredPayloadSize(value)
		width := shrunkLengthField(n)
		writeTag(ctx.Writer(), wireTypeForLength(width), dataID)
		ctx.Writer().WriteLengthField(width, c.pack.ByteOrder, n)
		before := ctx.Writer().Cursor()
		if err := ld.WritePayload(ctx, value); err != nil {
			return err
		}
		if ctx.Writer().Cursor()-before != n {
			contractViolationf("tagged payload for data id 0x%03X wrote %d bytes, size calculation said %d",
				dataID, ctx.Writer().Cursor()-before, n)
		}
		return nil
	}

	// Static width from the data definition, reserve-then-patch.
	width := tlvLengthField(ld.PayloadLengthField())
	writeTag(ctx.Writer(), WireTypeComplex, dataID)
	sub := ctx.Writer().ConsumeSubStream(int(width))
	before := ctx.Writer().Cursor()
	if err := ld.WritePayload(ctx, value); err != nil {
		return err
	}
	sub.WriteLengthField(width, c.pack.ByteOrder, ctx.Writer().Cursor()-before)
	return nil
}

// SerializeTLV writes every tagged field of struct v into w, in declaration
// order, omitting disengaged Optionals.
func (c *Codec) SerializeTLV(w *Writer, v any) error {
	value := reflect.ValueOf(v)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	info, err := c.res.tlvInfoFor(value.Type())
	if err != nil {
		return err
	}
	ctx := NewWriteContext(w, c.pack, c.logger)
	for i := range info.fields {
		f := &info.fields[i]
		fv := value.Field(f.index)
		if f.optional {
			if !fv.Field(f.optInfo.hasField).Bool() {
				continue
			}
			fv = fv.Field(f.optInfo.valueField)
		}
		if err := c.writeTaggedValue(ctx, f.dataID, f.ser, fv); err != nil {
			return fmt.Errorf("field %s.%s: %w", info.type_, f.name, err)
		}
	}
	return nil
}

// MarshalTLV serializes struct v as a sequence of tagged fields and returns
// the bytes.
func (c *Codec) MarshalTLV(v any) ([]byte, error) {
	w := NewWriterSize(64)
	if err := c.SerializeTLV(w, v); err != nil {
		return nil, err
	}
	out := make([]byte, w.Cursor())
	copy(out, w.Bytes())
	return out, nil
}

// ============================================================================
// TLV deserialization
// ============================================================================

// DeserializeTLV reads tagged fields from r into struct v until the reader is
// exhausted. Fields absent from the wire keep their current value (a
// disengaged Optional stays disengaged). Unknown data identifiers are skipped
// when the wire type announces the payload extent; an unknown field under a
// statically-configured length field cannot be skipped and is an error.
func (c *Codec) DeserializeTLV(r *Reader, v any) error {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return fmt.Errorf("someip: TLV deserialization needs a non-nil struct pointer, got %T", v)
	}
	value = value.Elem()
	info, err := c.res.tlvInfoFor(value.Type())
	if err != nil {
		return err
	}

	ctx := NewReadContext(r, c.pack, c.logger)
	for r.Remaining() > 0 {
		wt, dataID, err := readTag(r)
		if err != nil {
			return err
		}
		f, known := info.byID[dataID]
		if !known {
			if err := c.skipUnknownField(ctx, wt, dataID); err != nil {
				return err
			}
			continue
		}
		fv := value.Field(f.index)
		if f.optional {
			fv.Field(f.optInfo.hasField).SetBool(true)
			fv = fv.Field(f.optInfo.valueField)
		}
		if err := c.readTaggedValue(ctx, wt, f, fv); err != nil {
			return fmt.Errorf("field %s.%s: %w", info.type_, f.name, err)
		}
	}
	return nil
}

// UnmarshalTLV decodes a tagged-field byte sequence into struct v.
func (c *Codec) UnmarshalTLV(data []byte, v any) error {
	return c.DeserializeTLV(NewReader(data), v)
}

func (c *Codec) readTaggedValue(ctx *ReadContext, wt WireType, f *tlvField, fv reflect.Value) error {
	if wt.primitive() {
		if want := f.ser.WireType(); want != wt {
			return fmt.Errorf("wire type %d does not match the declared type (want %d)", wt, want)
		}
		return f.ser.ReadData(ctx, fv)
	}

	ld, ok := f.ser.(lengthDelimited)
	if !ok {
		return fmt.Errorf("wire type %d announces a length field but the declared type is primitive", wt)
	}
	width, ok := wt.announcedLengthField()
	if !ok {
		width = tlvLengthField(ld.PayloadLengthField())
	}
	n, _, err := ctx.Reader().ReadLengthField(width, c.pack.ByteOrder)
	if err != nil {
		return err
	}
	sub, err := ctx.Reader().Sub(n)
	if err != nil {
		return err
	}
	return ld.ReadPayload(ctx.sub(sub), fv)
}

func (c *Codec) skipUnknownField(ctx *ReadContext, wt WireType, dataID uint16) error {
	r := ctx.Reader()
	if wt.primitive() {
		return r.Skip(wt.primitiveWidth())
	}
	width, ok := wt.announcedLengthField()
	if !ok {
		return fmt.Errorf("someip: cannot skip unknown data id 0x%03X: wire type %d takes its length-field width from the data definition", dataID, wt)
	}
	n, _, err := r.ReadLengthField(width, c.pack.ByteOrder)
	if err != nil {
		return err
	}
	c.logger.Debug("skipping unknown tagged field",
		zap.Uint16("dataID", dataID), zap.Int("bytes", n))
	return r.Skip(n)
}
