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
	"unicode/utf16"
	"unsafe"
)

// utf8BOM is the fixed UTF-8 byte-order mark.
var utf8BOM = [3]byte{0xEF, 0xBB, 0xBF}

// unsafeGetBytes returns the string's bytes without copying. The result must
// not be mutated.
func unsafeGetBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// stringSerializer writes a string as length field, optional byte-order mark,
// content (raw UTF-8 bytes or transcoded UTF-16 code units), and optional
// null terminator. The length field covers everything after it.
type stringSerializer struct {
	lengthField LengthFieldSize
	order       ByteOrder
	encoding    StringEncoding
	bom         bool
	nullTerm    bool
}

func newStringSerializer(pack TpPack, conf FieldConfig) stringSerializer {
	return stringSerializer{
		lengthField: conf.lengthField(pack.StringLengthField),
		order:       conf.byteOrder(pack),
		encoding:    pack.StringEncoding,
		bom:         pack.StringBOM,
		nullTerm:    pack.StringNullTerminated,
	}
}

// charWidth is the serialized size of one code unit.
func (s stringSerializer) charWidth() int {
	if s.encoding == UTF16 {
		return 2
	}
	return 1
}

// bomSize is 3 bytes for the UTF-8 mark, 2 for UTF-16, 0 when inactive.
func (s stringSerializer) bomSize() int {
	if !s.bom {
		return 0
	}
	if s.encoding == UTF16 {
		return 2
	}
	return 3
}

func (s stringSerializer) terminatorSize() int {
	if !s.nullTerm {
		return 0
	}
	return s.charWidth()
}

// contentSize is the serialized content length. In UTF-16 mode this counts
// output code units after transcoding, not input bytes.
func (s stringSerializer) contentSize(str string) int {
	if s.encoding == UTF16 {
		return 2 * utf16Length(str)
	}
	return len(str)
}

func (s stringSerializer) WriteData(ctx *WriteContext, value reflect.Value) error {
	sub := ctx.Writer().ConsumeSubStream(int(s.lengthField))
	before := ctx.Writer().Cursor()
	if err := s.WritePayload(ctx, value); err != nil {
		return err
	}
	sub.WriteLengthField(s.lengthField, s.order, ctx.Writer().Cursor()-before)
	return nil
}

func (s stringSerializer) WritePayload(ctx *WriteContext, value reflect.Value) error {
	w := ctx.Writer()
	str := value.String()
	if s.bom {
		if s.encoding == UTF16 {
			w.WriteUint16(byteOrderMark, s.order)
		} else {
			w.WriteBytes(utf8BOM[:])
		}
	}
	if s.encoding == UTF16 {
		writeUTF16(w, str, s.order)
	} else {
		w.WriteBytes(unsafeGetBytes(str))
	}
	if s.nullTerm {
		if s.encoding == UTF16 {
			w.WriteUint16(0, s.order)
		} else {
			w.WriteUint8(0)
		}
	}
	return nil
}

func (s stringSerializer) ReadData(ctx *ReadContext, value reflect.Value) error {
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

func (s stringSerializer) ReadPayload(ctx *ReadContext, value reflect.Value) error {
	r := ctx.Reader()
	if s.bom {
		if s.encoding == UTF16 {
			mark, err := r.ReadUint16(s.order)
			if err != nil {
				return err
			}
			if mark != byteOrderMark {
				return fmt.Errorf("someip: bad UTF-16 byte order mark 0x%04X", mark)
			}
		} else {
			mark, err := r.ReadBytes(3)
			if err != nil {
				return err
			}
			if [3]byte(mark) != utf8BOM {
				return fmt.Errorf("someip: bad UTF-8 byte order mark % X", mark)
			}
		}
	}
	contentLen := r.Remaining() - s.terminatorSize()
	if contentLen < 0 {
		return fmt.Errorf("%w: string payload shorter than its terminator", ErrTruncated)
	}
	if s.encoding == UTF16 {
		if contentLen%2 != 0 {
			return fmt.Errorf("someip: odd UTF-16 content length %d", contentLen)
		}
		raw, err := r.ReadBytes(contentLen)
		if err != nil {
			return err
		}
		units := make([]uint16, contentLen/2)
		for i := range units {
			units[i] = s.order.order().Uint16(raw[2*i:])
		}
		value.SetString(string(utf16.Decode(units)))
	} else {
		raw, err := r.ReadBytes(contentLen)
		if err != nil {
			return err
		}
		value.SetString(string(raw))
	}
	if s.nullTerm {
		term, err := r.ReadBytes(s.terminatorSize())
		if err != nil {
			return err
		}
		for _, b := range term {
			if b != 0 {
				return fmt.Errorf("someip: string terminator is not null: % X", term)
			}
		}
	}
	return nil
}

func (s stringSerializer) RequiredSize(value reflect.Value) int {
	return int(s.lengthField) + s.RequiredPayloadSize(value)
}

func (s stringSerializer) RequiredPayloadSize(value reflect.Value) int {
	return s.bomSize() + s.contentSize(value.String()) + s.terminatorSize()
}

// MaximumSize is always Infinite: string content is unbounded.
func (s stringSerializer) MaximumSize() InfSize { return Infinite }

func (s stringSerializer) StaticSize() (int, bool) { return 0, false }

func (s stringSerializer) PayloadLengthField() LengthFieldSize { return s.lengthField }

func (s stringSerializer) WireType() WireType { return wireTypeForLength(s.lengthField) }
