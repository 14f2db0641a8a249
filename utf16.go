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

// UTF-8 to UTF-16 transcoder. The UTF-8 input is assumed to have been
// validated upstream, so malformed sequences and code points beyond U+10FFFF
// are decode contract violations, not recoverable runtime conditions.

const (
	surrogateBase  = 0x10000
	surrogateHigh  = 0xD800
	surrogateLow   = 0xDC00
	maxCodePoint   = 0x10FFFF
	byteOrderMark  = 0xFEFF
	continuationOK = 0x80 // 10xxxxxx
)

// decodeCodePoint decodes a single code point starting at s[i], returning the
// code point and the number of input bytes consumed. The sequence length is
// derived from the leading byte's top bits: 0xF0 pattern means four bytes,
// 0xE0 three, any other multi-byte lead two.
func decodeCodePoint(s string, i int) (cp uint32, size int) {
	b := s[i]
	if b <= 0x7F {
		return uint32(b), 1
	}
	if b&0xC0 != 0xC0 {
		contractViolationf("malformed UTF-8: continuation byte 0x%02X as sequence lead at offset %d", b, i)
	}
	switch {
	case b&0xF0 == 0xF0:
		size = 4
		cp = uint32(b & 0x07)
	case b&0xE0 == 0xE0:
		size = 3
		cp = uint32(b & 0x0F)
	default:
		size = 2
		cp = uint32(b & 0x1F)
	}
	if i+size > len(s) {
		contractViolationf("malformed UTF-8: truncated %d-byte sequence at offset %d", size, i)
	}
	for j := 1; j < size; j++ {
		c := s[i+j]
		if c&0xC0 != continuationOK {
			contractViolationf("malformed UTF-8: invalid continuation byte 0x%02X at offset %d", c, i+j)
		}
		cp = cp<<6 | uint32(c&0x3F)
	}
	if cp > maxCodePoint {
		contractViolationf("code point U+%X is not representable in UTF-16", cp)
	}
	return cp, size
}

// utf16Length returns the number of UTF-16 code units the input transcodes
// to, without allocating. Astral code points count as a surrogate pair.
func utf16Length(s string) int {
	units := 0
	for i := 0; i < len(s); {
		cp, size := decodeCodePoint(s, i)
		i += size
		if cp >= surrogateBase {
			units += 2
		} else {
			units++
		}
	}
	return units
}

// writeUTF16 transcodes s and writes each 16-bit code unit in the given byte
// order.
func writeUTF16(w *Writer, s string, order ByteOrder) {
	for i := 0; i < len(s); {
		cp, size := decodeCodePoint(s, i)
		i += size
		if cp < surrogateBase {
			w.WriteUint16(uint16(cp), order)
			continue
		}
		cp -= surrogateBase
		w.WriteUint16(uint16(surrogateHigh|cp>>10), order)
		w.WriteUint16(uint16(surrogateLow|cp&0x3FF), order)
	}
}
