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
	"errors"
	"fmt"
)

// ErrTruncated indicates the input ended before a complete value was read.
var ErrTruncated = errors.New("someip: truncated input")

// Reader walks a received byte sequence. Unlike the write side, malformed
// input here is runtime data from the peer, not a codegen defect, so every
// read returns an ordinary error instead of aborting.
type Reader struct {
	data        []byte
	readerIndex int
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Cursor returns the number of bytes consumed so far.
func (r *Reader) Cursor() int { return r.readerIndex }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.readerIndex }

// take consumes n bytes.
func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, r.Remaining())
	}
	p := r.data[r.readerIndex : r.readerIndex+n]
	r.readerIndex += n
	return p, nil
}

// Sub consumes n bytes and returns a Reader over exactly that region, the
// decode-side counterpart of Writer.ConsumeSubStream for length-delimited
// payloads.
func (r *Reader) Sub(n int) (*Reader, error) {
	p, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return &Reader{data: p}, nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	p, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// ReadBool reads one byte as a bool. Any non-zero value is true.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadUint8()
	return b != 0, err
}

// ReadUint16 reads two bytes in the given byte order.
func (r *Reader) ReadUint16(order ByteOrder) (uint16, error) {
	p, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return order.order().Uint16(p), nil
}

// ReadUint32 reads four bytes in the given byte order.
func (r *Reader) ReadUint32(order ByteOrder) (uint32, error) {
	p, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return order.order().Uint32(p), nil
}

// ReadUint64 reads eight bytes in the given byte order.
func (r *Reader) ReadUint64(order ByteOrder) (uint64, error) {
	p, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return order.order().Uint64(p), nil
}

// ReadBytes consumes n raw bytes. The returned slice aliases the input.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.take(n)
}

// ReadUnsigned reads a value of `width` bytes (1, 2, 4 or 8) in the given
// byte order.
func (r *Reader) ReadUnsigned(width int, order ByteOrder) (uint64, error) {
	switch width {
	case 1:
		v, err := r.ReadUint8()
		return uint64(v), err
	case 2:
		v, err := r.ReadUint16(order)
		return uint64(v), err
	case 4:
		v, err := r.ReadUint32(order)
		return uint64(v), err
	case 8:
		return r.ReadUint64(order)
	default:
		return 0, fmt.Errorf("someip: unsupported primitive width %d", width)
	}
}

// ReadLengthField reads a payload byte count in the field's declared width.
// A zero width reads nothing and reports ok=false.
func (r *Reader) ReadLengthField(width LengthFieldSize, order ByteOrder) (n int, ok bool, err error) {
	if width == LengthFieldNone {
		return 0, false, nil
	}
	v, err := r.ReadUnsigned(int(width), order)
	if err != nil {
		return 0, false, err
	}
	if v > uint64(r.Remaining()) {
		return 0, false, fmt.Errorf("%w: length field %d exceeds %d remaining bytes",
			ErrTruncated, v, r.Remaining())
	}
	return int(v), true, nil
}
