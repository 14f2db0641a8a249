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

// Writer owns a growable byte buffer and a write cursor. The root writer
// grows on demand; the size calculator is expected to pre-size the buffer, so
// growth in the middle of a message indicates a calculator/serializer
// divergence (checked by Codec.Marshal, not here).
//
// ConsumeSubStream carves a fixed-width region out of the stream before its
// contents are known, which is how length fields are reserved and patched
// after their payload has been written.
type Writer struct {
	data        []byte
	writerIndex int

	// Sub-stream view: writes land in root.data at base+writerIndex and are
	// bounds-checked against size. Going through root keeps the view valid
	// across root reallocations.
	root *Writer
	base int
	size int
}

// NewWriter returns a Writer over data. A nil data starts an empty buffer.
// Passing a pre-sized zero-length slice (make([]byte, 0, n)) avoids
// reallocation during serialization.
func NewWriter(data []byte) *Writer {
	return &Writer{data: data[:0:cap(data)]}
}

// NewWriterSize returns an empty Writer with the given capacity.
func NewWriterSize(n int) *Writer {
	return &Writer{data: make([]byte, 0, n)}
}

// Cursor returns the number of bytes written so far.
func (w *Writer) Cursor() int { return w.writerIndex }

// Bytes returns the written region of the buffer. The slice aliases the
// writer's storage and is invalidated by further writes. Sub-streams return
// their full reserved region.
func (w *Writer) Bytes() []byte {
	if w.root != nil {
		return w.root.data[w.base : w.base+w.size]
	}
	return w.data[:w.writerIndex]
}

// Reset rewinds the cursor, keeping the allocated storage.
func (w *Writer) Reset() {
	w.writerIndex = 0
}

// grow extends the buffer length by n bytes at the cursor.
func (w *Writer) grow(n int) {
	need := w.writerIndex + n
	if need <= cap(w.data) {
		w.data = w.data[:need]
		return
	}
	newCap := 2 * cap(w.data)
	if newCap < need {
		newCap = need
	}
	if newCap < 64 {
		newCap = 64
	}
	data := make([]byte, need, newCap)
	copy(data, w.data)
	w.data = data
}

// put appends p at the cursor.
func (w *Writer) put(p []byte) {
	if w.root != nil {
		if w.writerIndex+len(p) > w.size {
			contractViolationf("write of %d bytes overflows %d-byte sub-stream at offset %d",
				len(p), w.size, w.writerIndex)
		}
		copy(w.root.data[w.base+w.writerIndex:], p)
		w.writerIndex += len(p)
		return
	}
	w.grow(len(p))
	copy(w.data[w.writerIndex:], p)
	w.writerIndex += len(p)
}

// ConsumeSubStream carves out n bytes at the cursor and returns a nested
// Writer over exactly that region, advancing this writer's cursor past it.
// The region is zeroed so an unpatched reservation stays deterministic.
func (w *Writer) ConsumeSubStream(n int) *Writer {
	root := w
	base := w.writerIndex
	if w.root != nil {
		if w.writerIndex+n > w.size {
			contractViolationf("sub-stream of %d bytes overflows %d-byte sub-stream at offset %d",
				n, w.size, w.writerIndex)
		}
		root = w.root
		base = w.base + w.writerIndex
		w.writerIndex += n
	} else {
		w.grow(n)
		w.writerIndex += n
	}
	region := root.data[base : base+n]
	for i := range region {
		region[i] = 0
	}
	return &Writer{root: root, base: base, size: n}
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.put([]byte{v})
}

// WriteBool writes exactly one byte, 0 or 1, regardless of the host's bool
// representation.
func (w *Writer) WriteBool(v bool) {
	w.WriteUint8(boolByte(v))
}

// WriteUint16 writes v in the given byte order.
func (w *Writer) WriteUint16(v uint16, order ByteOrder) {
	var b [2]byte
	order.order().PutUint16(b[:], v)
	w.put(b[:])
}

// WriteUint32 writes v in the given byte order.
func (w *Writer) WriteUint32(v uint32, order ByteOrder) {
	var b [4]byte
	order.order().PutUint32(b[:], v)
	w.put(b[:])
}

// WriteUint64 writes v in the given byte order.
func (w *Writer) WriteUint64(v uint64, order ByteOrder) {
	var b [8]byte
	order.order().PutUint64(b[:], v)
	w.put(b[:])
}

// WriteBytes bulk-writes a raw span.
func (w *Writer) WriteBytes(p []byte) {
	w.put(p)
}

// WriteUnsigned writes the low `width` bytes of v in the given byte order.
// Width must be 1, 2, 4 or 8.
func (w *Writer) WriteUnsigned(v uint64, width int, order ByteOrder) {
	switch width {
	case 1:
		w.WriteUint8(uint8(v))
	case 2:
		w.WriteUint16(uint16(v), order)
	case 4:
		w.WriteUint32(uint32(v), order)
	case 8:
		w.WriteUint64(v, order)
	default:
		contractViolationf("unsupported primitive width %d", width)
	}
}

// WriteLengthField writes a payload byte count in the field's declared width.
// A payload too large for the width is a model mismatch detected too late to
// unwind safely, so it aborts.
func (w *Writer) WriteLengthField(width LengthFieldSize, order ByteOrder, payloadLen int) {
	if width == LengthFieldNone {
		return
	}
	if payloadLen > width.maxPayload() {
		contractViolationf("payload of %d bytes overflows %d-byte length field", payloadLen, width)
	}
	w.WriteUnsigned(uint64(payloadLen), int(width), order)
}
