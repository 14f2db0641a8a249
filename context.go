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

import "go.uber.org/zap"

// ============================================================================
// WriteContext - state shared by one serialization call tree
// ============================================================================

// WriteContext holds the state threaded through one serialization call: the
// destination Writer, the property pack, and the diagnostic sink. It is
// created per top-level call, so concurrent serializations into different
// buffers never share mutable state.
type WriteContext struct {
	writer *Writer
	pack   TpPack
	logger *zap.Logger
}

// NewWriteContext creates a write context. A nil logger is replaced with a
// no-op logger; diagnostics are injected here precisely so nothing deep in
// the recursion has to reach for ambient global state.
func NewWriteContext(w *Writer, pack TpPack, logger *zap.Logger) *WriteContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WriteContext{writer: w, pack: pack, logger: logger}
}

// Writer returns the destination buffer.
func (c *WriteContext) Writer() *Writer { return c.writer }

// Pack returns the transformation property pack for this call tree.
func (c *WriteContext) Pack() TpPack { return c.pack }

// Logger returns the diagnostic sink.
func (c *WriteContext) Logger() *zap.Logger { return c.logger }

// sub returns a context writing into a carved-out sub-stream.
func (c *WriteContext) sub(w *Writer) *WriteContext {
	return &WriteContext{writer: w, pack: c.pack, logger: c.logger}
}

// ============================================================================
// ReadContext - state shared by one deserialization call tree
// ============================================================================

// ReadContext holds the state threaded through one deserialization call.
type ReadContext struct {
	reader *Reader
	pack   TpPack
	logger *zap.Logger
}

// NewReadContext creates a read context. A nil logger is replaced with a
// no-op logger.
func NewReadContext(r *Reader, pack TpPack, logger *zap.Logger) *ReadContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadContext{reader: r, pack: pack, logger: logger}
}

// Reader returns the source buffer.
func (c *ReadContext) Reader() *Reader { return c.reader }

// Pack returns the transformation property pack for this call tree.
func (c *ReadContext) Pack() TpPack { return c.pack }

// Logger returns the diagnostic sink.
func (c *ReadContext) Logger() *zap.Logger { return c.logger }

// sub returns a context reading from a length-delimited sub-region.
func (c *ReadContext) sub(r *Reader) *ReadContext {
	return &ReadContext{reader: r, pack: c.pack, logger: c.logger}
}
