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

// Package someip serializes Go values into SOME/IP payloads. A Codec is
// built once from a TpPack describing the wire policy (byte order,
// length-field widths, string encoding) and is safe for concurrent use;
// per-member overrides come from `someip` struct tags.
package someip

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// ============================================================================
// Contract violations
// ============================================================================

// ContractViolation reports a mismatch between a value and its declared wire
// model: a payload too large for its length-field width, a variant selector
// matching no alternative, malformed UTF-8 handed to the UTF-16 transcoder,
// or the size calculator and serializer disagreeing. These are programming
// errors on the sending side, not runtime conditions, so they surface as
// panics rather than error returns.
type ContractViolation struct {
	msg string
}

func (e *ContractViolation) Error() string {
	return "someip: contract violation: " + e.msg
}

func contractViolationf(format string, args ...any) {
	panic(&ContractViolation{msg: fmt.Sprintf(format, args...)})
}

// ============================================================================
// Codec
// ============================================================================

// Codec binds a validated TpPack to a serializer resolver and a diagnostic
// sink. All methods may be called concurrently; serializers are cached per
// (type, member config) pair.
type Codec struct {
	pack   TpPack
	logger *zap.Logger
	res    *resolver

	writers sync.Pool
}

// Option configures a Codec at construction time.
type Option func(*Codec)

// WithLogger sets the diagnostic sink. Without it the codec is silent; with
// it, degraded-mode events such as vector truncation are reported as
// warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Codec for the given wire policy. The pack is validated once
// here; every later operation assumes it is well formed.
func New(pack TpPack, opts ...Option) (*Codec, error) {
	if err := pack.Validate(); err != nil {
		return nil, err
	}
	c := &Codec{
		pack:   pack,
		logger: zap.NewNop(),
		res:    newResolver(pack),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.writers.New = func() any { return NewWriterSize(256) }
	c.logger.Debug("codec configured", zap.Uint64("fingerprint", pack.Fingerprint()))
	return c, nil
}

// Pack returns the wire policy the codec was built with.
func (c *Codec) Pack() TpPack { return c.pack }

// ============================================================================
// Serialization
// ============================================================================

// Serialize writes v's wire representation into w under the codec's pack
// defaults.
func (c *Codec) Serialize(w *Writer, v any) error {
	return c.SerializeWith(w, v, FieldConfig{})
}

// SerializeWith is Serialize with member-level overrides applied to the top
// value, the way a `someip` struct tag would apply them to a member.
func (c *Codec) SerializeWith(w *Writer, v any, conf FieldConfig) error {
	value := reflect.ValueOf(v)
	ser, err := c.res.serializerFor(value.Type(), conf)
	if err != nil {
		return err
	}
	return ser.WriteData(NewWriteContext(w, c.pack, c.logger), value)
}

// Marshal serializes v and returns the bytes. The buffer is sized up front
// from the size calculator; if the serializer then writes a different number
// of bytes the two have diverged and Marshal aborts with a
// ContractViolation.
func (c *Codec) Marshal(v any) ([]byte, error) {
	value := reflect.ValueOf(v)
	ser, err := c.res.serializerFor(value.Type(), FieldConfig{})
	if err != nil {
		return nil, err
	}
	size := ser.RequiredSize(value)

	w := c.writers.Get().(*Writer)
	defer func() {
		w.Reset()
		c.writers.Put(w)
	}()

	if err := ser.WriteData(NewWriteContext(w, c.pack, c.logger), value); err != nil {
		return nil, err
	}
	if w.Cursor() != size {
		contractViolationf("serializer wrote %d bytes for %v, size calculation said %d",
			w.Cursor(), value.Type(), size)
	}
	out := make([]byte, size)
	copy(out, w.Bytes())
	return out, nil
}

// ============================================================================
// Size calculation
// ============================================================================

// RequiredBufferSize returns the exact serialized size of this specific
// value.
func (c *Codec) RequiredBufferSize(v any) (int, error) {
	value := reflect.ValueOf(v)
	ser, err := c.res.serializerFor(value.Type(), FieldConfig{})
	if err != nil {
		return 0, err
	}
	return ser.RequiredSize(value), nil
}

// MaximumBufferSize returns the worst-case serialized size across all values
// of type t, or Infinite when no finite bound exists (unbounded vectors,
// maps, strings).
func (c *Codec) MaximumBufferSize(t reflect.Type) (InfSize, error) {
	ser, err := c.res.serializerFor(t, FieldConfig{})
	if err != nil {
		return InfSize{}, err
	}
	return ser.MaximumSize(), nil
}

// IsStaticSize reports whether every value of type t serializes to the same
// number of bytes under the codec's pack, and that size if so.
func (c *Codec) IsStaticSize(t reflect.Type) (size int, static bool, err error) {
	ser, err := c.res.serializerFor(t, FieldConfig{})
	if err != nil {
		return 0, false, err
	}
	size, static = ser.StaticSize()
	return size, static, nil
}

// MaximumBufferSizeFor is MaximumBufferSize for a compile-time-known type.
func MaximumBufferSizeFor[T any](c *Codec) (InfSize, error) {
	return c.MaximumBufferSize(reflect.TypeOf((*T)(nil)).Elem())
}

// IsStaticSizeFor is IsStaticSize for a compile-time-known type.
func IsStaticSizeFor[T any](c *Codec) (int, bool, error) {
	return c.IsStaticSize(reflect.TypeOf((*T)(nil)).Elem())
}

// ============================================================================
// Deserialization
// ============================================================================

// Deserialize decodes one value of *v's type from r. v must be a non-nil
// pointer.
func (c *Codec) Deserialize(r *Reader, v any) error {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return fmt.Errorf("someip: deserialization needs a non-nil pointer, got %T", v)
	}
	value = value.Elem()
	ser, err := c.res.serializerFor(value.Type(), FieldConfig{})
	if err != nil {
		return err
	}
	return ser.ReadData(NewReadContext(r, c.pack, c.logger), value)
}

// Unmarshal decodes data into *v and requires the value to consume the whole
// input.
func (c *Codec) Unmarshal(data []byte, v any) error {
	r := NewReader(data)
	if err := c.Deserialize(r, v); err != nil {
		return err
	}
	if rem := r.Remaining(); rem != 0 {
		return fmt.Errorf("someip: %d trailing bytes after value", rem)
	}
	return nil
}
