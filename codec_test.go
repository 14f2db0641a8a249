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
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/openvecu/someip/optional"
)

func newTestCodec(t *testing.T, pack TpPack) *Codec {
	t.Helper()
	c, err := New(pack)
	require.NoError(t, err)
	return c
}

func TestSerializeUint32BigEndian(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())

	out, err := c.Marshal(uint32(0x12345678))
	require.NoError(t, err)
	require.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, out)

	size, err := c.RequiredBufferSize(uint32(0x12345678))
	require.NoError(t, err)
	require.Equal(t, 4, size)

	max, err := MaximumBufferSizeFor[uint32](c)
	require.NoError(t, err)
	n, ok := max.Bytes()
	require.True(t, ok)
	require.Equal(t, 4, n)
}

func TestSerializeVectorUint8(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())

	out, err := c.Marshal([]uint8{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x03, 0x01, 0x02, 0x03}, out)

	size, err := c.RequiredBufferSize([]uint8{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 7, size)

	max, err := MaximumBufferSizeFor[[]uint8](c)
	require.NoError(t, err)
	require.True(t, max.IsInfinite())
}

func TestSerializeEmptyStringWithBOMAndTerminator(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())

	out, err := c.Marshal("")
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x04, 0xEF, 0xBB, 0xBF, 0x00}, out)
}

func TestSerializeVariantWithoutUnionLengthField(t *testing.T) {
	p := DefaultTpPack()
	p.UnionTypeSelector = LengthField8
	p.UnionLengthField = LengthFieldNone
	c := newTestCodec(t, p)

	out, err := c.Marshal(V2Second[uint8, uint32](7))
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x00, 0x00, 0x00, 0x07}, out)
}

func TestVectorTruncationWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c, err := New(DefaultTpPack(), WithLogger(zap.New(core)))
	require.NoError(t, err)

	w := NewWriter(nil)
	require.NoError(t, c.SerializeWith(w, []uint8{10, 20, 30}, FieldConfig{MaxElements: 2}))
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x02, 10, 20}, w.Bytes())

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].Message, "truncating")
	require.Equal(t, int64(1), entries[0].ContextMap()["skipped"])
}

func TestTLVEmptyOptionalWritesNothing(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())

	w := NewWriter(nil)
	require.NoError(t, c.SerializeTLVField(w, 0x12, optional.None[uint8]()))
	require.Zero(t, w.Cursor())

	// Omission is idempotent: serializing the same empty optional again
	// still writes nothing.
	require.NoError(t, c.SerializeTLVField(w, 0x12, optional.None[uint8]()))
	require.Zero(t, w.Cursor())
}

// ============================================================================
// Cross-cutting properties
// ============================================================================

func TestSizeAgreement(t *testing.T) {
	type point struct {
		X uint16
		Y uint16
	}
	type sample struct {
		Flag    bool
		Label   string
		Values  []uint32
		Points  [2]point `someip:"len=0"`
		Lookup  map[uint8]uint16
		Variant Variant2[uint8, string]
	}

	packs := map[string]TpPack{
		"default": DefaultTpPack(),
		"little-endian short fields": func() TpPack {
			p := DefaultTpPack()
			p.ByteOrder = LittleEndian
			p.VectorLengthField = LengthField16
			p.StringLengthField = LengthField8
			p.UnionTypeSelector = LengthField8
			return p
		}(),
		"utf-16 no bom": func() TpPack {
			p := DefaultTpPack()
			p.StringEncoding = UTF16
			p.StringBOM = false
			return p
		}(),
	}

	value := sample{
		Flag:    true,
		Label:   "héllo \U0001D11E",
		Values:  []uint32{1, 1 << 30, 42},
		Points:  [2]point{{1, 2}, {3, 4}},
		Lookup:  map[uint8]uint16{1: 10, 2: 20},
		Variant: V2Second[uint8, string]("alt"),
	}

	for name, pack := range packs {
		t.Run(name, func(t *testing.T) {
			c := newTestCodec(t, pack)
			out, err := c.Marshal(value)
			require.NoError(t, err)
			size, err := c.RequiredBufferSize(value)
			require.NoError(t, err)
			require.Equal(t, size, len(out))
		})
	}
}

func TestMaximumSizeDomination(t *testing.T) {
	type bounded struct {
		A uint64
		B [4]uint16 `someip:"len=0"`
		C Variant2[uint32, uint8]
	}
	c := newTestCodec(t, DefaultTpPack())

	values := []bounded{
		{},
		{A: ^uint64(0), B: [4]uint16{1, 2, 3, 4}, C: V2First[uint32, uint8](9)},
		{C: V2Second[uint32, uint8](1)},
	}
	max, err := MaximumBufferSizeFor[bounded](c)
	require.NoError(t, err)
	require.False(t, max.IsInfinite())

	for _, v := range values {
		size, err := c.RequiredBufferSize(v)
		require.NoError(t, err)
		require.True(t, max.Covers(size))
	}
}

func TestStaticClassificationSoundness(t *testing.T) {
	type fixed struct {
		A uint32
		B [3]uint8 `someip:"len=0"`
		C bool
	}
	c := newTestCodec(t, DefaultTpPack())

	size, static, err := IsStaticSizeFor[fixed](c)
	require.NoError(t, err)
	require.True(t, static)
	require.Equal(t, 8, size)

	for _, v := range []fixed{{}, {A: ^uint32(0), B: [3]uint8{9, 9, 9}, C: true}} {
		got, err := c.RequiredBufferSize(v)
		require.NoError(t, err)
		require.Equal(t, size, got)
	}

	t.Run("never static", func(t *testing.T) {
		for _, typ := range []reflect.Type{
			reflect.TypeOf((*string)(nil)).Elem(),
			reflect.TypeOf((*[]uint8)(nil)).Elem(),
			reflect.TypeOf((*map[uint8]uint8)(nil)).Elem(),
			reflect.TypeOf((*Variant2[uint8, uint8])(nil)).Elem(),
		} {
			_, static, err := c.IsStaticSize(typ)
			require.NoError(t, err)
			require.False(t, static, typ.String())
		}
	})
}

func TestRoundTrip(t *testing.T) {
	type inner struct {
		Label string
		N     int16
	}
	type message struct {
		Seq    uint32
		Flags  []bool
		Pair   [2]uint16 `someip:"len=0"`
		Nested inner     `someip:"len=2"`
		Table  map[uint8]string
		Choice Variant3[uint8, uint32, string]
		Rate   float64
	}

	in := message{
		Seq:    42,
		Flags:  []bool{true, false, true},
		Pair:   [2]uint16{0xAAAA, 0x5555},
		Nested: inner{Label: "payload", N: -7},
		Table:  map[uint8]string{3: "three"},
		Choice: V3Third[uint8, uint32, string]("picked"),
		Rate:   -2.75,
	}

	for name, pack := range map[string]TpPack{
		"default":       DefaultTpPack(),
		"little-endian": func() TpPack { p := DefaultTpPack(); p.ByteOrder = LittleEndian; return p }(),
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestCodec(t, pack)
			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out message
			require.NoError(t, c.Unmarshal(data, &out))
			require.Equal(t, in, out)
		})
	}
}

func TestUnmarshalRejectsTrailingBytes(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())
	var v uint16
	require.Error(t, c.Unmarshal([]byte{0x00, 0x01, 0xFF}, &v))
}

func TestDeserializeNeedsPointer(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())
	require.Error(t, c.Unmarshal([]byte{0x01}, uint8(0)))
}

func TestPlatformDependentWidthsRejected(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())
	_, err := c.Marshal(7)
	require.ErrorContains(t, err, "platform-dependent width")
}

func TestNewValidatesPack(t *testing.T) {
	p := DefaultTpPack()
	p.VectorLengthField = LengthFieldNone
	_, err := New(p)
	require.ErrorContains(t, err, "vectors require a length field")
}
