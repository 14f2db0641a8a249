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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariantAccessors(t *testing.T) {
	v := V2First[uint8, uint32](5)
	a, ok := v.First()
	require.True(t, ok)
	require.Equal(t, uint8(5), a)
	_, ok = v.Second()
	require.False(t, ok)
	require.False(t, v.IsEmpty())

	var empty Variant3[uint8, uint16, uint32]
	require.True(t, empty.IsEmpty())
}

func TestVariantWireLayout(t *testing.T) {
	t.Run("default pack", func(t *testing.T) {
		c := newTestCodec(t, DefaultTpPack())
		out, err := c.Marshal(V2Second[uint8, uint32](7))
		require.NoError(t, err)
		// 4-byte selector, 4-byte union length field, payload
		require.Equal(t, []byte{
			0x00, 0x00, 0x00, 0x02,
			0x00, 0x00, 0x00, 0x04,
			0x00, 0x00, 0x00, 0x07,
		}, out)
	})

	t.Run("valueless", func(t *testing.T) {
		c := newTestCodec(t, DefaultTpPack())
		var v Variant2[uint8, uint32]
		out, err := c.Marshal(v)
		require.NoError(t, err)
		require.Equal(t, []byte{
			0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
		}, out)
	})

	t.Run("one-byte selector, no union length field", func(t *testing.T) {
		p := DefaultTpPack()
		p.UnionTypeSelector = LengthField8
		p.UnionLengthField = LengthFieldNone
		c := newTestCodec(t, p)
		out, err := c.Marshal(V2First[uint8, uint32](0xAB))
		require.NoError(t, err)
		require.Equal(t, []byte{0x01, 0xAB}, out)
	})
}

func TestVariantRoundTrip(t *testing.T) {
	packs := map[string]TpPack{
		"default": DefaultTpPack(),
		"no union length field": func() TpPack {
			p := DefaultTpPack()
			p.UnionTypeSelector = LengthField8
			p.UnionLengthField = LengthFieldNone
			return p
		}(),
	}
	for name, pack := range packs {
		t.Run(name, func(t *testing.T) {
			c := newTestCodec(t, pack)
			values := []Variant3[uint8, uint32, string]{
				{},
				V3First[uint8, uint32, string](9),
				V3Second[uint8, uint32, string](1 << 20),
				V3Third[uint8, uint32, string]("held"),
			}
			for _, in := range values {
				data, err := c.Marshal(in)
				require.NoError(t, err)
				var out Variant3[uint8, uint32, string]
				require.NoError(t, c.Unmarshal(data, &out))
				require.Equal(t, in, out)
			}
		})
	}
}

func TestVariantUnmatchedSelectorAborts(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())
	v := Variant2[uint8, uint32]{Selector: 5}
	require.Panics(t, func() { _, _ = c.Marshal(v) })
}

func TestVariantDecodeRejectsBadSelector(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())
	var out Variant2[uint8, uint32]
	err := c.Unmarshal([]byte{
		0x00, 0x00, 0x00, 0x05,
		0x00, 0x00, 0x00, 0x00,
	}, &out)
	require.ErrorContains(t, err, "selector")
}

func TestVariantMaximumSizeIsMaxAcrossAlternatives(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())

	// selector 4 + union length field 4 + max(1, 8) = 16, not 4+4+9
	max, err := MaximumBufferSizeFor[Variant2[uint8, uint64]](c)
	require.NoError(t, err)
	n, ok := max.Bytes()
	require.True(t, ok)
	require.Equal(t, 16, n)

	t.Run("unbounded alternative dominates", func(t *testing.T) {
		max, err := MaximumBufferSizeFor[Variant2[uint8, string]](c)
		require.NoError(t, err)
		require.True(t, max.IsInfinite())
	})
}
