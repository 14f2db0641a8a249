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

func TestStringWireLayoutUTF8(t *testing.T) {
	t.Run("bom and terminator", func(t *testing.T) {
		c := newTestCodec(t, DefaultTpPack())
		out, err := c.Marshal("ab")
		require.NoError(t, err)
		// length field covers BOM + content + terminator
		require.Equal(t, []byte{
			0x00, 0x00, 0x00, 0x06,
			0xEF, 0xBB, 0xBF,
			'a', 'b',
			0x00,
		}, out)
	})

	t.Run("bare content", func(t *testing.T) {
		p := DefaultTpPack()
		p.StringBOM = false
		p.StringNullTerminated = false
		p.StringLengthField = LengthField8
		c := newTestCodec(t, p)
		out, err := c.Marshal("hi")
		require.NoError(t, err)
		require.Equal(t, []byte{0x02, 'h', 'i'}, out)
	})
}

func TestStringWireLayoutUTF16(t *testing.T) {
	p := DefaultTpPack()
	p.StringEncoding = UTF16
	c := newTestCodec(t, p)

	out, err := c.Marshal("A")
	require.NoError(t, err)
	// 2-byte mark, one code unit, 2-byte terminator
	require.Equal(t, []byte{
		0x00, 0x00, 0x00, 0x06,
		0xFE, 0xFF,
		0x00, 0x41,
		0x00, 0x00,
	}, out)

	t.Run("little-endian mark", func(t *testing.T) {
		p := p
		p.ByteOrder = LittleEndian
		c := newTestCodec(t, p)
		out, err := c.Marshal("A")
		require.NoError(t, err)
		require.Equal(t, []byte{
			0x06, 0x00, 0x00, 0x00,
			0xFF, 0xFE,
			0x41, 0x00,
			0x00, 0x00,
		}, out)
	})
}

func TestStringRoundTrip(t *testing.T) {
	inputs := []string{"", "ascii", "héllo wörld", "€€", "clef \U0001D11E"}
	packs := map[string]TpPack{
		"utf-8":             DefaultTpPack(),
		"utf-8 no bom": func() TpPack { p := DefaultTpPack(); p.StringBOM = false; return p }(),
		"utf-16": func() TpPack {
			p := DefaultTpPack()
			p.StringEncoding = UTF16
			return p
		}(),
		"utf-16 little-endian": func() TpPack {
			p := DefaultTpPack()
			p.StringEncoding = UTF16
			p.ByteOrder = LittleEndian
			return p
		}(),
	}
	for name, pack := range packs {
		t.Run(name, func(t *testing.T) {
			c := newTestCodec(t, pack)
			for _, in := range inputs {
				data, err := c.Marshal(in)
				require.NoError(t, err)
				var out string
				require.NoError(t, c.Unmarshal(data, &out))
				require.Equal(t, in, out)
			}
		})
	}
}

func TestStringDecodeRejectsBadFraming(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())
	var out string

	t.Run("bad bom", func(t *testing.T) {
		err := c.Unmarshal([]byte{0x00, 0x00, 0x00, 0x04, 0xEF, 0xBB, 0x00, 0x00}, &out)
		require.ErrorContains(t, err, "byte order mark")
	})

	t.Run("missing terminator", func(t *testing.T) {
		err := c.Unmarshal([]byte{0x00, 0x00, 0x00, 0x05, 0xEF, 0xBB, 0xBF, 'a', 'b'}, &out)
		require.ErrorContains(t, err, "terminator")
	})

	t.Run("payload shorter than bom", func(t *testing.T) {
		err := c.Unmarshal([]byte{0x00, 0x00, 0x00, 0x02, 0xEF, 0xBB}, &out)
		require.Error(t, err)
	})
}

func TestStringMaximumSizeIsInfinite(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())
	max, err := MaximumBufferSizeFor[string](c)
	require.NoError(t, err)
	require.True(t, max.IsInfinite())
}
