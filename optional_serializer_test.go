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

	"github.com/openvecu/someip/optional"
)

// Outside tag/length/value payloads an Optional member occupies fixed space:
// engaged values serialize as themselves, disengaged ones as the default
// value. This is the signal-based update-bit mechanism, restricted to
// static-size wrapped types.
func TestOptionalFixedLayout(t *testing.T) {
	type signal struct {
		Updated optional.Optional[uint16]
		Seq     uint8
	}
	c := newTestCodec(t, DefaultTpPack())

	t.Run("engaged", func(t *testing.T) {
		out, err := c.Marshal(signal{Updated: optional.Some(uint16(0x0102)), Seq: 9})
		require.NoError(t, err)
		require.Equal(t, []byte{0x01, 0x02, 0x09}, out)
	})

	t.Run("disengaged writes the default value", func(t *testing.T) {
		out, err := c.Marshal(signal{Seq: 9})
		require.NoError(t, err)
		require.Equal(t, []byte{0x00, 0x00, 0x09}, out)
	})

	t.Run("size is value-independent", func(t *testing.T) {
		size, static, err := IsStaticSizeFor[signal](c)
		require.NoError(t, err)
		require.True(t, static)
		require.Equal(t, 3, size)
	})

	t.Run("decode always engages", func(t *testing.T) {
		var out signal
		require.NoError(t, c.Unmarshal([]byte{0x00, 0x07, 0x01}, &out))
		require.True(t, out.Updated.IsSome())
		require.Equal(t, uint16(7), out.Updated.Unwrap())
	})
}

func TestOptionalRequiresStaticTypeOutsideTLV(t *testing.T) {
	c := newTestCodec(t, DefaultTpPack())
	_, err := c.Marshal(optional.Some("dynamic"))
	require.ErrorContains(t, err, "static-size type")
}
