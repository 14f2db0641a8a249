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

func TestUTF16Length(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		units int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"two-byte sequences", "héllo", 5},
		{"three-byte sequence", "€", 1},    // euro sign
		{"astral surrogate pair", "\U0001D11E", 2}, // musical G clef
		{"mixed", "a€\U0001D11Eb", 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.units, utf16Length(tc.in))
		})
	}
}

func TestWriteUTF16(t *testing.T) {
	t.Run("bmp big-endian", func(t *testing.T) {
		w := NewWriter(nil)
		writeUTF16(w, "A€", BigEndian)
		require.Equal(t, []byte{0x00, 0x41, 0x20, 0xAC}, w.Bytes())
	})

	t.Run("surrogate pair big-endian", func(t *testing.T) {
		w := NewWriter(nil)
		writeUTF16(w, "\U0001D11E", BigEndian)
		require.Equal(t, []byte{0xD8, 0x34, 0xDD, 0x1E}, w.Bytes())
	})

	t.Run("surrogate pair little-endian", func(t *testing.T) {
		w := NewWriter(nil)
		writeUTF16(w, "\U0001D11E", LittleEndian)
		require.Equal(t, []byte{0x34, 0xD8, 0x1E, 0xDD}, w.Bytes())
	})
}

func TestUTF16MalformedInputAborts(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"stray continuation byte", "\x80"},
		{"continuation byte as lead", "a\xBFb"},
		{"truncated two-byte sequence", "\xC3"},
		{"truncated four-byte sequence", "\xF0\x9D\x84"},
		{"bad continuation", "\xC3\xC3"},
		{"code point beyond U+10FFFF", "\xF7\xBF\xBF\xBF"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Panics(t, func() { utf16Length(tc.in) })
			require.Panics(t, func() { writeUTF16(NewWriter(nil), tc.in, BigEndian) })
		})
	}
}

func TestUTF16PanicIsContractViolation(t *testing.T) {
	defer func() {
		v := recover()
		require.NotNil(t, v)
		_, ok := v.(*ContractViolation)
		require.True(t, ok)
	}()
	utf16Length("\x80")
}
