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

func TestInfSize(t *testing.T) {
	t.Run("finite arithmetic", func(t *testing.T) {
		s := SizeOf(4).Add(SizeOf(3)).AddBytes(1).Times(2)
		n, ok := s.Bytes()
		require.True(t, ok)
		require.Equal(t, 16, n)
		require.Equal(t, "16", s.String())
	})

	t.Run("infinity absorbs", func(t *testing.T) {
		require.True(t, SizeOf(4).Add(Infinite).IsInfinite())
		require.True(t, Infinite.AddBytes(10).IsInfinite())
		require.True(t, Infinite.Times(0).IsInfinite())
		require.True(t, SizeOf(1).Max(Infinite).IsInfinite())
		_, ok := Infinite.Bytes()
		require.False(t, ok)
		require.Equal(t, "infinite", Infinite.String())
	})

	t.Run("max picks larger", func(t *testing.T) {
		n, ok := SizeOf(3).Max(SizeOf(7)).Bytes()
		require.True(t, ok)
		require.Equal(t, 7, n)
	})

	t.Run("covers", func(t *testing.T) {
		require.True(t, SizeOf(4).Covers(4))
		require.False(t, SizeOf(4).Covers(5))
		require.True(t, Infinite.Covers(1<<30))
	})
}
