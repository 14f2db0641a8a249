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

package optional

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	t.Run("zero value is disengaged", func(t *testing.T) {
		var o Optional[int32]
		require.True(t, o.IsNone())
		require.False(t, o.IsSome())
		require.Equal(t, int32(7), o.UnwrapOr(7))
		require.Nil(t, o.Ptr())
	})

	t.Run("some", func(t *testing.T) {
		o := Some("x")
		require.True(t, o.IsSome())
		require.Equal(t, "x", o.Unwrap())
		v, ok := o.Get()
		require.True(t, ok)
		require.Equal(t, "x", v)
	})

	t.Run("unwrap of none panics", func(t *testing.T) {
		require.Panics(t, func() { None[int]().Unwrap() })
	})

	t.Run("from ptr", func(t *testing.T) {
		require.True(t, FromPtr[int](nil).IsNone())
		n := 4
		o := FromPtr(&n)
		require.Equal(t, 4, o.Unwrap())
		p := o.Ptr()
		require.NotNil(t, p)
		*p = 9
		require.Equal(t, 4, o.Unwrap(), "Ptr returns a copy")
	})

	t.Run("set reset take", func(t *testing.T) {
		var o Optional[uint8]
		o.Set(3)
		require.True(t, o.IsSome())
		v, ok := o.Take()
		require.True(t, ok)
		require.Equal(t, uint8(3), v)
		require.True(t, o.IsNone())
		_, ok = o.Take()
		require.False(t, ok)
	})
}
