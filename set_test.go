// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixSet(t *testing.T) {
	t.Parallel()

	var s PrefixSet[IPPrefix]

	assert.True(t, s.Insert(mpp("10.0.0.0/8")))
	assert.True(t, s.Insert(mpp("10.1.0.0/16")))
	assert.False(t, s.Insert(mpp("10.0.0.0/8")), "duplicate")
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Contains(mpp("10.1.0.0/16")))
	assert.False(t, s.Contains(mpp("10.1.0.0/24")))

	lpm, ok := s.LookupLPM(mph("10.1.2.3"))
	require.True(t, ok)
	assert.Equal(t, mpp("10.1.0.0/16"), lpm)

	spm, ok := s.LookupSPM(mph("10.1.2.3"))
	require.True(t, ok)
	assert.Equal(t, mpp("10.0.0.0/8"), spm)

	_, ok = s.LookupLPM(mph("11.0.0.1"))
	assert.False(t, ok)

	assert.Equal(t,
		[]IPPrefix{mpp("10.0.0.0/8"), mpp("10.1.0.0/16")},
		slices.Collect(s.All()))
	assert.Equal(t,
		[]IPPrefix{mpp("10.1.0.0/16")},
		slices.Collect(s.Subtree(mpp("10.1.0.0/16"))))
	assert.Equal(t,
		[]IPPrefix{mpp("10.0.0.0/8"), mpp("10.1.0.0/16")},
		slices.Collect(s.Cover(mph("10.1.0.1"))))

	assert.True(t, s.Remove(mpp("10.0.0.0/8")))
	assert.False(t, s.Remove(mpp("10.0.0.0/8")))
	assert.Equal(t, 1, s.Len())
	require.NoError(t, checkInvariants(&s.m))

	assert.Equal(t, 1, s.RemoveSubtree(mpp("0.0.0.0/0")))
	assert.True(t, s.IsEmpty())

	s.Insert(mpp("10.0.0.0/8"))
	s.Clear()
	assert.True(t, s.IsEmpty())
}

func TestPrefixSetString(t *testing.T) {
	t.Parallel()

	var s PrefixSet[IPPrefix]
	s.Insert(mpp("10.0.0.0/8"))
	s.Insert(mpp("10.0.0.0/24"))
	s.Insert(mpp("192.168.0.0/16"))

	want := `▼
├─ 10.0.0.0/8
│  └─ 10.0.0.0/24
└─ 192.168.0.0/16
`
	assert.Equal(t, want, s.String())
}
