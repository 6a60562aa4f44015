// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routeEntry needs a deep clone, the attributes map is shared otherwise
type routeEntry struct {
	nextHop    netip.Addr
	attributes map[string]int
}

func (r *routeEntry) Clone() *routeEntry {
	if r == nil {
		return nil
	}

	clone := &routeEntry{
		nextHop:    r.nextHop,
		attributes: make(map[string]int, len(r.attributes)),
	}
	for k, v := range r.attributes {
		clone.attributes[k] = v
	}
	return clone
}

func TestCloneFnFactory(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, cloneFnFactory[*routeEntry]())
	assert.NotNil(t, cloneFnFactory[*MyInt]())
	assert.Nil(t, cloneFnFactory[int]())
	assert.Nil(t, cloneFnFactory[struct{}]())
}

func TestCloneVal(t *testing.T) {
	t.Parallel()

	in := &routeEntry{
		nextHop:    netip.MustParseAddr("10.0.0.1"),
		attributes: map[string]int{"metric": 100},
	}

	out := cloneVal(in)
	require.NotSame(t, in, out)
	assert.Equal(t, in, out)

	out.attributes["metric"] = 1
	assert.Equal(t, 100, in.attributes["metric"], "deep copy")

	var nilEntry *routeEntry
	assert.Nil(t, cloneVal(nilEntry))

	assert.Equal(t, 42, cloneVal(42))
}

func TestCloneDeep(t *testing.T) {
	t.Parallel()

	m := new(PrefixMap[IPPrefix, *routeEntry])
	m.Insert(mpp("10.0.0.0/8"), &routeEntry{attributes: map[string]int{"metric": 10}})
	m.Insert(mpp("10.1.0.0/16"), &routeEntry{attributes: map[string]int{"metric": 20}})
	m.Insert(mpp("10.2.0.0/16"), nil)

	c := m.Clone()
	require.NoError(t, checkInvariants(c))

	orig, _ := m.Get(mpp("10.0.0.0/8"))
	clone, _ := c.Get(mpp("10.0.0.0/8"))
	require.NotSame(t, orig, clone)

	clone.attributes["metric"] = 99
	assert.Equal(t, 10, orig.attributes["metric"])

	val, ok := c.Get(mpp("10.2.0.0/16"))
	assert.True(t, ok)
	assert.Nil(t, val)
}

func TestCloneShallow(t *testing.T) {
	t.Parallel()

	attrs := map[string]int{"metric": 10}
	m := new(PrefixMap[IPPrefix, map[string]int])
	m.Insert(mpp("10.0.0.0/8"), attrs)

	c := m.Clone()
	val, _ := c.Get(mpp("10.0.0.0/8"))
	val["metric"] = 99

	// no Cloner, values are copied by assignment
	assert.Equal(t, 99, attrs["metric"])
}
