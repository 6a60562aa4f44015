// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package golden is a simple and slow prefix table, implemented as a slice
// of prefixes and values, used as reference for the trie in tests.
//
// Every method is a linear scan, correctness by inspection.
package golden

import (
	"cmp"
	"fmt"
	"net/netip"
	"slices"
)

// GoldTable is the golden reference, a slice of prefixes and values.
type GoldTable[V any] []GoldTableItem[V]

type GoldTableItem[V any] struct {
	Pfx netip.Prefix
	Val V
}

func (g GoldTableItem[V]) String() string {
	return fmt.Sprintf("(%s, %v)", g.Pfx, g.Val)
}

// covers reports whether a contains b, both masked.
func covers(a, b netip.Prefix) bool {
	return a.Addr().BitLen() == b.Addr().BitLen() &&
		a.Bits() <= b.Bits() &&
		a.Overlaps(b)
}

// index of pfx, or -1
func (t GoldTable[V]) index(pfx netip.Prefix) int {
	return slices.IndexFunc(t, func(item GoldTableItem[V]) bool {
		return item.Pfx == pfx
	})
}

// Insert returns the previous value, if any.
func (t *GoldTable[V]) Insert(pfx netip.Prefix, val V) (old V, existed bool) {
	pfx = pfx.Masked()
	if i := t.index(pfx); i >= 0 {
		old = (*t)[i].Val
		(*t)[i].Val = val
		return old, true
	}

	*t = append(*t, GoldTableItem[V]{pfx, val})
	return old, false
}

// Delete returns the removed value, if any.
func (t *GoldTable[V]) Delete(pfx netip.Prefix) (val V, exists bool) {
	i := t.index(pfx.Masked())
	if i < 0 {
		return val, false
	}

	val = (*t)[i].Val
	*t = slices.Delete(*t, i, i+1)
	return val, true
}

func (t GoldTable[V]) Get(pfx netip.Prefix) (val V, ok bool) {
	if i := t.index(pfx.Masked()); i >= 0 {
		return t[i].Val, true
	}
	return val, false
}

// Update calls cb with the current value and stores the result.
func (t *GoldTable[V]) Update(pfx netip.Prefix, cb func(V, bool) V) V {
	old, ok := t.Get(pfx)
	val := cb(old, ok)
	t.Insert(pfx, val)
	return val
}

// AllSorted returns all prefixes in natural CIDR sort order.
func (t GoldTable[V]) AllSorted() []netip.Prefix {
	result := make([]netip.Prefix, 0, len(t))
	for _, item := range t {
		result = append(result, item.Pfx)
	}

	slices.SortFunc(result, CmpPrefix)
	return result
}

// LookupPrefixLPM returns the most specific prefix covering pfx.
func (t GoldTable[V]) LookupPrefixLPM(pfx netip.Prefix) (lpm netip.Prefix, val V, ok bool) {
	supernets := t.Supernets(pfx)
	if len(supernets) == 0 {
		return lpm, val, false
	}

	lpm = supernets[0]
	val, _ = t.Get(lpm)
	return lpm, val, true
}

// LookupPrefixSPM returns the least specific prefix covering pfx.
func (t GoldTable[V]) LookupPrefixSPM(pfx netip.Prefix) (spm netip.Prefix, val V, ok bool) {
	supernets := t.Supernets(pfx)
	if len(supernets) == 0 {
		return spm, val, false
	}

	spm = supernets[len(supernets)-1]
	val, _ = t.Get(spm)
	return spm, val, true
}

// Subnets, all prefixes covered by pfx, in natural CIDR sort order.
func (t GoldTable[V]) Subnets(pfx netip.Prefix) []netip.Prefix {
	pfx = pfx.Masked()

	var result []netip.Prefix
	for _, item := range t {
		if covers(pfx, item.Pfx) {
			result = append(result, item.Pfx)
		}
	}

	slices.SortFunc(result, CmpPrefix)
	return result
}

// Supernets, all prefixes covering pfx, most specific first.
func (t GoldTable[V]) Supernets(pfx netip.Prefix) []netip.Prefix {
	pfx = pfx.Masked()

	var result []netip.Prefix
	for _, item := range t {
		if covers(item.Pfx, pfx) {
			result = append(result, item.Pfx)
		}
	}

	// all supernets share the address bits of the shortest one,
	// sorting by length is enough
	slices.SortFunc(result, func(a, b netip.Prefix) int {
		return cmp.Compare(b.Bits(), a.Bits())
	})
	return result
}

// CmpPrefix compares by address first and then by prefix length,
// all prefixes are already normalized.
func CmpPrefix(a, b netip.Prefix) int {
	return cmp.Or(a.Addr().Compare(b.Addr()), cmp.Compare(a.Bits(), b.Bits()))
}
