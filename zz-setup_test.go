// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
	"net/netip"
	"testing"

	"github.com/gaissmai/pfxtrie/internal/tests/random"
)

// workLoadN to adjust loops for tests with -short
func workLoadN() int {
	if testing.Short() {
		return 100
	}
	return 1_000
}

// abbreviation, panics on non canonical input
var mpp = func(s string) IPPrefix {
	pfx := netip.MustParsePrefix(s)
	if pfx == pfx.Masked() {
		return MustParse(s)
	}
	panic(fmt.Sprintf("%s is not canonicalized as %s", s, pfx.Masked()))
}

// host prefix for the address s
var mph = func(s string) IPPrefix {
	return MustParse(s)
}

type goldItem struct {
	pfx IPPrefix
	val int
}

// randomPrefixes4 returns n random IPv4 prefixes with values.
func randomPrefixes4(prng *rand.Rand, n int) []goldItem {
	items := make([]goldItem, 0, n)
	for i := range n {
		pfx, _ := From(random.Prefix4(prng))
		items = append(items, goldItem{pfx, i})
	}
	return items
}

// randomPrefixes6 returns n random IPv6 prefixes with values.
func randomPrefixes6(prng *rand.Rand, n int) []goldItem {
	items := make([]goldItem, 0, n)
	for i := range n {
		pfx, _ := From(random.Prefix6(prng))
		items = append(items, goldItem{pfx, i})
	}
	return items
}

// tests for deep copies with Cloner interface
type MyInt int

// implement the Cloner interface
func (i *MyInt) Clone() *MyInt {
	a := *i
	return &a
}

// #########################################################

// bitKey is a tiny 8 bit address family, the trie must not depend
// on IP addresses at all.
type bitKey struct {
	v uint8
	n int
}

func bk(v uint8, n int) bitKey {
	return bitKey{v, n}.Truncate(n)
}

func (k bitKey) Bits() int { return k.n }

func (k bitKey) IsBitSet(pos int) bool { return k.v&(0x80>>pos) != 0 }

func (k bitKey) CommonBits(o bitKey) int {
	return min(bits.LeadingZeros8(k.v^o.v), k.n, o.n)
}

func (k bitKey) Contains(o bitKey) bool {
	return k.n <= o.n && k.CommonBits(o) == k.n
}

func (k bitKey) Truncate(n int) bitKey {
	return bitKey{k.v & ^uint8(0xff>>n), n}
}

func (k bitKey) String() string {
	return fmt.Sprintf("%08b/%d", k.v, k.n)
}

// allBitKeys returns all 511 prefixes of the 8 bit family.
func allBitKeys() []bitKey {
	var keys []bitKey
	for n := 0; n <= 8; n++ {
		for v := 0; v < 1<<n; v++ {
			keys = append(keys, bitKey{uint8(v << (8 - n)), n})
		}
	}
	return keys
}
