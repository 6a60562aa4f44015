// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package random generates deterministic random addresses and prefixes
// for tests and benchmarks, driven by a caller supplied prng.
package random

import (
	"math/rand/v2"
	"net/netip"
)

// Prefix returns a random masked IPv4 or IPv6 prefix.
func Prefix(prng *rand.Rand) netip.Prefix {
	if prng.IntN(2) == 1 {
		return Prefix4(prng)
	}
	return Prefix6(prng)
}

// Prefix4 returns a random masked IPv4 prefix, /0 to /32.
func Prefix4(prng *rand.Rand) netip.Prefix {
	bits := prng.IntN(33)
	return netip.PrefixFrom(IP4(prng), bits).Masked()
}

// Prefix6 returns a random masked IPv6 prefix, /0 to /128.
func Prefix6(prng *rand.Rand) netip.Prefix {
	bits := prng.IntN(129)
	return netip.PrefixFrom(IP6(prng), bits).Masked()
}

// IP4 returns a random IPv4 address.
func IP4(prng *rand.Rand) netip.Addr {
	var b [4]byte
	for i := range b {
		b[i] = byte(prng.Uint32() & 0xff)
	}
	return netip.AddrFrom4(b)
}

// IP6 returns a random IPv6 address.
func IP6(prng *rand.Rand) netip.Addr {
	var b [16]byte
	for i := range b {
		b[i] = byte(prng.Uint32() & 0xff)
	}
	return netip.AddrFrom16(b)
}

// IP returns a random IPv4 or IPv6 address.
func IP(prng *rand.Rand) netip.Addr {
	if prng.IntN(2) == 1 {
		return IP4(prng)
	}
	return IP6(prng)
}

// RealWorldPrefixes4 returns n unique IPv4 prefixes with the length
// distribution of a real routing table, /8 to /28, outside 240.0.0.0/8.
func RealWorldPrefixes4(prng *rand.Rand, n int) []netip.Prefix {
	reserved := netip.MustParsePrefix("240.0.0.0/8")

	set := make(map[netip.Prefix]struct{}, n)
	pfxs := make([]netip.Prefix, 0, n)

	for len(pfxs) < n {
		bits := prng.IntN(21) + 8
		pfx := netip.PrefixFrom(IP4(prng), bits).Masked()

		if pfx.Overlaps(reserved) {
			continue
		}
		if _, ok := set[pfx]; ok {
			continue
		}
		set[pfx] = struct{}{}
		pfxs = append(pfxs, pfx)
	}
	return pfxs
}

// RealWorldPrefixes6 returns n unique IPv6 prefixes, /16 to /56, in
// the global unicast range 2000::/3 below 2c0f::/16.
func RealWorldPrefixes6(prng *rand.Rand, n int) []netip.Prefix {
	globalUnicast := netip.MustParsePrefix("2000::/3")
	boundary := netip.MustParseAddr("2c0f::")

	set := make(map[netip.Prefix]struct{}, n)
	pfxs := make([]netip.Prefix, 0, n)

	for len(pfxs) < n {
		bits := prng.IntN(41) + 16
		pfx := netip.PrefixFrom(IP6(prng), bits).Masked()

		if !pfx.Overlaps(globalUnicast) || pfx.Addr().Compare(boundary) > 0 {
			continue
		}
		if _, ok := set[pfx]; ok {
			continue
		}
		set[pfx] = struct{}{}
		pfxs = append(pfxs, pfx)
	}
	return pfxs
}

// RealWorldPrefixes returns n/2 IPv4 and n-n/2 IPv6 real world prefixes.
func RealWorldPrefixes(prng *rand.Rand, n int) []netip.Prefix {
	pfxs := RealWorldPrefixes4(prng, n/2)
	return append(pfxs, RealWorldPrefixes6(prng, n-n/2)...)
}
