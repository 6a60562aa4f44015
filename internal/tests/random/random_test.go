// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package random

import (
	"math/rand/v2"
	"net/netip"
	"slices"
	"testing"
)

func TestPrefix(t *testing.T) {
	prng := rand.New(rand.NewPCG(0, 0))

	var has4, has6 bool
	for range 100 {
		pfx := Prefix(prng)

		// Must be valid
		if !pfx.IsValid() {
			t.Errorf("generated invalid prefix: %v", pfx)
		}

		// Must be masked
		if pfx != pfx.Masked() {
			t.Errorf("prefix not masked: %v != %v", pfx, pfx.Masked())
		}

		has4 = has4 || pfx.Addr().Is4()
		has6 = has6 || pfx.Addr().Is6()
	}

	if !has4 || !has6 {
		t.Errorf("expected both families, got v4: %v, v6: %v", has4, has6)
	}
}

func TestPrefix4(t *testing.T) {
	prng := rand.New(rand.NewPCG(0, 0))

	for range 100 {
		pfx := Prefix4(prng)

		if !pfx.Addr().Is4() {
			t.Errorf("Prefix4 generated non-IPv4: %v", pfx)
		}
		if pfx.Bits() < 0 || pfx.Bits() > 32 {
			t.Errorf("IPv4 prefix bits out of range: %d", pfx.Bits())
		}
	}
}

func TestPrefix6(t *testing.T) {
	prng := rand.New(rand.NewPCG(0, 0))

	for range 100 {
		pfx := Prefix6(prng)

		if !pfx.Addr().Is6() {
			t.Errorf("Prefix6 generated non-IPv6: %v", pfx)
		}
		if pfx.Bits() < 0 || pfx.Bits() > 128 {
			t.Errorf("IPv6 prefix bits out of range: %d", pfx.Bits())
		}
	}
}

func TestRealWorldPrefixes4(t *testing.T) {
	prng := rand.New(rand.NewPCG(0, 0))
	n := 50

	pfxs := RealWorldPrefixes4(prng, n)
	if len(pfxs) != n {
		t.Errorf("expected %d prefixes, got %d", n, len(pfxs))
	}

	reserved := netip.MustParsePrefix("240.0.0.0/8")
	seen := make(map[netip.Prefix]bool)
	for _, pfx := range pfxs {
		if pfx.Bits() < 8 || pfx.Bits() > 28 {
			t.Errorf("prefix bits %d out of real-world range 8-28", pfx.Bits())
		}
		if pfx.Overlaps(reserved) {
			t.Errorf("prefix overlaps with reserved range: %v", pfx)
		}
		if seen[pfx] {
			t.Errorf("duplicate prefix generated: %v", pfx)
		}
		seen[pfx] = true
	}
}

func TestRealWorldPrefixes6(t *testing.T) {
	prng := rand.New(rand.NewPCG(0, 0))
	n := 50

	pfxs := RealWorldPrefixes6(prng, n)
	if len(pfxs) != n {
		t.Errorf("expected %d prefixes, got %d", n, len(pfxs))
	}

	globalUnicast := netip.MustParsePrefix("2000::/3")
	for _, pfx := range pfxs {
		if pfx.Bits() < 16 || pfx.Bits() > 56 {
			t.Errorf("prefix bits %d out of real-world range 16-56", pfx.Bits())
		}
		if !pfx.Overlaps(globalUnicast) {
			t.Errorf("prefix does not overlap with 2000::/3: %v", pfx)
		}
	}
}

func TestDeterministicWithSameSeed(t *testing.T) {
	prng1 := rand.New(rand.NewPCG(42, 42))
	prng2 := rand.New(rand.NewPCG(42, 42))

	pfxs1 := RealWorldPrefixes(prng1, 10)
	pfxs2 := RealWorldPrefixes(prng2, 10)

	if !slices.Equal(pfxs1, pfxs2) {
		t.Errorf("same seed, different prefixes:\n%v\n%v", pfxs1, pfxs2)
	}
}
