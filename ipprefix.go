// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import (
	"cmp"
	"fmt"
	"math/bits"
	"net/netip"
)

// compile time check
var _ Prefix[IPPrefix] = IPPrefix{}

// IPPrefix is the IPv4/IPv6 address family for the trie, a thin wrapper
// around a masked [netip.Prefix].
//
// IPv4 prefixes are 32 bits wide, IPv6 prefixes 128 bits. A container
// must not mix both families, use one PrefixMap per family.
//
// The zero value is not a valid prefix.
type IPPrefix struct {
	pfx netip.Prefix
}

// From returns the normalized IPPrefix for pfx. IPv4-mapped IPv6 addresses
// are unmapped when the prefix length allows it.
func From(pfx netip.Prefix) (IPPrefix, error) {
	if !pfx.IsValid() {
		return IPPrefix{}, fmt.Errorf("%w: %s", ErrInvalidPrefix, pfx)
	}

	ip := pfx.Addr()
	if ip.Is4In6() && pfx.Bits() >= 96 {
		pfx = netip.PrefixFrom(ip.Unmap(), pfx.Bits()-96)
	}

	return IPPrefix{pfx.Masked()}, nil
}

// From4 returns the IPv4 prefix for the address addr, most significant
// byte first (3232235776 is 192.168.1.0), and the mask length bits.
// A mask length outside [0..32] returns ErrInvalidPrefix.
func From4(addr uint32, bits int) (IPPrefix, error) {
	if bits < 0 || bits > 32 {
		return IPPrefix{}, fmt.Errorf("%w: mask length %d out of range [0..32]", ErrInvalidPrefix, bits)
	}

	ip := netip.AddrFrom4([4]byte{byte(addr >> 24), byte(addr >> 16), byte(addr >> 8), byte(addr)})
	return IPPrefix{netip.PrefixFrom(ip, bits).Masked()}, nil
}

// Parse parses s in CIDR notation, a bare address is treated as host prefix.
func Parse(s string) (IPPrefix, error) {
	pfx, err := netip.ParsePrefix(s)
	if err != nil {
		ip, ipErr := netip.ParseAddr(s)
		if ipErr != nil {
			return IPPrefix{}, fmt.Errorf("%w: %v", ErrInvalidPrefix, err)
		}
		pfx = netip.PrefixFrom(ip, ip.BitLen())
	}
	return From(pfx)
}

// MustParse is like [Parse] but panics on error.
func MustParse(s string) IPPrefix {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Prefix returns the wrapped netip.Prefix.
func (p IPPrefix) Prefix() netip.Prefix {
	return p.pfx
}

// Is4 reports whether p is an IPv4 prefix.
func (p IPPrefix) Is4() bool {
	return p.pfx.Addr().Is4()
}

// Bits returns the prefix length.
func (p IPPrefix) Bits() int {
	return p.pfx.Bits()
}

// IsBitSet reports whether the address bit at pos is set, MSB first.
func (p IPPrefix) IsBitSet(pos int) bool {
	a16 := p.pfx.Addr().As16()
	if p.Is4() {
		pos += 96
	}
	return a16[pos>>3]&(0x80>>(pos&7)) != 0
}

// CommonBits returns the number of leading bits p and o have in common,
// limited by the shorter of both. Prefixes of different families have
// nothing in common.
func (p IPPrefix) CommonBits(o IPPrefix) int {
	a, b := p.pfx.Addr(), o.pfx.Addr()
	if a.Is4() != b.Is4() {
		return 0
	}

	limit := min(p.Bits(), o.Bits())

	x, y := a.As16(), b.As16()
	start := 0
	if a.Is4() {
		start = 12
	}

	n := 0
	for i := start; i < 16 && n < limit; i++ {
		if d := x[i] ^ y[i]; d != 0 {
			n += bits.LeadingZeros8(d)
			break
		}
		n += 8
	}

	return min(n, limit)
}

// Contains reports whether o is a subnet of p or equal to p.
func (p IPPrefix) Contains(o IPPrefix) bool {
	if p.Is4() != o.Is4() || p.Bits() > o.Bits() {
		return false
	}
	return p.CommonBits(o) == p.Bits()
}

// Truncate returns p shortened to bits.
func (p IPPrefix) Truncate(bits int) IPPrefix {
	return IPPrefix{netip.PrefixFrom(p.pfx.Addr(), bits).Masked()}
}

// Compare returns an integer comparing p and o in natural CIDR sort order,
// first by address and then by prefix length.
func (p IPPrefix) Compare(o IPPrefix) int {
	if c := p.pfx.Addr().Compare(o.pfx.Addr()); c != 0 {
		return c
	}
	return cmp.Compare(p.Bits(), o.Bits())
}

// String returns the CIDR notation of p.
func (p IPPrefix) String() string {
	return p.pfx.String()
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (p IPPrefix) MarshalText() ([]byte, error) {
	return p.pfx.MarshalText()
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (p *IPPrefix) UnmarshalText(text []byte) error {
	q, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = q
	return nil
}
