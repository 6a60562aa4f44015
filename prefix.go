// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import "errors"

// ErrInvalidPrefix is returned by the constructors of concrete prefix types
// when the address is malformed or the length exceeds the address width.
var ErrInvalidPrefix = errors.New("pfxtrie: invalid prefix")

// Prefix is the capability a key type must provide to be stored in a
// [PrefixMap] or [PrefixSet]. The trie never looks at the concrete address
// representation, it only walks the bits exposed by this interface.
//
// Implementations must be normalized: all bits at positions >= Bits()
// are cleared, so that two prefixes with the same length and leading bits
// are identical.
//
// All prefixes stored in one container must belong to the same address
// family. Comparing prefixes of different families is a caller error.
type Prefix[P any] interface {
	// Bits returns the prefix length in bits, negative for an invalid
	// prefix. Invalid prefixes are never stored and never match.
	Bits() int

	// IsBitSet reports whether the bit at pos is 1, counting from the
	// most significant bit at position 0. Defined for pos < Bits().
	IsBitSet(pos int) bool

	// Contains reports whether o is equal to or more specific than
	// the receiver.
	Contains(o P) bool

	// CommonBits returns the number of leading bits shared by the receiver
	// and o. It is symmetric and never exceeds min(Bits(), o.Bits()).
	CommonBits(o P) int

	// Truncate returns the prefix with only the first bits kept,
	// bits must not exceed Bits().
	Truncate(bits int) P
}

// bitOf returns the child slot selected by the bit of pfx at pos.
func bitOf[P Prefix[P]](pfx P, pos int) int {
	if pfx.IsBitSet(pos) {
		return 1
	}
	return 0
}
