// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import "iter"

// All returns an iterator over all entries in pre-order, at every branch
// the 0 bit before the 1 bit. For prefixes of one address family this is
// the natural CIDR sort order, shorter prefixes before their subnets.
//
// Prefixes must not be inserted or removed during iteration, otherwise
// the behavior is undefined. However, value updates are permitted.
//
// If the yield function returns false, the iteration ends prematurely.
func (m *PrefixMap[P, V]) All() iter.Seq2[P, V] {
	return func(yield func(P, V) bool) {
		if m.arena.nodes == nil {
			return
		}
		m.preorder(rootIdx, yield)
	}
}

// Keys returns an iterator over all prefixes in the order of [PrefixMap.All].
func (m *PrefixMap[P, V]) Keys() iter.Seq[P] {
	return func(yield func(P) bool) {
		for pfx := range m.All() {
			if !yield(pfx) {
				return
			}
		}
	}
}

// Values returns an iterator over all values in the order of [PrefixMap.All].
func (m *PrefixMap[P, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, val := range m.All() {
			if !yield(val) {
				return
			}
		}
	}
}

// Subtree returns an iterator over all entries contained in pfx,
// pfx itself included, in the order of [PrefixMap.All].
func (m *PrefixMap[P, V]) Subtree(pfx P) iter.Seq2[P, V] {
	return func(yield func(P, V) bool) {
		if top := m.subtreeRoot(pfx); top != nilIdx {
			m.preorder(top, yield)
		}
	}
}

// Cover returns an iterator over all entries containing pfx, pfx itself
// included, from the least to the most specific. The last one is the
// longest prefix match. A query of another address family yields nothing.
func (m *PrefixMap[P, V]) Cover(pfx P) iter.Seq2[P, V] {
	return func(yield func(P, V) bool) {
		m.walkCover(pfx, func(i nodeIdx) bool {
			n := m.arena.at(i)
			return yield(n.prefix, n.value)
		})
	}
}

// subtreeRoot returns the first node on the path of pfx that is
// contained in pfx, or nilIdx.
func (m *PrefixMap[P, V]) subtreeRoot(pfx P) nodeIdx {
	if m.arena.nodes == nil {
		return nilIdx
	}
	bits := pfx.Bits()
	if bits < 0 {
		return nilIdx
	}

	cur := rootIdx
	for cur != nilIdx {
		n := m.arena.at(cur)
		common := m.commonBits(n, pfx)

		if n.bits >= bits {
			if common >= bits {
				return cur
			}
			return nilIdx
		}

		if common < n.bits {
			return nilIdx
		}
		cur = n.child[bitOf(pfx, n.bits)]
	}
	return nilIdx
}

// preorder yields all entries below and including start, with an
// explicit stack instead of recursion.
func (m *PrefixMap[P, V]) preorder(start nodeIdx, yield func(P, V) bool) bool {
	// stack allocated for the usual IPv4/IPv6 depths
	var stackArray [64]nodeIdx
	stack := append(stackArray[:0], start)

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := m.arena.at(i)
		if n.hasValue && !yield(n.prefix, n.value) {
			return false
		}

		// push right before left, pop left first
		n = m.arena.at(i)
		if c := n.child[1]; c != nilIdx {
			stack = append(stack, c)
		}
		if c := n.child[0]; c != nilIdx {
			stack = append(stack, c)
		}
	}
	return true
}
