// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import "math"

// nodeIdx addresses a node in the arena. Indices are stable for the
// lifetime of a node, released slots are recycled.
type nodeIdx uint32

const (
	// rootIdx is the zero-length prefix, it always exists.
	rootIdx nodeIdx = 0

	// nilIdx marks an empty child slot or the missing parent of the root.
	nilIdx nodeIdx = math.MaxUint32
)

// node is one prefix in the trie. child[0] extends the prefix with a 0 bit,
// child[1] with a 1 bit. The parent link is non-owning and only used to
// walk upwards when pruning.
//
// A node without value is a placeholder, apart from the root it exists
// only as a branch point with two children.
type node[P any, V any] struct {
	prefix P
	value  V

	// cached prefix length, the root prefix is unset until a
	// default route is inserted, but its length is always 0.
	bits     int
	hasValue bool

	child  [2]nodeIdx
	parent nodeIdx
}

// childCount returns the number of occupied child slots.
func (n *node[P, V]) childCount() (count int) {
	for _, c := range n.child {
		if c != nilIdx {
			count++
		}
	}
	return count
}

// onlyChild returns the single occupied child slot, or nilIdx.
func (n *node[P, V]) onlyChild() nodeIdx {
	if n.child[0] != nilIdx {
		return n.child[0]
	}
	return n.child[1]
}

// arena is the flat node store of one PrefixMap.
type arena[P any, V any] struct {
	nodes []node[P, V]
	free  []nodeIdx
}

// reset drops all nodes and allocates a fresh root.
func (a *arena[P, V]) reset() {
	a.nodes = append(a.nodes[:0], node[P, V]{
		child:  [2]nodeIdx{nilIdx, nilIdx},
		parent: nilIdx,
	})
	a.free = a.free[:0]
}

// at returns the node at i. The pointer is only valid until
// the next alloc, alloc may grow the backing slice.
func (a *arena[P, V]) at(i nodeIdx) *node[P, V] {
	return &a.nodes[i]
}

// alloc returns the index of a fresh, unlinked node for pfx.
func (a *arena[P, V]) alloc(pfx P, bits int) nodeIdx {
	n := node[P, V]{
		prefix: pfx,
		bits:   bits,
		child:  [2]nodeIdx{nilIdx, nilIdx},
		parent: nilIdx,
	}

	if last := len(a.free) - 1; last >= 0 {
		i := a.free[last]
		a.free = a.free[:last]
		a.nodes[i] = n
		return i
	}

	a.nodes = append(a.nodes, n)
	return nodeIdx(len(a.nodes) - 1)
}

// release puts i back on the free list. The node is zeroed, so the
// prefix and value can be collected by the GC.
func (a *arena[P, V]) release(i nodeIdx) {
	a.nodes[i] = node[P, V]{
		child:  [2]nodeIdx{nilIdx, nilIdx},
		parent: nilIdx,
	}
	a.free = append(a.free, i)
}

// link sets child into the slot of parent and updates the back-reference.
func (a *arena[P, V]) link(parent nodeIdx, slot int, child nodeIdx) {
	a.nodes[parent].child[slot] = child
	if child != nilIdx {
		a.nodes[child].parent = parent
	}
}

// slotOf returns the slot of parent that holds child.
func (a *arena[P, V]) slotOf(parent, child nodeIdx) int {
	if a.nodes[parent].child[1] == child {
		return 1
	}
	return 0
}

// live returns the number of nodes in use, including placeholders and the root.
func (a *arena[P, V]) live() int {
	return len(a.nodes) - len(a.free)
}
