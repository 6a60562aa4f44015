// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

// PrefixMap is a path-compressed binary trie mapping prefixes to values
// of type V. All operations run in time proportional to the prefix length,
// independent of the number of entries.
//
// The zero value is ready to use.
//
// A PrefixMap is not safe for concurrent use. Concurrent readers are fine,
// but writers must be synchronized externally.
type PrefixMap[P Prefix[P], V any] struct {
	arena arena[P, V]

	// number of entries, placeholders not counted
	size int
}

// init the root node, so no constructor is needed.
func (m *PrefixMap[P, V]) init() {
	if m.arena.nodes == nil {
		m.arena.reset()
	}
}

const errMixedFamilies = "pfxtrie: prefixes of different address families in one container"

// commonBits returns the number of leading bits shared by node n and pfx,
// capped at the length of n. It returns -1 if a stored default route
// does not contain pfx, the root of another address family.
func (m *PrefixMap[P, V]) commonBits(n *node[P, V], pfx P) int {
	// the root prefix is unset without a default route
	if n.bits == 0 {
		if n.hasValue && !n.prefix.Contains(pfx) {
			return -1
		}
		return 0
	}
	return min(n.prefix.CommonBits(pfx), n.bits)
}

// Insert adds pfx with val to the map. If pfx is already present, its
// value is replaced and the previous value is returned with existed == true.
//
// Invalid prefixes with a negative length are ignored. Inserting a prefix
// of another address family than the stored ones panics.
func (m *PrefixMap[P, V]) Insert(pfx P, val V) (old V, existed bool) {
	bits := pfx.Bits()
	if bits < 0 {
		return old, false
	}

	m.init()
	a := &m.arena

	cur := rootIdx
	for {
		n := a.at(cur)
		common := m.commonBits(n, pfx)

		switch {
		case common == n.bits && common == bits:
			// pfx is already represented, entry or placeholder
			old, existed = n.value, n.hasValue
			n.prefix = pfx
			n.value, n.hasValue = val, true
			if !existed {
				m.size++
			}
			return old, existed

		case common == n.bits:
			// pfx extends n, go down
			slot := bitOf(pfx, n.bits)
			next := n.child[slot]
			if next == nilIdx {
				leaf := a.alloc(pfx, bits)
				a.at(leaf).value, a.at(leaf).hasValue = val, true
				a.link(cur, slot, leaf)
				m.size++
				return old, false
			}
			cur = next

		case common < 0:
			panic(errMixedFamilies)

		default:
			// pfx diverges from n before the end of n, never for the root
			m.insertBranch(cur, pfx, common, val)
			m.size++
			return old, false
		}
	}
}

// insertBranch puts a branch point of length common between cur and its
// parent. If pfx itself is the branch point, pfx gets cur as only child,
// otherwise a placeholder with cur and the new leaf for pfx as children.
func (m *PrefixMap[P, V]) insertBranch(cur nodeIdx, pfx P, common int, val V) {
	a := &m.arena
	bits := pfx.Bits()

	parent := a.at(cur).parent
	if common <= a.at(parent).bits {
		panic(errMixedFamilies)
	}
	parentSlot := a.slotOf(parent, cur)

	var branch nodeIdx
	if common == bits {
		branch = a.alloc(pfx, bits)
		a.at(branch).value, a.at(branch).hasValue = val, true
	} else {
		branch = a.alloc(pfx.Truncate(common), common)
		leaf := a.alloc(pfx, bits)
		a.at(leaf).value, a.at(leaf).hasValue = val, true
		a.link(branch, bitOf(pfx, common), leaf)
	}

	a.link(parent, parentSlot, branch)
	a.link(branch, bitOf(a.at(cur).prefix, common), cur)
}

// find returns the node representing exactly pfx, entry or placeholder,
// or nilIdx.
func (m *PrefixMap[P, V]) find(pfx P) nodeIdx {
	if m.arena.nodes == nil {
		return nilIdx
	}
	bits := pfx.Bits()

	cur := rootIdx
	for cur != nilIdx {
		n := m.arena.at(cur)
		if n.bits > bits || m.commonBits(n, pfx) < n.bits {
			return nilIdx
		}
		if n.bits == bits {
			return cur
		}
		cur = n.child[bitOf(pfx, n.bits)]
	}
	return nilIdx
}

// Get returns the value stored for exactly pfx.
func (m *PrefixMap[P, V]) Get(pfx P) (val V, ok bool) {
	i := m.find(pfx)
	if i == nilIdx {
		return val, false
	}
	n := m.arena.at(i)
	return n.value, n.hasValue
}

// Contains reports whether exactly pfx is stored in the map.
func (m *PrefixMap[P, V]) Contains(pfx P) bool {
	_, ok := m.Get(pfx)
	return ok
}

// walkCover calls fn for every entry whose prefix contains pfx, from the
// least to the most specific. It stops when fn returns false.
func (m *PrefixMap[P, V]) walkCover(pfx P, fn func(nodeIdx) bool) {
	if m.arena.nodes == nil {
		return
	}
	bits := pfx.Bits()

	cur := rootIdx
	for cur != nilIdx {
		n := m.arena.at(cur)
		if n.bits > bits || m.commonBits(n, pfx) < n.bits {
			return
		}
		if n.hasValue && !fn(cur) {
			return
		}
		if n.bits == bits {
			return
		}
		cur = n.child[bitOf(pfx, n.bits)]
	}
}

// LookupLPM returns the longest (most specific) stored prefix that contains
// pfx, together with its value. A host prefix gives the classic routing
// table lookup for an address.
//
// A query of another address family than the stored prefixes is a miss,
// the default route of one family never covers the other.
func (m *PrefixMap[P, V]) LookupLPM(pfx P) (lpm P, val V, ok bool) {
	best := nilIdx
	m.walkCover(pfx, func(i nodeIdx) bool {
		best = i
		return true
	})

	if best == nilIdx {
		return lpm, val, false
	}
	n := m.arena.at(best)
	return n.prefix, n.value, true
}

// LookupSPM returns the shortest (least specific) stored prefix that contains
// pfx, together with its value.
func (m *PrefixMap[P, V]) LookupSPM(pfx P) (spm P, val V, ok bool) {
	m.walkCover(pfx, func(i nodeIdx) bool {
		n := m.arena.at(i)
		spm, val, ok = n.prefix, n.value, true
		return false
	})
	return spm, val, ok
}

// Remove deletes pfx from the map and returns the removed value.
// Removing an absent prefix is a no-op and returns ok == false.
func (m *PrefixMap[P, V]) Remove(pfx P) (val V, ok bool) {
	i := m.find(pfx)
	if i == nilIdx || !m.arena.at(i).hasValue {
		return val, false
	}

	val = m.clearValue(i)
	m.prune(i)
	return val, true
}

// clearValue turns the entry at i into a placeholder.
func (m *PrefixMap[P, V]) clearValue(i nodeIdx) V {
	var zero V

	n := m.arena.at(i)
	val := n.value
	n.value, n.hasValue = zero, false
	m.size--

	return val
}

// prune removes the now redundant placeholders, starting at i and going
// upwards. Valueless leaves are detached, a valueless node with a single
// child is replaced by that child. The root is never pruned.
func (m *PrefixMap[P, V]) prune(i nodeIdx) {
	a := &m.arena

	for i != rootIdx {
		n := a.at(i)
		if n.hasValue {
			return
		}

		parent := n.parent
		switch n.childCount() {
		case 2:
			return

		case 1:
			// splice the grandchild into our slot, the ancestors are unaffected
			a.link(parent, a.slotOf(parent, i), n.onlyChild())
			a.release(i)
			return

		default:
			a.link(parent, a.slotOf(parent, i), nilIdx)
			a.release(i)
			i = parent
		}
	}
}

// Modify applies an insert, update, or delete operation for pfx.
//
// The callback receives the current value and whether pfx exists:
//
//	val:   current value (zero if not found)
//	found: true if pfx exists in the map
//
// It returns the new value and whether to delete pfx. Modify returns the
// old value for update and delete, the new value for insert, and deleted
// == true only if an entry was removed.
//
//	Operation | cb-input        | cb-return       | Modify-return
//	---------------------------------------------------------------
//	No-op:    | (zero,   false) | (_,      true)  | (zero,   false)
//	Insert:   | (zero,   false) | (newVal, false) | (newVal, false)
//	Update:   | (oldVal, true)  | (newVal, false) | (oldVal, false)
//	Delete:   | (oldVal, true)  | (_,      true)  | (oldVal, true)
func (m *PrefixMap[P, V]) Modify(pfx P, cb func(val V, found bool) (_ V, del bool)) (_ V, deleted bool) {
	var zero V

	oldVal, found := m.Get(pfx)
	newVal, del := cb(oldVal, found)

	switch {
	case !found && del:
		return zero, false
	case found && del:
		m.Remove(pfx)
		return oldVal, true
	case !found:
		m.Insert(pfx, newVal)
		return newVal, false
	default:
		m.Insert(pfx, newVal)
		return oldVal, false
	}
}

// RemoveSubtree removes pfx and every stored prefix contained in pfx,
// and returns the number of removed entries.
func (m *PrefixMap[P, V]) RemoveSubtree(pfx P) (count int) {
	top := m.subtreeRoot(pfx)
	if top == nilIdx {
		return 0
	}

	if top == rootIdx {
		count = m.size
		m.Clear()
		return count
	}

	a := &m.arena
	parent := a.at(top).parent
	a.link(parent, a.slotOf(parent, top), nilIdx)

	stack := []nodeIdx{top}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := a.at(i)
		if n.hasValue {
			count++
		}
		for _, c := range n.child {
			if c != nilIdx {
				stack = append(stack, c)
			}
		}
		a.release(i)
	}

	m.size -= count
	m.prune(parent)
	return count
}

// Retain removes all entries for which keep returns false.
func (m *PrefixMap[P, V]) Retain(keep func(pfx P, val V) bool) {
	var drop []P
	for pfx, val := range m.All() {
		if !keep(pfx, val) {
			drop = append(drop, pfx)
		}
	}

	for _, pfx := range drop {
		m.Remove(pfx)
	}
}

// Len returns the number of entries in the map.
func (m *PrefixMap[P, V]) Len() int {
	return m.size
}

// IsEmpty reports whether the map has no entries.
func (m *PrefixMap[P, V]) IsEmpty() bool {
	return m.size == 0
}

// Clear removes all entries, the arena memory is kept for reuse.
func (m *PrefixMap[P, V]) Clear() {
	clear(m.arena.nodes)
	m.arena.reset()
	m.size = 0
}

// Clone returns an independent copy of the map. If V implements
// [Cloner], the values are deep copied with Clone, otherwise they
// are copied by assignment.
func (m *PrefixMap[P, V]) Clone() *PrefixMap[P, V] {
	c := new(PrefixMap[P, V])
	if m.arena.nodes == nil {
		return c
	}

	c.size = m.size
	c.arena.nodes = make([]node[P, V], len(m.arena.nodes))
	copy(c.arena.nodes, m.arena.nodes)
	c.arena.free = append([]nodeIdx(nil), m.arena.free...)

	if cloneFn := cloneFnFactory[V](); cloneFn != nil {
		for i := range c.arena.nodes {
			if n := &c.arena.nodes[i]; n.hasValue {
				n.value = cloneFn(n.value)
			}
		}
	}

	return c
}
