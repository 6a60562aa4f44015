// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import (
	"fmt"
	"io"
	"strings"
)

type nodeType byte

const (
	nullNode         nodeType = iota // empty root
	fullNode                         // entry with children
	leafNode                         // entry without children
	intermediateNode                 // placeholder, only children
)

func (nt nodeType) String() string {
	switch nt {
	case nullNode:
		return "NULL"
	case fullNode:
		return "FULL"
	case leafNode:
		return "LEAF"
	case intermediateNode:
		return "IMED"
	default:
		return "unreachable"
	}
}

// ##################################################
//  useful during development, debugging and testing
// ##################################################

// dumpString is just a wrapper for dump.
func (m *PrefixMap[P, V]) dumpString() string {
	w := new(strings.Builder)
	m.dump(w)

	return w.String()
}

// dump the arena structure, pre-order, one node per line,
// indented by the bit depth.
func (m *PrefixMap[P, V]) dump(w io.Writer) {
	if m == nil || m.arena.nodes == nil {
		return
	}

	fmt.Fprintf(w, "### size(%d), nodes(%d), free(%d)\n",
		m.size, m.arena.live(), len(m.arena.free))

	m.dumpRec(w, rootIdx)
}

// dumpRec, rec-descent the trie.
func (m *PrefixMap[P, V]) dumpRec(w io.Writer, i nodeIdx) {
	n := m.arena.at(i)

	indent := strings.Repeat(".", n.bits)
	if i == rootIdx {
		fmt.Fprintf(w, "[%s] #%d /0", m.hasType(i), i)
	} else {
		fmt.Fprintf(w, "%s[%s] #%d %v parent: #%d", indent, m.hasType(i), i, n.prefix, n.parent)
	}

	if n.hasValue {
		fmt.Fprintf(w, " value: %v", n.value)
	}
	fmt.Fprintln(w)

	for _, c := range n.child {
		if c != nilIdx {
			m.dumpRec(w, c)
		}
	}
}

// hasType returns the nodeType.
func (m *PrefixMap[P, V]) hasType(i nodeIdx) nodeType {
	n := m.arena.at(i)
	kids := n.childCount()

	switch {
	case !n.hasValue && kids == 0:
		return nullNode
	case n.hasValue && kids == 0:
		return leafNode
	case n.hasValue:
		return fullNode
	default:
		return intermediateNode
	}
}
