// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// MarshalText implements [encoding.TextMarshaler] with the output of
// [PrefixMap.Fprint].
func (m *PrefixMap[P, V]) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Fprint(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns a hierarchical tree diagram of the ordered prefixes
// as string, just a wrapper for [PrefixMap.Fprint].
// If Fprint returns an error, String panics.
func (m *PrefixMap[P, V]) String() string {
	w := new(strings.Builder)
	if err := m.Fprint(w); err != nil {
		panic(err)
	}

	return w.String()
}

// Fprint writes a hierarchical tree diagram of the ordered prefixes
// with default formatted payload V to w. If w is nil, Fprint panics.
//
// Placeholders are not shown, every entry is printed below the most
// specific entry covering it.
//
//	▼
//	├─ 10.0.0.0/8 (V)
//	│  ├─ 10.0.0.0/24 (V)
//	│  └─ 10.0.1.0/24 (V)
//	├─ 127.0.0.0/8 (V)
//	│  └─ 127.0.0.1/32 (V)
//	└─ 192.168.0.0/16 (V)
//	   └─ 192.168.1.0/24 (V)
func (m *PrefixMap[P, V]) Fprint(w io.Writer) error {
	if m.size == 0 {
		return nil
	}

	if _, err := fmt.Fprint(w, "▼\n"); err != nil {
		return err
	}

	// the default route is the single top level entry
	top := []nodeIdx{rootIdx}
	if !m.arena.at(rootIdx).hasValue {
		top = m.directKids(rootIdx)
	}

	return m.fprintKids(w, top, "")
}

// fprintKids writes the kids and, recursively, their direct kids,
// indented by pad.
func (m *PrefixMap[P, V]) fprintKids(w io.Writer, kids []nodeIdx, pad string) error {
	withValues := shouldPrintValues[V]()

	for i, kid := range kids {
		branch, indent := "├─ ", "│  "
		if i == len(kids)-1 {
			branch, indent = "└─ ", "   "
		}

		n := m.arena.at(kid)
		line := pad + branch + fmt.Sprint(n.prefix)
		if withValues {
			line += fmt.Sprintf(" (%v)", n.value)
		}

		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}

		if err := m.fprintKids(w, m.directKids(kid), pad+indent); err != nil {
			return err
		}
	}

	return nil
}

// directKids returns the entries directly covered by i, placeholders
// in between are skipped. The order is the pre-order of the trie.
func (m *PrefixMap[P, V]) directKids(i nodeIdx) []nodeIdx {
	var kids []nodeIdx

	var rec func(nodeIdx)
	rec = func(c nodeIdx) {
		if c == nilIdx {
			return
		}
		n := m.arena.at(c)
		if n.hasValue {
			kids = append(kids, c)
			return
		}
		rec(n.child[0])
		rec(n.child[1])
	}

	n := m.arena.at(i)
	rec(n.child[0])
	rec(n.child[1])

	return kids
}

// shouldPrintValues, don't print the values of a set.
func shouldPrintValues[V any]() bool {
	var zero V

	_, isEmptyStruct := any(zero).(struct{})
	return !isEmptyStruct
}
