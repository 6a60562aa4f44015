// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DumpListNode contains CIDR, Value and Subnets, representing the trie
// in a sorted, recursive representation, especially useful for serialization.
type DumpListNode[P, V any] struct {
	CIDR    P                    `json:"cidr"`
	Value   V                    `json:"value"`
	Subnets []DumpListNode[P, V] `json:"subnets,omitempty"`
}

// MarshalJSON dumps the map as nested list of entries and their subnets.
// The prefix type must be a text or JSON marshaler, like [IPPrefix].
func (m *PrefixMap[P, V]) MarshalJSON() ([]byte, error) {
	list := m.DumpList()
	if list == nil {
		list = []DumpListNode[P, V]{}
	}
	return json.Marshal(list)
}

// UnmarshalJSON inserts all entries of the nested list into the map,
// existing entries are kept or overwritten.
func (m *PrefixMap[P, V]) UnmarshalJSON(data []byte) error {
	var list []DumpListNode[P, V]
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}

	var insertRec func([]DumpListNode[P, V])
	insertRec = func(nodes []DumpListNode[P, V]) {
		for _, dn := range nodes {
			m.Insert(dn.CIDR, dn.Value)
			insertRec(dn.Subnets)
		}
	}
	insertRec(list)

	return nil
}

// DumpList dumps the map into a list of the top level entries, each with
// the entries it covers as subnets, recursively.
func (m *PrefixMap[P, V]) DumpList() []DumpListNode[P, V] {
	if m.size == 0 {
		return nil
	}

	top := []nodeIdx{rootIdx}
	if !m.arena.at(rootIdx).hasValue {
		top = m.directKids(rootIdx)
	}

	return m.dumpListRec(top)
}

func (m *PrefixMap[P, V]) dumpListRec(kids []nodeIdx) []DumpListNode[P, V] {
	if len(kids) == 0 {
		return nil
	}

	nodes := make([]DumpListNode[P, V], 0, len(kids))
	for _, kid := range kids {
		n := m.arena.at(kid)
		nodes = append(nodes, DumpListNode[P, V]{
			CIDR:    n.prefix,
			Value:   n.value,
			Subnets: m.dumpListRec(m.directKids(kid)),
		})
	}

	return nodes
}
