// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import (
	"io"
	"iter"
)

// PrefixSet is a set of prefixes, a [PrefixMap] without payload.
//
// The zero value is ready to use. Like PrefixMap it is not safe for
// concurrent writes.
type PrefixSet[P Prefix[P]] struct {
	m PrefixMap[P, struct{}]
}

// Insert adds pfx to the set and reports whether it was newly added.
func (s *PrefixSet[P]) Insert(pfx P) bool {
	_, existed := s.m.Insert(pfx, struct{}{})
	return !existed
}

// Remove deletes pfx from the set and reports whether it was present.
func (s *PrefixSet[P]) Remove(pfx P) bool {
	_, ok := s.m.Remove(pfx)
	return ok
}

// Contains reports whether exactly pfx is in the set.
func (s *PrefixSet[P]) Contains(pfx P) bool {
	return s.m.Contains(pfx)
}

// LookupLPM returns the most specific prefix in the set containing pfx.
func (s *PrefixSet[P]) LookupLPM(pfx P) (lpm P, ok bool) {
	lpm, _, ok = s.m.LookupLPM(pfx)
	return lpm, ok
}

// LookupSPM returns the least specific prefix in the set containing pfx.
func (s *PrefixSet[P]) LookupSPM(pfx P) (spm P, ok bool) {
	spm, _, ok = s.m.LookupSPM(pfx)
	return spm, ok
}

// RemoveSubtree removes pfx and all its subnets, it returns the number
// of removed prefixes.
func (s *PrefixSet[P]) RemoveSubtree(pfx P) int {
	return s.m.RemoveSubtree(pfx)
}

// Len returns the number of prefixes in the set.
func (s *PrefixSet[P]) Len() int {
	return s.m.Len()
}

// IsEmpty reports whether the set is empty.
func (s *PrefixSet[P]) IsEmpty() bool {
	return s.m.IsEmpty()
}

// Clear removes all prefixes.
func (s *PrefixSet[P]) Clear() {
	s.m.Clear()
}

// All returns an iterator over all prefixes, see [PrefixMap.All].
func (s *PrefixSet[P]) All() iter.Seq[P] {
	return s.m.Keys()
}

// Subtree returns an iterator over all prefixes contained in pfx.
func (s *PrefixSet[P]) Subtree(pfx P) iter.Seq[P] {
	return keysOf(s.m.Subtree(pfx))
}

// Cover returns an iterator over all prefixes containing pfx,
// least specific first.
func (s *PrefixSet[P]) Cover(pfx P) iter.Seq[P] {
	return keysOf(s.m.Cover(pfx))
}

// Fprint writes the hierarchical tree diagram of the set to w.
func (s *PrefixSet[P]) Fprint(w io.Writer) error {
	return s.m.Fprint(w)
}

// String returns the hierarchical tree diagram of the set.
func (s *PrefixSet[P]) String() string {
	return s.m.String()
}

func keysOf[P, V any](seq iter.Seq2[P, V]) iter.Seq[P] {
	return func(yield func(P) bool) {
		for pfx := range seq {
			if !yield(pfx) {
				return
			}
		}
	}
}
