// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package pfxtrie provides a path-compressed binary trie for network
// address prefixes with exact and longest-prefix-match lookups.
//
// The trie is generic over the key type, any type implementing the
// [Prefix] capability can be stored. [IPPrefix] is the ready-made
// IPv4/IPv6 address family on top of [net/netip].
//
//   - PrefixMap: prefixes with a payload V
//   - PrefixSet: prefixes only
//
// Every node represents exactly one prefix, children extend their parent
// by at least one bit, and placeholders exist only where two branches
// meet. Insert, Get, LookupLPM and Remove run in time proportional to the
// prefix length, not to the number of entries.
//
// Nodes live in an arena and reference each other by index, the parent
// link used for pruning is a plain index and owns nothing.
//
// The containers are not safe for concurrent writes, see the handle
// package for a synchronized boundary with integer handles.
package pfxtrie
