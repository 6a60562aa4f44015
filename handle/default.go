// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package handle

// Default is the registry behind the package level functions.
var Default = NewRegistry()

// Create allocates a table in the Default registry.
func Create() Handle { return Default.Create() }

// Destroy releases a table of the Default registry.
func Destroy(h Handle) { Default.Destroy(h) }

// Insert see [Registry.Insert].
func Insert(h Handle, addr uint32, maskLen uint8, action uint8) int {
	return Default.Insert(h, addr, maskLen, action)
}

// Lookup see [Registry.Lookup].
func Lookup(h Handle, addr uint32, maskLen uint8) uint8 {
	return Default.Lookup(h, addr, maskLen)
}

// Remove see [Registry.Remove].
func Remove(h Handle, addr uint32, maskLen uint8) {
	Default.Remove(h, addr, maskLen)
}
