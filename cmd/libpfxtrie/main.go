// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command libpfxtrie builds the IPv4 prefix tables as C shared library:
//
//	go build -buildmode=c-shared -o libpfxtrie.so ./cmd/libpfxtrie
//
// Tables are referenced by integer handles, C code never sees Go memory.
//
//	uintptr_t t = pfxtrie_new();
//	pfxtrie_insert(t, 3232235776, 24, 1);    // 192.168.1.0/24 -> 1
//	char a = pfxtrie_get(t, 3232235777, 32); // 1
//	pfxtrie_remove(t, 3232235776, 24);
//	pfxtrie_free(t);
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"github.com/gaissmai/pfxtrie/handle"
)

//export pfxtrie_new
func pfxtrie_new() C.uintptr_t {
	return C.uintptr_t(handle.Create())
}

//export pfxtrie_free
func pfxtrie_free(h C.uintptr_t) {
	handle.Destroy(handle.Handle(h))
}

// pfxtrie_insert returns 0 on success and 1 for a mask length > 32
// or an unknown handle.
//
//export pfxtrie_insert
func pfxtrie_insert(h C.uintptr_t, addr C.uint32_t, maskLen C.uint8_t, action C.uint8_t) C.int {
	return C.int(handle.Insert(handle.Handle(h), uint32(addr), uint8(maskLen), uint8(action)))
}

// pfxtrie_get returns the action of the longest matching prefix, 0 if
// nothing matches and 1 for a mask length > 32.
//
//export pfxtrie_get
func pfxtrie_get(h C.uintptr_t, addr C.uint32_t, maskLen C.uint8_t) C.char {
	return C.char(handle.Lookup(handle.Handle(h), uint32(addr), uint8(maskLen)))
}

//export pfxtrie_remove
func pfxtrie_remove(h C.uintptr_t, addr C.uint32_t, maskLen C.uint8_t) {
	handle.Remove(handle.Handle(h), uint32(addr), uint8(maskLen))
}

func main() {}
