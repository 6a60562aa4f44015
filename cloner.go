// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

// Cloner is an interface that enables deep cloning of values of type V.
// If a value implements Cloner[V], [PrefixMap.Clone] uses its Clone
// method to perform deep copies.
type Cloner[V any] interface {
	Clone() V
}

// cloneFnFactory returns a clone function if V implements Cloner[V],
// otherwise nil.
func cloneFnFactory[V any]() func(V) V {
	var zero V
	// you can't assert directly on a type parameter
	if _, ok := any(zero).(Cloner[V]); ok {
		return cloneVal[V]
	}
	return nil
}

// cloneVal returns a deep clone of val by calling its Clone method.
// A nil Cloner is returned unchanged.
func cloneVal[V any](val V) V {
	c, ok := any(val).(Cloner[V])
	if !ok || c == nil {
		return val
	}
	return c.Clone()
}
