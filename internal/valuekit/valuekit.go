// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package valuekit provides utilities for working with generic payload
// types at runtime: equality with an opt-in override, and deep cloning with
// an opt-in override.
//
// This is an internal package used by the sparserun facades to implement
// Equal and Clone without forcing every payload type to satisfy an
// interface.
package valuekit

import "reflect"

// Equaler is a generic interface for payload types that can decide their
// own equality logic, overriding the potentially expensive default
// comparison with [reflect.DeepEqual].
type Equaler[V any] interface {
	Equal(other V) bool
}

// Equal compares two values of type V for equality. If V implements
// Equaler[V], that custom equality method is used; otherwise
// [reflect.DeepEqual] is the fallback.
func Equal[V any](v1, v2 V) bool {
	// you can't assert directly on a type parameter
	if e, ok := any(v1).(Equaler[V]); ok {
		return e.Equal(v2)
	}
	return reflect.DeepEqual(v1, v2)
}

// Cloner is an interface that enables deep cloning of values of type V.
type Cloner[V any] interface {
	Clone() V
}

// CloneFunc takes a value of type V and returns the (possibly cloned) value.
type CloneFunc[V any] func(V) V

// CloneFnFactory returns a CloneFunc that deep-copies via Clone() when V
// implements Cloner[V], or nil when it doesn't — callers treat a nil
// CloneFunc as "share the value" rather than calling it unconditionally.
func CloneFnFactory[V any]() CloneFunc[V] {
	var zero V
	// you can't assert directly on a type parameter
	if _, ok := any(zero).(Cloner[V]); ok {
		return CloneVal[V]
	}
	return nil
}

// CloneVal returns a deep clone of val via its Clone method when val
// implements Cloner[V]; otherwise val is returned unchanged (shared).
func CloneVal[V any](val V) V {
	c, ok := any(val).(Cloner[V])
	if !ok || c == nil {
		return val
	}
	return c.Clone()
}

// IsZST reports whether type V is a zero-sized type (struct{}, [0]byte, and
// the like). The SparseArray and SparseString debug dumps (String/Fprint)
// use it to skip printing per-value content for zero-sized payloads and
// embeds, since there is nothing in the value itself worth rendering.
func IsZST[V any]() bool {
	a, b := escapeToHeap[V]()
	return a == b
}

//go:noinline
func escapeToHeap[V any]() (*V, *V) {
	return new(V), new(V)
}
