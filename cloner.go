// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparserun

// Cloner is an interface that enables deep cloning of payload values. If a
// SparseArray's T or a SparseString's E implements Cloner[V], Clone methods
// on the facades use it to deep-copy payload values; otherwise payload
// values are shared by assignment (spec.md §9: clone is shallow by default).
type Cloner[V any] interface {
	Clone() V
}
