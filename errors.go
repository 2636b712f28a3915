// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparserun

import "errors"

// Sentinel errors returned by sparserun operations. Use [errors.Is] to test
// for a specific kind; every wrapped error carries additional context via
// fmt.Errorf's %w verb.
var (
	// ErrInvalidIndex is returned when an index argument is negative.
	ErrInvalidIndex = errors.New("sparserun: invalid index")

	// ErrInvalidCount is returned when a count argument (the length of
	// DeleteN, the n of SparseIndices.Set, the c of IndexOfCountFrom) is
	// negative. CountAt takes an index, so a negative argument to it is
	// reported as ErrInvalidIndex, not ErrInvalidCount.
	ErrInvalidCount = errors.New("sparserun: invalid count")

	// ErrSlicerRewind is returned by the NextSlice method of ArraySlicer,
	// StringSlicer and IndicesSlicer when end is smaller than the end passed
	// to the previous call.
	ErrSlicerRewind = errors.New("sparserun: slicer end index went backwards")

	// ErrInvalidSerialized is returned by Deserialize/UnmarshalJSON when the
	// input contains a type- or range-invalid element.
	ErrInvalidSerialized = errors.New("sparserun: invalid serialized element")

	// ErrInvalidEmbed is returned by SparseString.SetEmbed when the value is
	// not a non-nil embed (e.g. a nil pointer, map, slice, or interface).
	ErrInvalidEmbed = errors.New("sparserun: invalid embed value")
)
