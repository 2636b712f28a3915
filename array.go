// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparserun

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/gaissmai/sparserun/internal/valuekit"
)

// SparseArray is a sparse sequence of values of type T, one per index. Every
// index is either present (holding a T) or deleted (a hole); length is the
// greatest present index plus one.
//
// The zero value is not usable; construct one with [NewSparseArray].
type SparseArray[T any] struct {
	e *engine[[]T]
}

// arrayOps is the Item trait (C1) for SparseArray: the item representation
// is simply []T, a run of consecutive present values.
type arrayOps[T any] struct{}

func (arrayOps[T]) length(item []T) int { return len(item) }

func (arrayOps[T]) split(item []T, k int) (left, right []T) {
	left = append([]T(nil), item[:k]...)
	right = append([]T(nil), item[k:]...)
	return left, right
}

func (arrayOps[T]) tryMerge(left, right []T) ([]T, bool) {
	merged := make([]T, 0, len(left)+len(right))
	merged = append(merged, left...)
	merged = append(merged, right...)
	return merged, true
}

func (arrayOps[T]) slice(item []T, start, end int) []T {
	out := make([]T, end-start)
	copy(out, item[start:end])
	return out
}

// NewSparseArray returns an empty SparseArray.
func NewSparseArray[T any]() *SparseArray[T] {
	return &SparseArray[T]{e: newEngine[[]T](arrayOps[T]{})}
}

// Length returns the greatest present index plus one, or 0 if empty.
func (a *SparseArray[T]) Length() int { return a.e.length() }

// Count returns the number of present indices.
func (a *SparseArray[T]) Count() int { return a.e.count() }

// IsEmpty reports whether no index is present.
func (a *SparseArray[T]) IsEmpty() bool { return a.e.isEmpty() }

// Has reports whether index i is present.
func (a *SparseArray[T]) Has(i int) (bool, error) {
	if i < 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	return a.e.has(i), nil
}

// Get returns the value at i and true if present, or the zero value and
// false otherwise.
func (a *SparseArray[T]) Get(i int) (T, bool, error) {
	var zero T
	if i < 0 {
		return zero, false, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	item, ok := a.e.getItemAt(i)
	if !ok {
		return zero, false, nil
	}
	return item[0], true, nil
}

// CountAt returns the number of present indices in [0,i). i >= Length is
// accepted and returns Count().
func (a *SparseArray[T]) CountAt(i int) (int, error) {
	if i < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	return a.e.countAt(i), nil
}

// IndexOfCount is IndexOfCountFrom with start == 0.
func (a *SparseArray[T]) IndexOfCount(c int) (int, error) {
	return a.IndexOfCountFrom(c, 0)
}

// IndexOfCountFrom returns the smallest i >= start such that there are c
// present indices in [start,i) and i is present, or -1 if none exists.
func (a *SparseArray[T]) IndexOfCountFrom(c, start int) (int, error) {
	if c < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, c)
	}
	if start < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIndex, start)
	}
	return a.e.indexOfCount(c, start), nil
}

// Set overwrites [i, i+len(values)) with values and returns the previous
// occupants of that span as a fresh SparseArray (index 0 of the returned
// container corresponds to i). An empty values is a no-op.
func (a *SparseArray[T]) Set(i int, values ...T) (*SparseArray[T], error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	if len(values) == 0 {
		return NewSparseArray[T](), nil
	}
	copied := append([]T(nil), values...)
	displaced := a.e.overwrite(i, newPresentNode[[]T](copied))
	return &SparseArray[T]{e: displaced}, nil
}

// Delete is DeleteN with n == 1.
func (a *SparseArray[T]) Delete(i int) (*SparseArray[T], error) {
	return a.DeleteN(i, 1)
}

// DeleteN overwrites [i, i+n) with a hole of length n and returns the
// previous occupants as a fresh SparseArray. n == 0 is a no-op.
func (a *SparseArray[T]) DeleteN(i, n int) (*SparseArray[T], error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if n == 0 {
		return NewSparseArray[T](), nil
	}
	displaced := a.e.overwrite(i, newDeletedNode[[]T](n))
	return &SparseArray[T]{e: displaced}, nil
}

// Clone returns a structural copy. Payload values are deep-cloned when T
// implements [Cloner], otherwise shared (spec.md §9 Open Question, resolved
// as shallow by default with an opt-in deep-clone hook).
func (a *SparseArray[T]) Clone() *SparseArray[T] {
	cloneFn := valuekit.CloneFnFactory[T]()
	cloneItem := func(item []T) []T {
		out := make([]T, len(item))
		if cloneFn == nil {
			copy(out, item)
			return out
		}
		for i, v := range item {
			out[i] = cloneFn(v)
		}
		return out
	}
	return &SparseArray[T]{e: a.e.clone(cloneItem)}
}

// Equal reports whether a and other hold the same present/deleted runs with
// equal values, using [Equaler] when T implements it and
// [reflect.DeepEqual] otherwise.
func (a *SparseArray[T]) Equal(other *SparseArray[T]) bool {
	ar, br := a.e.serializeRuns(), other.e.serializeRuns()
	if len(ar) != len(br) {
		return false
	}
	for i := range ar {
		if ar[i].present != br[i].present {
			return false
		}
		if !ar[i].present {
			if ar[i].gapLen != br[i].gapLen {
				return false
			}
			continue
		}
		x, y := ar[i].item, br[i].item
		if len(x) != len(y) {
			return false
		}
		for k := range x {
			if !valuekit.Equal(x[k], y[k]) {
				return false
			}
		}
	}
	return true
}

// Entries returns a lazy sequence of (index, value) pairs over present
// indices in ascending order. Each range over it walks a's run list as it
// is at that time, from the start.
func (a *SparseArray[T]) Entries() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		a.e.walk(func(start int, n *node[[]T]) bool {
			if n.kind != kindPresent {
				return true
			}
			for i, v := range n.item {
				if !yield(start+i, v) {
					return false
				}
			}
			return true
		})
	}
}

// Keys returns a lazy sequence of present indices in ascending order.
func (a *SparseArray[T]) Keys() iter.Seq[int] {
	return func(yield func(int) bool) {
		for k := range a.Entries() {
			if !yield(k) {
				return
			}
		}
	}
}

// Items returns a lazy sequence of present values in ascending index order.
func (a *SparseArray[T]) Items() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range a.Entries() {
			if !yield(v) {
				return
			}
		}
	}
}

// ArraySliceEntry is one maximal present run returned by [ArraySlicer.NextSlice].
type ArraySliceEntry[T any] struct {
	Index  int
	Values []T
}

// ArraySlicer is a [SparseArray]-typed cursor returned by NewSlicer.
type ArraySlicer[T any] struct {
	s *slicer[[]T]
}

// NewSlicer returns a fresh cursor starting at the head of a's run list. The
// cursor walks the live nodes, so a must not be mutated while it is in use.
func (a *SparseArray[T]) NewSlicer() *ArraySlicer[T] {
	return &ArraySlicer[T]{s: newSlicer(a.e.ops, a.e.head)}
}

// NextSlice returns every maximal present run inside [prevEnd, end); end ==
// nil drains to the tail; an end smaller than the previous one fails with
// [ErrSlicerRewind].
func (s *ArraySlicer[T]) NextSlice(end *int) ([]ArraySliceEntry[T], error) {
	entries, err := s.s.nextSlice(end)
	if err != nil {
		return nil, err
	}
	out := make([]ArraySliceEntry[T], len(entries))
	for i, e := range entries {
		out[i] = ArraySliceEntry[T]{Index: e.index, Values: e.item}
	}
	return out, nil
}

// Serialize returns the run-length encoded element sequence of §6: each
// element is either an int (a deletion run length) or a []T (a present
// run, non-empty).
func (a *SparseArray[T]) Serialize() []any {
	runs := a.e.serializeRuns()
	out := make([]any, 0, len(runs))
	for _, r := range runs {
		if r.present {
			out = append(out, r.item)
		} else {
			out = append(out, r.gapLen)
		}
	}
	return out
}

// DeserializeArray builds a SparseArray from the element sequence produced
// by Serialize. It tolerates the redundancy §6 allows on input.
func DeserializeArray[T any](elements []any) (*SparseArray[T], error) {
	runs := make([]runElement[[]T], 0, len(elements))
	for _, el := range elements {
		switch v := el.(type) {
		case int:
			if v < 0 {
				return nil, fmt.Errorf("%w: negative delete count %d", ErrInvalidSerialized, v)
			}
			runs = append(runs, runElement[[]T]{present: false, gapLen: v})
		case []T:
			runs = append(runs, runElement[[]T]{present: true, item: v})
		default:
			return nil, fmt.Errorf("%w: present element must be an array, got %T", ErrInvalidSerialized, el)
		}
	}
	return &SparseArray[T]{e: buildEngine[[]T](arrayOps[T]{}, runs)}, nil
}

// MarshalJSON encodes a as the JSON run-length element sequence of §6.
func (a *SparseArray[T]) MarshalJSON() ([]byte, error) {
	runs := a.e.serializeRuns()
	out := make([]any, 0, len(runs))
	for _, r := range runs {
		if r.present {
			out = append(out, r.item)
		} else {
			out = append(out, r.gapLen)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the JSON run-length element sequence of §6,
// replacing a's contents.
func (a *SparseArray[T]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSerialized, err)
	}

	runs := make([]runElement[[]T], 0, len(raw))
	for _, rm := range raw {
		if n, ok, err := decodeNonNegativeInt(rm); ok {
			if err != nil {
				return err
			}
			runs = append(runs, runElement[[]T]{present: false, gapLen: n})
			continue
		}

		var items []T
		if err := json.Unmarshal(rm, &items); err != nil {
			return fmt.Errorf("%w: present element must be an array: %v", ErrInvalidSerialized, err)
		}
		runs = append(runs, runElement[[]T]{present: true, item: items})
	}

	a.e = buildEngine[[]T](arrayOps[T]{}, runs)
	return nil
}

// String returns a line-oriented debug dump of a's run list; see Fprint.
func (a *SparseArray[T]) String() string {
	return dumpRuns(a.e, describeArrayItem[T])
}

// Fprint writes a line-oriented debug dump of a's run list to w: one line
// per node, its kind, its logical offset range, and — for present nodes — a
// default-formatted rendering of its values. This is a debugging aid, not
// part of the §6 wire contract.
func (a *SparseArray[T]) Fprint(w io.Writer) error {
	return fprintRuns(w, a.e, describeArrayItem[T])
}

// describeArrayItem renders a present run for the debug dump. When T is a
// zero-sized type (struct{}, [0]byte) its values carry no information worth
// printing, so only the run length is shown.
func describeArrayItem[T any](item []T) string {
	if valuekit.IsZST[T]() {
		return fmt.Sprintf("len=%d", len(item))
	}
	return fmt.Sprintf("%v", item)
}
