// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparserun

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
)

// indicesOps is the Item trait (C1) for SparseIndices: the item representation
// is its own length, since no value is carried — a present run of count c is
// simply the int c.
type indicesOps struct{}

func (indicesOps) length(item int) int { return item }

func (indicesOps) split(item, k int) (left, right int) { return k, item - k }

func (indicesOps) tryMerge(left, right int) (int, bool) { return left + right, true }

func (indicesOps) slice(item int, start, end int) int { return end - start }

// SparseIndices is a sparse set of non-negative indices: it carries no
// payload, only the presence/absence pattern. It is the memory- and
// JSON-size-optimal variant when values are irrelevant.
//
// The zero value is not usable; construct one with [NewSparseIndices].
type SparseIndices struct {
	e *engine[int]
}

// NewSparseIndices returns an empty SparseIndices.
func NewSparseIndices() *SparseIndices {
	return &SparseIndices{e: newEngine[int](indicesOps{})}
}

// Length returns the greatest present index plus one, or 0 if empty.
func (a *SparseIndices) Length() int { return a.e.length() }

// Count returns the number of present indices.
func (a *SparseIndices) Count() int { return a.e.count() }

// IsEmpty reports whether no index is present.
func (a *SparseIndices) IsEmpty() bool { return a.e.isEmpty() }

// Has reports whether index i is present.
func (a *SparseIndices) Has(i int) (bool, error) {
	if i < 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	return a.e.has(i), nil
}

// CountAt returns the number of present indices in [0,i). i >= Length is
// accepted and returns Count().
func (a *SparseIndices) CountAt(i int) (int, error) {
	if i < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	return a.e.countAt(i), nil
}

// IndexOfCount is IndexOfCountFrom with start == 0.
func (a *SparseIndices) IndexOfCount(c int) (int, error) {
	return a.IndexOfCountFrom(c, 0)
}

// IndexOfCountFrom returns the smallest i >= start such that there are c
// present indices in [start,i) and i is present, or -1 if none exists.
func (a *SparseIndices) IndexOfCountFrom(c, start int) (int, error) {
	if c < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, c)
	}
	if start < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIndex, start)
	}
	return a.e.indexOfCount(c, start), nil
}

// Set marks [i, i+n) present, merging with adjacent present runs. n == 0 is
// a no-op. It returns the previous (index, present-run-length) occupants of
// that span as a fresh SparseIndices.
func (a *SparseIndices) Set(i, n int) (*SparseIndices, error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if n == 0 {
		return NewSparseIndices(), nil
	}
	displaced := a.e.overwrite(i, newPresentNode(n))
	return &SparseIndices{e: displaced}, nil
}

// Delete is DeleteN with n == 1.
func (a *SparseIndices) Delete(i int) (*SparseIndices, error) {
	return a.DeleteN(i, 1)
}

// DeleteN overwrites [i, i+n) with a hole of length n. n == 0 is a no-op.
func (a *SparseIndices) DeleteN(i, n int) (*SparseIndices, error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if n == 0 {
		return NewSparseIndices(), nil
	}
	displaced := a.e.overwrite(i, newDeletedNode[int](n))
	return &SparseIndices{e: displaced}, nil
}

// Clone returns a structural copy of a.
func (a *SparseIndices) Clone() *SparseIndices {
	return &SparseIndices{e: a.e.clone(nil)}
}

// Equal reports whether a and other hold the same present/deleted run
// pattern.
func (a *SparseIndices) Equal(other *SparseIndices) bool {
	ar, br := a.e.serializeRuns(), other.e.serializeRuns()
	if len(ar) != len(br) {
		return false
	}
	for i := range ar {
		if ar[i].present != br[i].present {
			return false
		}
		if ar[i].present {
			if ar[i].item != br[i].item {
				return false
			}
			continue
		}
		if ar[i].gapLen != br[i].gapLen {
			return false
		}
	}
	return true
}

// Keys returns a lazy sequence of present indices in ascending order.
func (a *SparseIndices) Keys() iter.Seq[int] {
	return func(yield func(int) bool) {
		a.e.walk(func(start int, n *node[int]) bool {
			if n.kind != kindPresent {
				return true
			}
			for i := 0; i < n.item; i++ {
				if !yield(start + i) {
					return false
				}
			}
			return true
		})
	}
}

// IndicesSlicer is a [SparseIndices]-typed cursor returned by NewSlicer.
type IndicesSlicer struct {
	s *slicer[int]
}

// NewSlicer returns a fresh cursor starting at the head of a's run list. The
// cursor walks the live nodes, so a must not be mutated while it is in use.
func (a *SparseIndices) NewSlicer() *IndicesSlicer {
	return &IndicesSlicer{s: newSlicer(a.e.ops, a.e.head)}
}

// NextSlice returns every maximal present run (as a start index and run
// length) inside [prevEnd, end); end == nil drains to the tail, and an end
// smaller than the previous one fails with [ErrSlicerRewind].
func (sl *IndicesSlicer) NextSlice(end *int) ([]ArraySliceEntry[struct{}], error) {
	entries, err := sl.s.nextSlice(end)
	if err != nil {
		return nil, err
	}
	out := make([]ArraySliceEntry[struct{}], len(entries))
	for i, e := range entries {
		out[i] = ArraySliceEntry[struct{}]{Index: e.index, Values: make([]struct{}, e.item)}
	}
	return out, nil
}

// Serialize returns the run-length encoded element sequence of §6: a flat
// sequence of non-negative integers, present-run counts at even positions
// and deleted-run counts at odd positions. A leading hole is represented by
// a leading 0.
func (a *SparseIndices) Serialize() []int {
	runs := a.e.serializeRuns()
	out := make([]int, 0, len(runs)+1)
	if len(runs) > 0 && !runs[0].present {
		out = append(out, 0)
	}
	for _, r := range runs {
		if r.present {
			out = append(out, r.item)
		} else {
			out = append(out, r.gapLen)
		}
	}
	return out
}

// DeserializeIndices builds a SparseIndices from the element sequence
// produced by Serialize: even positions are present-run counts, odd
// positions are deleted-run counts.
func DeserializeIndices(elements []int) (*SparseIndices, error) {
	runs := make([]runElement[int], 0, len(elements))
	for i, v := range elements {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative count %d", ErrInvalidSerialized, v)
		}
		runs = append(runs, runElement[int]{present: i%2 == 0, item: v, gapLen: v})
	}
	return &SparseIndices{e: buildEngine[int](indicesOps{}, runs)}, nil
}

// MarshalJSON encodes a as the JSON run-length element sequence of §6.
func (a *SparseIndices) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Serialize())
}

// UnmarshalJSON decodes the JSON run-length element sequence of §6,
// replacing a's contents.
func (a *SparseIndices) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSerialized, err)
	}

	elements := make([]int, len(raw))
	for i, rm := range raw {
		v, ok, err := decodeNonNegativeInt(rm)
		if !ok || err != nil {
			return fmt.Errorf("%w: element %d is not a non-negative integer", ErrInvalidSerialized, i)
		}
		elements[i] = v
	}

	built, err := DeserializeIndices(elements)
	if err != nil {
		return err
	}
	a.e = built.e
	return nil
}

// String returns a line-oriented debug dump of a's run list; see Fprint.
func (a *SparseIndices) String() string {
	return dumpRuns(a.e, func(item int) string { return fmt.Sprintf("count=%d", item) })
}

// Fprint writes a line-oriented debug dump of a's run list to w. This is a
// debugging aid, not part of the §6 wire contract.
func (a *SparseIndices) Fprint(w io.Writer) error {
	return fprintRuns(w, a.e, func(item int) string { return fmt.Sprintf("count=%d", item) })
}
