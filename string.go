// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparserun

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"reflect"
	"unicode/utf16"

	"github.com/gaissmai/sparserun/internal/valuekit"
)

// stringItem is the item representation (C1) for SparseString: a tagged
// union of a string run (UTF-16 code units, packed) or a single embed of
// type E. Embeds always have length 1 and never merge, not even with a
// neighboring embed.
type stringItem[E any] struct {
	units   []uint16 // valid iff !embed
	embed   E        // valid iff embed
	isEmbed bool
}

func stringRunItem[E any](s string) stringItem[E] {
	return stringItem[E]{units: utf16.Encode([]rune(s))}
}

func embedItem[E any](e E) stringItem[E] {
	return stringItem[E]{embed: e, isEmbed: true}
}

func (i stringItem[E]) asString() string {
	return string(utf16.Decode(i.units))
}

type stringOps[E any] struct{}

func (stringOps[E]) length(item stringItem[E]) int {
	if item.isEmbed {
		return 1
	}
	return len(item.units)
}

func (stringOps[E]) split(item stringItem[E], k int) (left, right stringItem[E]) {
	// Embeds have length 1, so split (0 < k < length) is never called on
	// one; this is unreachable via the public API.
	l := append([]uint16(nil), item.units[:k]...)
	r := append([]uint16(nil), item.units[k:]...)
	return stringItem[E]{units: l}, stringItem[E]{units: r}
}

func (stringOps[E]) tryMerge(left, right stringItem[E]) (stringItem[E], bool) {
	if left.isEmbed || right.isEmbed {
		return stringItem[E]{}, false
	}
	merged := make([]uint16, 0, len(left.units)+len(right.units))
	merged = append(merged, left.units...)
	merged = append(merged, right.units...)
	return stringItem[E]{units: merged}, true
}

func (stringOps[E]) slice(item stringItem[E], start, end int) stringItem[E] {
	if item.isEmbed {
		return item
	}
	out := make([]uint16, end-start)
	copy(out, item.units[start:end])
	return stringItem[E]{units: out}
}

// SparseString is a sparse sequence whose present values are either single
// UTF-16 code units (packed into string runs) or whole embed objects of
// type E, each occupying exactly one index and never merged with neighbors.
//
// The zero value is not usable; construct one with [NewSparseString].
type SparseString[E any] struct {
	e *engine[stringItem[E]]
}

// NewSparseString returns an empty SparseString.
func NewSparseString[E any]() *SparseString[E] {
	return &SparseString[E]{e: newEngine[stringItem[E]](stringOps[E]{})}
}

// Length returns the greatest present index plus one, or 0 if empty.
func (s *SparseString[E]) Length() int { return s.e.length() }

// Count returns the number of present indices.
func (s *SparseString[E]) Count() int { return s.e.count() }

// IsEmpty reports whether no index is present.
func (s *SparseString[E]) IsEmpty() bool { return s.e.isEmpty() }

// Has reports whether index i is present.
func (s *SparseString[E]) Has(i int) (bool, error) {
	if i < 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	return s.e.has(i), nil
}

// StringValue is the typed result of [SparseString.Get]: either a
// single-code-unit string (IsEmbed == false) or an embed of type E
// (IsEmbed == true).
type StringValue[E any] struct {
	Unit    string
	Embed   E
	IsEmbed bool
}

// Get returns the value at i and true if present, or the zero value and
// false otherwise.
func (s *SparseString[E]) Get(i int) (StringValue[E], bool, error) {
	if i < 0 {
		return StringValue[E]{}, false, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	item, ok := s.e.getItemAt(i)
	if !ok {
		return StringValue[E]{}, false, nil
	}
	if item.isEmbed {
		return StringValue[E]{Embed: item.embed, IsEmbed: true}, true, nil
	}
	return StringValue[E]{Unit: item.asString()}, true, nil
}

// CountAt returns the number of present indices in [0,i). i >= Length is
// accepted and returns Count().
func (s *SparseString[E]) CountAt(i int) (int, error) {
	if i < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	return s.e.countAt(i), nil
}

// IndexOfCount is IndexOfCountFrom with start == 0.
func (s *SparseString[E]) IndexOfCount(c int) (int, error) {
	return s.IndexOfCountFrom(c, 0)
}

// IndexOfCountFrom returns the smallest i >= start such that there are c
// present indices in [start,i) and i is present, or -1 if none exists.
func (s *SparseString[E]) IndexOfCountFrom(c, start int) (int, error) {
	if c < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, c)
	}
	if start < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIndex, start)
	}
	return s.e.indexOfCount(c, start), nil
}

// Set overwrites [i, i+len(units(str))) with str, merging with an adjacent
// string run where possible. An empty str is a no-op.
func (s *SparseString[E]) Set(i int, str string) (*SparseString[E], error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	item := stringRunItem[E](str)
	if len(item.units) == 0 {
		return NewSparseString[E](), nil
	}
	displaced := s.e.overwrite(i, newPresentNode(item))
	return &SparseString[E]{e: displaced}, nil
}

// SetEmbed overwrites index i with a single embed value. embed must be a
// non-nil object (a nil pointer, map, slice, func, chan, or interface value
// is rejected with ErrInvalidEmbed); it never merges with a neighboring run.
func (s *SparseString[E]) SetEmbed(i int, embed E) (*SparseString[E], error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	if isNilEmbed(embed) {
		return nil, fmt.Errorf("%w: nil embed", ErrInvalidEmbed)
	}
	displaced := s.e.overwrite(i, newPresentNode(embedItem[E](embed)))
	return &SparseString[E]{e: displaced}, nil
}

// isNilEmbed reports whether embed is a pointer/interface/map/slice/func/chan
// holding a nil value, which the §4.3 embed contract ("non-null object")
// rejects.
func isNilEmbed(embed any) bool {
	v := reflect.ValueOf(embed)
	if !v.IsValid() {
		// A nil interface value of E arrives here as an untyped nil.
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// Delete is DeleteN with n == 1.
func (s *SparseString[E]) Delete(i int) (*SparseString[E], error) {
	return s.DeleteN(i, 1)
}

// DeleteN overwrites [i, i+n) with a hole of length n and returns the
// previous occupants as a fresh SparseString. n == 0 is a no-op.
func (s *SparseString[E]) DeleteN(i, n int) (*SparseString[E], error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if n == 0 {
		return NewSparseString[E](), nil
	}
	displaced := s.e.overwrite(i, newDeletedNode[stringItem[E]](n))
	return &SparseString[E]{e: displaced}, nil
}

// Clone returns a structural copy. Embed values are deep-cloned when E
// implements [Cloner], otherwise shared.
func (s *SparseString[E]) Clone() *SparseString[E] {
	cloneFn := valuekit.CloneFnFactory[E]()
	cloneItem := func(item stringItem[E]) stringItem[E] {
		if !item.isEmbed {
			return stringItem[E]{units: append([]uint16(nil), item.units...)}
		}
		if cloneFn == nil {
			return item
		}
		return stringItem[E]{embed: cloneFn(item.embed), isEmbed: true}
	}
	return &SparseString[E]{e: s.e.clone(cloneItem)}
}

// Equal reports whether s and other hold the same present/deleted runs,
// comparing embeds with [Equaler] when E implements it and
// [reflect.DeepEqual] otherwise.
func (s *SparseString[E]) Equal(other *SparseString[E]) bool {
	ar, br := s.e.serializeRuns(), other.e.serializeRuns()
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
		if x.isEmbed != y.isEmbed {
			return false
		}
		if x.isEmbed {
			if !valuekit.Equal(x.embed, y.embed) {
				return false
			}
			continue
		}
		if x.asString() != y.asString() {
			return false
		}
	}
	return true
}

// Entries returns a lazy sequence of (index, value) pairs over present
// indices in ascending order. Each range over it walks s's run list as it
// is at that time, from the start.
func (s *SparseString[E]) Entries() iter.Seq2[int, StringValue[E]] {
	return func(yield func(int, StringValue[E]) bool) {
		s.e.walk(func(start int, n *node[stringItem[E]]) bool {
			if n.kind != kindPresent {
				return true
			}
			if n.item.isEmbed {
				return yield(start, StringValue[E]{Embed: n.item.embed, IsEmbed: true})
			}
			units := n.item.units
			for i := range units {
				v := StringValue[E]{Unit: string(utf16.Decode(units[i : i+1]))}
				if !yield(start+i, v) {
					return false
				}
			}
			return true
		})
	}
}

// Keys returns a lazy sequence of present indices in ascending order.
func (s *SparseString[E]) Keys() iter.Seq[int] {
	return func(yield func(int) bool) {
		for k := range s.Entries() {
			if !yield(k) {
				return
			}
		}
	}
}

// Items returns a lazy sequence of present values in ascending index order.
func (s *SparseString[E]) Items() iter.Seq[StringValue[E]] {
	return func(yield func(StringValue[E]) bool) {
		for _, v := range s.Entries() {
			if !yield(v) {
				return
			}
		}
	}
}

// StringSliceEntry is one maximal present run returned by [StringSlicer.NextSlice].
type StringSliceEntry[E any] struct {
	Index   int
	Unit    string
	Embed   E
	IsEmbed bool
}

// StringSlicer is a [SparseString]-typed cursor returned by NewSlicer.
type StringSlicer[E any] struct {
	s *slicer[stringItem[E]]
}

// NewSlicer returns a fresh cursor starting at the head of s's run list. The
// cursor walks the live nodes, so s must not be mutated while it is in use.
func (s *SparseString[E]) NewSlicer() *StringSlicer[E] {
	return &StringSlicer[E]{s: newSlicer(s.e.ops, s.e.head)}
}

// NextSlice returns every maximal present run inside [prevEnd, end); end ==
// nil drains to the tail; an end smaller than the previous one fails with
// [ErrSlicerRewind].
func (sl *StringSlicer[E]) NextSlice(end *int) ([]StringSliceEntry[E], error) {
	entries, err := sl.s.nextSlice(end)
	if err != nil {
		return nil, err
	}
	out := make([]StringSliceEntry[E], len(entries))
	for i, e := range entries {
		if e.item.isEmbed {
			out[i] = StringSliceEntry[E]{Index: e.index, Embed: e.item.embed, IsEmbed: true}
			continue
		}
		out[i] = StringSliceEntry[E]{Index: e.index, Unit: e.item.asString()}
	}
	return out, nil
}

// Serialize returns the run-length encoded element sequence of §6: each
// element is either an int (a deletion run length), a string (a present
// string run, non-empty), or an E (an embed).
func (s *SparseString[E]) Serialize() []any {
	runs := s.e.serializeRuns()
	out := make([]any, 0, len(runs))
	for _, r := range runs {
		switch {
		case !r.present:
			out = append(out, r.gapLen)
		case r.item.isEmbed:
			out = append(out, r.item.embed)
		default:
			out = append(out, r.item.asString())
		}
	}
	return out
}

// DeserializeString builds a SparseString from the element sequence
// produced by Serialize. It tolerates the redundancy §6 allows on input: a
// nil element fails, an int is a deletion run (a negative int fails), a
// string becomes a string run, a value of type E becomes an embed, and any
// other element fails.
func DeserializeString[E any](elements []any) (*SparseString[E], error) {
	runs := make([]runElement[stringItem[E]], 0, len(elements))
	for _, el := range elements {
		switch v := el.(type) {
		case nil:
			return nil, fmt.Errorf("%w: null present element", ErrInvalidSerialized)
		case int:
			if v < 0 {
				return nil, fmt.Errorf("%w: negative delete count %d", ErrInvalidSerialized, v)
			}
			runs = append(runs, runElement[stringItem[E]]{present: false, gapLen: v})
		case string:
			runs = append(runs, runElement[stringItem[E]]{present: true, item: stringRunItem[E](v)})
		case E:
			runs = append(runs, runElement[stringItem[E]]{present: true, item: embedItem[E](v)})
		default:
			return nil, fmt.Errorf("%w: unsupported element type %T", ErrInvalidSerialized, el)
		}
	}
	return &SparseString[E]{e: buildEngine[stringItem[E]](stringOps[E]{}, runs)}, nil
}

// MarshalJSON encodes s as the JSON run-length element sequence of §6.
func (s *SparseString[E]) MarshalJSON() ([]byte, error) {
	runs := s.e.serializeRuns()
	out := make([]any, 0, len(runs))
	for _, r := range runs {
		switch {
		case !r.present:
			out = append(out, r.gapLen)
		case r.item.isEmbed:
			out = append(out, r.item.embed)
		default:
			out = append(out, r.item.asString())
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the JSON run-length element sequence of §6,
// replacing s's contents. A present element that is neither a string nor a
// non-null object/array fails with ErrInvalidSerialized.
func (s *SparseString[E]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSerialized, err)
	}

	runs := make([]runElement[stringItem[E]], 0, len(raw))
	for _, rm := range raw {
		if n, ok, err := decodeNonNegativeInt(rm); ok {
			if err != nil {
				return err
			}
			runs = append(runs, runElement[stringItem[E]]{present: false, gapLen: n})
			continue
		}

		if string(rm) == "null" {
			return fmt.Errorf("%w: null present element", ErrInvalidSerialized)
		}

		var str string
		if err := json.Unmarshal(rm, &str); err == nil {
			runs = append(runs, runElement[stringItem[E]]{present: true, item: stringRunItem[E](str)})
			continue
		}

		// Neither a number nor a string: an embed. §6 accepts any non-null
		// object or array here.
		var embed E
		if err := json.Unmarshal(rm, &embed); err != nil {
			return fmt.Errorf("%w: present element must be a string or an embed: %v", ErrInvalidSerialized, err)
		}
		runs = append(runs, runElement[stringItem[E]]{present: true, item: embedItem[E](embed)})
	}

	s.e = buildEngine[stringItem[E]](stringOps[E]{}, runs)
	return nil
}

// String returns a line-oriented debug dump of s's run list; see Fprint.
func (s *SparseString[E]) String() string {
	return dumpRuns(s.e, describeStringItem[E])
}

// Fprint writes a line-oriented debug dump of s's run list to w. This is a
// debugging aid, not part of the §6 wire contract.
func (s *SparseString[E]) Fprint(w io.Writer) error {
	return fprintRuns(w, s.e, describeStringItem[E])
}

// describeStringItem renders a present run for the debug dump. An embed
// whose type E is zero-sized (struct{}, [0]byte) carries no information
// worth printing beyond the fact that it's an embed.
func describeStringItem[E any](item stringItem[E]) string {
	if item.isEmbed {
		if valuekit.IsZST[E]() {
			return "embed()"
		}
		return fmt.Sprintf("embed(%v)", item.embed)
	}
	return fmt.Sprintf("%q", item.asString())
}
