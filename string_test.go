// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparserun

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

type embedPayload struct {
	A string `json:"a,omitempty"`
	B string `json:"b,omitempty"`
}

func TestSparseStringRunsSeparatedByHole(t *testing.T) {
	t.Parallel()

	// S4: set(0,"ab"); set(5,"cd") -> ["ab", 3, "cd"]
	s := NewSparseString[embedPayload]()
	if _, err := s.Set(0, "ab"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Set(5, "cd"); err != nil {
		t.Fatal(err)
	}

	want := []any{"ab", 3, "cd"}
	if got := s.Serialize(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Serialize() = %#v, want %#v", got, want)
	}
}

func TestSparseStringEmbedsDoNotMerge(t *testing.T) {
	t.Parallel()

	s := NewSparseString[embedPayload]()
	if _, err := s.Set(0, "ab"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Set(5, "cd"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetEmbed(5, embedPayload{A: "foo"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetEmbed(6, embedPayload{B: "bar"}); err != nil {
		t.Fatal(err)
	}

	want := []any{"ab", 3, embedPayload{A: "foo"}, embedPayload{B: "bar"}}
	if got := s.Serialize(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Serialize() = %#v, want %#v", got, want)
	}

	v5, ok, err := s.Get(5)
	if err != nil || !ok || !v5.IsEmbed || v5.Embed != (embedPayload{A: "foo"}) {
		t.Fatalf("Get(5) = %+v, %v, %v", v5, ok, err)
	}
	v6, ok, err := s.Get(6)
	if err != nil || !ok || !v6.IsEmbed || v6.Embed != (embedPayload{B: "bar"}) {
		t.Fatalf("Get(6) = %+v, %v, %v", v6, ok, err)
	}
}

func TestSparseStringSetEmbedRejectsNil(t *testing.T) {
	t.Parallel()

	s := NewSparseString[*embedPayload]()
	if _, err := s.SetEmbed(0, nil); !errors.Is(err, ErrInvalidEmbed) {
		t.Fatalf("err = %v, want ErrInvalidEmbed", err)
	}
}

func TestSparseStringSlicerWalksMonotonically(t *testing.T) {
	t.Parallel()

	// S6: SparseString with set(0,"hello"); set(7,"world")
	s := NewSparseString[embedPayload]()
	if _, err := s.Set(0, "hello"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Set(7, "world"); err != nil {
		t.Fatal(err)
	}

	sl := s.NewSlicer()

	end3 := 3
	got, err := sl.NextSlice(&end3)
	if err != nil {
		t.Fatal(err)
	}
	wantUnits(t, got, []StringSliceEntry[embedPayload]{{Index: 0, Unit: "hel"}})

	end8 := 8
	got, err = sl.NextSlice(&end8)
	if err != nil {
		t.Fatal(err)
	}
	wantUnits(t, got, []StringSliceEntry[embedPayload]{{Index: 3, Unit: "lo"}, {Index: 7, Unit: "w"}})

	got, err = sl.NextSlice(nil)
	if err != nil {
		t.Fatal(err)
	}
	wantUnits(t, got, []StringSliceEntry[embedPayload]{{Index: 8, Unit: "orld"}})

	end2 := 2
	if _, err := sl.NextSlice(&end2); !errors.Is(err, ErrSlicerRewind) {
		t.Fatalf("err = %v, want ErrSlicerRewind", err)
	}
}

func wantUnits(t *testing.T, got, want []StringSliceEntry[embedPayload]) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%+v)", len(got), len(want), got)
	}
	for i := range got {
		if got[i].Index != want[i].Index || got[i].Unit != want[i].Unit || got[i].IsEmbed != want[i].IsEmbed {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSparseStringRoundTripJSON(t *testing.T) {
	t.Parallel()

	s := NewSparseString[embedPayload]()
	if _, err := s.Set(0, "ab"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetEmbed(5, embedPayload{A: "foo"}); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	out := NewSparseString[embedPayload]()
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatal(err)
	}
	if !s.Equal(out) {
		t.Fatalf("round trip mismatch: %s vs %s", s, out)
	}
}

func TestSparseStringUnmarshalJSONRejectsNull(t *testing.T) {
	t.Parallel()

	s := NewSparseString[embedPayload]()
	err := json.Unmarshal([]byte(`[null]`), s)
	if !errors.Is(err, ErrInvalidSerialized) {
		t.Fatalf("err = %v, want ErrInvalidSerialized", err)
	}
}

// A quoted numeric-looking string run ("5", "3.14") must round-trip as a
// string, not be swallowed as a deletion count: json.Number accepts quoted
// numeric strings, but the §6 element-kind rule distinguishes number
// elements from string elements by JSON type, not by content.
func TestSparseStringRoundTripNumericLookingString(t *testing.T) {
	t.Parallel()

	for _, str := range []string{"5", "3.14", "0", "-1"} {
		s := NewSparseString[embedPayload]()
		if _, err := s.Set(0, str); err != nil {
			t.Fatal(err)
		}

		data, err := json.Marshal(s)
		if err != nil {
			t.Fatal(err)
		}
		if want := `["` + str + `"]`; string(data) != want {
			t.Fatalf("MarshalJSON() = %s, want %s", data, want)
		}

		out := NewSparseString[embedPayload]()
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("UnmarshalJSON(%s) = %v, want nil", data, err)
		}
		if !s.Equal(out) {
			t.Fatalf("round trip mismatch for %q: got %s", str, out)
		}
		if got, want := out.Serialize(), []any{str}; !reflect.DeepEqual(got, want) {
			t.Fatalf("Serialize() after round trip = %#v, want %#v", got, want)
		}
	}
}
