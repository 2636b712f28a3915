// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparserun

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSparseIndicesSetDelete(t *testing.T) {
	t.Parallel()

	// S1: set(0,2); serialize == [2]; delete(0,2); serialize == []
	a := NewSparseIndices()
	if _, err := a.Set(0, 2); err != nil {
		t.Fatal(err)
	}
	if got, want := a.Serialize(), []int{2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Serialize() = %v, want %v", got, want)
	}
	if _, err := a.DeleteN(0, 2); err != nil {
		t.Fatal(err)
	}
	if got, want := a.Serialize(), []int{}; !reflect.DeepEqual(got, want) && len(got) != 0 {
		t.Fatalf("Serialize() = %v, want empty", got)
	}
}

func TestSparseIndicesLeadingHole(t *testing.T) {
	t.Parallel()

	// S2: set(5,2); serialize == [0,5,2]; delete(0,10); serialize == []
	a := NewSparseIndices()
	if _, err := a.Set(5, 2); err != nil {
		t.Fatal(err)
	}
	if got, want := a.Serialize(), []int{0, 5, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Serialize() = %v, want %v", got, want)
	}
	if _, err := a.DeleteN(0, 10); err != nil {
		t.Fatal(err)
	}
	if got := a.Serialize(); len(got) != 0 {
		t.Fatalf("Serialize() = %v, want empty", got)
	}
}

func TestSparseIndicesMixedOps(t *testing.T) {
	t.Parallel()

	// S3: set(0,1); set(2,2); set(7,3) -> [1,1,2,3,3]; count == 6; index_of_count(4,0) == 8
	a := NewSparseIndices()
	if _, err := a.Set(0, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Set(2, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Set(7, 3); err != nil {
		t.Fatal(err)
	}

	want := []int{1, 1, 2, 3, 3}
	if got := a.Serialize(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Serialize() = %v, want %v", got, want)
	}
	if got := a.Count(); got != 6 {
		t.Fatalf("Count() = %d, want 6", got)
	}
	idx, err := a.IndexOfCountFrom(4, 0)
	if err != nil || idx != 8 {
		t.Fatalf("IndexOfCountFrom(4,0) = %d, %v, want 8", idx, err)
	}
}

func TestSparseIndicesRoundTripJSON(t *testing.T) {
	t.Parallel()

	a := NewSparseIndices()
	if _, err := a.Set(0, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Set(2, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Set(7, 3); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "[1,1,2,3,3]"; got != want {
		t.Fatalf("MarshalJSON() = %s, want %s", got, want)
	}

	out := NewSparseIndices()
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatal(err)
	}
	if !a.Equal(out) {
		t.Fatalf("round trip mismatch")
	}
}

func TestSparseIndicesKeys(t *testing.T) {
	t.Parallel()

	a := NewSparseIndices()
	if _, err := a.Set(0, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Set(5, 1); err != nil {
		t.Fatal(err)
	}

	var keys []int
	for k := range a.Keys() {
		keys = append(keys, k)
	}
	if want := []int{0, 1, 5}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
}
