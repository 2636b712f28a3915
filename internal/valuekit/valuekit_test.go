// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package valuekit

import (
	"maps"
	"reflect"
	"testing"
)

type equalableType struct {
	Value int
}

func (e equalableType) Equal(other equalableType) bool {
	return e.Value == other.Value
}

type nonEqualableType struct {
	Value int
}

type clonableType struct {
	Data map[string]int
}

func (c clonableType) Clone() clonableType {
	return clonableType{Data: maps.Clone(c.Data)}
}

type nonClonableType struct {
	Data map[string]int
}

func TestEqual(t *testing.T) {
	t.Parallel()

	t.Run("with_Equaler_interface", func(t *testing.T) {
		t.Parallel()
		v1 := equalableType{Value: 42}
		v2 := equalableType{Value: 42}
		v3 := equalableType{Value: 99}

		if !Equal(v1, v2) {
			t.Error("Equal should return true for equal values")
		}
		if Equal(v1, v3) {
			t.Error("Equal should return false for different values")
		}
	})

	t.Run("without_Equaler_fallback_to_DeepEqual", func(t *testing.T) {
		t.Parallel()
		v1 := nonEqualableType{Value: 42}
		v2 := nonEqualableType{Value: 42}
		v3 := nonEqualableType{Value: 99}

		if !Equal(v1, v2) {
			t.Error("Equal should return true for equal values via DeepEqual")
		}
		if Equal(v1, v3) {
			t.Error("Equal should return false for different values via DeepEqual")
		}
	})

	t.Run("simple_types", func(t *testing.T) {
		t.Parallel()
		if !Equal(42, 42) {
			t.Error("Equal should return true for equal ints")
		}
		if Equal(42, 99) {
			t.Error("Equal should return false for different ints")
		}
	})
}

func TestCloneFnFactory(t *testing.T) {
	t.Parallel()

	t.Run("with_Cloner_interface", func(t *testing.T) {
		t.Parallel()
		fn := CloneFnFactory[clonableType]()
		if fn == nil {
			t.Fatal("CloneFnFactory should return a non-nil function for Cloner types")
		}

		original := clonableType{Data: map[string]int{"key": 42}}
		cloned := fn(original)

		if !reflect.DeepEqual(original.Data, cloned.Data) {
			t.Error("cloned value should be deep equal to original")
		}

		cloned.Data["key"] = 99
		if original.Data["key"] != 42 {
			t.Error("modifying clone should not affect original")
		}
	})

	t.Run("without_Cloner_interface", func(t *testing.T) {
		t.Parallel()
		fn := CloneFnFactory[nonClonableType]()
		if fn != nil {
			t.Error("CloneFnFactory should return nil for non-Cloner types")
		}
	})
}

func TestCloneVal(t *testing.T) {
	t.Parallel()

	t.Run("with_Cloner_interface", func(t *testing.T) {
		t.Parallel()
		original := clonableType{Data: map[string]int{"key": 42}}
		cloned := CloneVal(original)

		cloned.Data["key"] = 99
		if original.Data["key"] != 42 {
			t.Error("modifying clone should not affect original")
		}
	})

	t.Run("without_Cloner_interface", func(t *testing.T) {
		t.Parallel()
		original := nonClonableType{Data: map[string]int{"key": 42}}
		cloned := CloneVal(original)

		// Without Cloner, it shares the map (shallow).
		cloned.Data["key"] = 99
		if original.Data["key"] != 99 {
			t.Error("without Cloner, map should be shared")
		}
	})
}

func TestIsZST(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{name: "struct{}", got: IsZST[struct{}](), want: true},
		{name: "[0]byte", got: IsZST[[0]byte](), want: true},
		{name: "int", got: IsZST[int](), want: false},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: want %v, got %v", tt.name, tt.want, tt.got)
		}
	}
}
