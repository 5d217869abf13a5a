// File: mapx_test.go
// Title: Map Utility Tests
// Description: Tests for SortedKeys, Clone and Merge.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-19

package mapx

import (
	"reflect"
	"testing"
)

func TestSortedKeys(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]int
		want []string
	}{
		{"nil", nil, []string{}},
		{"single", map[string]int{"a": 1}, []string{"a"}},
		{"unordered", map[string]int{"tab": 1, "mode": 2, "a": 3}, []string{"a", "mode", "tab"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SortedKeys(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortedKeys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	if got := Clone[string, string](nil); got == nil || len(got) != 0 {
		t.Errorf("Clone(nil) = %v, want empty map", got)
	}

	src := map[string]bool{"basic": true}
	cp := Clone(src)
	cp["expert"] = true
	if len(src) != 1 {
		t.Error("Clone aliases its argument")
	}
}

func TestMerge(t *testing.T) {
	a := map[string]any{"name": "eth0", "count": 1}
	b := map[string]any{"count": 2}

	got := Merge(a, nil, b)
	want := map[string]any{"name": "eth0", "count": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
	if a["count"] != 1 {
		t.Error("Merge modified its argument")
	}
	if Merge[string, int]() == nil {
		t.Error("Merge() without maps should return an empty map")
	}
}
