// ABOUTME: Tests for the retention path search
// ABOUTME: Validates shortest paths, pinned roots, cycles and dangling targets

package graph

import (
	"reflect"
	"testing"
)

func TestRetentionPath(t *testing.T) {
	// 1 (root) -> 2 -> 3
	//          -> 4 -> 9 (dangling)
	// 5 (pinned) -> 6 -> 5
	// 7 unreachable
	g := NewMemGraph()
	g.AddObject(&Object{ID: 1, Type: "root", Ptrs: []ObjID{2}})
	g.AddObject(&Object{ID: 2, Type: "middle", Ptrs: []ObjID{3, 0, 4}})
	g.AddObject(&Object{ID: 3, Type: "leaf1"})
	g.AddObject(&Object{ID: 4, Type: "leaf2", Ptrs: []ObjID{9}})
	g.AddObject(&Object{ID: 5, Type: "pinned", Ptrs: []ObjID{6}})
	g.AddObject(&Object{ID: 6, Type: "cycle", Ptrs: []ObjID{5}})
	g.AddObject(&Object{ID: 7, Type: "orphan", Ptrs: []ObjID{3}})
	g.SetRoots(Roots{IDs: []ObjID{1}, Pinned: []ObjID{5}})

	tests := []struct {
		name   string
		target ObjID
		want   []ObjID
		found  bool
	}{
		{name: "root itself", target: 1, want: []ObjID{1}, found: true},
		{name: "two hops", target: 3, want: []ObjID{1, 2, 3}, found: true},
		{name: "dangling target", target: 9, want: []ObjID{1, 2, 4, 9}, found: true},
		{name: "through pinned root cycle", target: 6, want: []ObjID{5, 6}, found: true},
		{name: "unreachable", target: 7, found: false},
		{name: "null", target: 0, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := RetentionPath(g, tt.target)
			if ok != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, ok)
			}
			if !ok {
				return
			}
			if !reflect.DeepEqual(path.IDs, tt.want) {
				t.Errorf("Expected path %v, got %v", tt.want, path.IDs)
			}
			if path.Root() != tt.want[0] {
				t.Errorf("Expected root %d, got %d", tt.want[0], path.Root())
			}
		})
	}
}

func TestRetentionPathShortest(t *testing.T) {
	// Long way round: 1 -> 2 -> 3 -> 4; short cut: 1 -> 4
	g := NewMemGraph()
	g.AddObject(&Object{ID: 1, Ptrs: []ObjID{2, 4}})
	g.AddObject(&Object{ID: 2, Ptrs: []ObjID{3}})
	g.AddObject(&Object{ID: 3, Ptrs: []ObjID{4}})
	g.AddObject(&Object{ID: 4})
	g.SetRoots(Roots{IDs: []ObjID{1}})

	path, ok := RetentionPath(g, 4)
	if !ok {
		t.Fatal("Expected a path to 4")
	}
	if !reflect.DeepEqual(path.IDs, []ObjID{1, 4}) {
		t.Errorf("Expected shortest path [1 4], got %v", path.IDs)
	}
}

func TestRetentionPathEmpty(t *testing.T) {
	if (Path{}).Root() != 0 {
		t.Error("Expected empty path to have no root")
	}
	if _, ok := RetentionPath(NewMemGraph(), 1); ok {
		t.Error("Expected no path in an empty heap")
	}
}
