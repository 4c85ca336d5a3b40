// ABOUTME: Tests for the in-memory heap and its slots
// ABOUTME: Validates object storage, freeing, roots and slot loading

package graph

import (
	"testing"

	"github.com/prateek/heapwalk/vm"
)

func TestGraphInterface(t *testing.T) {
	g := NewMemGraph()

	g.AddObject(&Object{ID: 0x10, Type: "root", Size: 10, Ptrs: []ObjID{0x20}})
	g.AddObject(&Object{ID: 0x20, Type: "child", Size: 20})

	retrieved := g.GetObject(0x10)
	if retrieved == nil {
		t.Fatal("Expected to retrieve object 0x10")
	}
	if retrieved.Type != "root" {
		t.Errorf("Expected type 'root', got %s", retrieved.Type)
	}
	if !g.Contains(0x20) || g.Contains(0x30) {
		t.Error("Contains disagrees with the stored objects")
	}
	if g.NumObjects() != 2 {
		t.Errorf("Expected 2 objects, got %d", g.NumObjects())
	}

	count := 0
	g.ForEachObject(func(obj *Object) {
		count++
	})
	if count != 2 {
		t.Errorf("Expected to iterate over 2 objects, got %d", count)
	}

	g.SetRoots(Roots{IDs: []ObjID{0x10}, Pinned: []ObjID{0x20}})
	roots := g.GetRoots()
	if len(roots.IDs) != 1 || roots.IDs[0] != 0x10 {
		t.Errorf("Expected roots [0x10], got %v", roots.IDs)
	}
	if len(roots.Pinned) != 1 || roots.Pinned[0] != 0x20 {
		t.Errorf("Expected pinned [0x20], got %v", roots.Pinned)
	}
}

func TestRemoveObjectLeavesDanglingPointers(t *testing.T) {
	g := NewMemGraph()
	g.AddObject(&Object{ID: 0x10, Ptrs: []ObjID{0x20}})
	g.AddObject(&Object{ID: 0x20})

	g.RemoveObject(0x20)

	if g.Contains(0x20) || g.GetObject(0x20) != nil {
		t.Error("Expected 0x20 to be freed")
	}
	if g.GetObject(0x10).Ptrs[0] != 0x20 {
		t.Error("Expected the pointer to the freed object to survive")
	}
}

func TestIDUniqueness(t *testing.T) {
	g := NewMemGraph()

	g.AddObject(&Object{ID: 1, Type: "first", Size: 10})
	g.AddObject(&Object{ID: 1, Type: "duplicate", Size: 20}) // Should replace the first one

	if g.NumObjects() != 1 {
		t.Errorf("Expected 1 object after duplicate ID, got %d", g.NumObjects())
	}
	if retrieved := g.GetObject(1); retrieved.Type != "duplicate" {
		t.Errorf("Expected duplicate to replace first, got type %s", retrieved.Type)
	}
}

func TestFieldSlotLoad(t *testing.T) {
	g := NewMemGraph()
	g.AddObject(&Object{ID: 0x10, Ptrs: []ObjID{0x20, 0}})

	tests := []struct {
		name string
		slot FieldSlot
		want vm.ObjectReference
		ok   bool
	}{
		{"set field", FieldSlot{Heap: g, Holder: 0x10, Index: 0}, 0x20, true},
		{"null field", FieldSlot{Heap: g, Holder: 0x10, Index: 1}, vm.Null, false},
		{"past the end", FieldSlot{Heap: g, Holder: 0x10, Index: 2}, vm.Null, false},
		{"negative index", FieldSlot{Heap: g, Holder: 0x10, Index: -1}, vm.Null, false},
		{"freed holder", FieldSlot{Heap: g, Holder: 0x99, Index: 0}, vm.Null, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.slot.Load()
			if got != tt.want || ok != tt.ok {
				t.Errorf("Expected (%s, %v), got (%s, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}

	if s := (FieldSlot{Heap: g, Holder: 0x10, Index: 1}).String(); s != "0x10.ptrs[1]" {
		t.Errorf("Unexpected slot name %q", s)
	}
}

func TestRootSlotLoad(t *testing.T) {
	if _, ok := (RootSlot{Index: 0}).Load(); ok {
		t.Error("Expected an empty root to load nothing")
	}
	got, ok := RootSlot{Index: 2, Target: 0x40}.Load()
	if !ok || got != 0x40 {
		t.Errorf("Expected (0x40, true), got (%s, %v)", got, ok)
	}
	if s := (RootSlot{Index: 2}).String(); s != "root[2]" {
		t.Errorf("Unexpected slot name %q", s)
	}
}
