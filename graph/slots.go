// ABOUTME: Slot handles for root entries and object pointer fields
// ABOUTME: Loading a slot reads the snapshot at the time of the call

package graph

import (
	"fmt"

	"github.com/prateek/heapwalk/vm"
)

// RootSlot is entry Index of a snapshot's root set.
type RootSlot struct {
	Index  int
	Target ObjID
}

// Load returns the root's referent; a zero target is an empty root.
func (s RootSlot) Load() (vm.ObjectReference, bool) {
	if s.Target == 0 {
		return vm.Null, false
	}
	return s.Target.Ref(), true
}

func (s RootSlot) String() string {
	return fmt.Sprintf("root[%d]", s.Index)
}

// FieldSlot is pointer field Index of the object at Holder.
type FieldSlot struct {
	Heap   Graph
	Holder ObjID
	Index  int
}

// Load reads the field. A null field, a freed holder or an index past the
// holder's pointer count all load to nothing.
func (s FieldSlot) Load() (vm.ObjectReference, bool) {
	obj := s.Heap.GetObject(s.Holder)
	if obj == nil || s.Index < 0 || s.Index >= len(obj.Ptrs) {
		return vm.Null, false
	}
	ptr := obj.Ptrs[s.Index]
	if ptr == 0 {
		return vm.Null, false
	}
	return ptr.Ref(), true
}

func (s FieldSlot) String() string {
	return fmt.Sprintf("%s.ptrs[%d]", s.Holder.Ref(), s.Index)
}
