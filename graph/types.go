// ABOUTME: Core data types for an in-memory heap snapshot
// ABOUTME: Defines Object, ObjID, and Roots structures

package graph

import "github.com/prateek/heapwalk/vm"

// ObjID is the address of a heap object. Zero is the null address.
type ObjID uint64

// Ref converts the address to the handle the traversal engine works with.
func (id ObjID) Ref() vm.ObjectReference {
	return vm.ObjectReference(id)
}

// Object represents a single heap object
type Object struct {
	ID   ObjID   // Address of the object
	Type string  // Type name (e.g. "string", "*MyStruct")
	Size uint64  // Size in bytes
	Ptrs []ObjID // Pointer fields in layout order; 0 is a null field
}

// Roots represents the GC root set of a snapshot
type Roots struct {
	IDs    []ObjID // Ordinary root slots, validated like any other slot
	Pinned []ObjID // Pinned objects reported directly by the runtime
}
