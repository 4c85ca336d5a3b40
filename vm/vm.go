// ABOUTME: Handle types and capability interfaces an embedding runtime implements
// ABOUTME: The traversal engine only sees the heap through these interfaces

// Package vm describes the narrow surface through which an embedding runtime
// exposes its heap to the traversal engine: object and slot handles, root
// enumeration, conservative object scanning and a validity predicate.
//
// One implementation of these interfaces exists per target runtime. The
// engine is written against the interfaces only and never sees concrete
// object layouts.
package vm

import "fmt"

// ObjectReference is an opaque identity handle for a heap object.
// Two references are equal iff they name the same address.
type ObjectReference uint64

// Null is the reference that names no object.
const Null ObjectReference = 0

// IsNull reports whether the reference names no object.
func (o ObjectReference) IsNull() bool {
	return o == Null
}

// String renders the reference as a hexadecimal address.
func (o ObjectReference) String() string {
	return fmt.Sprintf("0x%x", uint64(o))
}

// WorkerThread is the opaque handle of the VM worker on whose behalf a
// traversal runs. The engine never interprets it and passes it through to
// every capability call.
type WorkerThread uintptr

// Slot is a location that holds, or can hold, a reference: an object field
// or a root-set entry.
type Slot interface {
	// Load returns the object currently referenced by the slot. The second
	// result is false when the slot is cleared or uninitialised.
	Load() (ObjectReference, bool)

	// String describes the location for diagnostics.
	String() string
}

// SlotVisitor observes the outgoing slots of one object during a scan.
type SlotVisitor interface {
	VisitSlot(slot Slot)
}

// RootsCollector receives roots during enumeration. Implementations must be
// safe for concurrent use: a runtime may report roots from several workers.
type RootsCollector interface {
	// AcceptSlot reports an ordinary root slot. The slot is validated
	// before its referent is queued.
	AcceptSlot(slot Slot)

	// AcceptTrustedObjects reports roots the runtime has already resolved,
	// such as pinning roots. They bypass slot validation.
	AcceptTrustedObjects(objs []ObjectReference)
}

// RootEnumerator reports the root set.
//
// EnumerateRoots must call AcceptSlot once per ordinary root slot and
// AcceptTrustedObjects for every pinned root, and return only after all of
// those calls have completed, whichever goroutines made them.
type RootEnumerator interface {
	EnumerateRoots(thread WorkerThread, collector RootsCollector)
}

// ConservativeScanner reports the outgoing references of an object.
//
// ScanObject must call VisitSlot exactly once per reference-bearing location
// of obj, treating weak or ambiguous references as strong. All calls happen
// before ScanObject returns and never overlap.
type ConservativeScanner interface {
	ScanObject(thread WorkerThread, obj ObjectReference, visitor SlotVisitor)
}

// Binding is the full set of heap capabilities a traversal needs.
type Binding interface {
	RootEnumerator
	ConservativeScanner
}

// ValidityPredicate decides whether nodes and slots are well formed. A nil
// error means valid; the error text becomes the recorded reason otherwise.
type ValidityPredicate interface {
	ValidNode(obj ObjectReference) error
	ValidSlot(slot Slot) error
}
