// ABOUTME: Heap interface and in-memory implementation
// ABOUTME: Stores a heap snapshot keyed by object address

// Package graph models a heap snapshot in memory and binds it to the
// traversal engine: root slots, field slots, a rule-driven validity
// predicate, node attributes for rendering, and retention paths.
package graph

import "sync"

// Graph is a heap snapshot: objects keyed by address plus a root set.
type Graph interface {
	// AddObject adds an object, replacing any object at the same address
	AddObject(obj *Object)

	// RemoveObject frees the object at id. Pointers to it become dangling.
	RemoveObject(id ObjID)

	// GetObject returns the object at id, or nil
	GetObject(id ObjID) *Object

	// Contains reports whether an object lives at id
	Contains(id ObjID) bool

	// NumObjects returns the total number of objects
	NumObjects() int

	// ForEachObject iterates over all objects in no particular order
	ForEachObject(fn func(*Object))

	// SetRoots sets the GC roots
	SetRoots(roots Roots)

	// GetRoots returns the GC roots
	GetRoots() Roots
}

// MemGraph is an in-memory implementation of Graph, safe for concurrent use.
type MemGraph struct {
	mu      sync.RWMutex
	objects map[ObjID]*Object
	roots   Roots
}

// NewMemGraph creates an empty heap
func NewMemGraph() *MemGraph {
	return &MemGraph{
		objects: make(map[ObjID]*Object),
	}
}

// AddObject adds an object to the heap
func (g *MemGraph) AddObject(obj *Object) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.objects[obj.ID] = obj
}

// RemoveObject frees the object at id
func (g *MemGraph) RemoveObject(id ObjID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.objects, id)
}

// GetObject retrieves an object by address
func (g *MemGraph) GetObject(id ObjID) *Object {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.objects[id]
}

// Contains reports whether an object lives at id
func (g *MemGraph) Contains(id ObjID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.objects[id]
	return ok
}

// NumObjects returns the number of live objects
func (g *MemGraph) NumObjects() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.objects)
}

// ForEachObject holds the read lock while fn runs; fn must not mutate g.
func (g *MemGraph) ForEachObject(fn func(*Object)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, obj := range g.objects {
		fn(obj)
	}
}

// SetRoots replaces the root set
func (g *MemGraph) SetRoots(roots Roots) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roots = roots
}

// GetRoots returns the root set
func (g *MemGraph) GetRoots() Roots {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.roots
}
