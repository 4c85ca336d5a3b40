// ABOUTME: Binds an in-memory heap to the traversal engine's capabilities
// ABOUTME: Enumerates roots across workers, scans pointer fields, supplies node attributes

package graph

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/prateek/heapwalk/dot"
	"github.com/prateek/heapwalk/vm"
)

// Binding exposes a Graph to the traversal engine. It implements
// vm.Binding and the dumper's node attribute provider.
//
// Root enumeration splits the root set across up to Workers goroutines, the
// way a runtime hands stack and global scanning to parallel GC workers.
type Binding struct {
	heap    Graph
	workers int
	roots   map[ObjID]struct{}
	pinned  map[ObjID]struct{}
}

// NewBinding returns a binding over heap. Root flags in node attributes
// reflect the root set at the time of the call. workers below 1 means 1.
func NewBinding(heap Graph, workers int) *Binding {
	if workers < 1 {
		workers = 1
	}
	roots := heap.GetRoots()
	b := &Binding{
		heap:    heap,
		workers: workers,
		roots:   make(map[ObjID]struct{}, len(roots.IDs)),
		pinned:  make(map[ObjID]struct{}, len(roots.Pinned)),
	}
	for _, id := range roots.IDs {
		b.roots[id] = struct{}{}
	}
	for _, id := range roots.Pinned {
		b.pinned[id] = struct{}{}
	}
	return b
}

// Heap returns the underlying snapshot.
func (b *Binding) Heap() Graph {
	return b.heap
}

// EnumerateRoots reports ordinary roots as RootSlots and pinned roots as
// trusted objects, then waits for every worker to finish.
func (b *Binding) EnumerateRoots(_ vm.WorkerThread, c vm.RootsCollector) {
	roots := b.heap.GetRoots()

	var g errgroup.Group
	g.SetLimit(b.workers)

	chunk := (len(roots.IDs) + b.workers - 1) / b.workers
	if chunk < 1 {
		chunk = 1
	}
	for start := 0; start < len(roots.IDs); start += chunk {
		end := min(start+chunk, len(roots.IDs))
		ids := roots.IDs[start:end]
		base := start
		g.Go(func() error {
			for i, id := range ids {
				c.AcceptSlot(RootSlot{Index: base + i, Target: id})
			}
			return nil
		})
	}

	if len(roots.Pinned) > 0 {
		pinned := make([]vm.ObjectReference, len(roots.Pinned))
		for i, id := range roots.Pinned {
			pinned[i] = id.Ref()
		}
		g.Go(func() error {
			c.AcceptTrustedObjects(pinned)
			return nil
		})
	}

	// Workers never fail; Wait is the join point.
	_ = g.Wait()
}

// ScanObject reports every pointer field of obj, null fields included.
func (b *Binding) ScanObject(_ vm.WorkerThread, ref vm.ObjectReference, v vm.SlotVisitor) {
	id := ObjID(ref)
	obj := b.heap.GetObject(id)
	if obj == nil {
		return
	}
	for i := range obj.Ptrs {
		v.VisitSlot(FieldSlot{Heap: b.heap, Holder: id, Index: i})
	}
}

// NodeAttributes describes obj for graph rendering.
func (b *Binding) NodeAttributes(ref vm.ObjectReference) []dot.NodeAttr {
	id := ObjID(ref)
	obj := b.heap.GetObject(id)
	if obj == nil {
		return nil
	}
	attrs := []dot.NodeAttr{
		dot.StringAttr("label", fmt.Sprintf("%s\n%s", typeName(obj), humanize.Bytes(obj.Size))),
		dot.StringAttr("type", obj.Type),
		dot.NumberAttr("size", obj.Size),
	}
	if _, ok := b.roots[id]; ok {
		attrs = append(attrs, dot.FlagAttr("root"))
	}
	if _, ok := b.pinned[id]; ok {
		attrs = append(attrs, dot.FlagAttr("pinned"))
	}
	return attrs
}

func typeName(obj *Object) string {
	if obj.Type == "" {
		return "?"
	}
	return obj.Type
}
