// ABOUTME: Graph dumper that renders every reachable node and edge while validating
// ABOUTME: Invalid nodes become annotated nodes instead of fatal errors

// Package dump exports the reachable heap graph through a dot.GraphOutput.
package dump

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prateek/heapwalk/dot"
	"github.com/prateek/heapwalk/vm"
	"github.com/prateek/heapwalk/walk"
)

// NodeAttributer supplies rendering metadata for an object.
type NodeAttributer interface {
	NodeAttributes(obj vm.ObjectReference) []dot.NodeAttr
}

// Binding is what the dumper needs from a runtime.
type Binding interface {
	vm.Binding
	NodeAttributer
}

// NodeID names obj in the output graph.
func NodeID(obj vm.ObjectReference) dot.NodeID {
	return dot.NodeID(obj.String())
}

// Dumper streams a heap graph to an output sink as it is traversed.
type Dumper struct {
	engine *walk.Engine
}

// New returns a dumper writing to out. out must already be open.
func New(pred vm.ValidityPredicate, binding Binding, thread vm.WorkerThread, out dot.GraphOutput) *Dumper {
	r := &renderer{out: out, attrs: binding}
	return &Dumper{engine: walk.New(binding, pred, thread, r)}
}

// VisitRoots traverses the heap, emitting a roots -> obj edge per root and a
// node per visited object. It stops at the first output error.
func (d *Dumper) VisitRoots() error {
	err := d.engine.Run()
	for _, e := range d.engine.Errors() {
		if e.Kind == walk.BadEdge {
			slog.Default().Warn("skipping invalid slot",
				slog.String("slot", e.Slot.String()),
				slog.String("reason", e.Reason))
		}
	}
	return err
}

// Errors returns the validation failures seen while dumping.
func (d *Dumper) Errors() []walk.Error {
	return d.engine.Errors()
}

// Stats returns the traversal counters.
func (d *Dumper) Stats() walk.Stats {
	return d.engine.Stats()
}

type renderer struct {
	out   dot.GraphOutput
	attrs NodeAttributer
}

func (r *renderer) Root(obj vm.ObjectReference) error {
	return r.out.AddSlot(dot.RootsID, NodeID(obj))
}

func (r *renderer) Node(obj vm.ObjectReference, invalid error) error {
	if invalid != nil {
		return r.out.AddNode(NodeID(obj), []dot.NodeAttr{dot.StringAttr("error", invalid.Error())})
	}
	return r.out.AddNode(NodeID(obj), r.attrs.NodeAttributes(obj))
}

func (r *renderer) Edge(src, dst vm.ObjectReference) error {
	return r.out.AddSlot(NodeID(src), NodeID(dst))
}

// Dump writes the reachable graph to w in DOT format.
func Dump(pred vm.ValidityPredicate, binding Binding, thread vm.WorkerThread, w io.Writer) (err error) {
	out := dot.NewWriter(w, "heap")
	if err := out.Open(); err != nil {
		return fmt.Errorf("write graph header: %w", err)
	}
	defer func() {
		// Close reports the first write error again; only add new ones.
		if cerr := out.Close(); cerr != nil && !errors.Is(err, cerr) {
			err = errors.Join(err, fmt.Errorf("finish graph: %w", cerr))
		}
	}()

	if err := New(pred, binding, thread, out).VisitRoots(); err != nil {
		return fmt.Errorf("dump heap graph: %w", err)
	}
	return nil
}

// DumpDot writes the reachable graph to the file at path, creating or
// truncating it.
func DumpDot(pred vm.ValidityPredicate, binding Binding, thread vm.WorkerThread, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", path, cerr))
		}
	}()
	return Dump(pred, binding, thread, f)
}
