// ABOUTME: Traversal engine shared by the sanity checker and the graph dumper
// ABOUTME: Drains roots, then the work queue, visiting each reachable object once

// Package walk implements the heap traversal skeleton: a work queue, an error
// log, a validating collector and the driver loop that visits every object
// reachable from the roots exactly once.
//
// The engine is single-consumer. Root enumeration may push from many
// goroutines, but popping, the visited set and the observer all belong to
// the goroutine that calls Run.
package walk

import (
	"log/slog"

	"github.com/prateek/heapwalk/vm"
)

// Phase is the engine's position in a run.
type Phase int

const (
	Init Phase = iota
	DrainingRoots
	DrainingWork
	Done
)

func (p Phase) String() string {
	switch p {
	case Init:
		return "init"
	case DrainingRoots:
		return "draining-roots"
	case DrainingWork:
		return "draining-work"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Observer is notified as the engine discovers the graph. A non-nil error
// from any method stops the run and is returned from Run.
type Observer interface {
	// Root is called once per distinct root object, before it is visited.
	Root(obj vm.ObjectReference) error

	// Node is called once per visited object. invalid is nil for valid
	// objects and the predicate's error otherwise.
	Node(obj vm.ObjectReference, invalid error) error

	// Edge is called for every valid, non-empty slot found while scanning src.
	Edge(src, dst vm.ObjectReference) error
}

type nopObserver struct{}

func (nopObserver) Root(vm.ObjectReference) error        { return nil }
func (nopObserver) Node(vm.ObjectReference, error) error { return nil }
func (nopObserver) Edge(_, _ vm.ObjectReference) error   { return nil }

// Stats counts what one run saw.
type Stats struct {
	Roots   int
	Visited int
	Edges   int
	Errors  int
}

// Engine walks the object graph of a binding.
type Engine struct {
	binding vm.Binding
	pred    vm.ValidityPredicate
	thread  vm.WorkerThread
	obs     Observer

	roots *Queue
	work  *Queue
	log   *ErrorLog

	rootCollector *Collector
	workCollector *Collector

	visited map[vm.ObjectReference]struct{}
	rooted  map[vm.ObjectReference]struct{}

	phase  Phase
	cursor vm.ObjectReference
	// first observer error raised inside a scan
	scanErr error
	stats   Stats
}

// New returns an engine that will traverse binding's heap on behalf of
// thread. obs may be nil.
func New(binding vm.Binding, pred vm.ValidityPredicate, thread vm.WorkerThread, obs Observer) *Engine {
	if obs == nil {
		obs = nopObserver{}
	}
	e := &Engine{
		binding: binding,
		pred:    pred,
		thread:  thread,
		obs:     obs,
		roots:   &Queue{},
		work:    &Queue{},
		log:     &ErrorLog{},
		visited: make(map[vm.ObjectReference]struct{}),
		rooted:  make(map[vm.ObjectReference]struct{}),
	}
	e.rootCollector = NewCollector(pred, e.roots, e.log)
	e.workCollector = NewCollector(pred, e.work, e.log)
	return e
}

// Run enumerates the roots and visits everything reachable from them. It
// returns the first observer error, or ErrAlreadyRun if the engine has been
// used before. Validation failures never make Run fail; see Errors.
func (e *Engine) Run() error {
	if e.phase != Init {
		return ErrAlreadyRun
	}

	e.phase = DrainingRoots
	e.binding.EnumerateRoots(e.thread, e.rootCollector)

	err := e.drain()
	e.phase = Done
	e.cursor = vm.Null
	e.stats.Errors = e.log.Len()

	slog.Default().Debug("heap traversal finished",
		slog.Int("roots", e.stats.Roots),
		slog.Int("visited", e.stats.Visited),
		slog.Int("edges", e.stats.Edges),
		slog.Int("errors", e.stats.Errors))
	return err
}

func (e *Engine) drain() error {
	for {
		obj, ok := e.roots.Pop()
		if !ok {
			break
		}
		if _, seen := e.rooted[obj]; !seen {
			e.rooted[obj] = struct{}{}
			e.stats.Roots++
			if err := e.obs.Root(obj); err != nil {
				return err
			}
		}
		if err := e.visit(obj); err != nil {
			return err
		}
	}

	e.phase = DrainingWork
	for {
		obj, ok := e.work.Pop()
		if !ok {
			return nil
		}
		if err := e.visit(obj); err != nil {
			return err
		}
	}
}

func (e *Engine) visit(obj vm.ObjectReference) error {
	if _, seen := e.visited[obj]; seen {
		return nil
	}
	e.visited[obj] = struct{}{}
	e.stats.Visited++

	if invalid := e.pred.ValidNode(obj); invalid != nil {
		e.log.Append(Error{Kind: BadNode, Object: obj, Reason: invalid.Error()})
		return e.obs.Node(obj, invalid)
	}
	if err := e.obs.Node(obj, nil); err != nil {
		return err
	}

	e.cursor = obj
	e.binding.ScanObject(e.thread, obj, slotVisitor{e})
	e.cursor = vm.Null

	err := e.scanErr
	e.scanErr = nil
	return err
}

// slotVisitor feeds slots found while scanning the cursor object back into
// the engine.
type slotVisitor struct {
	e *Engine
}

func (v slotVisitor) VisitSlot(slot vm.Slot) {
	e := v.e
	if e.scanErr != nil {
		return
	}
	dst, ok := e.workCollector.admit(slot)
	if !ok {
		return
	}
	e.stats.Edges++
	e.scanErr = e.obs.Edge(e.cursor, dst)
}

// Phase returns the engine's current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Visited reports whether obj has been visited in this run.
func (e *Engine) Visited(obj vm.ObjectReference) bool {
	_, ok := e.visited[obj]
	return ok
}

// Errors returns the validation failures recorded so far.
func (e *Engine) Errors() []Error {
	return e.log.Errors()
}

// Stats returns the counters of the run.
func (e *Engine) Stats() Stats {
	return e.stats
}
