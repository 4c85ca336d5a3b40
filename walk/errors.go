// ABOUTME: Validation failure records and the shared log that collects them
// ABOUTME: Also holds the package's sentinel errors

package walk

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prateek/heapwalk/vm"
)

// ErrAlreadyRun is returned when an engine is asked to traverse a second time.
// The visited set is scoped to a single run.
var ErrAlreadyRun = errors.New("traversal already ran")

// ErrorKind distinguishes failed slots from failed nodes.
type ErrorKind int

const (
	// BadEdge marks a slot that failed validation.
	BadEdge ErrorKind = iota + 1
	// BadNode marks an object that failed validation.
	BadNode
)

func (k ErrorKind) String() string {
	switch k {
	case BadEdge:
		return "BadEdge"
	case BadNode:
		return "BadNode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is one validation failure. Slot is set for BadEdge, Object for
// BadNode.
type Error struct {
	Kind   ErrorKind
	Slot   vm.Slot
	Object vm.ObjectReference
	Reason string
}

func (e Error) Error() string {
	switch e.Kind {
	case BadEdge:
		return fmt.Sprintf("BadEdge(%s, %q)", e.Slot, e.Reason)
	case BadNode:
		return fmt.Sprintf("BadNode(%s, %q)", e.Object, e.Reason)
	default:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Reason)
	}
}

// ErrorLog is an append-only list of validation failures, safe for concurrent
// appends. Order reflects arrival and carries no meaning.
type ErrorLog struct {
	mu   sync.Mutex
	errs []Error
}

// Append records err.
func (l *ErrorLog) Append(err Error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

// Len returns the number of recorded failures.
func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errs)
}

// Errors returns a copy of the recorded failures.
func (l *ErrorLog) Errors() []Error {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Error, len(l.errs))
	copy(out, l.errs)
	return out
}
