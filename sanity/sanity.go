// ABOUTME: Fail-fast heap sanity checker built on the shared traversal engine
// ABOUTME: Aggregates bad nodes and edges, then reports or aborts

// Package sanity validates every object and edge reachable from the roots.
//
// A run never stops early: failures are collected while the traversal
// completes. Check hands them back as an error; VerifyOrAbort treats any
// failure as an unrecoverable heap corruption and ends the process.
package sanity

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prateek/heapwalk/vm"
	"github.com/prateek/heapwalk/walk"
)

// Overridable in tests.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Checker validates a heap without rendering it.
type Checker struct {
	engine *walk.Engine
}

// NewChecker returns a checker over binding's heap.
func NewChecker(pred vm.ValidityPredicate, binding vm.Binding, thread vm.WorkerThread) *Checker {
	return &Checker{engine: walk.New(binding, pred, thread, nil)}
}

// CheckRoots enumerates the roots and validates everything reachable from
// them. It returns walk.ErrAlreadyRun when called twice.
func (c *Checker) CheckRoots() error {
	return c.engine.Run()
}

// Errors returns the failures recorded by CheckRoots.
func (c *Checker) Errors() []walk.Error {
	return c.engine.Errors()
}

// Stats returns the traversal counters.
func (c *Checker) Stats() walk.Stats {
	return c.engine.Stats()
}

// Report is the error returned by Check when the heap is corrupt.
type Report struct {
	Errors []walk.Error
}

func (r *Report) Error() string {
	if len(r.Errors) == 1 {
		return "heap sanity check failed: " + r.Errors[0].Error()
	}
	return fmt.Sprintf("heap sanity check failed with %d errors", len(r.Errors))
}

// String lists every failure, one per line.
func (r *Report) String() string {
	var b strings.Builder
	for _, e := range r.Errors {
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return b.String()
}

// Check runs a full sanity check and returns a *Report if anything failed
// validation.
func Check(pred vm.ValidityPredicate, binding vm.Binding, thread vm.WorkerThread) error {
	c := NewChecker(pred, binding, thread)
	if err := c.CheckRoots(); err != nil {
		return err
	}
	if errs := c.Errors(); len(errs) > 0 {
		return &Report{Errors: errs}
	}
	return nil
}

// VerifyOrAbort runs a full sanity check. If anything failed validation it
// prints every failure to stderr and exits the process with status 1.
func VerifyOrAbort(pred vm.ValidityPredicate, binding vm.Binding, thread vm.WorkerThread) {
	err := Check(pred, binding, thread)
	if err == nil {
		return
	}
	if report, ok := err.(*Report); ok {
		fmt.Fprint(stderr, report.String())
		slog.Default().Error("heap is corrupt", slog.Int("errors", len(report.Errors)))
	} else {
		slog.Default().Error("heap sanity check did not complete", slog.String("error", err.Error()))
	}
	exit(1)
}
