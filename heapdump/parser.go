// ABOUTME: Parser interface for heap snapshot formats
// ABOUTME: Defines the contract for pluggable snapshot parsers

// Package heapdump loads heap snapshots from disk into an in-memory graph
// that the sanity checker and the graph dumper can walk.
package heapdump

import (
	"io"

	"github.com/prateek/heapwalk/graph"
)

// Parser is the interface for heap snapshot parsers
type Parser interface {
	// Name identifies the format in logs and errors
	Name() string

	// CanParse checks if this parser can handle the given snapshot format.
	// The reader is a preview of the first bytes of the stream
	CanParse(r io.Reader) bool

	// Parse reads the snapshot and builds a heap. Dangling pointers and
	// roots are kept as they are; judging them is the checker's job
	Parse(r io.Reader) (graph.Graph, error)
}
