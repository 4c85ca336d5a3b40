// ABOUTME: Root heapwalk package providing version information and package documentation
// ABOUTME: This is the root package for the heap traversal toolkit

// Package heapwalk is a heap object-graph traversal toolkit for garbage
// collected runtimes. The walk package holds the traversal engine; sanity and
// dump build a fail-fast checker and a DOT graph exporter on top of it; vm
// defines the capabilities a runtime binding provides.
package heapwalk

// Version is the semantic version of the heapwalk tool
const Version = "0.1.0-dev"
