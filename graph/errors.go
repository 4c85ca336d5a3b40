// ABOUTME: Sentinel errors returned by the heap validity rules
// ABOUTME: Their text becomes the reason recorded for bad nodes and edges

package graph

import "errors"

var (
	// ErrNotInHeap is returned when an address names no live object.
	ErrNotInHeap = errors.New("not in heap")

	// ErrMisaligned is returned when an address violates the heap alignment.
	ErrMisaligned = errors.New("misaligned address")

	// ErrOversized is returned when an object exceeds the configured size limit.
	ErrOversized = errors.New("object too large")

	// ErrUntyped is returned when an object has no type and types are required.
	ErrUntyped = errors.New("object has no type")

	// ErrForbiddenType is returned for objects whose type is on the deny list,
	// such as the marker a runtime writes into freed cells.
	ErrForbiddenType = errors.New("forbidden type")
)
