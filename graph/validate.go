// ABOUTME: Rule-driven validity predicate over an in-memory heap
// ABOUTME: Flags dangling, misaligned, oversized, untyped and freed objects

package graph

import (
	"fmt"

	"github.com/prateek/heapwalk/vm"
)

// Rules configures a Validator. Zero values disable the corresponding check.
type Rules struct {
	Alignment      uint64   `yaml:"alignment"`
	MaxObjectSize  uint64   `yaml:"max_object_size"`
	RequireType    bool     `yaml:"require_type"`
	ForbiddenTypes []string `yaml:"forbidden_types"`
}

// Validator implements vm.ValidityPredicate for a Graph.
type Validator struct {
	heap      Graph
	rules     Rules
	forbidden map[string]struct{}
}

// NewValidator returns a predicate checking heap against rules.
func NewValidator(heap Graph, rules Rules) *Validator {
	forbidden := make(map[string]struct{}, len(rules.ForbiddenTypes))
	for _, t := range rules.ForbiddenTypes {
		forbidden[t] = struct{}{}
	}
	return &Validator{heap: heap, rules: rules, forbidden: forbidden}
}

// ValidNode checks that ref names a live, well-formed object.
func (v *Validator) ValidNode(ref vm.ObjectReference) error {
	id := ObjID(ref)
	if err := v.checkAddress(id); err != nil {
		return err
	}
	obj := v.heap.GetObject(id)
	if obj == nil {
		return fmt.Errorf("%w: %s", ErrNotInHeap, ref)
	}
	if v.rules.RequireType && obj.Type == "" {
		return fmt.Errorf("%w: %s", ErrUntyped, ref)
	}
	if _, bad := v.forbidden[obj.Type]; bad {
		return fmt.Errorf("%w %q at %s", ErrForbiddenType, obj.Type, ref)
	}
	if v.rules.MaxObjectSize > 0 && obj.Size > v.rules.MaxObjectSize {
		return fmt.Errorf("%w: %d bytes at %s exceeds %d", ErrOversized, obj.Size, ref, v.rules.MaxObjectSize)
	}
	return nil
}

// ValidSlot checks that slot is empty or points at a live object.
func (v *Validator) ValidSlot(slot vm.Slot) error {
	ref, ok := slot.Load()
	if !ok {
		return nil
	}
	id := ObjID(ref)
	if err := v.checkAddress(id); err != nil {
		return err
	}
	if !v.heap.Contains(id) {
		return fmt.Errorf("%w: %s points to %s", ErrNotInHeap, slot, ref)
	}
	return nil
}

func (v *Validator) checkAddress(id ObjID) error {
	if a := v.rules.Alignment; a > 1 && uint64(id)%a != 0 {
		return fmt.Errorf("%w: %s is not %d-byte aligned", ErrMisaligned, id.Ref(), a)
	}
	return nil
}
