// ABOUTME: Work collector that validates incoming slots and queues their targets
// ABOUTME: Shared by root enumeration and object scanning

package walk

import "github.com/prateek/heapwalk/vm"

// Collector validates slots against a predicate and pushes their referents
// onto a queue, recording failures in an error log. It implements
// vm.RootsCollector and is safe for concurrent use.
type Collector struct {
	pred  vm.ValidityPredicate
	queue *Queue
	log   *ErrorLog
}

// NewCollector returns a collector feeding queue and log.
func NewCollector(pred vm.ValidityPredicate, queue *Queue, log *ErrorLog) *Collector {
	return &Collector{pred: pred, queue: queue, log: log}
}

// AcceptSlot validates slot and queues its referent. Invalid slots are
// recorded as BadEdge; empty slots are dropped.
func (c *Collector) AcceptSlot(slot vm.Slot) {
	c.admit(slot)
}

// AcceptTrustedObjects queues objs without validation. Null references are
// dropped.
func (c *Collector) AcceptTrustedObjects(objs []vm.ObjectReference) {
	live := make([]vm.ObjectReference, 0, len(objs))
	for _, obj := range objs {
		if !obj.IsNull() {
			live = append(live, obj)
		}
	}
	c.queue.PushAll(live)
}

// admit is AcceptSlot that also reports the queued referent.
func (c *Collector) admit(slot vm.Slot) (vm.ObjectReference, bool) {
	if err := c.pred.ValidSlot(slot); err != nil {
		c.log.Append(Error{Kind: BadEdge, Slot: slot, Reason: err.Error()})
		return vm.Null, false
	}
	obj, ok := slot.Load()
	if !ok || obj.IsNull() {
		return vm.Null, false
	}
	c.queue.Push(obj)
	return obj, true
}
