// ABOUTME: Concurrent FIFO of object references awaiting a visit
// ABOUTME: Producers are root/scan callbacks, the consumer is the driver loop

package walk

import (
	"sync"

	"github.com/prateek/heapwalk/vm"
)

// Queue is an unbounded FIFO of object references. Push and Pop may be called
// from any goroutine.
type Queue struct {
	mu    sync.Mutex
	items []vm.ObjectReference
	head  int
}

// Push appends obj to the tail of the queue.
func (q *Queue) Push(obj vm.ObjectReference) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, obj)
}

// PushAll appends objs in order.
func (q *Queue) PushAll(objs []vm.ObjectReference) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, objs...)
}

// Pop removes and returns the head of the queue. The second result is false
// when the queue is empty.
func (q *Queue) Pop() (vm.ObjectReference, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.items) {
		return vm.Null, false
	}
	obj := q.items[q.head]
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return obj, true
}

// Len returns the number of queued references.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
