// ABOUTME: Tests for the work queue and the error log
// ABOUTME: Covers FIFO order, compaction and concurrent producers

package walk

import (
	"sync"
	"testing"

	"github.com/prateek/heapwalk/vm"
)

func TestQueueFIFO(t *testing.T) {
	q := &Queue{}
	if _, ok := q.Pop(); ok {
		t.Fatal("Expected empty queue to pop nothing")
	}

	q.Push(1)
	q.PushAll([]vm.ObjectReference{2, 3})
	q.Push(4)

	if q.Len() != 4 {
		t.Errorf("Expected length 4, got %d", q.Len())
	}
	for want := vm.ObjectReference(1); want <= 4; want++ {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Fatalf("Expected (%s, true), got (%s, %v)", want, got, ok)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Expected drained queue, got length %d", q.Len())
	}
}

func TestQueueCompaction(t *testing.T) {
	q := &Queue{}
	next := vm.ObjectReference(1)
	want := vm.ObjectReference(1)

	// Interleave pushes and pops so the consumed prefix grows past the
	// compaction threshold while items remain queued.
	for round := 0; round < 50; round++ {
		for i := 0; i < 100; i++ {
			q.Push(next)
			next++
		}
		for i := 0; i < 60; i++ {
			got, ok := q.Pop()
			if !ok || got != want {
				t.Fatalf("Round %d: expected %s, got %s (ok=%v)", round, want, got, ok)
			}
			want++
		}
	}
	if q.Len() != int(next-want) {
		t.Errorf("Expected %d queued, got %d", next-want, q.Len())
	}
	for {
		got, ok := q.Pop()
		if !ok {
			break
		}
		if got != want {
			t.Fatalf("Expected %s, got %s", want, got)
		}
		want++
	}
	if want != next {
		t.Errorf("Expected to drain up to %s, stopped at %s", next, want)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	const producers, perProducer = 8, 1000
	q := &Queue{}

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(vm.ObjectReference(base*perProducer + i + 1))
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[vm.ObjectReference]bool)
	for {
		obj, ok := q.Pop()
		if !ok {
			break
		}
		if seen[obj] {
			t.Fatalf("Popped %s twice", obj)
		}
		seen[obj] = true
	}
	if len(seen) != producers*perProducer {
		t.Errorf("Expected %d items, got %d", producers*perProducer, len(seen))
	}
}

func TestErrorLogConcurrentAppend(t *testing.T) {
	log := &ErrorLog{}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.Append(Error{Kind: BadNode, Object: vm.ObjectReference(i + 1), Reason: "bad"})
		}(i)
	}
	wg.Wait()

	if log.Len() != 16 {
		t.Errorf("Expected 16 errors, got %d", log.Len())
	}
	errs := log.Errors()
	errs[0].Reason = "mutated"
	if log.Errors()[0].Reason == "mutated" {
		t.Error("Expected Errors to return a copy")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  Error
		want string
	}{
		{
			name: "bad node",
			err:  Error{Kind: BadNode, Object: 0x40, Reason: "corrupt header"},
			want: `BadNode(0x40, "corrupt header")`,
		},
		{
			name: "bad edge",
			err:  Error{Kind: BadEdge, Slot: fakeSlot{name: "root[3]"}, Reason: "unmapped"},
			want: `BadEdge(root[3], "unmapped")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

// fakeSlot is a slot with a fixed referent.
type fakeSlot struct {
	name   string
	target vm.ObjectReference
}

func (s fakeSlot) Load() (vm.ObjectReference, bool) {
	return s.target, !s.target.IsNull()
}

func (s fakeSlot) String() string {
	return s.name
}
