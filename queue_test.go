package schedz

import "testing"

func popProcID(t *testing.T, q *ReadyQueue) int {
	t.Helper()
	e, ok := q.TryPop()
	if !ok {
		t.Fatal("expected an entry, queue was empty")
	}
	if e.IsMarker() {
		t.Fatal("expected a process entry, got a marker")
	}
	return e.Proc.ID
}

func TestReadyQueueFIFO(t *testing.T) {
	q := NewReadyQueue(FIFO)
	for i := 1; i <= 3; i++ {
		q.Push(processEntry(NewProcess(i, 1, 0, 0, 1.0), 0))
	}
	for _, want := range []int{1, 2, 3} {
		if got := popProcID(t, q); got != want {
			t.Errorf("expected proc %d, got %d", want, got)
		}
	}
}

func TestReadyQueuePriorityOrdering(t *testing.T) {
	q := NewReadyQueue(PRIORITY)
	q.Push(processEntry(NewProcess(1, 1, 5, 0, 1.0), 0))
	q.Push(processEntry(NewProcess(2, 1, 1, 0, 1.0), 0))
	q.Push(processEntry(NewProcess(3, 1, 5, 0, 1.0), 0)) // ties with proc 1, should come after it

	if got := popProcID(t, q); got != 2 {
		t.Errorf("expected highest-priority (lowest value) proc 2 first, got %d", got)
	}
	if got := popProcID(t, q); got != 1 {
		t.Errorf("expected proc 1 before tied proc 3 (stable insert), got %d", got)
	}
	if got := popProcID(t, q); got != 3 {
		t.Errorf("expected proc 3 last, got %d", got)
	}
}

func TestReadyQueueSJFOrdering(t *testing.T) {
	q := NewReadyQueue(SJF)
	q.Push(processEntry(NewProcess(1, 10, 0, 0, 1.0), 0))
	q.Push(processEntry(NewProcess(2, 2, 0, 0, 1.0), 0))
	q.Push(processEntry(NewProcess(3, 6, 0, 0, 1.0), 0))

	want := []int{2, 3, 1}
	for _, w := range want {
		if got := popProcID(t, q); got != w {
			t.Errorf("expected proc %d, got %d", w, got)
		}
	}
}

func TestReadyQueueHPCIsLIFO(t *testing.T) {
	q := NewReadyQueue(HPC)
	for i := 1; i <= 3; i++ {
		q.Push(processEntry(NewProcess(i, 1, 0, 0, 1.0), 0))
	}
	for _, want := range []int{3, 2, 1} {
		if got := popProcID(t, q); got != want {
			t.Errorf("expected proc %d, got %d", want, got)
		}
	}
}

func TestReadyQueueMLFQScansLowestLevelFirst(t *testing.T) {
	q := NewReadyQueue(MLFQ)
	low := NewProcess(1, 1, 0, 0, 1.0)
	low.MLFQLevel = 2
	high := NewProcess(2, 1, 0, 0, 1.0)
	high.MLFQLevel = 0

	q.Push(processEntry(low, 0))
	q.Push(processEntry(high, 0))

	if got := popProcID(t, q); got != 2 {
		t.Errorf("expected level-0 proc 2 before level-2 proc 1, got %d", got)
	}
	if got := popProcID(t, q); got != 1 {
		t.Errorf("expected proc 1 last, got %d", got)
	}
}

func TestReadyQueueWFQPrefersSmallerVirtualFinish(t *testing.T) {
	q := NewReadyQueue(WFQ)
	heavy := NewProcess(1, 10, 0, 0, 1.0) // finish = 0 + 10/1 = 10
	light := NewProcess(2, 2, 0, 0, 4.0)  // finish = 0 + 2/4 = 0.5

	q.Push(processEntry(heavy, 0))
	q.Push(processEntry(light, 0))

	if got := popProcID(t, q); got != 2 {
		t.Errorf("expected lighter-finish proc 2 first, got %d", got)
	}
	if q.virtualTime <= 0 {
		t.Errorf("expected virtual time to advance past zero, got %v", q.virtualTime)
	}
}

func TestReadyQueueMarkerPriority(t *testing.T) {
	t.Run("FIFO marker jumps the queue", func(t *testing.T) {
		q := NewReadyQueue(FIFO)
		q.Push(processEntry(NewProcess(1, 1, 0, 0, 1.0), 0))
		q.Push(markerEntry(0))
		e, ok := q.TryPop()
		if !ok || !e.IsMarker() {
			t.Fatal("expected marker to be popped first")
		}
	})

	t.Run("WFQ marker wins regardless of virtual finish", func(t *testing.T) {
		q := NewReadyQueue(WFQ)
		q.Push(processEntry(NewProcess(1, 1, 0, 0, 100.0), 0)) // tiny virtual finish
		q.Push(markerEntry(0))
		e, ok := q.TryPop()
		if !ok || !e.IsMarker() {
			t.Fatal("expected marker to win over any process entry")
		}
	})
}

func TestReadyQueueTryPreemptIsNonDestructivePeek(t *testing.T) {
	q := NewReadyQueue(PrioPreempt)
	hi := NewProcess(1, 5, 1, 0, 1.0) // lower number = higher priority
	q.Push(processEntry(hi, 0))

	running := NewProcess(2, 5, 9, 0, 1.0)
	if !q.TryPreempt(running) {
		t.Fatal("expected preemption to be signaled")
	}
	if q.Size() != 1 {
		t.Fatalf("TryPreempt must not mutate the queue, size = %d", q.Size())
	}

	top := NewProcess(3, 5, 0, 0, 1.0)
	if q.TryPreempt(top) {
		t.Fatal("running process with higher priority than the head should not be preempted")
	}
}

func TestReadyQueueSizeAcrossAlgorithms(t *testing.T) {
	for _, alg := range []Algorithm{FIFO, RR, SJF, PRIORITY, BFS, HPC, WFQ, PrioPreempt} {
		q := NewReadyQueue(alg)
		if q.Size() != 0 {
			t.Fatalf("%s: expected empty queue, got size %d", alg, q.Size())
		}
		q.Push(processEntry(NewProcess(1, 1, 0, 0, 1.0), 0))
		if q.Size() != 1 {
			t.Fatalf("%s: expected size 1, got %d", alg, q.Size())
		}
	}

	q := NewReadyQueue(MLFQ)
	q.Push(processEntry(NewProcess(1, 1, 0, 0, 1.0), 0))
	if q.Size() != 1 {
		t.Fatalf("MLFQ: expected size 1, got %d", q.Size())
	}
}

func TestReadyQueuePopBlocksUntilPush(t *testing.T) {
	q := NewReadyQueue(FIFO)
	done := make(chan Entry, 1)
	go func() { done <- q.Pop() }()

	q.Push(processEntry(NewProcess(42, 1, 0, 0, 1.0), 0))

	e := <-done
	if e.Proc.ID != 42 {
		t.Errorf("expected proc 42, got %d", e.Proc.ID)
	}
}
