package schedz

import "testing"

func TestQuantum(t *testing.T) {
	cases := []struct {
		alg   Algorithm
		level int
		want  int
	}{
		{RR, 0, 2},
		{BFS, 0, 4},
		{WFQ, 0, 3},
		{MLFQ, 0, 2},
		{MLFQ, 1, 4},
		{MLFQ, 3, 8},
		{PrioPreempt, 0, 2},
		{FIFO, 0, defaultQuantum},
		{SJF, 0, defaultQuantum},
		{PRIORITY, 0, defaultQuantum},
		{HPC, 0, defaultQuantum},
		{None, 0, defaultQuantum},
	}
	for _, c := range cases {
		if got := Quantum(c.alg, c.level); got != c.want {
			t.Errorf("Quantum(%s, %d) = %d, want %d", c.alg, c.level, got, c.want)
		}
	}
}

func TestAlgorithmPreemptive(t *testing.T) {
	if !PrioPreempt.Preemptive() {
		t.Error("PrioPreempt should be preemptive")
	}
	for _, alg := range []Algorithm{FIFO, RR, SJF, PRIORITY, BFS, MLFQ, HPC, WFQ, None} {
		if alg.Preemptive() {
			t.Errorf("%s should not be preemptive", alg)
		}
	}
}

func TestAlgorithmString(t *testing.T) {
	if PrioPreempt.String() != "PRIO_PREEMPT" {
		t.Errorf("expected PRIO_PREEMPT, got %s", PrioPreempt.String())
	}
	if Algorithm(99).String() != "UNKNOWN" {
		t.Errorf("expected UNKNOWN for out-of-range algorithm, got %s", Algorithm(99).String())
	}
}
