package schedz

import (
	"sort"
	"sync"
)

// TimelineEntry records one executed slice: spec.md §3's
// (core_id, proc_id, start_tick, length_tick, preempted_flag).
//
// HPC cores are encoded as -(1+hpcIndex) so that sorting by (CoreID,
// StartTick) yields every main core before every HPC thread.
type TimelineEntry struct {
	CoreID    int
	ProcID    int
	StartTick int
	Length    int
	Preempted bool
}

// Timeline is an append-only, thread-safe sequence of executed slices.
type Timeline struct {
	mu      sync.Mutex
	entries []TimelineEntry
}

// Append records one slice. Entries with Length == 0 must be elided by the
// caller before calling Append (spec.md §4.2).
func (t *Timeline) Append(e TimelineEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// Sorted returns a snapshot of all entries ordered by (CoreID, StartTick),
// the display sort key from spec.md §3.
func (t *Timeline) Sorted() []TimelineEntry {
	t.mu.Lock()
	out := make([]TimelineEntry, len(t.entries))
	copy(out, t.entries)
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CoreID != out[j].CoreID {
			return out[i].CoreID < out[j].CoreID
		}
		return out[i].StartTick < out[j].StartTick
	})
	return out
}

// TotalTicks sums Length across every recorded entry — used to check
// spec.md §8's "sum of length_tick equals accumulated_cpu" invariant.
func (t *Timeline) TotalTicks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, e := range t.entries {
		total += e.Length
	}
	return total
}
