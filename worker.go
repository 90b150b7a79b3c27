package schedz

import (
	"context"

	"github.com/zoobzio/capitan"
)

// runMainWorker is one main-core worker thread (spec.md §4.3): dequeue,
// run one slice, conditionally requeue, poll arrivals, repeat until a
// marker is popped or the container's budget is exhausted.
func runMainWorker(ctx context.Context, c *Container, coreID int) {
	capitan.Info(ctx, SignalWorkerSpawned, FieldCoreID.Field(coreID))
	defer capitan.Info(ctx, SignalWorkerExited, FieldCoreID.Field(coreID))

	for {
		entry := c.mainQueue.Pop()
		if entry.IsMarker() {
			return
		}
		p := entry.Proc

		res := runSlice(ctx, c, c.mainQueue, c.mainAlg, coreID, p)

		if !c.exhausted() && !res.completed {
			c.mainQueue.Push(processEntry(p, 0))
		}

		c.pollArrivals(ctx, c.mainProcs, c.mainQueue)
		c.pollArrivals(ctx, c.hpcProcs, c.hpcQueue)

		if res.completed {
			c.hooks.emit(ctx, EventProcessDone, ContainerEvent{ProcID: p.ID, CoreID: coreID, SimTime: c.readSimTime()})
		}
		if res.preempted {
			c.hooks.emit(ctx, EventPreempted, ContainerEvent{ProcID: p.ID, CoreID: coreID, SimTime: c.readSimTime()})
		}

		if c.exhausted() {
			c.floodOnce.Do(c.floodTerminationMarkers)
			capitan.Info(ctx, SignalBudgetExhausted, FieldSimTime.Field(c.readSimTime()), FieldAccumCPU.Field(c.accumulatedCPUSnapshot()))
			return
		}
	}
}

// runHPCWorker is one HPC-pool worker thread (spec.md §4.4): the same
// contract as runMainWorker over the HPC queue, plus a non-blocking steal
// from the main queue — executed under the main algorithm's quantum rule —
// whenever the HPC queue is empty and allowHPCSteal holds.
//
// The steal attempt runs before a blocking pop on the HPC queue, not only
// after one (spec.md §4.4 reads as "after re-pushing", but a literal
// after-only reading deadlocks the nb_cores==0 topology whenever every HPC
// process arrives after time zero: the HPC queue starts empty, no main
// worker exists to run the main queue's already-ready process, and nothing
// ever advances sim_time to admit the late HPC arrivals. Trying the steal
// whenever the HPC queue is observed empty — including before the first
// own-queue pop — is what makes scenario 5 (§8) actually complete).
func runHPCWorker(ctx context.Context, c *Container, hpcIndex int) {
	coreID := -(1 + hpcIndex)
	capitan.Info(ctx, SignalWorkerSpawned, FieldCoreID.Field(coreID))
	defer capitan.Info(ctx, SignalWorkerExited, FieldCoreID.Field(coreID))

	for {
		entry, ok := c.hpcQueue.TryPop()
		if !ok {
			if c.allowHPCSteal && c.stealFromMain(ctx, coreID) {
				c.pollArrivals(ctx, c.mainProcs, c.mainQueue)
				c.pollArrivals(ctx, c.hpcProcs, c.hpcQueue)
				if c.exhausted() {
					c.floodOnce.Do(c.floodTerminationMarkers)
					return
				}
				continue
			}
			entry = c.hpcQueue.Pop()
		}
		if entry.IsMarker() {
			return
		}
		p := entry.Proc

		res := runSlice(ctx, c, c.hpcQueue, c.hpcAlg, coreID, p)

		if !c.exhausted() && !res.completed {
			c.hpcQueue.Push(processEntry(p, 0))
		}

		if res.completed {
			c.hooks.emit(ctx, EventProcessDone, ContainerEvent{ProcID: p.ID, CoreID: coreID, SimTime: c.readSimTime()})
		}

		c.pollArrivals(ctx, c.mainProcs, c.mainQueue)
		c.pollArrivals(ctx, c.hpcProcs, c.hpcQueue)

		if c.exhausted() {
			c.floodOnce.Do(c.floodTerminationMarkers)
			capitan.Info(ctx, SignalBudgetExhausted, FieldSimTime.Field(c.readSimTime()), FieldAccumCPU.Field(c.accumulatedCPUSnapshot()))
			return
		}
	}
}

// stealFromMain performs one non-blocking pop from the main queue and, if
// it yields a process (never a marker — markers are never stolen), runs
// one slice of it under the main algorithm's quantum schedule and
// re-pushes it to the main queue if still incomplete (spec.md §4.4). It
// reports whether it found anything to steal.
func (c *Container) stealFromMain(ctx context.Context, coreID int) bool {
	stolen, ok := c.mainQueue.TryPop()
	if !ok {
		return false
	}
	if stolen.IsMarker() {
		// Markers belong to main workers; put it back immediately.
		c.mainQueue.Push(stolen)
		return false
	}

	p := stolen.Proc
	capitan.Info(ctx, SignalHPCStole, FieldCoreID.Field(coreID), FieldProcID.Field(p.ID))
	c.hooks.emit(ctx, EventHPCStole, ContainerEvent{ProcID: p.ID, CoreID: coreID, SimTime: c.readSimTime()})

	res := runSlice(ctx, c, c.mainQueue, c.mainAlg, coreID, p)
	if !c.exhausted() && !res.completed {
		c.mainQueue.Push(processEntry(p, 0))
	}
	if res.completed {
		c.hooks.emit(ctx, EventProcessDone, ContainerEvent{ProcID: p.ID, CoreID: coreID, SimTime: c.readSimTime()})
	}
	return true
}
