package schedz

import (
	"context"

	"github.com/zoobzio/capitan"
)

// sliceResult reports what happened during one runSlice invocation, enough
// for the calling worker to decide whether to requeue, steal, or stop.
type sliceResult struct {
	entry     TimelineEntry
	appended  bool
	completed bool
	preempted bool
}

// runSlice executes at most one quantum of p on coreID against queue,
// following spec.md §4.2's execution loop: the quantum is capped by both
// the algorithm's Quantum() and p's remaining time, progress is made in
// steps via scaledSleep so concurrent workers interleave observably (one
// step covers the rest of the quantum, except under PrioPreempt where each
// step is one tick), and the slice stops early on completion or — for
// PrioPreempt — on a higher-priority arrival.
//
// Grounded on the teacher's retry.go attempt loop: a count-bounded loop
// with a per-iteration span, signal, and hook emission.
func runSlice(ctx context.Context, c *Container, queue *ReadyQueue, alg Algorithm, coreID int, p *Process) sliceResult {
	ctx, span := c.obs.tracer().StartSpan(ctx, SpanSlice)
	span.SetTag(TagCoreID, itoa(coreID))
	span.SetTag(TagProcID, itoa(p.ID))
	span.SetTag(TagAlgorithm, alg.String())
	defer span.Finish()

	p.mu.Lock()
	quantum := Quantum(alg, p.MLFQLevel)
	p.mu.Unlock()

	used := 0
	preempted := false
	start := c.readSimTime()

	capitan.Info(ctx, SignalSliceStarted,
		FieldProcID.Field(p.ID),
		FieldCoreID.Field(coreID),
		FieldSimTime.Field(start),
	)

	for used < quantum {
		p.mu.Lock()
		remaining := p.RemainingTime
		if !p.Responded {
			p.Responded = true
			p.FirstResponse = start
		}
		p.mu.Unlock()

		if remaining <= 0 {
			break
		}

		step := quantum - used
		if remaining < step {
			step = remaining
		}
		// A preemptive slice ticks one simulated unit at a time so a
		// higher-priority arrival partway through the quantum is visible to
		// the preemption check below, rather than only at the end of a
		// multi-tick step (spec.md §4.2 step 3).
		if alg.Preemptive() && step > 1 {
			step = 1
		}

		scaledSleep(c.clock, c.tickDuration, step)

		completed, exhausted := c.advance(p, step)
		used += step

		for i := 0; i < step; i++ {
			c.obs.metrics().Counter(MetricTicksExecuted).Inc()
		}

		if completed {
			capitan.Info(ctx, SignalProcessDone,
				FieldProcID.Field(p.ID),
				FieldCoreID.Field(coreID),
				FieldSimTime.Field(c.readSimTime()),
			)
			break
		}
		if exhausted {
			break
		}

		if alg.Preemptive() {
			c.pollArrivals(ctx, c.mainProcs, c.mainQueue)
			c.pollArrivals(ctx, c.hpcProcs, c.hpcQueue)
		}

		if alg.Preemptive() && queue.TryPreempt(p) {
			preempted = true
			p.mu.Lock()
			p.WasPreempted = true
			p.mu.Unlock()
			capitan.Info(ctx, SignalPreempted,
				FieldProcID.Field(p.ID),
				FieldCoreID.Field(coreID),
			)
			break
		}

		if c.shouldStop() {
			break
		}
	}

	span.SetTag(TagPreempted, boolString(preempted))

	p.mu.Lock()
	remainingAfter := p.RemainingTime
	if alg == MLFQ && remainingAfter > 0 && used >= quantum {
		if p.MLFQLevel < MaxMLFQLevel-1 {
			p.MLFQLevel++
		}
		demoted := p.MLFQLevel
		p.mu.Unlock()
		capitan.Info(ctx, SignalMLFQDemoted, FieldProcID.Field(p.ID), FieldLevel.Field(demoted))
	} else {
		p.mu.Unlock()
	}

	res := sliceResult{
		entry: TimelineEntry{
			CoreID:    coreID,
			ProcID:    p.ID,
			StartTick: start,
			Length:    used,
			Preempted: preempted,
		},
		appended:  used > 0,
		completed: remainingAfter <= 0,
		preempted: preempted,
	}

	if res.appended {
		c.timeline.Append(res.entry)
		c.obs.metrics().Counter(MetricSlicesExecuted).Inc()
		capitan.Info(ctx, SignalSliceCompleted,
			FieldProcID.Field(p.ID),
			FieldCoreID.Field(coreID),
			FieldTicks.Field(used),
		)
	}

	return res
}

// advance applies step ticks of CPU time to p and the container's shared
// counters under finishMu / p.mu respectively (spec.md §4.2's accounting
// step). It reports whether p completed and whether the container's
// overall budget is now exhausted.
func (c *Container) advance(p *Process, step int) (completed, exhausted bool) {
	p.mu.Lock()
	p.RemainingTime -= step
	if p.RemainingTime <= 0 {
		p.RemainingTime = 0
		completed = true
	}
	firstResponse := p.FirstResponse
	arrival := p.ArrivalTime
	burst := p.BurstTime
	p.mu.Unlock()

	c.finishMu.Lock()
	c.simTime += step
	c.accumulatedCPU += step
	if completed {
		p.mu.Lock()
		p.EndTime = firstResponse + burst
		endTime := p.EndTime
		p.mu.Unlock()

		c.remainingCount--
		if c.remainingCount <= 0 {
			c.timeExhausted = true
		}
		exhausted = c.timeExhausted

		c.obs.RecordResponse(firstResponse - arrival)
		c.obs.RecordTurnaround(endTime - arrival)
		c.obs.metrics().Counter(MetricProcessesDone).Inc()
	}
	if c.accumulatedCPU >= c.maxCPUTicks {
		c.timeExhausted = true
	}
	exhausted = exhausted || c.timeExhausted
	c.finishMu.Unlock()

	return completed, exhausted
}
