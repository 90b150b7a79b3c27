// Package schedz is an educational CPU scheduling simulator: it executes
// sets of synthetic processes under classical scheduling policies across
// a pool of main cores and an auxiliary HPC worker pool, producing a
// per-core timeline and aggregate completion statistics.
//
// # Overview
//
// The engine is built around a small set of collaborating pieces:
//
//   - Process: one schedulable unit of synthetic work
//   - ReadyQueue: an algorithm-parameterized ordered container with a
//     blocking Pop, shared between a pool of workers and a container
//   - Container: owns both ready queues, every worker, the process
//     arrays, the simulated clock, and the timeline
//   - Orchestrator: runs several containers concurrently to completion
//
// # Scheduling algorithms
//
// FIFO, round robin, shortest-job-first, priority (preemptive and
// non-preemptive), BFS-style, multi-level feedback queue, a LIFO "HPC"
// discipline, and weighted fair queuing are all expressed as insertion and
// selection disciplines on ReadyQueue — see Algorithm and Quantum.
//
// # Observability
//
// Containers emit structured signals through capitan, publish counters and
// gauges through metricz, trace slice execution through tracez, and route
// process-done, preemption and HPC-steal events through a typed hook bus
// (hookz) whose registration method is unexported. None of these are
// required for correctness: a Container constructed with a zero-value
// Observability still runs, just silently.
package schedz
