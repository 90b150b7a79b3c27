package schedz

import "github.com/zoobzio/capitan"

// Signal constants for scheduling engine events.
// Signals follow the pattern: <component>.<event>.
const (
	// Ready queue signals.
	SignalArrivalAdmitted capitan.Signal = "queue.arrival-admitted"

	// Slice executor signals.
	SignalSliceStarted   capitan.Signal = "executor.slice-started"
	SignalSliceCompleted capitan.Signal = "executor.slice-completed"
	SignalProcessDone    capitan.Signal = "executor.process-done"
	SignalMLFQDemoted    capitan.Signal = "executor.mlfq-demoted"
	SignalPreempted      capitan.Signal = "executor.preempted"

	// Worker signals.
	SignalHPCStole       capitan.Signal = "worker.hpc-stole"
	SignalWorkerSpawned  capitan.Signal = "worker.spawned"
	SignalWorkerExited   capitan.Signal = "worker.exited"

	// Container lifecycle signals.
	SignalBudgetExhausted  capitan.Signal = "container.budget-exhausted"
	SignalContainerJoined  capitan.Signal = "container.joined"
	SignalScratchAcquired  capitan.Signal = "container.scratch-acquired"
	SignalScratchReleaseFailed capitan.Signal = "container.scratch-release-failed"

	// Orchestrator signals.
	SignalOrchestratorDone capitan.Signal = "orchestrator.done"
)

// Common field keys, following the teacher's primitive-typed-key
// convention (signals.go) to avoid custom struct serialization.
var (
	FieldCoreID    = capitan.NewIntKey("core_id")
	FieldProcID    = capitan.NewIntKey("proc_id")
	FieldAlgorithm = capitan.NewStringKey("algorithm")
	FieldTicks     = capitan.NewIntKey("ticks")
	FieldLevel     = capitan.NewIntKey("level")
	FieldSimTime   = capitan.NewIntKey("sim_time")
	FieldAccumCPU  = capitan.NewIntKey("accumulated_cpu")
	FieldRemaining = capitan.NewIntKey("remaining_count")
	FieldContainer = capitan.NewIntKey("container_index")
	FieldError     = capitan.NewStringKey("error")
)
