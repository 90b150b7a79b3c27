package schedz

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Config describes one Container run (spec.md §6's inputs). Degenerate
// values are normalized by NewContainer rather than rejected (spec.md
// §4.6/§7): negative core counts become 0, a non-positive tick budget
// becomes minCPUTicks, a negative TickDuration becomes the package default
// (zero is left alone — it means "run instantly"), and each Process's own
// normalization (non-positive weight → 1.0) already happened in NewProcess.
type Config struct {
	NbCores       int
	NbHPCThreads  int
	MainAlg       Algorithm
	HPCAlg        Algorithm
	MainProcs     []*Process
	HPCProcs      []*Process
	MaxCPUTicks   int
	TickDuration  time.Duration // 0 runs instantly (unscaled); negative uses the package default (TickDuration)
	Clock         clockz.Clock  // nil uses clockz.RealClock
	Scratch       ScratchResourceProvider
	Cancel        CancellationToken
	Obs           *Observability
}

// minCPUTicks is the budget a zero or negative MaxCPUTicks is coerced to
// (spec.md §4.6).
const minCPUTicks = 100

// hpcIDBase is the offset HPC process IDs are assigned from (spec.md §3).
const hpcIDBase = 1000

// Container owns both ready queues, every worker, the process arrays, the
// simulated clock, the timeline, and the run lifecycle (spec.md §3/§4.6).
type Container struct {
	nbCores      int
	nbHPCThreads int
	mainAlg      Algorithm
	hpcAlg       Algorithm

	mainProcs []*Process
	hpcProcs  []*Process

	mainQueue *ReadyQueue
	hpcQueue  *ReadyQueue

	maxCPUTicks   int
	tickDuration  time.Duration
	clock         clockz.Clock
	allowHPCSteal bool

	// finishMu guards the container-level run state: the simulated clock,
	// the accumulated-CPU budget counter, the exhaustion flag, and the
	// count of not-yet-completed processes. It is never held across
	// timelineMu or a queue's own lock (spec.md §5).
	finishMu       sync.Mutex
	simTime        int
	accumulatedCPU int
	timeExhausted  bool
	remainingCount int

	timeline *Timeline

	scratch ScratchResourceProvider
	cancel  CancellationToken
	hooks   *hookBus
	obs     *Observability

	errsMu sync.Mutex
	errs   []error

	floodOnce sync.Once
}

// NewContainer constructs a Container from cfg, assigns process IDs
// (main: 0..len(MainProcs)-1, HPC: 1000+i — spec.md §3), computes
// AllowHPCSteal, and enqueues every process whose arrival time is already
// zero (spec.md §4.6 step 1).
func NewContainer(cfg Config) *Container {
	if cfg.NbCores < 0 {
		cfg.NbCores = 0
	}
	if cfg.NbHPCThreads < 0 {
		cfg.NbHPCThreads = 0
	}
	if cfg.MaxCPUTicks <= 0 {
		cfg.MaxCPUTicks = minCPUTicks
	}
	if cfg.TickDuration < 0 {
		cfg.TickDuration = TickDuration
	}
	if cfg.Scratch == nil {
		cfg.Scratch = noopScratch{}
	}
	if cfg.Cancel == nil {
		cfg.Cancel = noopToken{}
	}
	if cfg.Obs == nil {
		cfg.Obs = NewObservability()
	}

	for i, p := range cfg.MainProcs {
		p.ID = i
	}
	for i, p := range cfg.HPCProcs {
		p.ID = hpcIDBase + i
	}

	c := &Container{
		nbCores:       cfg.NbCores,
		nbHPCThreads:  cfg.NbHPCThreads,
		mainAlg:       cfg.MainAlg,
		hpcAlg:        cfg.HPCAlg,
		mainProcs:     cfg.MainProcs,
		hpcProcs:      cfg.HPCProcs,
		mainQueue:     NewReadyQueue(cfg.MainAlg),
		hpcQueue:      NewReadyQueue(cfg.HPCAlg),
		maxCPUTicks:   cfg.MaxCPUTicks,
		tickDuration:  cfg.TickDuration,
		clock:         getClock(cfg.Clock),
		allowHPCSteal: cfg.NbCores == 0 && len(cfg.MainProcs) > 0,
		remainingCount: len(cfg.MainProcs) + len(cfg.HPCProcs),
		timeline:      &Timeline{},
		scratch:       cfg.Scratch,
		cancel:        cfg.Cancel,
		hooks:         newHookBus(),
		obs:           cfg.Obs,
	}

	for _, p := range c.mainProcs {
		c.admitIfDue(p, c.mainQueue, 0)
	}
	for _, p := range c.hpcProcs {
		c.admitIfDue(p, c.hpcQueue, 0)
	}

	return c
}

// Hooks exposes the container's subscription bus (spec.md §6's "external
// collaborators may observe, but never gate, engine behavior").
func (c *Container) Hooks() *hookBus { return c.hooks }

// Timeline returns the container's timeline recorder.
func (c *Container) Timeline() *Timeline { return c.timeline }

// admitIfDue pushes p onto queue if it has not yet been admitted and its
// arrival time is at or before simTime (spec.md §4.5's idempotency rule).
// Safe to call concurrently for the same process from multiple workers.
func (c *Container) admitIfDue(p *Process, queue *ReadyQueue, simTime int) bool {
	p.mu.Lock()
	if p.admitted || p.RemainingTime <= 0 {
		p.mu.Unlock()
		return false
	}
	if p.ArrivalTime > simTime {
		p.mu.Unlock()
		return false
	}
	p.admitted = true
	p.mu.Unlock()

	queue.Push(processEntry(p, 0))
	return true
}

// pollArrivals scans procs for newly-due arrivals against the current
// simulated clock and admits them (spec.md §4.5).
func (c *Container) pollArrivals(ctx context.Context, procs []*Process, queue *ReadyQueue) {
	now := c.readSimTime()
	for _, p := range procs {
		if c.admitIfDue(p, queue, now) {
			capitan.Info(ctx, SignalArrivalAdmitted,
				FieldProcID.Field(p.ID),
				FieldSimTime.Field(now),
			)
		}
	}
}

func (c *Container) readSimTime() int {
	c.finishMu.Lock()
	defer c.finishMu.Unlock()
	return c.simTime
}

func (c *Container) exhausted() bool {
	c.finishMu.Lock()
	defer c.finishMu.Unlock()
	return c.timeExhausted
}

// setExhausted marks the run over; idempotent.
func (c *Container) setExhausted() {
	c.finishMu.Lock()
	c.timeExhausted = true
	c.finishMu.Unlock()
}

// shouldStop reports whether either the host cancellation token or the
// budget/completion exhaustion flag requests a worker exit. A cancellation
// request is folded into timeExhausted so the rest of the engine — the
// worker's requeue/flood decisions, Snapshots, Observability — sees the
// same "run is over" signal it would see from a naturally exhausted budget
// (spec.md §5/§7's clean-termination contract).
func (c *Container) shouldStop() bool {
	if c.cancel.Stopped() {
		c.setExhausted()
		return true
	}
	return c.exhausted()
}

func (c *Container) recordError(err error) {
	c.errsMu.Lock()
	c.errs = append(c.errs, err)
	c.errsMu.Unlock()
}

// floodTerminationMarkers pushes one marker per configured main worker to
// the main queue and one per HPC worker to the HPC queue (spec.md §4.6's
// termination semantics). Workers call it through floodOnce, so it runs at
// most once per container; markers left unconsumed (such as the flooding
// worker's own) are simply dropped when the container is done.
func (c *Container) floodTerminationMarkers() {
	for i := 0; i < c.nbCores; i++ {
		c.mainQueue.Push(markerEntry(0))
	}
	for i := 0; i < c.nbHPCThreads; i++ {
		c.hpcQueue.Push(markerEntry(0))
	}
}

// Run executes the full container lifecycle (spec.md §4.6): pre-hook,
// spawn, join, post-hook, emit. It returns every non-fatal error collected
// from worker goroutines; a panic inside a worker is recovered and
// reported here rather than crashing the host process (spec.md §7).
func (c *Container) Run(ctx context.Context) []error {
	ctx, span := c.obs.tracer().StartSpan(ctx, SpanContainerRun)
	defer span.Finish()

	handle, err := c.scratch.Acquire(ctx)
	if err != nil {
		// Non-fatal: acquisition failure is logged and recorded, run
		// proceeds (spec.md §4.6/§7).
		capitan.Warn(ctx, SignalScratchReleaseFailed, FieldError.Field(err.Error()))
		c.recordError(newSchedulerError("scratch-acquire", 0, 0, err))
	} else {
		capitan.Info(ctx, SignalScratchAcquired)
	}

	var wg sync.WaitGroup
	wg.Add(c.nbCores + c.nbHPCThreads)

	for i := 0; i < c.nbCores; i++ {
		go func(coreID int) {
			defer wg.Done()
			defer recoverFromPanic(&c.errs, &c.errsMu, "main-worker", coreID, 0)
			runMainWorker(ctx, c, coreID)
		}(i)
	}
	for i := 0; i < c.nbHPCThreads; i++ {
		go func(hpcIndex int) {
			defer wg.Done()
			defer recoverFromPanic(&c.errs, &c.errsMu, "hpc-worker", -(1 + hpcIndex), 0)
			runHPCWorker(ctx, c, hpcIndex)
		}(i)
	}

	wg.Wait()

	if rerr := c.scratch.Release(ctx, handle); rerr != nil {
		capitan.Warn(ctx, SignalScratchReleaseFailed, FieldError.Field(rerr.Error()))
		c.recordError(newSchedulerError("scratch-release", 0, 0, rerr))
	}

	capitan.Info(ctx, SignalContainerJoined,
		FieldSimTime.Field(c.readSimTime()),
		FieldAccumCPU.Field(c.accumulatedCPUSnapshot()),
	)

	c.errsMu.Lock()
	defer c.errsMu.Unlock()
	return append([]error(nil), c.errs...)
}

func (c *Container) accumulatedCPUSnapshot() int {
	c.finishMu.Lock()
	defer c.finishMu.Unlock()
	return c.accumulatedCPU
}

// Snapshots returns immutable copies of every process's final state,
// published after Run returns (spec.md §6's output contract).
func (c *Container) Snapshots() (main, hpc []Snapshot) {
	main = make([]Snapshot, len(c.mainProcs))
	for i, p := range c.mainProcs {
		main[i] = p.snapshot()
	}
	hpc = make([]Snapshot, len(c.hpcProcs))
	for i, p := range c.hpcProcs {
		hpc[i] = p.snapshot()
	}
	return main, hpc
}

// Observability exposes the container's metrics/tracing bundle.
func (c *Container) Observability() *Observability { return c.obs }
