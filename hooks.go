package schedz

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/zoobzio/hookz"
)

// CancellationToken is polled by workers between slices (spec.md §6's
// should_stop hook). A nil Config.Cancel is replaced by NewContainer with a
// token that never reports a stop.
type CancellationToken interface {
	Stopped() bool
}

// cancelFlag is the default CancellationToken, an atomic boolean whose
// lifetime is a single container run (spec.md §9's "Global state" note).
type cancelFlag struct {
	flag atomic.Bool
}

// NewCancellationToken returns a fresh, unset CancellationToken along with
// the function a host's signal handler (or any other trigger) calls to
// request a stop.
func NewCancellationToken() (CancellationToken, func()) {
	c := &cancelFlag{}
	return c, func() { c.flag.Store(true) }
}

func (c *cancelFlag) Stopped() bool { return c.flag.Load() }

// noopToken never reports a stop request; it is the fallback used when a
// Container is constructed without an explicit token.
type noopToken struct{}

func (noopToken) Stopped() bool { return false }

// ScratchResourceProvider is the host-supplied pair of hooks a Container
// invokes once before spawning workers and once after join (spec.md §6).
// The engine treats the handle as opaque and never fails a run because
// Acquire returned nil or Release returned an error.
type ScratchResourceProvider interface {
	Acquire(ctx context.Context) (handle any, err error)
	Release(ctx context.Context, handle any) error
}

// noopScratch is the fallback provider: acquiring succeeds trivially with a
// nil handle, and releasing does nothing.
type noopScratch struct{}

func (noopScratch) Acquire(context.Context) (any, error) { return nil, nil }
func (noopScratch) Release(context.Context, any) error    { return nil }

// ContainerEvent is emitted through a Container's hook bus at the points a
// host might want to observe without the engine depending on a concrete
// observer — mirrors the teacher's OnAttempt/OnExhausted hookz pattern
// (retry.go, backoff.go, fallback.go).
type ContainerEvent struct {
	ContainerIndex int
	ProcID         int
	CoreID         int
	Algorithm      Algorithm
	Level          int
	SimTime        int
	Timestamp      time.Time
}

// Hook event keys.
const (
	EventPreempted      = hookz.Key("container.preempted")
	EventMLFQDemoted    = hookz.Key("container.mlfq-demoted")
	EventProcessDone    = hookz.Key("container.process-done")
	EventHPCStole       = hookz.Key("container.hpc-stole")
	EventBudgetExhausted = hookz.Key("container.budget-exhausted")
)

// hookBus wraps the typed hookz.Hooks[ContainerEvent] bus a Container
// exposes for subscriptions. NewContainer allocates one with newHookBus;
// emit is a no-op on a nil bus.
type hookBus struct {
	hooks *hookz.Hooks[ContainerEvent]
}

func newHookBus() *hookBus {
	return &hookBus{hooks: hookz.New[ContainerEvent]()}
}

func (h *hookBus) emit(ctx context.Context, key hookz.Key, ev ContainerEvent) {
	if h == nil || h.hooks == nil {
		return
	}
	if h.hooks.ListenerCount(key) == 0 {
		return
	}
	_ = h.hooks.Emit(ctx, key, ev) //nolint:errcheck
}

// on registers handler for the given event key. Returns an error only if
// the underlying bus rejects the registration (e.g. after Close).
func (h *hookBus) on(key hookz.Key, handler func(context.Context, ContainerEvent) error) error {
	_, err := h.hooks.Hook(key, handler)
	return err
}
