package schedz

import (
	"context"
	"sync"

	"github.com/zoobzio/capitan"
)

// Orchestrator runs N independently configured containers concurrently to
// completion, with no coordination between them beyond the final join
// (spec.md §4.7).
type Orchestrator struct {
	configs []Config
}

// NewOrchestrator builds an Orchestrator over the given container configs.
func NewOrchestrator(configs ...Config) *Orchestrator {
	return &Orchestrator{configs: configs}
}

// RunResult bundles one container's outcome, indexed by its position in
// the Orchestrator's config list.
type RunResult struct {
	Index     int
	Container *Container
	Errors    []error
}

// Run starts every configured container in its own goroutine, waits for
// all of them to finish, and returns one RunResult per container in
// config order.
func (o *Orchestrator) Run(ctx context.Context) []RunResult {
	results := make([]RunResult, len(o.configs))

	var wg sync.WaitGroup
	wg.Add(len(o.configs))

	for i, cfg := range o.configs {
		go func(idx int, cfg Config) {
			defer wg.Done()
			c := NewContainer(cfg)
			errs := c.Run(ctx)
			results[idx] = RunResult{Index: idx, Container: c, Errors: errs}
		}(i, cfg)
	}

	wg.Wait()

	capitan.Info(ctx, SignalOrchestratorDone, FieldContainer.Field(len(o.configs)))
	return results
}
