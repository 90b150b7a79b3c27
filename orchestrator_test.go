package schedz

import (
	"context"
	"testing"
)

func makeFIFOConfig(burst int) Config {
	return Config{
		NbCores:      1,
		MainAlg:      FIFO,
		MainProcs:    []*Process{NewProcess(0, burst, 0, 0, 1.0)},
		MaxCPUTicks:  50,
		TickDuration: 0,
	}
}

func TestOrchestratorRunsAllContainersIndependently(t *testing.T) {
	orch := NewOrchestrator(makeFIFOConfig(3), makeFIFOConfig(5), makeFIFOConfig(2))

	results := orch.Run(context.Background())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantBurst := []int{3, 5, 2}
	for i, r := range results {
		if len(r.Errors) != 0 {
			t.Errorf("container %d: unexpected errors %v", i, r.Errors)
		}
		main, _ := r.Container.Snapshots()
		if len(main) != 1 {
			t.Fatalf("container %d: expected 1 process, got %d", i, len(main))
		}
		if main[0].RemainingTime != 0 {
			t.Errorf("container %d: expected completion, remaining=%d", i, main[0].RemainingTime)
		}
		if main[0].EndTime != wantBurst[i] {
			t.Errorf("container %d: expected end_time=%d, got %d", i, wantBurst[i], main[0].EndTime)
		}
	}
}

func TestOrchestratorEmpty(t *testing.T) {
	orch := NewOrchestrator()
	results := orch.Run(context.Background())
	if len(results) != 0 {
		t.Errorf("expected no results for an empty orchestrator, got %d", len(results))
	}
}
