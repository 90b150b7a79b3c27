package schedz

import (
	"math"
	"sync"

	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys for container-level observability.
const (
	MetricSlicesExecuted = metricz.Key("scheduler.slices.executed")
	MetricTicksExecuted  = metricz.Key("scheduler.ticks.executed")
	MetricProcessesDone  = metricz.Key("scheduler.processes.completed")
	MetricQueueDepthMain = metricz.Key("scheduler.queue.depth.main")
	MetricQueueDepthHPC  = metricz.Key("scheduler.queue.depth.hpc")
	MetricActiveWorkers  = metricz.Key("scheduler.workers.active")
)

// Span keys for container-level tracing.
const (
	SpanContainerRun = tracez.Key("scheduler.run")
	SpanSlice        = tracez.Key("scheduler.slice")
)

// Span tags.
const (
	TagCoreID     = tracez.Tag("scheduler.core_id")
	TagProcID     = tracez.Tag("scheduler.proc_id")
	TagAlgorithm  = tracez.Tag("scheduler.algorithm")
	TagPreempted  = tracez.Tag("scheduler.preempted")
)

// runningStat accumulates a mean and variance online using Welford's
// algorithm, grounded on the reference scheduler pool's identically-shaped
// `stat` type (other_examples' Guti2010 sched.go) — reused here for the
// run's response-time and turnaround statistics without ever
// materializing the full sample set.
type runningStat struct {
	mu   sync.Mutex
	n    int64
	mean float64
	m2   float64
}

func (s *runningStat) add(x float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	delta2 := x - s.mean
	s.m2 += delta * delta2
}

func (s *runningStat) snapshot() (count int64, mean, stddev float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count = s.n
	mean = s.mean
	if s.n > 1 {
		variance := s.m2 / float64(s.n-1)
		if variance > 0 {
			stddev = math.Sqrt(variance)
		}
	}
	return
}

// Observability bundles the optional metrics/tracing surfaces a Container
// reports through. The zero value is valid: every accessor falls back to a
// freshly constructed, unshared registry/tracer, mirroring the teacher's
// getClock()-style nil-safety convention.
type Observability struct {
	Metrics *metricz.Registry
	Tracer  *tracez.Tracer

	responseTime  runningStat
	turnaroundTime runningStat
}

// NewObservability constructs a ready-to-use Observability with its
// counters and gauges pre-registered, the way the teacher's NewRetry does
// in its constructor.
func NewObservability() *Observability {
	reg := metricz.New()
	reg.Counter(MetricSlicesExecuted)
	reg.Counter(MetricTicksExecuted)
	reg.Counter(MetricProcessesDone)
	reg.Gauge(MetricQueueDepthMain)
	reg.Gauge(MetricQueueDepthHPC)
	reg.Gauge(MetricActiveWorkers)

	return &Observability{
		Metrics: reg,
		Tracer:  tracez.New(),
	}
}

func (o *Observability) metrics() *metricz.Registry {
	if o == nil || o.Metrics == nil {
		return metricz.New()
	}
	return o.Metrics
}

func (o *Observability) tracer() *tracez.Tracer {
	if o == nil || o.Tracer == nil {
		return tracez.New()
	}
	return o.Tracer
}

// RecordResponse folds one process's response latency (FirstResponse -
// ArrivalTime) into the run's aggregate response-time statistics.
func (o *Observability) RecordResponse(ticks int) {
	if o == nil {
		return
	}
	o.responseTime.add(float64(ticks))
}

// RecordTurnaround folds one process's turnaround time (EndTime -
// ArrivalTime) into the run's aggregate turnaround statistics.
func (o *Observability) RecordTurnaround(ticks int) {
	if o == nil {
		return
	}
	o.turnaroundTime.add(float64(ticks))
}

// ResponseStats returns the count, mean, and standard deviation of
// recorded response latencies.
func (o *Observability) ResponseStats() (count int64, mean, stddev float64) {
	if o == nil {
		return 0, 0, 0
	}
	return o.responseTime.snapshot()
}

// TurnaroundStats returns the count, mean, and standard deviation of
// recorded turnaround times.
func (o *Observability) TurnaroundStats() (count int64, mean, stddev float64) {
	if o == nil {
		return 0, 0, 0
	}
	return o.turnaroundTime.snapshot()
}

// Close releases the tracer's background resources. Safe to call on a nil
// or zero-value Observability.
func (o *Observability) Close() {
	if o == nil || o.Tracer == nil {
		return
	}
	o.Tracer.Close()
}
