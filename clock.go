package schedz

import (
	"time"

	"github.com/zoobzio/clockz"
)

// TickDuration is the wall-clock duration one simulated tick of "CPU work"
// is scaled to. The scaling exists only to make concurrent interleaving
// observable (spec.md §1); it carries no semantic weight — one tick always
// equals one unit of RemainingTime regardless of TickDuration's value.
//
// A Container uses this value only when its Config.TickDuration is
// negative; a zero Config.TickDuration (the field's zero value) runs
// instantly, and a positive one is used as given.
const TickDuration = time.Millisecond

// getClock returns cfg's configured clock, or clockz.RealClock if none was
// set — the same zero-value-falls-back-to-real convention the teacher uses
// for every clock-consuming connector (backoff.go, circuitbreaker.go,
// ratelimiter.go, timeout.go, workerpool.go).
func getClock(clock clockz.Clock) clockz.Clock {
	if clock == nil {
		return clockz.RealClock
	}
	return clock
}

// scaledSleep blocks for steps*tickDuration, scaled by the clock in use.
// A zero tickDuration or a zero step count returns immediately.
func scaledSleep(clock clockz.Clock, tickDuration time.Duration, steps int) {
	if tickDuration <= 0 || steps <= 0 {
		return
	}
	<-getClock(clock).After(time.Duration(steps) * tickDuration)
}
