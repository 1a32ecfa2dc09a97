package shared

import "fmt"

// DefaultEpsilon is the nudge applied to the logical clock on every stamp.
// It must stay far below any realistic tick delta.
const DefaultEpsilon = 1e-6

// SimTime is logical simulation time in game seconds.
type SimTime float64

// After reports whether t is strictly later than other
func (t SimTime) After(other SimTime) bool {
	return t > other
}

// Sub returns the elapsed game seconds between other and t
func (t SimTime) Sub(other SimTime) float64 {
	return float64(t - other)
}

// String renders the time with millisecond precision
func (t SimTime) String() string {
	return fmt.Sprintf("t=%.3f", float64(t))
}

// LogicalClock is the shared, monotonic simulation clock.
//
// It is owned by the simulation and passed explicitly to every call that
// needs to read or stamp time; nothing in the domain reaches for a global.
//
// Invariants:
// - Now never decreases
// - Every Stamp is strictly greater than every previous Stamp
type LogicalClock struct {
	now     SimTime
	epsilon float64
}

// NewLogicalClock creates a clock starting at start.
// A non-positive epsilon falls back to DefaultEpsilon.
func NewLogicalClock(start SimTime, epsilon float64) *LogicalClock {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &LogicalClock{now: start, epsilon: epsilon}
}

// Now returns the current logical time without advancing it
func (c *LogicalClock) Now() SimTime {
	return c.now
}

// Epsilon returns the stamp increment
func (c *LogicalClock) Epsilon() float64 {
	return c.epsilon
}

// Advance moves the clock forward by dt game seconds. Negative deltas are ignored.
func (c *LogicalClock) Advance(dt float64) SimTime {
	if dt > 0 {
		c.now += SimTime(dt)
	}
	return c.now
}

// Stamp nudges the clock forward by epsilon and returns the new value,
// so snapshots taken within one tick are still strictly ordered.
func (c *LogicalClock) Stamp() SimTime {
	c.now += SimTime(c.epsilon)
	return c.now
}

// Tick carries the per-step parameters handed to every order callback.
// Clock is the simulation clock itself, threaded through so that code
// running inside a tick can stamp snapshots without ambient state.
type Tick struct {
	Now    SimTime
	Delta  float64
	Paused bool
	Clock  *LogicalClock
}

// NewTick builds a Tick from the clock's current time
func NewTick(clock *LogicalClock, delta float64, paused bool) Tick {
	return Tick{Now: clock.Now(), Delta: delta, Paused: paused, Clock: clock}
}

// Stamp draws a fresh timestamp from the tick's clock.
// Without a clock it falls back to the tick's own time.
func (t Tick) Stamp() SimTime {
	if t.Clock == nil {
		return t.Now
	}
	return t.Clock.Stamp()
}

// String returns a string representation of the tick
func (t Tick) String() string {
	return fmt.Sprintf("t=%.3f dt=%.3f paused=%t", float64(t.Now), t.Delta, t.Paused)
}
