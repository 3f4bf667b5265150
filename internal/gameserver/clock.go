package gameserver

import (
	"sync"
	"time"
)

// Clock tracks simulated time. Steps are clamped to maxDelta so a stalled
// host never makes the simulation jump, and a paused clock does not
// advance at all.
//
// Invariant: Elapsed() only increases.
type Clock struct {
	mu       sync.Mutex
	elapsed  time.Duration
	maxDelta time.Duration
	paused   bool
}

// NewClock creates a running Clock at zero.
//
// Precondition: maxDelta > 0.
func NewClock(maxDelta time.Duration) *Clock {
	if maxDelta <= 0 {
		panic("gameserver.NewClock: maxDelta must be > 0")
	}
	return &Clock{maxDelta: maxDelta}
}

// Advance moves simulated time forward by dt and returns the step actually
// taken: 0 while paused or for a negative dt, at most maxDelta otherwise.
func (c *Clock) Advance(dt time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused || dt <= 0 {
		return 0
	}
	dt = min(dt, c.maxDelta)
	c.elapsed += dt
	return dt
}

// Elapsed returns the total simulated time.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Pause stops the clock.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Resume restarts a paused clock.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}
