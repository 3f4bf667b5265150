package gameserver

import (
	"context"
	"time"
)

// Ticker drives a step function at a fixed wall-clock rate, passing the
// real time elapsed since the previous tick.
type Ticker struct {
	interval time.Duration
	step     func(dt time.Duration) bool
}

// NewTicker returns a Ticker calling step every interval. The loop ends
// when step returns false.
//
// Precondition: interval must be > 0; step must not be nil.
func NewTicker(interval time.Duration, step func(dt time.Duration) bool) *Ticker {
	if interval <= 0 {
		panic("gameserver.NewTicker: interval must be > 0")
	}
	if step == nil {
		panic("gameserver.NewTicker: step must not be nil")
	}
	return &Ticker{interval: interval, step: step}
}

// Run blocks, stepping until ctx is cancelled or step returns false. It
// returns ctx.Err() on cancellation and nil when step ends the loop.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if !t.step(dt) {
				return nil
			}
		}
	}
}
