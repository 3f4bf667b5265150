package pathplan

import "time"

// Regulator limits how often an action may run on simulation time.
type Regulator struct {
	interval time.Duration
	last     time.Duration
	primed   bool
}

// NewRegulator returns a Regulator allowing perSecond actions per second.
// A non-positive rate never throttles.
func NewRegulator(perSecond float64) *Regulator {
	r := &Regulator{}
	if perSecond > 0 {
		r.interval = time.Duration(float64(time.Second) / perSecond)
	}
	return r
}

// Interval returns the minimum spacing between allowed actions.
func (r *Regulator) Interval() time.Duration { return r.interval }

// Ready reports whether an action may run at now and, if so, records it.
// The first call is always ready.
func (r *Regulator) Ready(now time.Duration) bool {
	if r.primed && now-r.last < r.interval {
		return false
	}
	r.primed = true
	r.last = now
	return true
}

// Reset makes the next call to Ready succeed.
func (r *Regulator) Reset() { r.primed = false }
