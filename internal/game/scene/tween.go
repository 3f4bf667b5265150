package scene

import "time"

type tween struct {
	visual   *Visual
	from     float64
	elapsed  time.Duration
	duration time.Duration
	done     func()
}

// Tweens drives visual transitions on simulation time.
type Tweens struct {
	active []*tween
}

// NewTweens returns an empty tween set.
func NewTweens() *Tweens {
	return &Tweens{}
}

// FadeOut linearly takes v's opacity to zero over d, hides it, then calls
// done (which may be nil).
//
// Precondition: v must not be nil.
func (t *Tweens) FadeOut(v *Visual, d time.Duration, done func()) {
	if v == nil {
		panic("scene.Tweens.FadeOut: visual must not be nil")
	}
	t.active = append(t.active, &tween{visual: v, from: v.Opacity, duration: d, done: done})
}

// Update advances every tween by dt. Callbacks run after all tweens have
// been advanced and may start new tweens.
func (t *Tweens) Update(dt time.Duration) {
	var finished []*tween
	kept := t.active[:0]
	for _, tw := range t.active {
		tw.elapsed += dt
		if tw.elapsed >= tw.duration {
			tw.visual.Opacity = 0
			tw.visual.Visible = false
			finished = append(finished, tw)
			continue
		}
		frac := float64(tw.elapsed) / float64(tw.duration)
		tw.visual.Opacity = tw.from * (1 - frac)
		kept = append(kept, tw)
	}
	for i := len(kept); i < len(t.active); i++ {
		t.active[i] = nil
	}
	t.active = kept
	for _, tw := range finished {
		if tw.done != nil {
			tw.done()
		}
	}
}

// Len returns the number of running tweens.
func (t *Tweens) Len() int { return len(t.active) }
