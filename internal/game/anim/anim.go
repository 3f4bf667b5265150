// Package anim is the animation-trigger collaborator: it tracks which clip
// each entity is playing on simulation time and signals loop and end
// boundaries over the event bus.
package anim

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cory-johannsen/undead/internal/game/event"
)

// ErrUnknownClip is returned when a clip is requested that the library does
// not contain.
var ErrUnknownClip = errors.New("anim: unknown clip")

// Event identifies a clip boundary on a specific owner.
type Event struct {
	Owner any
	Clip  string
}

var (
	// TopicLooped fires each time a looping clip wraps around.
	TopicLooped = event.NewTopic[Event]("anim.looped")
	// TopicEnded fires once when a non-looping clip reaches its last frame.
	TopicEnded = event.NewTopic[Event]("anim.ended")
)

// Mode selects how a clip behaves at its end.
type Mode int

const (
	// Loop restarts the clip at its end.
	Loop Mode = iota
	// Once holds the last frame.
	Once
)

// Library maps clip names to their durations.
type Library map[string]time.Duration

// Validate reports clips with a non-positive duration.
func (l Library) Validate() error {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	var errs []error
	for _, name := range names {
		if l[name] <= 0 {
			errs = append(errs, fmt.Errorf("clip %q: duration must be > 0", name))
		}
	}
	return errors.Join(errs...)
}

// Mixer plays one clip at a time for a single owner.
type Mixer struct {
	owner    any
	lib      Library
	bus      *event.Bus
	current  string
	mode     Mode
	length   time.Duration
	elapsed  time.Duration
	finished bool
	// generation changes on every successful Play so Update can tell whether
	// a handler switched clips mid-dispatch.
	generation uint64
}

// NewMixer creates a Mixer for owner.
//
// Precondition: lib and bus must not be nil.
func NewMixer(owner any, lib Library, bus *event.Bus) *Mixer {
	if lib == nil {
		panic("anim.NewMixer: library must not be nil")
	}
	if bus == nil {
		panic("anim.NewMixer: bus must not be nil")
	}
	return &Mixer{owner: owner, lib: lib, bus: bus}
}

// Play starts the named clip from its first frame. Requesting the clip that
// is already looping is a no-op.
//
// Postcondition: on success Current() == name.
func (m *Mixer) Play(name string, mode Mode) error {
	d, ok := m.lib[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownClip, name)
	}
	if name == m.current && mode == Loop && m.mode == Loop {
		return nil
	}
	m.current = name
	m.mode = mode
	m.length = d
	m.elapsed = 0
	m.finished = false
	m.generation++
	return nil
}

// Current returns the playing clip, or "" before the first Play.
func (m *Mixer) Current() string { return m.current }

// Finished reports whether a Once clip has reached its last frame.
func (m *Mixer) Finished() bool { return m.finished }

// Update advances the playing clip by dt and publishes boundary events.
func (m *Mixer) Update(dt time.Duration) {
	if m.current == "" || m.finished || m.length <= 0 {
		return
	}
	m.elapsed += dt
	gen := m.generation
	for m.elapsed >= m.length {
		clip := m.current
		if m.mode == Once {
			m.elapsed = m.length
			m.finished = true
			event.Publish(m.bus, TopicEnded, Event{Owner: m.owner, Clip: clip})
			return
		}
		m.elapsed -= m.length
		event.Publish(m.bus, TopicLooped, Event{Owner: m.owner, Clip: clip})
		if m.generation != gen {
			return
		}
	}
}
