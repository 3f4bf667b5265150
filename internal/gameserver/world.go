package gameserver

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/scene"
)

// System is per-tick machinery that is not an entity, such as the path
// planner or the tween runner.
type System interface {
	Update(dt time.Duration)
}

// SystemFunc adapts a function to System.
type SystemFunc func(dt time.Duration)

func (f SystemFunc) Update(dt time.Duration) { f(dt) }

type entry struct {
	entity scene.Entity
	visual *scene.Visual
}

// World owns the running entities. Adds and removes requested while a step
// is in progress take effect after every entity and system has run, so no
// entity disappears mid-tick. World is driven from a single goroutine.
type World struct {
	clock  *Clock
	bus    *event.Bus
	logger *zap.Logger

	entities []entry
	index    map[scene.Entity]int
	systems  []System

	stepping   bool
	pendingAdd []entry
	pendingDel []scene.Entity
	steps      uint64
}

// NewWorld creates an empty World.
//
// Precondition: clock and bus must not be nil.
func NewWorld(clock *Clock, bus *event.Bus, logger *zap.Logger) *World {
	if clock == nil || bus == nil {
		panic("gameserver.NewWorld: clock and bus must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &World{clock: clock, bus: bus, logger: logger, index: make(map[scene.Entity]int)}
}

// AddSystem appends s; systems run in the order added, after entities.
func (w *World) AddSystem(s System) { w.systems = append(w.systems, s) }

// Clock returns the world's clock.
func (w *World) Clock() *Clock { return w.clock }

// Steps returns the number of steps that advanced time.
func (w *World) Steps() uint64 { return w.steps }

// AddEntity registers e with its visual and publishes TopicEntityAdded.
// Adding an entity twice is a no-op.
func (w *World) AddEntity(e scene.Entity, v *scene.Visual) {
	if w.stepping {
		w.pendingAdd = append(w.pendingAdd, entry{entity: e, visual: v})
		return
	}
	w.add(entry{entity: e, visual: v})
}

// RemoveEntity unregisters e and publishes TopicEntityRemoved. Removing an
// unknown entity is a no-op.
func (w *World) RemoveEntity(e scene.Entity) {
	if w.stepping {
		w.pendingDel = append(w.pendingDel, e)
		return
	}
	w.remove(e)
}

// Len returns the number of registered entities.
func (w *World) Len() int { return len(w.entities) }

// Contains reports whether e is registered.
func (w *World) Contains(e scene.Entity) bool {
	_, ok := w.index[e]
	return ok
}

// Visual returns the visual registered with e.
func (w *World) Visual(e scene.Entity) (*scene.Visual, bool) {
	i, ok := w.index[e]
	if !ok {
		return nil, false
	}
	return w.entities[i].visual, true
}

// Entities returns a snapshot of the registered entities in insertion
// order.
func (w *World) Entities() []scene.Entity {
	out := make([]scene.Entity, len(w.entities))
	for i, en := range w.entities {
		out[i] = en.entity
	}
	return out
}

// Pause stops time; Step does nothing until Resume.
func (w *World) Pause() { w.clock.Pause() }

// Resume restarts time.
func (w *World) Resume() { w.clock.Resume() }

// Step advances the clock and then updates every entity followed by every
// system, and finally applies deferred adds and removes. It returns the
// simulated time advanced.
func (w *World) Step(dt time.Duration) time.Duration {
	dt = w.clock.Advance(dt)
	if dt == 0 {
		return 0
	}
	w.steps++
	w.stepping = true
	for _, en := range append([]entry(nil), w.entities...) {
		en.entity.Update(dt)
	}
	for _, s := range w.systems {
		s.Update(dt)
	}
	w.stepping = false
	w.flush()
	return dt
}

func (w *World) flush() {
	adds, dels := w.pendingAdd, w.pendingDel
	w.pendingAdd, w.pendingDel = nil, nil
	for _, en := range adds {
		w.add(en)
	}
	for _, e := range dels {
		w.remove(e)
	}
}

func (w *World) add(en entry) {
	if _, ok := w.index[en.entity]; ok {
		return
	}
	w.index[en.entity] = len(w.entities)
	w.entities = append(w.entities, en)
	event.Publish(w.bus, scene.TopicEntityAdded, en.entity)
}

func (w *World) remove(e scene.Entity) {
	i, ok := w.index[e]
	if !ok {
		return
	}
	delete(w.index, e)
	w.entities = append(w.entities[:i:i], w.entities[i+1:]...)
	for j := i; j < len(w.entities); j++ {
		w.index[w.entities[j].entity] = j
	}
	w.logger.Debug("entity removed", zap.Int("remaining", len(w.entities)))
	event.Publish(w.bus, scene.TopicEntityRemoved, e)
}
