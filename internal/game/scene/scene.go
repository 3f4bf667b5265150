// Package scene defines the contracts between simulated entities and the
// world that owns them.
package scene

import (
	"time"

	"github.com/cory-johannsen/undead/internal/game/event"
)

// Entity is anything the world steps once per simulation tick.
type Entity interface {
	Update(dt time.Duration)
}

// Visual is the presentation handle attached to an entity. The core only
// tracks what a renderer would need to know.
type Visual struct {
	Name    string
	Opacity float64
	Visible bool
}

// NewVisual returns a fully opaque, visible handle.
func NewVisual(name string) *Visual {
	return &Visual{Name: name, Opacity: 1, Visible: true}
}

// Registry adds and removes entities from the running world. Removal
// requested during a tick takes effect once the tick has finished stepping
// entities.
type Registry interface {
	AddEntity(e Entity, v *Visual)
	RemoveEntity(e Entity)
}

// TopicEntityRemoved fires after an entity has left the world.
var TopicEntityRemoved = event.NewTopic[Entity]("scene.entity_removed")

// TopicEntityAdded fires after an entity has joined the world.
var TopicEntityAdded = event.NewTopic[Entity]("scene.entity_added")
