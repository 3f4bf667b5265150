// Package pickup drops ammo and health pickups where zombies die and hands
// them to the player who walks over them.
package pickup

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/geom"
	"github.com/cory-johannsen/undead/internal/game/scene"
	"github.com/cory-johannsen/undead/internal/game/weapon"
)

// Kind selects what a pickup restores.
type Kind int

const (
	Ammo Kind = iota
	Health
)

func (k Kind) String() string {
	switch k {
	case Ammo:
		return "ammo"
	case Health:
		return "health"
	default:
		return "unknown"
	}
}

// Collector is whoever can walk over pickups.
type Collector interface {
	Position() mgl64.Vec3
	Health() int
	MaxHealth() int
	AddHealth(n int)
	Weapon() *weapon.Weapon
}

// Collected is published when a pickup is consumed.
type Collected struct {
	Kind   Kind
	ID     string
	Amount int
}

// TopicCollected carries every consumed pickup.
var TopicCollected = event.NewTopic[Collected]("pickup.collected")

// Pickup is a spinning item waiting on the floor.
type Pickup struct {
	id        string
	kind      Kind
	amount    int
	position  mgl64.Vec3
	yaw       float64
	rangeSq   float64
	collected bool

	collector Collector
	registry  scene.Registry
	bus       *event.Bus
	onCollect func(*Pickup)
}

// ID returns the pickup's instance identifier.
func (p *Pickup) ID() string { return p.id }

// Kind returns what the pickup restores.
func (p *Pickup) Kind() Kind { return p.kind }

// Position returns where the pickup floats.
func (p *Pickup) Position() mgl64.Vec3 { return p.position }

// Yaw returns the pickup's spin angle in radians.
func (p *Pickup) Yaw() float64 { return p.yaw }

// Collected reports whether the pickup has been consumed.
func (p *Pickup) Collected() bool { return p.collected }

// Update spins the pickup and applies it once the collector is within
// range on the ground plane. Height is ignored.
//
// Postcondition: a pickup is applied at most once.
func (p *Pickup) Update(dt time.Duration) {
	if p.collected {
		return
	}
	p.yaw += dt.Seconds()
	if geom.DistanceSqXZ(p.collector.Position(), p.position) >= p.rangeSq {
		return
	}
	p.collected = true
	switch p.kind {
	case Health:
		p.collector.AddHealth(p.amount)
	case Ammo:
		p.collector.Weapon().AddAmmo(p.amount)
	}
	event.Publish(p.bus, TopicCollected, Collected{Kind: p.kind, ID: p.id, Amount: p.amount})
	p.registry.RemoveEntity(p)
	if p.onCollect != nil {
		p.onCollect(p)
	}
}

func newID() string { return uuid.NewString() }
