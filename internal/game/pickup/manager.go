package pickup

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/game/dice"
	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/scene"
	"github.com/cory-johannsen/undead/internal/game/zombie"
)

// Config tunes pickup drops.
type Config struct {
	// HealthAmount is restored by a health pickup.
	HealthAmount int
	// LowHealth is the health fraction below which health drops.
	LowHealth float64
	// Range is the XZ pickup radius.
	Range float64
	// Lift raises the pickup above the corpse.
	Lift float64
}

// DefaultConfig returns the stock drop rules.
func DefaultConfig() Config {
	return Config{HealthAmount: 50, LowHealth: 0.25, Range: 0.5, Lift: 1}
}

// Manager listens for zombie deaths and drops whatever the collector is
// short of.
type Manager struct {
	cfg       Config
	collector Collector
	registry  scene.Registry
	bus       *event.Bus
	src       dice.Source
	logger    *zap.Logger
	sub       *event.Subscription
	active    map[string]*Pickup
}

// NewManager creates a Manager subscribed to zombie deaths.
//
// Precondition: collector, registry, bus and src must not be nil.
func NewManager(cfg Config, collector Collector, registry scene.Registry, bus *event.Bus, src dice.Source, logger *zap.Logger) *Manager {
	if collector == nil || registry == nil || bus == nil || src == nil {
		panic("pickup.NewManager: collector, registry, bus and src must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		cfg:       cfg,
		collector: collector,
		registry:  registry,
		bus:       bus,
		src:       src,
		logger:    logger,
		active:    make(map[string]*Pickup),
	}
	m.sub = event.Subscribe(bus, zombie.TopicDied, func(a *zombie.Agent) {
		m.Drop(a.Position())
	})
	return m
}

// Close stops listening for deaths.
func (m *Manager) Close() { m.sub.Unsubscribe() }

// Active returns the number of pickups on the floor.
func (m *Manager) Active() int { return len(m.active) }

// Eligible returns the kinds the collector is currently short of.
func (m *Manager) Eligible() []Kind {
	var kinds []Kind
	if w := m.collector.Weapon(); w != nil && w.ReserveAmmo() < w.Spec().MagLimit {
		kinds = append(kinds, Ammo)
	}
	if limit := m.collector.MaxHealth(); limit > 0 && float64(m.collector.Health())/float64(limit) < m.cfg.LowHealth {
		kinds = append(kinds, Health)
	}
	return kinds
}

// Drop places one random eligible pickup above position. It returns nil
// when the collector needs nothing.
func (m *Manager) Drop(position mgl64.Vec3) *Pickup {
	kinds := m.Eligible()
	if len(kinds) == 0 {
		return nil
	}
	kind := kinds[m.src.Intn(len(kinds))]
	amount := m.cfg.HealthAmount
	if kind == Ammo {
		amount = m.collector.Weapon().Spec().MagLimit
	}
	p := &Pickup{
		id:        newID(),
		kind:      kind,
		amount:    amount,
		position:  position.Add(mgl64.Vec3{0, m.cfg.Lift, 0}),
		rangeSq:   m.cfg.Range * m.cfg.Range,
		collector: m.collector,
		registry:  m.registry,
		bus:       m.bus,
		onCollect: m.forget,
	}
	m.active[p.id] = p
	m.registry.AddEntity(p, scene.NewVisual(kind.String()+"-pickup"))
	m.logger.Debug("pickup dropped", zap.Stringer("kind", kind), zap.String("id", p.id))
	return p
}

func (m *Manager) forget(p *Pickup) {
	delete(m.active, p.id)
}
