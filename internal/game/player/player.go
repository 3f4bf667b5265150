// Package player is the target the zombies hunt: it stands on the mesh,
// resolves incoming attacks against their live tokens and, on autopilot,
// shoots back.
package player

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/game/combat"
	"github.com/cory-johannsen/undead/internal/game/dice"
	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/geom"
	"github.com/cory-johannsen/undead/internal/game/navmesh"
	"github.com/cory-johannsen/undead/internal/game/weapon"
)

// Target is something the player can shoot.
type Target interface {
	ID() string
	Position() mgl64.Vec3
	IsDead() bool
	TakeDamage(n int)
}

// Shot records one round that hit a target.
type Shot struct {
	Target Target
	Damage int
}

var (
	// TopicDied fires once when the player's health reaches zero.
	TopicDied = event.NewTopic[*Player]("player.died")
	// TopicShot fires for every round that hits.
	TopicShot = event.NewTopic[Shot]("player.shot")
)

// Config holds the player's tuning.
type Config struct {
	MaxHealth    int
	Start        mgl64.Vec3
	Weapon       weapon.Spec
	Autopilot    bool
	AttackWindup time.Duration
	// HeightSmoothing is the fraction of the distance to the surface closed
	// each tick.
	HeightSmoothing float64
}

// Player is the survivor.
//
// Invariant: 0 <= Health() <= MaxHealth().
type Player struct {
	mesh     *navmesh.Mesh
	bus      *event.Bus
	roller   *dice.Roller
	logger   *zap.Logger
	cfg      Config
	weapon   *weapon.Weapon
	resolver *combat.Resolver
	attacks  *event.Subscription
	targets  func() []Target

	position mgl64.Vec3
	velocity mgl64.Vec3
	region   *navmesh.Region
	health   int
	dead     bool
	now      time.Duration
}

// New places a player at cfg.Start and subscribes it to incoming attacks.
//
// Precondition: mesh, bus and roller must not be nil.
func New(cfg Config, mesh *navmesh.Mesh, bus *event.Bus, roller *dice.Roller, logger *zap.Logger) *Player {
	if mesh == nil || bus == nil || roller == nil {
		panic("player.New: mesh, bus and roller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Player{
		mesh:     mesh,
		bus:      bus,
		roller:   roller,
		logger:   logger,
		cfg:      cfg,
		weapon:   weapon.New(cfg.Weapon),
		resolver: combat.NewResolver(cfg.AttackWindup, logger),
		position: cfg.Start,
		health:   cfg.MaxHealth,
	}
	p.region = mesh.ClosestRegion(p.position)
	p.attacks = event.Subscribe(bus, combat.TopicPendingAttack, p.onPendingAttack)
	return p
}

func (p *Player) onPendingAttack(pa combat.PendingAttack) {
	if pa.Target != any(p) || p.dead {
		return
	}
	p.resolver.Queue(pa, p.now)
}

// SetTargets installs the source of shootable targets for autopilot.
func (p *Player) SetTargets(fn func() []Target) { p.targets = fn }

// Position returns the player's location.
func (p *Player) Position() mgl64.Vec3 { return p.position }

// SetVelocity sets the walking velocity applied each tick.
func (p *Player) SetVelocity(v mgl64.Vec3) { p.velocity = v }

// Health returns current health.
func (p *Player) Health() int { return p.health }

// MaxHealth returns the health ceiling.
func (p *Player) MaxHealth() int { return p.cfg.MaxHealth }

// IsDead reports whether the player has died.
func (p *Player) IsDead() bool { return p.dead }

// Weapon returns the equipped weapon.
func (p *Player) Weapon() *weapon.Weapon { return p.weapon }

// PendingAttacks returns the number of attacks still winding up.
func (p *Player) PendingAttacks() int { return p.resolver.Len() }

// AddHealth heals by n, clamped to the maximum. Ignored once dead.
func (p *Player) AddHealth(n int) {
	if p.dead {
		return
	}
	p.health = max(0, min(p.health+n, p.cfg.MaxHealth))
}

// TakeDamage reduces health by n and publishes TopicDied when it reaches
// zero.
func (p *Player) TakeDamage(n int) {
	if p.dead || n <= 0 {
		return
	}
	p.health = max(0, p.health-n)
	p.logger.Debug("player hit", zap.Int("damage", n), zap.Int("health", p.health))
	if p.health == 0 {
		p.dead = true
		p.attacks.Unsubscribe()
		p.logger.Info("player died", zap.Duration("survived", p.now))
		event.Publish(p.bus, TopicDied, p)
	}
}

// Close detaches the player from the bus.
func (p *Player) Close() { p.attacks.Unsubscribe() }

// Update advances the player by one tick.
func (p *Player) Update(dt time.Duration) {
	p.now += dt
	if p.dead {
		return
	}
	p.move(dt)
	if dmg := p.resolver.Resolve(p.now); dmg > 0 {
		p.TakeDamage(dmg)
	}
	if p.cfg.Autopilot && !p.dead {
		p.autopilot()
	}
}

func (p *Player) move(dt time.Duration) {
	if p.velocity.LenSqr() > 0 {
		from := p.position
		to := from.Add(p.velocity.Mul(dt.Seconds()))
		p.position, p.region = p.mesh.ClampMovement(p.region, from, to)
	}
	if p.region != nil {
		p.position[1] -= p.region.DistanceToPoint(p.position) * p.cfg.HeightSmoothing
	}
}

func (p *Player) autopilot() {
	if p.weapon.MagAmmo() == 0 {
		if n := p.weapon.Reload(); n > 0 {
			p.logger.Debug("reloaded", zap.Int("rounds", n), zap.Int("reserve", p.weapon.ReserveAmmo()))
		}
		return
	}
	target := p.nearestTarget()
	if target == nil || !p.weapon.Shoot(p.now) {
		return
	}
	dmg := p.weapon.RollDamage(p.roller)
	target.TakeDamage(dmg)
	event.Publish(p.bus, TopicShot, Shot{Target: target, Damage: dmg})
}

func (p *Player) nearestTarget() Target {
	if p.targets == nil {
		return nil
	}
	rangeSq := p.weapon.Spec().Range * p.weapon.Spec().Range
	var best Target
	bestDist := math.Inf(1)
	for _, t := range p.targets() {
		if t.IsDead() {
			continue
		}
		d := geom.DistanceSq(t.Position(), p.position)
		if d <= rangeSq && d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}
