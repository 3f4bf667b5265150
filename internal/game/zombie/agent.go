// Package zombie implements the zombie agent: a Brain arbitrating between
// spawn, seek, attack and death goals, steering along planned paths, and
// kept on the navigation mesh every tick.
package zombie

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/game/ai"
	"github.com/cory-johannsen/undead/internal/game/anim"
	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/geom"
	"github.com/cory-johannsen/undead/internal/game/navmesh"
	"github.com/cory-johannsen/undead/internal/game/pathplan"
	"github.com/cory-johannsen/undead/internal/game/scene"
	"github.com/cory-johannsen/undead/internal/game/steering"
)

// TopicDied fires once when a zombie begins its death sequence.
var TopicDied = event.NewTopic[*Agent]("zombie.died")

// Quarry is what zombies hunt.
type Quarry interface {
	Position() mgl64.Vec3
}

// Deps are the collaborators shared by every zombie.
type Deps struct {
	Mesh     *navmesh.Mesh
	Planner  *pathplan.Planner
	Bus      *event.Bus
	Registry scene.Registry
	Tweens   *scene.Tweens
	Clips    anim.Library
	Quarry   Quarry
	Logger   *zap.Logger
}

func (d Deps) validate() error {
	switch {
	case d.Mesh == nil:
		return fmt.Errorf("mesh must not be nil")
	case d.Planner == nil:
		return fmt.Errorf("planner must not be nil")
	case d.Bus == nil:
		return fmt.Errorf("bus must not be nil")
	case d.Registry == nil:
		return fmt.Errorf("registry must not be nil")
	case d.Tweens == nil:
		return fmt.Errorf("tweens must not be nil")
	case d.Quarry == nil:
		return fmt.Errorf("quarry must not be nil")
	}
	return ValidateClips(d.Clips)
}

// Agent is one zombie.
//
// Invariant: 0 <= Health() <= tuning.MaxHealth, and once Health() reaches
// zero it never increases.
type Agent struct {
	id     string
	deps   Deps
	tuning Tuning
	logger *zap.Logger

	loc    *steering.Locomotion
	follow *steering.FollowPath
	onPath *steering.OnPath
	brain  *ai.Brain[*Agent]
	mixer  *anim.Mixer
	visual *scene.Visual

	region  *navmesh.Region
	prevPos mgl64.Vec3
	health  int
	spawned bool
	token   uuid.UUID
	now     time.Duration
	dt      time.Duration
}

// New creates a zombie at position. The zombie is not registered with the
// world; that is the caller's job.
//
// Precondition: every field of deps except Logger is set and deps.Clips
// contains RequiredClips.
func New(id string, position mgl64.Vec3, tuning Tuning, deps Deps) *Agent {
	if err := deps.validate(); err != nil {
		panic("zombie.New: " + err.Error())
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("zombie", id))

	a := &Agent{
		id:      id,
		deps:    deps,
		tuning:  tuning,
		logger:  logger,
		health:  tuning.MaxHealth,
		spawned: !tuning.ClimbOnSpawn,
		prevPos: position,
		visual:  scene.NewVisual(id),
	}

	a.loc = steering.NewLocomotion(position, tuning.MaxSpeed, tuning.MaxForce, tuning.MaxTurnRate)
	a.loc.Braking = tuning.Braking
	a.follow = steering.NewFollowPath(tuning.NextWaypointDistance)
	a.onPath = steering.NewOnPath(a.follow.Path, tuning.PathRadius)
	a.loc.Add(a.follow)
	a.loc.Add(a.onPath)

	d := tuning.Desirability
	a.brain = ai.NewBrain(a, logger,
		deathEvaluator{score: d.Death},
		spawnEvaluator{score: d.Spawn},
		attackEvaluator{score: d.Attack},
		seekEvaluator{score: d.Seek},
	)
	a.mixer = anim.NewMixer(a, deps.Clips, deps.Bus)
	a.region = deps.Mesh.ClosestRegion(position)
	a.PlayAnimation(ClipIdle, anim.Loop)
	return a
}

// ID returns the zombie's identifier.
func (a *Agent) ID() string { return a.id }

// Position returns the zombie's location.
func (a *Agent) Position() mgl64.Vec3 { return a.loc.Position }

// Velocity returns the zombie's velocity.
func (a *Agent) Velocity() mgl64.Vec3 { return a.loc.Velocity }

// Rotation returns the zombie's orientation.
func (a *Agent) Rotation() mgl64.Quat { return a.loc.Rotation }

// Health returns current health.
func (a *Agent) Health() int { return a.health }

// IsDead reports whether health has reached zero.
func (a *Agent) IsDead() bool { return a.health <= 0 }

// Spawned reports whether the zombie has finished climbing into the level.
func (a *Agent) Spawned() bool { return a.spawned }

// Visual returns the zombie's presentation handle.
func (a *Agent) Visual() *scene.Visual { return a.visual }

// Region returns the navmesh region the zombie was last clamped to.
func (a *Agent) Region() *navmesh.Region { return a.region }

// Goal returns the kind of the goal the zombie is pursuing.
func (a *Agent) Goal() ai.GoalKind { return a.brain.CurrentKind() }

// FollowingPath reports whether path-following steering is active.
func (a *Agent) FollowingPath() bool { return a.follow.Active }

// Path returns the waypoints being followed.
func (a *Agent) Path() []mgl64.Vec3 { return a.follow.Path.Waypoints() }

// Clip returns the playing animation clip.
func (a *Agent) Clip() string { return a.mixer.Current() }

// PendingToken returns the token of the attack being wound up, or uuid.Nil.
func (a *Agent) PendingToken() uuid.UUID { return a.token }

// AttackDamage returns the damage of one strike.
func (a *Agent) AttackDamage() int { return a.tuning.AttackDamage }

// AtPosition reports whether p is within the position tolerance.
func (a *Agent) AtPosition(p mgl64.Vec3) bool {
	tol := a.tuning.Tolerance
	return geom.DistanceSq(a.loc.Position, p) <= tol*tol
}

// TakeDamage reduces health by n. Damage is ignored while dead or while the
// zombie is still climbing into the level.
func (a *Agent) TakeDamage(n int) {
	if n <= 0 || a.IsDead() || !a.spawned {
		return
	}
	a.health = max(0, a.health-n)
	if a.health == 0 {
		a.logger.Debug("zombie killed")
	}
}

// PlayAnimation starts the named clip. A missing clip is a setup error and
// panics.
func (a *Agent) PlayAnimation(name string, mode anim.Mode) {
	if err := a.mixer.Play(name, mode); err != nil {
		panic(fmt.Sprintf("zombie %s: %v", a.id, err))
	}
}

// Update advances the zombie by one tick: integrate steering, run and
// re-arbitrate goals, clamp to the mesh, turn to face the direction of
// travel and advance animation.
func (a *Agent) Update(dt time.Duration) {
	a.now += dt
	a.dt = dt
	a.loc.Update(dt)
	a.brain.Execute()
	a.brain.Arbitrate()
	a.stayOnMesh()
	if !a.IsDead() && a.loc.Velocity.LenSqr() > 1e-8 {
		look := a.loc.Position.Add(geom.Normalize(a.loc.Velocity))
		a.loc.RotateTo(look, dt, a.tuning.RotateTolerance)
	}
	a.mixer.Update(dt)
}

// Dispose terminates the zombie's goal, releasing its subscriptions and any
// outstanding path request.
func (a *Agent) Dispose() {
	a.brain.Clear()
}

func (a *Agent) stayOnMesh() {
	pos, region := a.deps.Mesh.ClampMovement(a.region, a.prevPos, a.loc.Position)
	a.region = region
	if region != nil {
		pos[1] -= region.DistanceToPoint(pos) * a.tuning.HeightSmoothing
	}
	a.loc.Position = pos
	a.prevPos = pos
}

func (a *Agent) stopMoving() {
	a.follow.Active = false
	a.onPath.Active = false
	a.follow.Path.Clear()
	a.loc.Stop()
}
