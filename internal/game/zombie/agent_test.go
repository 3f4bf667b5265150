package zombie_test

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/undead/internal/game/ai"
	"github.com/cory-johannsen/undead/internal/game/anim"
	"github.com/cory-johannsen/undead/internal/game/combat"
	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/geom"
	"github.com/cory-johannsen/undead/internal/game/navmesh"
	"github.com/cory-johannsen/undead/internal/game/pathplan"
	"github.com/cory-johannsen/undead/internal/game/scene"
	"github.com/cory-johannsen/undead/internal/game/zombie"
)

const tick = 100 * time.Millisecond

type quarry struct{ pos mgl64.Vec3 }

func (q *quarry) Position() mgl64.Vec3 { return q.pos }

type registry struct{ removed []scene.Entity }

func (r *registry) AddEntity(scene.Entity, *scene.Visual) {}
func (r *registry) RemoveEntity(e scene.Entity)           { r.removed = append(r.removed, e) }

type fixture struct {
	bus     *event.Bus
	mesh    *navmesh.Mesh
	planner *pathplan.Planner
	reg     *registry
	tweens  *scene.Tweens
	quarry  *quarry
	deps    zombie.Deps
}

func clips() anim.Library {
	return anim.Library{
		zombie.ClipIdle:   time.Second,
		zombie.ClipWalk:   time.Second,
		zombie.ClipAttack: time.Second,
		zombie.ClipDeath:  time.Second,
		zombie.ClipClimb:  time.Second,
	}
}

// newFixture builds a flat 10x10 arena spanning [-5, 5] on x and z.
func newFixture(t testing.TB) *fixture {
	t.Helper()
	mesh, err := navmesh.Grid(10, 10, 1, navmesh.DefaultOptions())
	require.NoError(t, err)
	return newFixtureOn(t, mesh)
}

func newFixtureOn(t testing.TB, mesh *navmesh.Mesh) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	f := &fixture{
		bus:     event.NewBus(),
		mesh:    mesh,
		planner: pathplan.NewPlanner(mesh, pathplan.Options{Logger: logger}),
		reg:     &registry{},
		tweens:  scene.NewTweens(),
		quarry:  &quarry{},
	}
	f.deps = zombie.Deps{
		Mesh:     f.mesh,
		Planner:  f.planner,
		Bus:      f.bus,
		Registry: f.reg,
		Tweens:   f.tweens,
		Clips:    clips(),
		Quarry:   f.quarry,
		Logger:   logger,
	}
	return f
}

func (f *fixture) spawn(pos mgl64.Vec3, climb bool) *zombie.Agent {
	tuning := zombie.DefaultTuning()
	tuning.ClimbOnSpawn = climb
	return zombie.New("z1", pos, tuning, f.deps)
}

func (f *fixture) step(a *zombie.Agent, dt time.Duration) {
	a.Update(dt)
	f.planner.Update()
	f.tweens.Update(dt)
}

func TestDesirability_DefaultOrderIsValid(t *testing.T) {
	assert.NoError(t, zombie.DefaultTuning().Desirability.Validate())
	bad := zombie.Desirability{Death: 1, Spawn: 0.9, Attack: 0.4, Seek: 0.5}
	assert.Error(t, bad.Validate())
}

func TestNew_PanicsOnMissingClip(t *testing.T) {
	f := newFixture(t)
	delete(f.deps.Clips, zombie.ClipClimb)
	assert.Panics(t, func() { f.spawn(mgl64.Vec3{}, true) })
}

func TestAtPosition_UsesTolerance(t *testing.T) {
	f := newFixture(t)
	tuning := zombie.DefaultTuning()
	tuning.Tolerance = 1.4
	a := zombie.New("z1", mgl64.Vec3{0, 0, -4.3}, tuning, f.deps)

	assert.True(t, a.AtPosition(mgl64.Vec3{0, 0, -5}))
	assert.False(t, a.AtPosition(mgl64.Vec3{0, 0, -2.3}))
}

func TestSpawn_ClimbsImmuneThenSeeks(t *testing.T) {
	f := newFixture(t)
	f.quarry.pos = mgl64.Vec3{0, 0, 4}
	a := f.spawn(mgl64.Vec3{0, 0, -4}, true)

	f.step(a, tick)
	assert.Equal(t, ai.KindSpawn, a.Goal())
	assert.Equal(t, zombie.ClipClimb, a.Clip())

	a.TakeDamage(50)
	assert.Equal(t, 100, a.Health(), "climbing zombies ignore damage")

	for i := 0; i < 20 && !a.Spawned(); i++ {
		f.step(a, tick)
	}
	require.True(t, a.Spawned())
	f.step(a, tick)
	assert.Equal(t, ai.KindSeek, a.Goal())

	a.TakeDamage(50)
	assert.Equal(t, 50, a.Health())
}

func TestDeath_PreemptsAttackAndRemovesAgent(t *testing.T) {
	f := newFixture(t)
	f.quarry.pos = mgl64.Vec3{0, 0, 1}
	a := f.spawn(mgl64.Vec3{}, false)

	died := 0
	event.Subscribe(f.bus, zombie.TopicDied, func(*zombie.Agent) { died++ })

	f.step(a, tick)
	require.Equal(t, ai.KindAttack, a.Goal())
	require.NotEqual(t, uuid.Nil, a.PendingToken())

	a.TakeDamage(100)
	require.True(t, a.IsDead())
	a.TakeDamage(10)
	assert.Equal(t, 0, a.Health())

	for i := 0; i < 40; i++ {
		f.step(a, tick)
		assert.Equal(t, ai.KindDeath, a.Goal(), "tick %d", i)
	}
	assert.Equal(t, uuid.Nil, a.PendingToken())
	assert.Equal(t, 1, died)
	assert.Equal(t, zombie.ClipDeath, a.Clip())
	require.Len(t, f.reg.removed, 1)
	assert.Same(t, a, f.reg.removed[0])
	assert.False(t, a.Visual().Visible)
	assert.Zero(t, a.Visual().Opacity)
}

func TestSeek_LateDeliveryAfterPreemptionIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.quarry.pos = mgl64.Vec3{0, 0, 4}
	a := f.spawn(mgl64.Vec3{0, 0, -4}, false)

	a.Update(tick)
	require.Equal(t, ai.KindSeek, a.Goal())
	require.Equal(t, 1, f.planner.Pending())

	f.quarry.pos = mgl64.Vec3{0, 0, -3.5}
	a.Update(tick)
	require.Equal(t, ai.KindAttack, a.Goal())

	f.planner.Update()
	assert.Zero(t, f.planner.Pending())
	assert.False(t, a.FollowingPath())
	assert.Empty(t, a.Path())
	assert.Equal(t, zombie.ClipAttack, a.Clip())
}

func TestSeek_FollowsPathUntilInRange(t *testing.T) {
	f := newFixture(t)
	f.quarry.pos = mgl64.Vec3{0, 0, 4}
	a := f.spawn(mgl64.Vec3{0, 0, -4}, false)

	f.step(a, 50*time.Millisecond)
	require.True(t, a.FollowingPath())
	assert.Equal(t, zombie.ClipWalk, a.Clip())

	for i := 0; i < 600 && a.Goal() != ai.KindAttack; i++ {
		f.step(a, 50*time.Millisecond)
	}
	require.Equal(t, ai.KindAttack, a.Goal())
	assert.True(t, a.AtPosition(f.quarry.pos))
	assert.False(t, a.FollowingPath())
	assert.InDelta(t, 0, a.Position().Y(), 1e-9)
}

func TestUpdate_BlendsHeightTowardsMesh(t *testing.T) {
	f := newFixture(t)
	f.quarry.pos = mgl64.Vec3{0, 0, 4}
	a := f.spawn(mgl64.Vec3{0, 0.5, -4}, false)

	a.Update(tick)
	assert.InDelta(t, 0.4, a.Position().Y(), 1e-9)
	a.Update(tick)
	assert.InDelta(t, 0.32, a.Position().Y(), 1e-9)
	assert.InDelta(t, -4, a.Position().Z(), 1e-9)
}

func TestSeek_UnreachableQuarryLeavesZombieIdle(t *testing.T) {
	mesh, err := navmesh.GridMask([]string{"....#...."}, 1, 0, navmesh.DefaultOptions())
	require.NoError(t, err)
	f := newFixtureOn(t, mesh)
	f.quarry.pos = mgl64.Vec3{3, 0, 0}
	start := mgl64.Vec3{-3, 0, 0}
	a := f.spawn(start, false)

	for i := 0; i < 20; i++ {
		f.step(a, 50*time.Millisecond)
		require.Equal(t, ai.KindSeek, a.Goal(), "tick %d", i)
		assert.False(t, a.FollowingPath(), "tick %d", i)
		assert.Empty(t, a.Path(), "tick %d", i)
	}
	assert.Equal(t, zombie.ClipIdle, a.Clip())
	assert.InDelta(t, 0, a.Position().Sub(start).Len(), 1e-9)
	assert.InDelta(t, 0, geom.AngleBetween(mgl64.QuatIdent(), a.Rotation()), 1e-9,
		"a zombie at rest keeps its facing")
}

func TestUpdate_TurnsSmoothlyToFaceVelocity(t *testing.T) {
	f := newFixture(t)
	f.quarry.pos = mgl64.Vec3{4, 0, 0.5}
	a := f.spawn(mgl64.Vec3{-4, 0, 0.5}, false)
	dt := 50 * time.Millisecond
	maxStep := zombie.DefaultTuning().MaxTurnRate * dt.Seconds()

	prev := a.Rotation()
	for i := 0; i < 30; i++ {
		f.step(a, dt)
		assert.LessOrEqual(t, geom.AngleBetween(prev, a.Rotation()), maxStep+1e-9, "tick %d", i)
		prev = a.Rotation()
	}
	require.Equal(t, ai.KindSeek, a.Goal())
	v := a.Velocity()
	require.Greater(t, v.Len(), 0.1)
	facing := geom.YawRotation(geom.Yaw(v))
	assert.Less(t, geom.AngleBetween(facing, a.Rotation()), 0.1)
	assert.Greater(t, a.Rotation().Rotate(geom.Forward).X(), 0.9)
}

func TestUpdate_DeadZombieKeepsFacing(t *testing.T) {
	f := newFixture(t)
	f.quarry.pos = mgl64.Vec3{4, 0, 0.5}
	a := f.spawn(mgl64.Vec3{-4, 0, 0.5}, false)

	for i := 0; i < 4; i++ {
		f.step(a, 50*time.Millisecond)
	}
	require.Greater(t, a.Velocity().Len(), 0.0)
	a.TakeDamage(100)
	f.step(a, 50*time.Millisecond)
	require.Equal(t, ai.KindDeath, a.Goal())

	facing := a.Rotation()
	for i := 0; i < 10; i++ {
		f.step(a, 50*time.Millisecond)
		assert.InDelta(t, 0, geom.AngleBetween(facing, a.Rotation()), 1e-12, "tick %d", i)
	}
}

func TestAttack_InterruptedStrikeDealsNothing(t *testing.T) {
	f := newFixture(t)
	r := combat.NewResolver(500*time.Millisecond, zaptest.NewLogger(t))
	var now time.Duration
	event.Subscribe(f.bus, combat.TopicPendingAttack, func(pa combat.PendingAttack) {
		r.Queue(pa, now)
	})

	f.quarry.pos = mgl64.Vec3{0, 0, 1}
	a := f.spawn(mgl64.Vec3{}, false)
	f.step(a, tick)
	now += tick
	require.Equal(t, ai.KindAttack, a.Goal())
	require.Equal(t, 1, r.Len())

	f.quarry.pos = mgl64.Vec3{0, 0, 4}
	f.step(a, tick)
	now += tick
	require.Equal(t, ai.KindSeek, a.Goal())
	assert.Equal(t, uuid.Nil, a.PendingToken())

	assert.Zero(t, r.Resolve(now+time.Second))
	assert.Zero(t, r.Len())
}

func TestAttack_NewTokenEachLoop(t *testing.T) {
	f := newFixture(t)
	var tokens []uuid.UUID
	event.Subscribe(f.bus, combat.TopicPendingAttack, func(pa combat.PendingAttack) {
		assert.Equal(t, any(f.quarry), pa.Target)
		tokens = append(tokens, pa.Token)
	})

	f.quarry.pos = mgl64.Vec3{0.5, 0, 0.5}
	a := f.spawn(mgl64.Vec3{}, false)
	for i := 0; i < 11; i++ {
		f.step(a, tick)
	}
	require.Len(t, tokens, 2)
	assert.NotEqual(t, tokens[0], tokens[1])
	assert.Equal(t, tokens[1], a.PendingToken())
}

func TestDispose_ReleasesSubscriptions(t *testing.T) {
	f := newFixture(t)
	f.quarry.pos = mgl64.Vec3{0, 0, 1}
	a := f.spawn(mgl64.Vec3{}, false)
	f.step(a, tick)
	require.Equal(t, 1, f.bus.SubscriberCount(anim.TopicLooped.Name()))

	a.Dispose()
	assert.Zero(t, f.bus.SubscriberCount(anim.TopicLooped.Name()))
	assert.Equal(t, uuid.Nil, a.PendingToken())
	assert.Equal(t, ai.KindNone, a.Goal())
}

func TestProperty_Agent_StaysOnMesh(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t)
		coord := func(label string) float64 { return rapid.Float64Range(-4.9, 4.9).Draw(rt, label) }
		f.quarry.pos = mgl64.Vec3{coord("qx"), 0, coord("qz")}
		a := f.spawn(mgl64.Vec3{coord("x"), 0, coord("z")}, false)

		for i := 0; i < 50; i++ {
			f.step(a, tick)
			p := a.Position()
			if p.X() < -5-1e-6 || p.X() > 5+1e-6 || p.Z() < -5-1e-6 || p.Z() > 5+1e-6 {
				rt.Fatalf("tick %d: left the mesh at %v", i, p)
			}
		}
	})
}
