// Package wave runs the zombie waves: it spawns each wave at random spots
// away from the player, tracks the living, and schedules the next wave once
// the last zombie of the current one has left the world.
package wave

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/game/dice"
	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/geom"
	"github.com/cory-johannsen/undead/internal/game/scene"
	"github.com/cory-johannsen/undead/internal/game/zombie"
)

// Started is published when a wave begins.
type Started struct {
	Wave int
	Size int
}

var (
	// TopicWaveStarted fires after a wave has been spawned.
	TopicWaveStarted = event.NewTopic[Started]("wave.started")
	// TopicWaveCleared fires with the wave number once its last zombie is
	// removed.
	TopicWaveCleared = event.NewTopic[int]("wave.cleared")
)

// ErrOffMesh is returned when asked to spawn where there is no floor.
var ErrOffMesh = errors.New("wave: spawn position is off the navigation mesh")

// Config tunes wave pacing.
type Config struct {
	// Delay between a wave clearing and the next one starting.
	Delay time.Duration
	// SpawnClearance is the minimum XZ distance from the player to a spawn.
	SpawnClearance float64
	// MaxSize caps the number of zombies in one wave. Zero leaves waves
	// uncapped.
	MaxSize int
}

// Spawner is the zombie manager. It is driven from the simulation goroutine
// only.
type Spawner struct {
	cfg    Config
	sizer  Sizer
	tuning zombie.Tuning
	deps   zombie.Deps
	src    dice.Source
	logger *zap.Logger

	agents  map[*zombie.Agent]struct{}
	order   []*zombie.Agent
	wave    int
	counter int
	now     time.Duration
	nextAt  time.Duration
	pending bool
	sub     *event.Subscription
}

// New creates a Spawner. No wave starts until StartNextWave is called.
//
// Precondition: sizer and src must not be nil; deps must satisfy zombie.New.
func New(cfg Config, sizer Sizer, tuning zombie.Tuning, deps zombie.Deps, src dice.Source, logger *zap.Logger) (*Spawner, error) {
	if sizer == nil || src == nil {
		return nil, errors.New("wave.New: sizer and src must not be nil")
	}
	if deps.Mesh == nil || deps.Bus == nil || deps.Registry == nil || deps.Quarry == nil {
		return nil, errors.New("wave.New: mesh, bus, registry and quarry must not be nil")
	}
	if err := zombie.ValidateClips(deps.Clips); err != nil {
		return nil, fmt.Errorf("wave.New: %w", err)
	}
	if err := tuning.Desirability.Validate(); err != nil {
		return nil, fmt.Errorf("wave.New: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Spawner{
		cfg:    cfg,
		sizer:  sizer,
		tuning: tuning,
		deps:   deps,
		src:    src,
		logger: logger,
		agents: make(map[*zombie.Agent]struct{}),
	}
	s.sub = event.Subscribe(deps.Bus, scene.TopicEntityRemoved, s.onRemoved)
	return s, nil
}

// Close stops tracking removals and disposes every tracked zombie.
func (s *Spawner) Close() {
	s.sub.Unsubscribe()
	for _, a := range s.order {
		a.Dispose()
	}
	s.agents = make(map[*zombie.Agent]struct{})
	s.order = nil
}

// Wave returns the current wave number; 0 before the first wave.
func (s *Spawner) Wave() int { return s.wave }

// Remaining returns the number of tracked zombies, dying ones included.
func (s *Spawner) Remaining() int { return len(s.order) }

// Living returns the tracked zombies that are not dead, in spawn order.
func (s *Spawner) Living() []*zombie.Agent {
	out := make([]*zombie.Agent, 0, len(s.order))
	for _, a := range s.order {
		if !a.IsDead() {
			out = append(out, a)
		}
	}
	return out
}

// NextWaveIn reports the time until the scheduled next wave.
func (s *Spawner) NextWaveIn() (time.Duration, bool) {
	if !s.pending {
		return 0, false
	}
	return max(0, s.nextAt-s.now), true
}

// Spawn places one zombie at position and registers it with the world.
func (s *Spawner) Spawn(position mgl64.Vec3) (*zombie.Agent, error) {
	if s.deps.Mesh.RegionForPoint(position) == nil {
		return nil, fmt.Errorf("%w: %v", ErrOffMesh, position)
	}
	s.counter++
	a := zombie.New(fmt.Sprintf("zombie-%d", s.counter), position, s.tuning, s.deps)
	s.agents[a] = struct{}{}
	s.order = append(s.order, a)
	s.deps.Registry.AddEntity(a, a.Visual())
	return a, nil
}

// StartNextWave spawns the next wave immediately and returns its size.
// An empty wave counts as cleared at once.
func (s *Spawner) StartNextWave() int {
	s.pending = false
	s.wave++
	size := max(0, s.sizer.Size(s.wave))
	if s.cfg.MaxSize > 0 && size > s.cfg.MaxSize {
		s.logger.Warn("wave size capped", zap.Int("wave", s.wave), zap.Int("size", size), zap.Int("max_size", s.cfg.MaxSize))
		size = s.cfg.MaxSize
	}
	for i := 0; i < size; i++ {
		if _, err := s.Spawn(s.spawnPoint()); err != nil {
			s.logger.Warn("spawn failed", zap.Int("wave", s.wave), zap.Error(err))
		}
	}
	s.logger.Info("wave started", zap.Int("wave", s.wave), zap.Int("size", size))
	event.Publish(s.deps.Bus, TopicWaveStarted, Started{Wave: s.wave, Size: size})
	if len(s.order) == 0 {
		s.cleared()
	}
	return size
}

// Update advances the wave timer and starts the scheduled wave when due.
func (s *Spawner) Update(dt time.Duration) {
	s.now += dt
	if s.pending && s.now >= s.nextAt {
		s.StartNextWave()
	}
}

func (s *Spawner) onRemoved(e scene.Entity) {
	a, ok := e.(*zombie.Agent)
	if !ok {
		return
	}
	if _, tracked := s.agents[a]; !tracked {
		return
	}
	delete(s.agents, a)
	for i, o := range s.order {
		if o == a {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	a.Dispose()
	if len(s.order) == 0 {
		s.cleared()
	}
}

func (s *Spawner) cleared() {
	s.logger.Info("wave cleared", zap.Int("wave", s.wave), zap.Duration("next_in", s.cfg.Delay))
	event.Publish(s.deps.Bus, TopicWaveCleared, s.wave)
	s.pending = true
	s.nextAt = s.now + s.cfg.Delay
}

// spawnPoint picks a random region centroid at least SpawnClearance from
// the player, or any region when none qualifies.
func (s *Spawner) spawnPoint() mgl64.Vec3 {
	quarry := s.deps.Quarry.Position()
	minSq := s.cfg.SpawnClearance * s.cfg.SpawnClearance
	var candidates []mgl64.Vec3
	for _, r := range s.deps.Mesh.Regions() {
		if geom.DistanceSqXZ(r.Centroid, quarry) >= minSq {
			candidates = append(candidates, r.Centroid)
		}
	}
	if len(candidates) == 0 {
		return s.deps.Mesh.RandomRegion(s.src).Centroid
	}
	return candidates[s.src.Intn(len(candidates))]
}
