package gameserver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/config"
	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/navmesh"
	"github.com/cory-johannsen/undead/internal/game/pathplan"
	"github.com/cory-johannsen/undead/internal/game/pickup"
	"github.com/cory-johannsen/undead/internal/game/player"
	"github.com/cory-johannsen/undead/internal/game/scene"
	"github.com/cory-johannsen/undead/internal/game/wave"
)

// Game is one running session: the player, the waves hunting them and
// everything that ticks between.
type Game struct {
	World   *World
	Bus     *event.Bus
	Mesh    *navmesh.Mesh
	Planner *pathplan.Planner
	Player  *player.Player
	Spawner *wave.Spawner
	Pickups *pickup.Manager
	Stats   *Stats

	interval time.Duration
	logger   *zap.Logger
	over     bool
	sub      *event.Subscription
}

// NewGame assembles a Game and registers the player and per-tick systems
// with world. Systems run after entities in this order: path planner,
// tweens, wave spawner.
func NewGame(
	cfg config.Config,
	world *World,
	bus *event.Bus,
	mesh *navmesh.Mesh,
	planner *pathplan.Planner,
	tweens *scene.Tweens,
	p *player.Player,
	spawner *wave.Spawner,
	pickups *pickup.Manager,
	stats *Stats,
	logger *zap.Logger,
) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{
		World:    world,
		Bus:      bus,
		Mesh:     mesh,
		Planner:  planner,
		Player:   p,
		Spawner:  spawner,
		Pickups:  pickups,
		Stats:    stats,
		interval: cfg.Simulation.TickInterval(),
		logger:   logger,
	}

	world.AddEntity(p, scene.NewVisual("player"))
	world.AddSystem(SystemFunc(func(time.Duration) { planner.Update() }))
	world.AddSystem(SystemFunc(tweens.Update))
	world.AddSystem(spawner)

	p.SetTargets(func() []player.Target {
		living := spawner.Living()
		out := make([]player.Target, len(living))
		for i, a := range living {
			out[i] = a
		}
		return out
	})
	g.sub = event.Subscribe(bus, player.TopicDied, func(*player.Player) {
		g.over = true
		g.logger.Info("player died",
			zap.Int("wave", spawner.Wave()),
			zap.Duration("survived", world.Clock().Elapsed()),
		)
	})
	return g
}

// Over reports whether the player has died.
func (g *Game) Over() bool { return g.over }

// Start spawns the first wave if none has started.
func (g *Game) Start() {
	if g.Spawner.Wave() == 0 {
		g.Spawner.StartNextWave()
	}
}

// Step advances the session by dt and reports whether it should continue.
func (g *Game) Step(dt time.Duration) bool {
	if g.over {
		return false
	}
	g.World.Step(dt)
	return !g.over
}

// Run starts the planner workers and the first wave, then steps at the
// configured tick rate until ctx is cancelled or the player dies.
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Planner.Start(ctx)
	g.Start()
	err := NewTicker(g.interval, g.Step).Run(ctx)
	cancel()
	if werr := g.Planner.Wait(); werr != nil {
		g.logger.Warn("path planner workers failed", zap.Error(werr))
	}

	s := g.Stats.Summary()
	g.logger.Info("session ended",
		zap.Int("wave", g.Spawner.Wave()),
		zap.Int("kills", s.Kills),
		zap.Int("shots", s.Shots),
		zap.Int("damage_dealt", s.DamageDealt),
		zap.Int("pickups", s.Pickups),
		zap.Int("upgrade_points", s.UpgradePoints),
		zap.Uint64("steps", g.World.Steps()),
	)
	return err
}

// Close releases every subscription the session holds.
func (g *Game) Close() {
	g.sub.Unsubscribe()
	g.Spawner.Close()
	g.Pickups.Close()
	g.Stats.Close()
	g.Player.Close()
}
