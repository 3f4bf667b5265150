package gameserver

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/config"
	"github.com/cory-johannsen/undead/internal/game/anim"
	"github.com/cory-johannsen/undead/internal/game/dice"
	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/navmesh"
	"github.com/cory-johannsen/undead/internal/game/pathplan"
	"github.com/cory-johannsen/undead/internal/game/pickup"
	"github.com/cory-johannsen/undead/internal/game/player"
	"github.com/cory-johannsen/undead/internal/game/scene"
	"github.com/cory-johannsen/undead/internal/game/wave"
	"github.com/cory-johannsen/undead/internal/game/weapon"
	"github.com/cory-johannsen/undead/internal/game/zombie"
	"github.com/cory-johannsen/undead/internal/scripting"
)

// WaveScript is the name wave sizing scripts are loaded under.
const WaveScript = "waves"

// ProviderSet builds a Game from a config.Config and a *zap.Logger.
var ProviderSet = wire.NewSet(
	event.NewBus,
	scene.NewTweens,
	ProvideSource,
	ProvideRoller,
	ProvideMesh,
	ProvidePlanner,
	ProvideClock,
	NewWorld,
	ProvidePlayer,
	ProvideScripts,
	ProvideSizer,
	ProvideTuning,
	ProvideZombieDeps,
	ProvideSpawner,
	ProvidePickups,
	NewStats,
	NewGame,
)

// ProvideSource seeds the simulation's randomness.
func ProvideSource(cfg config.Config) dice.Source {
	return dice.New(cfg.Simulation.Seed)
}

// ProvideRoller returns the shared dice roller.
func ProvideRoller(src dice.Source, logger *zap.Logger) *dice.Roller {
	return dice.NewRoller(src, logger)
}

// ProvideMesh loads the configured level, or a flat 24x24 arena when no
// level file is set.
func ProvideMesh(cfg config.Config) (*navmesh.Mesh, error) {
	opts := navmesh.Options{
		CellsX:          cfg.Level.CellsX,
		CellsZ:          cfg.Level.CellsZ,
		MaxSearchNodes:  cfg.Level.MaxSearchNodes,
		VerticalEpsilon: navmesh.DefaultOptions().VerticalEpsilon,
	}
	if cfg.Level.Navmesh == "" {
		return navmesh.Grid(24, 24, 1, opts)
	}
	return navmesh.Load(cfg.Level.Navmesh, opts)
}

// ProvidePlanner returns the path planner over mesh.
func ProvidePlanner(cfg config.Config, mesh *navmesh.Mesh, logger *zap.Logger) *pathplan.Planner {
	return pathplan.NewPlanner(mesh, pathplan.Options{
		Workers:   cfg.Planner.Workers,
		QueueSize: cfg.Planner.QueueSize,
		Budget:    cfg.Planner.BudgetPerUpdate,
		Logger:    logger.Named("pathplan"),
	})
}

// ProvideClock returns the simulation clock.
func ProvideClock(cfg config.Config) *Clock {
	return NewClock(cfg.Simulation.MaxDelta)
}

// PlayerConfig maps configuration onto the player's tuning.
func PlayerConfig(cfg config.Config) (player.Config, error) {
	pc := cfg.Player
	damage, err := dice.Parse(pc.Weapon.Damage)
	if err != nil {
		return player.Config{}, fmt.Errorf("gameserver.PlayerConfig: %w", err)
	}
	spec := weapon.Spec{
		Name:         pc.Weapon.Name,
		MagLimit:     pc.Weapon.MagLimit,
		ReserveLimit: pc.Weapon.ReserveLimit,
		RPM:          pc.Weapon.RPM,
		Damage:       damage,
		Range:        pc.Weapon.Range,
	}
	if err := spec.Validate(); err != nil {
		return player.Config{}, fmt.Errorf("gameserver.PlayerConfig: %w", err)
	}
	var start mgl64.Vec3
	copy(start[:], pc.Start)
	return player.Config{
		MaxHealth:       pc.MaxHealth,
		Start:           start,
		Weapon:          spec,
		Autopilot:       pc.Autopilot,
		AttackWindup:    cfg.Zombie.AttackWindup,
		HeightSmoothing: cfg.Zombie.HeightSmoothing,
	}, nil
}

// ProvidePlayer places the player on mesh.
func ProvidePlayer(cfg config.Config, mesh *navmesh.Mesh, bus *event.Bus, roller *dice.Roller, logger *zap.Logger) (*player.Player, error) {
	pc, err := PlayerConfig(cfg)
	if err != nil {
		return nil, err
	}
	return player.New(pc, mesh, bus, roller, logger.Named("player")), nil
}

// ProvideScripts returns the Lua manager and its cleanup.
func ProvideScripts(roller *dice.Roller, logger *zap.Logger) (*scripting.Manager, func()) {
	m := scripting.NewManager(roller, scripting.DefaultInstructionLimit, logger.Named("scripting"))
	return m, m.Close
}

// ProvideSizer returns the Lua-backed sizer when a wave script is
// configured and the linear sizer otherwise.
func ProvideSizer(cfg config.Config, scripts *scripting.Manager, logger *zap.Logger) (wave.Sizer, error) {
	linear := wave.LinearSizer{First: cfg.Waves.FirstSize, Growth: cfg.Waves.Growth}
	if cfg.Waves.Script == "" {
		return linear, nil
	}
	if err := scripts.LoadFile(WaveScript, cfg.Waves.Script); err != nil {
		return nil, fmt.Errorf("gameserver.ProvideSizer: %w", err)
	}
	if !scripts.HasHook(WaveScript, wave.SizeHook) {
		logger.Warn("wave script defines no wave_size; using linear sizing", zap.String("script", cfg.Waves.Script))
	}
	return wave.NewScriptSizer(scripts, WaveScript, linear, cfg.Waves.MaxSize, logger), nil
}

// ProvideTuning maps configuration onto zombie tuning.
func ProvideTuning(cfg config.Config) zombie.Tuning {
	z := cfg.Zombie
	t := zombie.DefaultTuning()
	t.MaxHealth = z.MaxHealth
	t.MaxSpeed = z.MaxSpeed
	t.MaxForce = z.MaxForce
	t.MaxTurnRate = z.MaxTurnRate
	t.Braking = z.Braking
	t.Tolerance = z.Tolerance
	t.HeightSmoothing = z.HeightSmoothing
	t.NextWaypointDistance = z.NextWaypointDistance
	t.PathRadius = z.PathRadius
	t.ReplanRate = cfg.Planner.ReplanRate
	t.AttackDamage = z.AttackDamage
	t.FadeDuration = z.FadeDuration
	t.ClimbOnSpawn = z.ClimbOnSpawn
	t.Desirability = zombie.Desirability{
		Death:  z.Desirability.Death,
		Spawn:  z.Desirability.Spawn,
		Attack: z.Desirability.Attack,
		Seek:   z.Desirability.Seek,
	}
	return t
}

// ProvideZombieDeps collects what every zombie shares.
func ProvideZombieDeps(
	cfg config.Config,
	mesh *navmesh.Mesh,
	planner *pathplan.Planner,
	bus *event.Bus,
	world *World,
	tweens *scene.Tweens,
	p *player.Player,
	logger *zap.Logger,
) zombie.Deps {
	return zombie.Deps{
		Mesh:     mesh,
		Planner:  planner,
		Bus:      bus,
		Registry: world,
		Tweens:   tweens,
		Clips:    anim.Library(cfg.Animations),
		Quarry:   p,
		Logger:   logger.Named("zombie"),
	}
}

// ProvideSpawner returns the wave spawner.
func ProvideSpawner(cfg config.Config, sizer wave.Sizer, tuning zombie.Tuning, deps zombie.Deps, src dice.Source, logger *zap.Logger) (*wave.Spawner, error) {
	return wave.New(wave.Config{
		Delay:          cfg.Waves.Delay,
		SpawnClearance: cfg.Waves.SpawnClearance,
		MaxSize:        cfg.Waves.MaxSize,
	}, sizer, tuning, deps, src, logger.Named("wave"))
}

// ProvidePickups returns the pickup manager feeding p.
func ProvidePickups(p *player.Player, world *World, bus *event.Bus, src dice.Source, logger *zap.Logger) *pickup.Manager {
	return pickup.NewManager(pickup.DefaultConfig(), p, world, bus, src, logger.Named("pickup"))
}
