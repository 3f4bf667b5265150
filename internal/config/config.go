// Package config provides Viper-based configuration loading for the undead
// simulation.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/undead/internal/game/dice"
	"github.com/cory-johannsen/undead/internal/game/zombie"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig holds the fixed-step loop settings.
type SimulationConfig struct {
	// TickRate is the number of simulation steps per second.
	TickRate float64 `mapstructure:"tick_rate"`
	// MaxDelta caps the time advanced by a single step.
	MaxDelta time.Duration `mapstructure:"max_delta"`
	// Seed seeds the simulation's randomness; 0 draws from crypto/rand.
	Seed uint64 `mapstructure:"seed"`
}

// TickInterval returns the wall-clock time between steps.
//
// Precondition: TickRate > 0.
func (s SimulationConfig) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / s.TickRate)
}

// LevelConfig selects the navigation mesh.
type LevelConfig struct {
	// Navmesh is the path to the level YAML file.
	Navmesh string `mapstructure:"navmesh"`
	// CellsX and CellsZ set the spatial index resolution.
	CellsX int `mapstructure:"cells_x"`
	CellsZ int `mapstructure:"cells_z"`
	// MaxSearchNodes bounds one A* search.
	MaxSearchNodes int `mapstructure:"max_search_nodes"`
}

// PlannerConfig holds path planner settings.
type PlannerConfig struct {
	// Workers is the number of search goroutines; 0 searches inline during
	// Update.
	Workers int `mapstructure:"workers"`
	// QueueSize bounds requests waiting for a worker.
	QueueSize int `mapstructure:"queue_size"`
	// ReplanRate is the per-agent path request rate in requests per second.
	ReplanRate float64 `mapstructure:"replan_rate"`
	// BudgetPerUpdate bounds inline searches per Update; 0 is unbounded.
	BudgetPerUpdate int `mapstructure:"budget_per_update"`
}

// DesirabilityConfig holds the fixed goal scores.
type DesirabilityConfig struct {
	Death  float64 `mapstructure:"death"`
	Spawn  float64 `mapstructure:"spawn"`
	Attack float64 `mapstructure:"attack"`
	Seek   float64 `mapstructure:"seek"`
}

// ZombieConfig tunes every zombie.
type ZombieConfig struct {
	MaxHealth            int                `mapstructure:"max_health"`
	MaxSpeed             float64            `mapstructure:"max_speed"`
	MaxForce             float64            `mapstructure:"max_force"`
	MaxTurnRate          float64            `mapstructure:"max_turn_rate"`
	Braking              float64            `mapstructure:"braking"`
	Tolerance            float64            `mapstructure:"tolerance"`
	HeightSmoothing      float64            `mapstructure:"height_smoothing"`
	NextWaypointDistance float64            `mapstructure:"next_waypoint_distance"`
	PathRadius           float64            `mapstructure:"path_radius"`
	AttackDamage         int                `mapstructure:"attack_damage"`
	AttackWindup         time.Duration      `mapstructure:"attack_windup"`
	FadeDuration         time.Duration      `mapstructure:"fade_duration"`
	ClimbOnSpawn         bool               `mapstructure:"climb_on_spawn"`
	Desirability         DesirabilityConfig `mapstructure:"desirability"`
}

// WavesConfig paces the zombie waves.
type WavesConfig struct {
	FirstSize int           `mapstructure:"first_size"`
	Growth    int           `mapstructure:"growth"`
	Delay     time.Duration `mapstructure:"delay"`
	// Script is an optional Lua file defining wave_size(n).
	Script         string  `mapstructure:"script"`
	SpawnClearance float64 `mapstructure:"spawn_clearance"`
	// MaxSize caps every wave, scripted or not.
	MaxSize int `mapstructure:"max_size"`
}

// WeaponConfig describes the player's gun.
type WeaponConfig struct {
	Name         string  `mapstructure:"name"`
	RPM          float64 `mapstructure:"rpm"`
	MagLimit     int     `mapstructure:"mag_limit"`
	ReserveLimit int     `mapstructure:"reserve_limit"`
	// Damage is a dice expression such as "2d6+8".
	Damage string  `mapstructure:"damage"`
	Range  float64 `mapstructure:"range"`
}

// PlayerConfig describes the player.
type PlayerConfig struct {
	MaxHealth int          `mapstructure:"max_health"`
	Start     []float64    `mapstructure:"start"`
	Weapon    WeaponConfig `mapstructure:"weapon"`
	// Autopilot lets the player shoot back without input.
	Autopilot bool `mapstructure:"autopilot"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig            `mapstructure:"logging"`
	Simulation SimulationConfig         `mapstructure:"simulation"`
	Level      LevelConfig              `mapstructure:"level"`
	Planner    PlannerConfig            `mapstructure:"planner"`
	Zombie     ZombieConfig             `mapstructure:"zombie"`
	Waves      WavesConfig              `mapstructure:"waves"`
	Player     PlayerConfig             `mapstructure:"player"`
	Animations map[string]time.Duration `mapstructure:"animations"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, check := range []func() []string{
		func() []string { return validateLogging(c.Logging) },
		func() []string { return validateSimulation(c.Simulation) },
		func() []string { return validateLevel(c.Level) },
		func() []string { return validatePlanner(c.Planner) },
		func() []string { return validateZombie(c.Zombie) },
		func() []string { return validateWaves(c.Waves) },
		func() []string { return validatePlayer(c.Player) },
		func() []string { return validateAnimations(c.Animations) },
		func() []string { return validateAttackTiming(c.Zombie, c.Animations) },
	} {
		errs = append(errs, check()...)
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) []string {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	return errs
}

func validateSimulation(s SimulationConfig) []string {
	var errs []string
	if !(s.TickRate > 0) || math.IsInf(s.TickRate, 0) {
		errs = append(errs, fmt.Sprintf("simulation.tick_rate must be > 0, got %v", s.TickRate))
	}
	if s.MaxDelta <= 0 {
		errs = append(errs, "simulation.max_delta must be > 0")
	}
	return errs
}

func validateLevel(l LevelConfig) []string {
	var errs []string
	if l.CellsX < 1 || l.CellsZ < 1 {
		errs = append(errs, fmt.Sprintf("level.cells_x and level.cells_z must be >= 1, got %d x %d", l.CellsX, l.CellsZ))
	}
	if l.MaxSearchNodes < 1 {
		errs = append(errs, fmt.Sprintf("level.max_search_nodes must be >= 1, got %d", l.MaxSearchNodes))
	}
	return errs
}

func validatePlanner(p PlannerConfig) []string {
	var errs []string
	if p.Workers < 0 {
		errs = append(errs, fmt.Sprintf("planner.workers must be >= 0, got %d", p.Workers))
	}
	if p.QueueSize < 1 {
		errs = append(errs, fmt.Sprintf("planner.queue_size must be >= 1, got %d", p.QueueSize))
	}
	if !(p.ReplanRate > 0) {
		errs = append(errs, fmt.Sprintf("planner.replan_rate must be > 0, got %v", p.ReplanRate))
	}
	if p.BudgetPerUpdate < 0 {
		errs = append(errs, fmt.Sprintf("planner.budget_per_update must be >= 0, got %d", p.BudgetPerUpdate))
	}
	return errs
}

func validateZombie(z ZombieConfig) []string {
	var errs []string
	if z.MaxHealth < 1 {
		errs = append(errs, fmt.Sprintf("zombie.max_health must be >= 1, got %d", z.MaxHealth))
	}
	for name, v := range map[string]float64{
		"max_speed":              z.MaxSpeed,
		"max_force":              z.MaxForce,
		"max_turn_rate":          z.MaxTurnRate,
		"tolerance":              z.Tolerance,
		"next_waypoint_distance": z.NextWaypointDistance,
		"path_radius":            z.PathRadius,
	} {
		if !(v > 0) {
			errs = append(errs, fmt.Sprintf("zombie.%s must be > 0, got %v", name, v))
		}
	}
	if z.HeightSmoothing < 0 || z.HeightSmoothing > 1 {
		errs = append(errs, fmt.Sprintf("zombie.height_smoothing must be within [0, 1], got %v", z.HeightSmoothing))
	}
	if z.AttackDamage < 0 {
		errs = append(errs, "zombie.attack_damage must be >= 0")
	}
	if z.AttackWindup < 0 || z.FadeDuration < 0 {
		errs = append(errs, "zombie.attack_windup and zombie.fade_duration must not be negative")
	}
	d := z.Desirability
	if d.Death != 1 {
		errs = append(errs, fmt.Sprintf("zombie.desirability.death must be 1, got %v", d.Death))
	}
	if !(d.Spawn < d.Death && d.Attack < d.Spawn && d.Seek < d.Attack && d.Seek > 0) {
		errs = append(errs, "zombie.desirability must satisfy death > spawn > attack > seek > 0")
	}
	return errs
}

func validateWaves(w WavesConfig) []string {
	var errs []string
	if w.FirstSize < 0 {
		errs = append(errs, fmt.Sprintf("waves.first_size must be >= 0, got %d", w.FirstSize))
	}
	if w.Delay < 0 {
		errs = append(errs, "waves.delay must not be negative")
	}
	if w.SpawnClearance < 0 {
		errs = append(errs, "waves.spawn_clearance must not be negative")
	}
	if w.MaxSize < 1 {
		errs = append(errs, fmt.Sprintf("waves.max_size must be >= 1, got %d", w.MaxSize))
	} else if w.FirstSize > w.MaxSize {
		errs = append(errs, fmt.Sprintf("waves.first_size %d exceeds waves.max_size %d", w.FirstSize, w.MaxSize))
	}
	return errs
}

func validatePlayer(p PlayerConfig) []string {
	var errs []string
	if p.MaxHealth < 1 {
		errs = append(errs, fmt.Sprintf("player.max_health must be >= 1, got %d", p.MaxHealth))
	}
	if len(p.Start) != 0 && len(p.Start) != 3 {
		errs = append(errs, fmt.Sprintf("player.start must have 3 components, got %d", len(p.Start)))
	}
	w := p.Weapon
	if !(w.RPM > 0) {
		errs = append(errs, fmt.Sprintf("player.weapon.rpm must be > 0, got %v", w.RPM))
	}
	if w.MagLimit < 1 {
		errs = append(errs, fmt.Sprintf("player.weapon.mag_limit must be >= 1, got %d", w.MagLimit))
	}
	if w.ReserveLimit < 0 {
		errs = append(errs, "player.weapon.reserve_limit must be >= 0")
	}
	if !(w.Range > 0) {
		errs = append(errs, fmt.Sprintf("player.weapon.range must be > 0, got %v", w.Range))
	}
	if _, err := dice.Parse(w.Damage); err != nil {
		errs = append(errs, fmt.Sprintf("player.weapon.damage: %v", err))
	}
	return errs
}

func validateAnimations(a map[string]time.Duration) []string {
	var errs []string
	for name, d := range a {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("animations.%s must be > 0, got %v", name, d))
		}
	}
	return errs
}

// validateAttackTiming requires a strike to land before the attack clip
// loops. Every loop issues a new token, so a windup at least as long as the
// clip voids each strike before it resolves.
func validateAttackTiming(z ZombieConfig, a map[string]time.Duration) []string {
	clip, ok := a[zombie.ClipAttack]
	if !ok || clip <= 0 {
		return nil
	}
	if z.AttackWindup >= clip {
		return []string{fmt.Sprintf("zombie.attack_windup %v must be shorter than animations.%s %v",
			z.AttackWindup, zombie.ClipAttack, clip)}
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with UNDEAD_ prefix
	v.SetEnvPrefix("UNDEAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the built-in defaults.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("simulation.tick_rate", 60)
	v.SetDefault("simulation.max_delta", "100ms")
	v.SetDefault("simulation.seed", 0)

	v.SetDefault("level.navmesh", "")
	v.SetDefault("level.cells_x", 16)
	v.SetDefault("level.cells_z", 16)
	v.SetDefault("level.max_search_nodes", 4096)

	v.SetDefault("planner.workers", 0)
	v.SetDefault("planner.queue_size", 256)
	v.SetDefault("planner.replan_rate", 4)
	v.SetDefault("planner.budget_per_update", 0)

	v.SetDefault("zombie.max_health", 100)
	v.SetDefault("zombie.max_speed", 1.5)
	v.SetDefault("zombie.max_force", 10)
	v.SetDefault("zombie.max_turn_rate", math.Pi)
	v.SetDefault("zombie.braking", 4)
	v.SetDefault("zombie.tolerance", 1.2)
	v.SetDefault("zombie.height_smoothing", 0.2)
	v.SetDefault("zombie.next_waypoint_distance", 0.5)
	v.SetDefault("zombie.path_radius", 0.1)
	v.SetDefault("zombie.attack_damage", 10)
	v.SetDefault("zombie.attack_windup", "500ms")
	v.SetDefault("zombie.fade_duration", "2s")
	v.SetDefault("zombie.climb_on_spawn", true)
	v.SetDefault("zombie.desirability.death", 1.0)
	v.SetDefault("zombie.desirability.spawn", 0.9)
	v.SetDefault("zombie.desirability.attack", 0.8)
	v.SetDefault("zombie.desirability.seek", 0.5)

	v.SetDefault("waves.first_size", 3)
	v.SetDefault("waves.growth", 2)
	v.SetDefault("waves.delay", "5s")
	v.SetDefault("waves.script", "")
	v.SetDefault("waves.spawn_clearance", 8)
	v.SetDefault("waves.max_size", 64)

	v.SetDefault("player.max_health", 100)
	v.SetDefault("player.start", []float64{0, 0, 0})
	v.SetDefault("player.weapon.name", "pistol")
	v.SetDefault("player.weapon.rpm", 300)
	v.SetDefault("player.weapon.mag_limit", 12)
	v.SetDefault("player.weapon.reserve_limit", 120)
	v.SetDefault("player.weapon.damage", "2d6+8")
	v.SetDefault("player.weapon.range", 25)
	v.SetDefault("player.autopilot", true)

	v.SetDefault("animations", map[string]any{
		"zombie-idle":   "2s",
		"zombie-walk":   "1s",
		"zombie-attack": "1200ms",
		"zombie-death":  "1500ms",
		"zombie-climb":  "2500ms",
	})
}
