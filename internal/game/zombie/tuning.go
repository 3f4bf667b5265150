package zombie

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cory-johannsen/undead/internal/game/anim"
)

// Animation clip names every zombie needs.
const (
	ClipIdle   = "zombie-idle"
	ClipWalk   = "zombie-walk"
	ClipAttack = "zombie-attack"
	ClipDeath  = "zombie-death"
	ClipClimb  = "zombie-climb"
)

// RequiredClips lists the clips a zombie plays.
var RequiredClips = []string{ClipIdle, ClipWalk, ClipAttack, ClipDeath, ClipClimb}

// ValidateClips reports any required clip missing from lib.
func ValidateClips(lib anim.Library) error {
	var errs []error
	for _, name := range RequiredClips {
		if _, ok := lib[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", anim.ErrUnknownClip, name))
		}
	}
	return errors.Join(errs...)
}

// Desirability holds the fixed evaluator scores.
//
// Invariant: Death == 1 > Spawn > Attack > Seek > 0.
type Desirability struct {
	Death  float64
	Spawn  float64
	Attack float64
	Seek   float64
}

// Validate enforces the total order Death > Spawn > Attack > Seek > 0.
func (d Desirability) Validate() error {
	var errs []error
	if d.Death != 1 {
		errs = append(errs, fmt.Errorf("death desirability must be 1, got %v", d.Death))
	}
	if !(d.Spawn < d.Death) {
		errs = append(errs, errors.New("spawn desirability must be below death"))
	}
	if !(d.Attack < d.Spawn) {
		errs = append(errs, errors.New("attack desirability must be below spawn"))
	}
	if !(d.Seek < d.Attack) {
		errs = append(errs, errors.New("seek desirability must be below attack"))
	}
	if !(d.Seek > 0) {
		errs = append(errs, errors.New("seek desirability must be > 0"))
	}
	return errors.Join(errs...)
}

// Tuning is the per-zombie configuration.
type Tuning struct {
	MaxHealth            int
	MaxSpeed             float64
	MaxForce             float64
	MaxTurnRate          float64
	Braking              float64
	Tolerance            float64
	RotateTolerance      float64
	HeightSmoothing      float64
	NextWaypointDistance float64
	PathRadius           float64
	ReplanRate           float64
	AttackDamage         int
	FadeDuration         time.Duration
	ClimbOnSpawn         bool
	Desirability         Desirability
}

// DefaultTuning returns the stock zombie.
func DefaultTuning() Tuning {
	return Tuning{
		MaxHealth:            100,
		MaxSpeed:             1.5,
		MaxForce:             10,
		MaxTurnRate:          math.Pi,
		Braking:              4,
		Tolerance:            1.2,
		RotateTolerance:      0.05,
		HeightSmoothing:      0.2,
		NextWaypointDistance: 0.5,
		PathRadius:           0.1,
		ReplanRate:           4,
		AttackDamage:         10,
		FadeDuration:         2 * time.Second,
		ClimbOnSpawn:         true,
		Desirability:         Desirability{Death: 1, Spawn: 0.9, Attack: 0.8, Seek: 0.5},
	}
}
