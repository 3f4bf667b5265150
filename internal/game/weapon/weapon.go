// Package weapon models the player's firearm: fire-rate cooldown on
// simulation time, magazine and reserve ammunition, and damage dice.
package weapon

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/undead/internal/game/dice"
)

// Spec describes a weapon model.
type Spec struct {
	Name         string
	MagLimit     int
	ReserveLimit int
	RPM          float64
	Damage       dice.Expression
	Range        float64
}

// Pistol returns the default sidearm.
func Pistol() Spec {
	return Spec{
		Name:         "pistol",
		MagLimit:     12,
		ReserveLimit: 120,
		RPM:          300,
		Damage:       dice.MustParse("2d6+8"),
		Range:        25,
	}
}

// Validate reports an unusable spec.
func (s Spec) Validate() error {
	switch {
	case s.MagLimit <= 0:
		return fmt.Errorf("weapon %q: mag limit must be > 0", s.Name)
	case s.ReserveLimit < 0:
		return fmt.Errorf("weapon %q: reserve limit must be >= 0", s.Name)
	case s.RPM <= 0:
		return fmt.Errorf("weapon %q: rpm must be > 0", s.Name)
	case s.Range <= 0:
		return fmt.Errorf("weapon %q: range must be > 0", s.Name)
	}
	return nil
}

// Weapon is one equipped firearm.
//
// Invariant: 0 <= MagAmmo() <= MagLimit and 0 <= ReserveAmmo() <= ReserveLimit.
type Weapon struct {
	spec     Spec
	mag      int
	reserve  int
	interval time.Duration
	lastShot time.Duration
	fired    bool
}

// New returns a weapon with a full magazine and reserve.
func New(spec Spec) *Weapon {
	w := &Weapon{spec: spec, mag: spec.MagLimit, reserve: spec.ReserveLimit}
	w.SetRPM(spec.RPM)
	return w
}

// Spec returns the weapon's model.
func (w *Weapon) Spec() Spec { return w.spec }

// SetRPM sets the fire rate in rounds per minute.
//
// Postcondition: Interval() == 60s / rpm.
func (w *Weapon) SetRPM(rpm float64) {
	if rpm <= 0 {
		panic("weapon.SetRPM: rpm must be > 0")
	}
	w.spec.RPM = rpm
	w.interval = time.Duration(float64(time.Minute) / rpm)
}

// Interval returns the minimum time between shots.
func (w *Weapon) Interval() time.Duration { return w.interval }

// MagAmmo returns the rounds in the magazine.
func (w *Weapon) MagAmmo() int { return w.mag }

// ReserveAmmo returns the rounds held in reserve.
func (w *Weapon) ReserveAmmo() int { return w.reserve }

// CanShoot reports whether the cooldown has elapsed and the magazine is not
// empty.
func (w *Weapon) CanShoot(now time.Duration) bool {
	if w.mag <= 0 {
		return false
	}
	return !w.fired || now-w.lastShot >= w.interval
}

// Shoot fires one round if possible and reports whether it did.
func (w *Weapon) Shoot(now time.Duration) bool {
	if !w.CanShoot(now) {
		return false
	}
	w.mag--
	w.lastShot = now
	w.fired = true
	return true
}

// Reload moves rounds from the reserve into the magazine and returns how
// many were moved.
func (w *Weapon) Reload() int {
	n := min(w.spec.MagLimit-w.mag, w.reserve)
	w.mag += n
	w.reserve -= n
	return n
}

// AddAmmo adds n rounds to the reserve, clamped to the reserve limit.
func (w *Weapon) AddAmmo(n int) {
	w.reserve = max(0, min(w.reserve+n, w.spec.ReserveLimit))
}

// RollDamage rolls the weapon's damage expression.
func (w *Weapon) RollDamage(r *dice.Roller) int {
	return max(0, r.Roll(w.spec.Damage).Total())
}
