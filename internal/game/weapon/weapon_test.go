package weapon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/undead/internal/game/dice"
	"github.com/cory-johannsen/undead/internal/game/weapon"
)

func TestSetRPM_SixtyIsOneSecond(t *testing.T) {
	w := weapon.New(weapon.Pistol())
	w.SetRPM(60)
	assert.Equal(t, time.Second, w.Interval())
	w.SetRPM(300)
	assert.Equal(t, 200*time.Millisecond, w.Interval())
}

func TestSetRPM_PanicsOnNonPositive(t *testing.T) {
	w := weapon.New(weapon.Pistol())
	assert.Panics(t, func() { w.SetRPM(0) })
}

func TestShoot_RespectsCooldown(t *testing.T) {
	w := weapon.New(weapon.Pistol())
	w.SetRPM(60)
	require.True(t, w.Shoot(0))
	assert.False(t, w.CanShoot(999*time.Millisecond))
	assert.False(t, w.Shoot(500*time.Millisecond))
	assert.True(t, w.Shoot(time.Second))
	assert.Equal(t, 10, w.MagAmmo())
}

func TestShoot_EmptyMagazine(t *testing.T) {
	spec := weapon.Pistol()
	spec.MagLimit = 1
	w := weapon.New(spec)
	require.True(t, w.Shoot(0))
	assert.False(t, w.Shoot(time.Hour))
	assert.Equal(t, 1, w.Reload())
	assert.True(t, w.Shoot(time.Hour))
}

func TestReload_LimitedByReserve(t *testing.T) {
	spec := weapon.Pistol()
	spec.ReserveLimit = 3
	w := weapon.New(spec)
	for i := 0; i < 5; i++ {
		w.Shoot(time.Duration(i) * time.Second)
	}
	assert.Equal(t, 3, w.Reload())
	assert.Equal(t, 10, w.MagAmmo())
	assert.Equal(t, 0, w.ReserveAmmo())
}

func TestAddAmmo_Clamped(t *testing.T) {
	w := weapon.New(weapon.Pistol())
	w.AddAmmo(50)
	assert.Equal(t, 120, w.ReserveAmmo())
	w.AddAmmo(-500)
	assert.Equal(t, 0, w.ReserveAmmo())
}

func TestSpec_Validate(t *testing.T) {
	assert.NoError(t, weapon.Pistol().Validate())
	bad := weapon.Pistol()
	bad.RPM = 0
	assert.Error(t, bad.Validate())
}

func TestRollDamage_WithinExpressionBounds(t *testing.T) {
	w := weapon.New(weapon.Pistol())
	r := dice.NewRoller(dice.NewSeededSource(3), zaptest.NewLogger(t))
	for i := 0; i < 20; i++ {
		d := w.RollDamage(r)
		assert.GreaterOrEqual(t, d, 10)
		assert.LessOrEqual(t, d, 20)
	}
}

func TestProperty_AmmoStaysWithinLimits(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := weapon.New(weapon.Pistol())
		now := time.Duration(0)
		for i := 0; i < 100; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				w.Shoot(now)
			case 1:
				w.Reload()
			case 2:
				w.AddAmmo(rapid.IntRange(-50, 50).Draw(rt, "n"))
			}
			now += time.Duration(rapid.IntRange(0, 500).Draw(rt, "ms")) * time.Millisecond
			if w.MagAmmo() < 0 || w.MagAmmo() > 12 || w.ReserveAmmo() < 0 || w.ReserveAmmo() > 120 {
				rt.Fatalf("ammo out of range: mag=%d reserve=%d", w.MagAmmo(), w.ReserveAmmo())
			}
		}
	})
}
