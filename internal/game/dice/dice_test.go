package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/undead/internal/game/dice"
)

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in                     string
		count, sides, modifier int
	}{
		{"d6", 1, 6, 0},
		{"2d6", 2, 6, 0},
		{"3d8-2", 3, 8, -2},
		{"1D20+5", 1, 20, 5},
		{"25", 0, 0, 25},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.modifier, e.Modifier)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "d", "2d1", "0d6", "xd6", "2d6+"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, in)
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("bogus") })
}

func TestFixedExpression_RollsModifierOnly(t *testing.T) {
	res := dice.MustParse("25").Roll(dice.NewSeededSource(1))
	assert.Empty(t, res.Dice)
	assert.Equal(t, 25, res.Total())
}

func TestSeededSource_IsDeterministic(t *testing.T) {
	a, b := dice.NewSeededSource(42), dice.NewSeededSource(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestNew_ZeroSeedUsesCrypto(t *testing.T) {
	src := dice.New(0)
	for i := 0; i < 100; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestSources_PanicOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { dice.NewSeededSource(3).Intn(-1) })
}

func TestRoller_LogsAndRolls(t *testing.T) {
	r := dice.NewRoller(dice.NewSeededSource(7), zaptest.NewLogger(t))
	res := r.Roll(dice.MustParse("2d6+1"))
	assert.Len(t, res.Dice, 2)
	assert.GreaterOrEqual(t, res.Total(), 3)
	assert.LessOrEqual(t, res.Total(), 13)
}

func TestProperty_Roll_TotalWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := dice.Expression{
			Raw:      "prop",
			Count:    rapid.IntRange(1, 10).Draw(rt, "count"),
			Sides:    rapid.IntRange(2, 20).Draw(rt, "sides"),
			Modifier: rapid.IntRange(-10, 10).Draw(rt, "mod"),
		}
		res := e.Roll(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		lo := e.Count + e.Modifier
		hi := e.Count*e.Sides + e.Modifier
		if res.Total() < lo || res.Total() > hi {
			rt.Fatalf("total %d outside [%d, %d]", res.Total(), lo, hi)
		}
	})
}

func TestProperty_Float64_InUnitInterval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		v := src.Float64()
		if v < 0 || v >= 1 {
			rt.Fatalf("Float64 = %v", v)
		}
	})
}
