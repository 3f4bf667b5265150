package combat_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/undead/internal/game/combat"
)

type fakeAttacker struct {
	id     string
	token  uuid.UUID
	damage int
}

func (f *fakeAttacker) ID() string              { return f.id }
func (f *fakeAttacker) PendingToken() uuid.UUID { return f.token }
func (f *fakeAttacker) AttackDamage() int       { return f.damage }

func TestResolve_LiveTokenLandsAfterWindup(t *testing.T) {
	r := combat.NewResolver(500*time.Millisecond, zaptest.NewLogger(t))
	z := &fakeAttacker{id: "z1", token: combat.NewToken(), damage: 10}
	r.Queue(combat.PendingAttack{Attacker: z, Token: z.token}, time.Second)

	assert.Equal(t, 0, r.Resolve(1400*time.Millisecond))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 10, r.Resolve(1500*time.Millisecond))
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Resolve(5*time.Second))
}

func TestResolve_InterruptedAttackDealsNoDamage(t *testing.T) {
	r := combat.NewResolver(500*time.Millisecond, zaptest.NewLogger(t))
	z := &fakeAttacker{id: "z1", token: combat.NewToken(), damage: 10}
	t1 := z.token
	r.Queue(combat.PendingAttack{Attacker: z, Token: t1}, 0)
	z.token = uuid.Nil
	assert.Equal(t, 0, r.Resolve(time.Second))
}

func TestResolve_SupersededTokenDealsNoDamage(t *testing.T) {
	r := combat.NewResolver(0, nil)
	z := &fakeAttacker{id: "z1", token: combat.NewToken(), damage: 10}
	r.Queue(combat.PendingAttack{Attacker: z, Token: z.token}, 0)
	z.token = combat.NewToken()
	r.Queue(combat.PendingAttack{Attacker: z, Token: z.token}, 0)
	assert.Equal(t, 10, r.Resolve(0))
}

func TestResolve_NilTokenIsStale(t *testing.T) {
	r := combat.NewResolver(0, nil)
	z := &fakeAttacker{id: "z1", damage: 10}
	r.Queue(combat.PendingAttack{Attacker: z}, 0)
	assert.Equal(t, 0, r.Resolve(0))
}

func TestQueue_NilAttackerPanics(t *testing.T) {
	assert.Panics(t, func() { combat.NewResolver(0, nil).Queue(combat.PendingAttack{}, 0) })
}

func TestProperty_Resolve_OnlyLiveTokensDamage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := combat.NewResolver(100*time.Millisecond, nil)
		n := rapid.IntRange(1, 10).Draw(rt, "n")
		want := 0
		for i := 0; i < n; i++ {
			z := &fakeAttacker{id: "z", token: combat.NewToken(), damage: rapid.IntRange(1, 20).Draw(rt, "dmg")}
			r.Queue(combat.PendingAttack{Attacker: z, Token: z.token}, 0)
			if rapid.Bool().Draw(rt, "interrupt") {
				z.token = uuid.Nil
			} else {
				want += z.damage
			}
		}
		if got := r.Resolve(time.Second); got != want {
			rt.Fatalf("damage %d, want %d", got, want)
		}
	})
}
