package zombie

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/game/ai"
	"github.com/cory-johannsen/undead/internal/game/anim"
	"github.com/cory-johannsen/undead/internal/game/combat"
	"github.com/cory-johannsen/undead/internal/game/event"
)

// AttackGoal strikes the quarry once per loop of the attack clip. Each
// strike carries a fresh token; terminating the goal voids the token so
// an attack still winding up lands for no damage.
type AttackGoal struct {
	ai.GoalState
	agent *Agent
	sub   *event.Subscription
}

func (g *AttackGoal) Kind() ai.GoalKind { return ai.KindAttack }

func (g *AttackGoal) Activate() {
	a := g.agent
	a.stopMoving()
	a.PlayAnimation(ClipAttack, anim.Loop)
	g.sub = event.Subscribe(a.deps.Bus, anim.TopicLooped, g.onLooped)
	g.strike()
}

// Execute keeps the zombie turned towards the quarry.
func (g *AttackGoal) Execute() {
	a := g.agent
	a.loc.Stop()
	a.loc.RotateTo(a.deps.Quarry.Position(), a.dt, a.tuning.RotateTolerance)
}

// Terminate voids the pending token.
//
// Postcondition: PendingToken() == uuid.Nil.
func (g *AttackGoal) Terminate() {
	g.sub.Unsubscribe()
	g.agent.token = uuid.Nil
}

func (g *AttackGoal) onLooped(ev anim.Event) {
	if ev.Owner != any(g.agent) || ev.Clip != ClipAttack || !g.IsActive() {
		return
	}
	g.strike()
}

func (g *AttackGoal) strike() {
	a := g.agent
	a.token = combat.NewToken()
	a.logger.Debug("attack windup", zap.Stringer("token", a.token))
	event.Publish(a.deps.Bus, combat.TopicPendingAttack, combat.PendingAttack{
		Attacker: a,
		Target:   a.deps.Quarry,
		Token:    a.token,
	})
}
