package zombie

import (
	"github.com/cory-johannsen/undead/internal/game/ai"
	"github.com/cory-johannsen/undead/internal/game/anim"
	"github.com/cory-johannsen/undead/internal/game/event"
)

// SpawnGoal plays the climb clip once. The zombie is immune to damage until
// it completes.
type SpawnGoal struct {
	ai.GoalState
	agent *Agent
	sub   *event.Subscription
}

func (g *SpawnGoal) Kind() ai.GoalKind { return ai.KindSpawn }

func (g *SpawnGoal) Activate() {
	a := g.agent
	a.stopMoving()
	a.PlayAnimation(ClipClimb, anim.Once)
	g.sub = event.Subscribe(a.deps.Bus, anim.TopicEnded, g.onEnded)
}

func (g *SpawnGoal) Execute() {}

func (g *SpawnGoal) Terminate() {
	g.sub.Unsubscribe()
}

func (g *SpawnGoal) onEnded(ev anim.Event) {
	if ev.Owner != any(g.agent) || ev.Clip != ClipClimb || !g.IsActive() {
		return
	}
	g.agent.spawned = true
	g.SetStatus(ai.Completed)
}
