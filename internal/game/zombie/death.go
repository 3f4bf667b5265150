package zombie

import (
	"github.com/cory-johannsen/undead/internal/game/ai"
	"github.com/cory-johannsen/undead/internal/game/anim"
	"github.com/cory-johannsen/undead/internal/game/event"
)

// DeathGoal plays the death clip, fades the zombie out and removes it from
// the world. It never completes; nothing outranks it.
type DeathGoal struct {
	ai.GoalState
	agent  *Agent
	sub    *event.Subscription
	fading bool
}

func (g *DeathGoal) Kind() ai.GoalKind { return ai.KindDeath }

func (g *DeathGoal) Activate() {
	a := g.agent
	a.stopMoving()
	a.PlayAnimation(ClipDeath, anim.Once)
	g.sub = event.Subscribe(a.deps.Bus, anim.TopicEnded, g.onEnded)
	a.logger.Debug("zombie dying")
	event.Publish(a.deps.Bus, TopicDied, a)
}

func (g *DeathGoal) Execute() {}

func (g *DeathGoal) Terminate() {
	g.sub.Unsubscribe()
}

func (g *DeathGoal) onEnded(ev anim.Event) {
	a := g.agent
	if ev.Owner != any(a) || ev.Clip != ClipDeath || g.fading {
		return
	}
	g.fading = true
	g.sub.Unsubscribe()
	a.deps.Tweens.FadeOut(a.visual, a.tuning.FadeDuration, func() {
		a.deps.Registry.RemoveEntity(a)
	})
}
