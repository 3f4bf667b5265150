package zombie

import "github.com/cory-johannsen/undead/internal/game/ai"

type deathEvaluator struct{ score float64 }

func (deathEvaluator) Kind() ai.GoalKind { return ai.KindDeath }

func (e deathEvaluator) Desirability(a *Agent) float64 {
	if a.IsDead() {
		return e.score
	}
	return 0
}

func (deathEvaluator) NewGoal(a *Agent) ai.Goal { return &DeathGoal{agent: a} }

type spawnEvaluator struct{ score float64 }

func (spawnEvaluator) Kind() ai.GoalKind { return ai.KindSpawn }

func (e spawnEvaluator) Desirability(a *Agent) float64 {
	if a.spawned || a.IsDead() {
		return 0
	}
	return e.score
}

func (spawnEvaluator) NewGoal(a *Agent) ai.Goal { return &SpawnGoal{agent: a} }

type attackEvaluator struct{ score float64 }

func (attackEvaluator) Kind() ai.GoalKind { return ai.KindAttack }

func (e attackEvaluator) Desirability(a *Agent) float64 {
	if a.IsDead() || !a.AtPosition(a.deps.Quarry.Position()) {
		return 0
	}
	return e.score
}

func (attackEvaluator) NewGoal(a *Agent) ai.Goal { return &AttackGoal{agent: a} }

// The seek score is constant so a living zombie always has something to do.
type seekEvaluator struct{ score float64 }

func (seekEvaluator) Kind() ai.GoalKind { return ai.KindSeek }

func (e seekEvaluator) Desirability(*Agent) float64 { return e.score }

func (seekEvaluator) NewGoal(a *Agent) ai.Goal { return newSeekGoal(a) }
