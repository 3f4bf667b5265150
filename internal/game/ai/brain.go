package ai

import "go.uber.org/zap"

// Brain arbitrates between evaluators and runs the winning goal for one
// owner.
//
// Invariant: at most one goal is held at a time.
type Brain[O any] struct {
	owner      O
	evaluators []Evaluator[O]
	current    Goal
	logger     *zap.Logger
}

// NewBrain constructs a Brain for owner.
//
// Postcondition: the Brain is idle until the first Arbitrate.
func NewBrain[O any](owner O, logger *zap.Logger, evaluators ...Evaluator[O]) *Brain[O] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Brain[O]{owner: owner, evaluators: evaluators, logger: logger}
}

// AddEvaluator registers an additional evaluator.
func (b *Brain[O]) AddEvaluator(e Evaluator[O]) {
	if e == nil {
		panic("ai.Brain.AddEvaluator: evaluator must not be nil")
	}
	b.evaluators = append(b.evaluators, e)
}

// Current returns the held goal, or nil when idle.
func (b *Brain[O]) Current() Goal { return b.current }

// CurrentKind returns the kind of the held goal, or KindNone when idle.
func (b *Brain[O]) CurrentKind() GoalKind {
	if b.current == nil {
		return KindNone
	}
	return b.current.Kind()
}

// Execute runs one tick of the held goal, activating it first if it has not
// been activated. A goal that finishes is terminated and dropped.
func (b *Brain[O]) Execute() {
	g := b.current
	if g == nil {
		return
	}
	if g.Status() == Inactive {
		b.activate(g)
	}
	if g.Status() == Active {
		g.Execute()
	}
	if s := g.Status(); s == Completed || s == Failed {
		b.logger.Debug("goal finished", zap.Stringer("goal", g.Kind()), zap.Stringer("status", s))
		g.Terminate()
		if b.current == g {
			b.current = nil
		}
	}
}

// Arbitrate selects the evaluator with the strictly highest desirability.
// When no evaluator scores above zero the Brain goes idle. When the winner's
// kind matches the held goal nothing changes. Otherwise the held goal is
// terminated and a fresh goal of the winning kind is activated.
func (b *Brain[O]) Arbitrate() {
	var best Evaluator[O]
	bestScore := 0.0
	for _, e := range b.evaluators {
		if s := e.Desirability(b.owner); s > bestScore {
			best, bestScore = e, s
		}
	}
	if best == nil {
		if b.current != nil {
			b.logger.Debug("no eligible goal; idling", zap.Stringer("from", b.current.Kind()))
		}
		b.Clear()
		return
	}
	if b.current != nil && b.current.Kind() == best.Kind() {
		return
	}
	b.logger.Debug("goal transition",
		zap.Stringer("from", b.CurrentKind()),
		zap.Stringer("to", best.Kind()),
		zap.Float64("desirability", bestScore),
	)
	b.Clear()
	g := best.NewGoal(b.owner)
	b.current = g
	b.activate(g)
}

// Clear terminates and drops the held goal.
//
// Postcondition: Current() == nil.
func (b *Brain[O]) Clear() {
	g := b.current
	if g == nil {
		return
	}
	b.current = nil
	if g.Status() == Active {
		g.SetStatus(Inactive)
	}
	g.Terminate()
}

func (b *Brain[O]) activate(g Goal) {
	g.SetStatus(Active)
	g.Activate()
}
