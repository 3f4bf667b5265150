package zombie

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/game/ai"
	"github.com/cory-johannsen/undead/internal/game/anim"
	"github.com/cory-johannsen/undead/internal/game/pathplan"
)

// SeekGoal walks the zombie towards the quarry along a planned path,
// replanning at a regulated rate while no request is outstanding.
type SeekGoal struct {
	ai.GoalState
	agent     *Agent
	regulator *pathplan.Regulator
	ticket    *pathplan.Ticket

	arrival    mgl64.Vec3
	hasArrival bool
}

func newSeekGoal(a *Agent) *SeekGoal {
	return &SeekGoal{agent: a, regulator: pathplan.NewRegulator(a.tuning.ReplanRate)}
}

func (g *SeekGoal) Kind() ai.GoalKind { return ai.KindSeek }

// Activate requests the first path. The zombie idles until it arrives.
func (g *SeekGoal) Activate() {
	g.regulator.Ready(g.agent.now)
	g.request()
	g.agent.PlayAnimation(ClipIdle, anim.Loop)
}

func (g *SeekGoal) Execute() {
	a := g.agent
	if g.ticket == nil && g.regulator.Ready(a.now) {
		g.request()
	}
	if g.hasArrival && a.AtPosition(g.arrival) {
		g.SetStatus(ai.Completed)
	}
}

// Terminate abandons any outstanding request and stops the zombie.
//
// Postcondition: a late delivery for the abandoned request does nothing.
func (g *SeekGoal) Terminate() {
	g.ticket.Cancel()
	g.ticket = nil
	g.hasArrival = false
	g.agent.stopMoving()
	g.agent.PlayAnimation(ClipIdle, anim.Loop)
}

func (g *SeekGoal) request() {
	a := g.agent
	g.ticket = a.deps.Planner.Request(a.Position(), a.deps.Quarry.Position(), g.onPath)
}

func (g *SeekGoal) onPath(t *pathplan.Ticket, path []mgl64.Vec3) {
	if t != g.ticket || !g.IsActive() {
		return
	}
	g.ticket = nil
	a := g.agent
	if len(path) == 0 {
		a.logger.Debug("no path to quarry")
		a.stopMoving()
		g.hasArrival = false
		a.PlayAnimation(ClipIdle, anim.Loop)
		return
	}
	a.follow.Path.Set(path)
	a.follow.Active = true
	a.onPath.Active = true
	g.arrival = path[len(path)-1]
	g.hasArrival = true
	a.PlayAnimation(ClipWalk, anim.Loop)
	a.logger.Debug("path received", zap.Int("waypoints", len(path)))
}
