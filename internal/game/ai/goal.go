// Package ai implements goal-driven agent behaviour: evaluators score the
// candidate goals every tick and a Brain keeps the single winning goal
// running through its activate/execute/terminate lifecycle.
package ai

// GoalKind tags the goal variants an agent can pursue. Arbitration compares
// goals by kind only.
type GoalKind uint8

const (
	KindNone GoalKind = iota
	KindSeek
	KindAttack
	KindDeath
	KindSpawn
)

var kindNames = [...]string{
	KindNone:   "none",
	KindSeek:   "seek",
	KindAttack: "attack",
	KindDeath:  "death",
	KindSpawn:  "spawn",
}

func (k GoalKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Status is a goal's lifecycle state.
type Status uint8

const (
	Inactive Status = iota
	Active
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Goal is one behaviour an agent can pursue.
//
// Invariant: a Goal instance is activated at most once; after Terminate it
// is discarded.
type Goal interface {
	Kind() GoalKind
	Status() Status
	SetStatus(Status)
	// Activate acquires whatever the goal needs (subscriptions, requests).
	Activate()
	// Execute runs one tick of the goal.
	Execute()
	// Terminate releases everything Activate acquired. It must leave no
	// callback able to mutate the agent.
	Terminate()
}

// GoalState provides the status bookkeeping shared by goal implementations.
type GoalState struct {
	status Status
}

func (g *GoalState) Status() Status     { return g.status }
func (g *GoalState) SetStatus(s Status) { g.status = s }

// IsActive reports whether the goal is currently running.
func (g *GoalState) IsActive() bool { return g.status == Active }

// Evaluator scores one goal kind for an owner.
type Evaluator[O any] interface {
	Kind() GoalKind
	// Desirability returns a score in [0, 1]. Zero means ineligible.
	Desirability(owner O) float64
	// NewGoal constructs a fresh, inactive goal of Kind for owner.
	NewGoal(owner O) Goal
}
