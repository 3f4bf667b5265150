package steering

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cory-johannsen/undead/internal/game/geom"
)

// Behavior contributes a steering force to a Locomotion.
type Behavior interface {
	// Enabled reports whether the behavior contributes this tick.
	Enabled() bool
	// Weight scales the behavior's force.
	Weight() float64
	// Force returns the desired steering force.
	Force(l *Locomotion, dt float64) mgl64.Vec3
}

// seek returns the force turning l towards target at full speed.
func seek(l *Locomotion, target mgl64.Vec3) mgl64.Vec3 {
	desired := geom.Normalize(target.Sub(l.Position)).Mul(l.MaxSpeed)
	return desired.Sub(l.Velocity)
}

// arrive returns the force bringing l to rest at target.
func arrive(l *Locomotion, target mgl64.Vec3, deceleration, tolerance float64) mgl64.Vec3 {
	toTarget := target.Sub(l.Position)
	dist := toTarget.Len()
	if dist <= tolerance {
		return l.Velocity.Mul(-1)
	}
	speed := math.Min(dist/deceleration, l.MaxSpeed)
	desired := toTarget.Mul(speed / dist)
	return desired.Sub(l.Velocity)
}

// FollowPath steers along Path, seeking each waypoint in turn and arriving at
// the last one.
type FollowPath struct {
	Active bool
	Path   *Path
	// NextWaypointDistance is how close the agent must get before the next
	// waypoint becomes current.
	NextWaypointDistance float64
	Deceleration         float64
	ArriveTolerance      float64
	BehaviorWeight       float64
}

// NewFollowPath returns an inactive FollowPath over an empty path.
func NewFollowPath(nextWaypointDistance float64) *FollowPath {
	return &FollowPath{
		Path:                 &Path{},
		NextWaypointDistance: nextWaypointDistance,
		Deceleration:         3,
		BehaviorWeight:       1,
	}
}

func (f *FollowPath) Enabled() bool   { return f.Active && !f.Path.Empty() }
func (f *FollowPath) Weight() float64 { return f.BehaviorWeight }

func (f *FollowPath) Force(l *Locomotion, _ float64) mgl64.Vec3 {
	if geom.DistanceSq(f.Path.Current(), l.Position) < f.NextWaypointDistance*f.NextWaypointDistance {
		f.Path.Advance()
	}
	target := f.Path.Current()
	if f.Path.Finished() {
		return arrive(l, target, f.Deceleration, f.ArriveTolerance)
	}
	return seek(l, target)
}

// OnPath pulls the agent back towards its path when it strays further than
// Radius from the nearest segment.
type OnPath struct {
	Active bool
	Path   *Path
	Radius float64
	// PredictionFactor projects the agent forward along its velocity before
	// measuring deviation.
	PredictionFactor float64
	BehaviorWeight   float64
}

// NewOnPath returns an inactive OnPath sharing path.
func NewOnPath(path *Path, radius float64) *OnPath {
	return &OnPath{Path: path, Radius: radius, BehaviorWeight: 1}
}

func (o *OnPath) Enabled() bool   { return o.Active && o.Path != nil && o.Path.Len() > 1 }
func (o *OnPath) Weight() float64 { return o.BehaviorWeight }

func (o *OnPath) Force(l *Locomotion, _ float64) mgl64.Vec3 {
	predicted := l.Position.Add(l.Velocity.Mul(o.PredictionFactor))
	best := math.Inf(1)
	var normal mgl64.Vec3
	for i := 0; i < o.Path.segments(); i++ {
		a, b := o.Path.segment(i)
		q := geom.ClosestPointOnSegment(a, b, predicted)
		if d := geom.DistanceSq(q, predicted); d < best {
			best, normal = d, q
		}
	}
	if best <= o.Radius*o.Radius {
		return mgl64.Vec3{}
	}
	return seek(l, normal)
}
