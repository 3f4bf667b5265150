// Package steering moves agents by accumulating forces from a set of
// behaviors and integrating them into velocity and position.
package steering

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cory-johannsen/undead/internal/game/geom"
)

// Locomotion is the kinematic state of one agent plus the behaviors that
// steer it.
type Locomotion struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Rotation mgl64.Quat

	Mass        float64
	MaxSpeed    float64
	MaxForce    float64
	MaxTurnRate float64
	// Braking is the fraction of velocity shed per second while no behavior
	// applies a force.
	Braking float64

	behaviors []Behavior
}

// NewLocomotion returns a Locomotion at rest at position facing +z.
func NewLocomotion(position mgl64.Vec3, maxSpeed, maxForce, maxTurnRate float64) *Locomotion {
	return &Locomotion{
		Position:    position,
		Rotation:    mgl64.QuatIdent(),
		Mass:        1,
		MaxSpeed:    maxSpeed,
		MaxForce:    maxForce,
		MaxTurnRate: maxTurnRate,
	}
}

// Add registers a behavior. Behaviors are evaluated in registration order.
func (l *Locomotion) Add(b Behavior) { l.behaviors = append(l.behaviors, b) }

// Speed returns the magnitude of the velocity.
func (l *Locomotion) Speed() float64 { return l.Velocity.Len() }

// Stop zeroes the velocity.
func (l *Locomotion) Stop() { l.Velocity = mgl64.Vec3{} }

// Force returns the accumulated steering force for this tick. Behaviors are
// summed in order until MaxForce is spent.
func (l *Locomotion) Force(dt float64) mgl64.Vec3 {
	var total mgl64.Vec3
	for _, b := range l.behaviors {
		if !b.Enabled() {
			continue
		}
		remaining := l.MaxForce - total.Len()
		if remaining <= 0 {
			break
		}
		f := b.Force(l, dt).Mul(b.Weight())
		if f.Len() > remaining {
			f = geom.Normalize(f).Mul(remaining)
		}
		total = total.Add(f)
	}
	return total
}

// Update integrates one tick of motion.
//
// Postcondition: Speed() <= MaxSpeed.
func (l *Locomotion) Update(dt time.Duration) {
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}
	force := l.Force(secs)
	if force.LenSqr() == 0 && l.Braking > 0 {
		keep := 1 - l.Braking*secs
		if keep < 0 {
			keep = 0
		}
		l.Velocity = l.Velocity.Mul(keep)
	} else {
		mass := l.Mass
		if mass <= 0 {
			mass = 1
		}
		l.Velocity = l.Velocity.Add(force.Mul(secs / mass))
	}
	l.Velocity = geom.ClampLength(l.Velocity, l.MaxSpeed)
	l.Position = l.Position.Add(l.Velocity.Mul(secs))
}

// Forward returns the facing direction.
func (l *Locomotion) Forward() mgl64.Vec3 {
	return l.Rotation.Rotate(geom.Forward)
}

// RotateTo turns towards target around the up axis by at most
// MaxTurnRate*dt. It reports true once the remaining angle is below
// tolerance, at which point no rotation is applied.
func (l *Locomotion) RotateTo(target mgl64.Vec3, dt time.Duration, tolerance float64) bool {
	dir := target.Sub(l.Position)
	dir[1] = 0
	if dir.LenSqr() < 1e-12 {
		return true
	}
	return l.turn(geom.YawRotation(geom.Yaw(dir)), l.MaxTurnRate*dt.Seconds(), tolerance)
}

// FaceYaw snaps the rotation to yaw radians around the up axis.
func (l *Locomotion) FaceYaw(yaw float64) {
	l.Rotation = geom.YawRotation(yaw)
}

func (l *Locomotion) turn(goal mgl64.Quat, step, tolerance float64) bool {
	angle := geom.AngleBetween(l.Rotation, goal)
	if angle < tolerance {
		return true
	}
	if l.Rotation.Dot(goal) < 0 {
		goal = goal.Scale(-1)
	}
	t := 1.0
	if angle > 0 && step < angle {
		t = step / angle
	}
	l.Rotation = mgl64.QuatSlerp(l.Rotation, goal, t).Normalize()
	return false
}
