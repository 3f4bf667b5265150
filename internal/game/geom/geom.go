// Package geom holds the small amount of vector math shared by the navmesh,
// steering, and agent packages. Vectors are mathgl mgl64 values; the world is
// Y-up and agents only ever rotate around the Y axis.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}

// Forward is the facing direction of an identity rotation.
var Forward = mgl64.Vec3{0, 0, 1}

// DistanceSq returns the squared distance between a and b.
func DistanceSq(a, b mgl64.Vec3) float64 {
	return a.Sub(b).LenSqr()
}

// DistanceSqXZ returns the squared distance between a and b ignoring height.
func DistanceSqXZ(a, b mgl64.Vec3) float64 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return dx*dx + dz*dz
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged instead of producing NaNs.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// ClampLength returns v with its length limited to max.
func ClampLength(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if l := v.LenSqr(); l > max*max {
		return v.Mul(max / math.Sqrt(l))
	}
	return v
}

// Yaw returns the heading angle of dir around Up, measured from Forward.
func Yaw(dir mgl64.Vec3) float64 {
	return math.Atan2(dir.X(), dir.Z())
}

// YawRotation returns the rotation that turns Forward to heading yaw.
func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, Up)
}

// AngleBetween returns the rotation angle in radians separating a and b.
//
// Postcondition: result is in [0, π].
func AngleBetween(a, b mgl64.Quat) float64 {
	d := math.Abs(a.Dot(b))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// ClosestPointOnSegment returns the point of segment ab closest to p.
func ClosestPointOnSegment(a, b, p mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	denom := ab.LenSqr()
	if denom < 1e-12 {
		return a
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/denom, 0, 1)
	return a.Add(ab.Mul(t))
}

// Cross2 returns the cross product of (b-a) and (c-a) projected onto the
// (x, z) plane. It is positive when a, b, c turn counter-clockwise in (x, z).
func Cross2(a, b, c mgl64.Vec3) float64 {
	abx, abz := b.X()-a.X(), b.Z()-a.Z()
	acx, acz := c.X()-a.X(), c.Z()-a.Z()
	return abx*acz - abz*acx
}
