package navmesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cory-johannsen/undead/internal/game/geom"
)

const containsEpsilon = 1e-6

// portal is the shared edge between a region and one neighbour.
type portal struct {
	neighbour *Region
	// left and right as seen when leaving the owning region through this edge.
	left, right mgl64.Vec3
}

// Region is one convex, counter-clockwise (in x/z) walkable polygon.
//
// Invariant: Vertices has at least three entries and every interior angle
// turns left in x/z.
type Region struct {
	ID       int
	Vertices []mgl64.Vec3
	Centroid mgl64.Vec3

	normal  mgl64.Vec3
	offset  float64
	portals []portal
	min     mgl64.Vec2
	max     mgl64.Vec2
}

func newRegion(id int, verts []mgl64.Vec3) *Region {
	r := &Region{ID: id, Vertices: verts}
	var n, c mgl64.Vec3
	for i, v := range verts {
		w := verts[(i+1)%len(verts)]
		n[0] += (v.Y() - w.Y()) * (v.Z() + w.Z())
		n[1] += (v.Z() - w.Z()) * (v.X() + w.X())
		n[2] += (v.X() - w.X()) * (v.Y() + w.Y())
		c = c.Add(v)
	}
	if n.Y() < 0 {
		n = n.Mul(-1)
	}
	r.normal = geom.Normalize(n)
	r.Centroid = c.Mul(1 / float64(len(verts)))
	r.offset = -r.normal.Dot(r.Centroid)

	r.min = mgl64.Vec2{math.Inf(1), math.Inf(1)}
	r.max = mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, v := range verts {
		r.min[0] = math.Min(r.min[0], v.X())
		r.min[1] = math.Min(r.min[1], v.Z())
		r.max[0] = math.Max(r.max[0], v.X())
		r.max[1] = math.Max(r.max[1], v.Z())
	}
	return r
}

// Normal returns the upward-facing unit normal of the region's plane.
func (r *Region) Normal() mgl64.Vec3 { return r.normal }

// DistanceToPoint returns the signed distance from the region's plane to p,
// positive above the surface.
func (r *Region) DistanceToPoint(p mgl64.Vec3) float64 {
	return r.normal.Dot(p) + r.offset
}

// HeightAt returns the surface height under (x, z).
func (r *Region) HeightAt(x, z float64) float64 {
	if r.normal.Y() == 0 {
		return r.Centroid.Y()
	}
	return -(r.normal.X()*x + r.normal.Z()*z + r.offset) / r.normal.Y()
}

// ContainsXZ reports whether p lies inside or on the boundary of the region
// when projected onto the x/z plane.
func (r *Region) ContainsXZ(p mgl64.Vec3) bool {
	if p.X() < r.min[0]-containsEpsilon || p.X() > r.max[0]+containsEpsilon ||
		p.Z() < r.min[1]-containsEpsilon || p.Z() > r.max[1]+containsEpsilon {
		return false
	}
	n := len(r.Vertices)
	for i := 0; i < n; i++ {
		if geom.Cross2(r.Vertices[i], r.Vertices[(i+1)%n], p) < -containsEpsilon {
			return false
		}
	}
	return true
}

// Contains reports whether p lies over the region and within vertical
// distance epsilon of its surface.
func (r *Region) Contains(p mgl64.Vec3, epsilon float64) bool {
	return r.ContainsXZ(p) && math.Abs(r.DistanceToPoint(p)) <= epsilon
}

// ClosestBoundaryPoint returns the point on the region's outline nearest to
// p in x/z. Its height follows the outline.
func (r *Region) ClosestBoundaryPoint(p mgl64.Vec3) mgl64.Vec3 {
	best := r.Vertices[0]
	bestDist := math.Inf(1)
	n := len(r.Vertices)
	for i := 0; i < n; i++ {
		q := closestOnEdgeXZ(r.Vertices[i], r.Vertices[(i+1)%n], p)
		if d := geom.DistanceSqXZ(q, p); d < bestDist {
			best, bestDist = q, d
		}
	}
	return best
}

// distanceSqXZ returns zero for points over the region, otherwise the squared
// x/z distance to its outline.
func (r *Region) distanceSqXZ(p mgl64.Vec3) float64 {
	if r.ContainsXZ(p) {
		return 0
	}
	return geom.DistanceSqXZ(r.ClosestBoundaryPoint(p), p)
}

// Neighbours returns the regions sharing an edge with r.
func (r *Region) Neighbours() []*Region {
	out := make([]*Region, len(r.portals))
	for i, p := range r.portals {
		out[i] = p.neighbour
	}
	return out
}

func (r *Region) portalTo(next *Region) (portal, bool) {
	for _, p := range r.portals {
		if p.neighbour == next {
			return p, true
		}
	}
	return portal{}, false
}

func closestOnEdgeXZ(a, b, p mgl64.Vec3) mgl64.Vec3 {
	abx, abz := b.X()-a.X(), b.Z()-a.Z()
	den := abx*abx + abz*abz
	if den == 0 {
		return a
	}
	t := ((p.X()-a.X())*abx + (p.Z()-a.Z())*abz) / den
	t = math.Max(0, math.Min(1, t))
	return a.Add(b.Sub(a).Mul(t))
}
