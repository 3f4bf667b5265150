// Package navmesh implements the navigation mesh service the agents move
// on: convex walkable regions joined by shared edges, a cell-space index
// for point lookups, movement clamping, and path search.
//
// A Mesh is read-only after construction and safe for concurrent queries.
package navmesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cory-johannsen/undead/internal/game/dice"
	"github.com/cory-johannsen/undead/internal/game/geom"
)

// Options tunes mesh construction and queries.
type Options struct {
	// CellsX and CellsZ set the spatial index resolution.
	CellsX, CellsZ int
	// MaxSearchNodes bounds the number of regions a single path search may
	// expand. Zero means unbounded.
	MaxSearchNodes int
	// VerticalEpsilon is how far above or below a region's surface a point
	// may be and still count as inside it.
	VerticalEpsilon float64
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{CellsX: 16, CellsZ: 16, MaxSearchNodes: 4096, VerticalEpsilon: 1}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CellsX <= 0 {
		o.CellsX = d.CellsX
	}
	if o.CellsZ <= 0 {
		o.CellsZ = d.CellsZ
	}
	if o.VerticalEpsilon <= 0 {
		o.VerticalEpsilon = d.VerticalEpsilon
	}
	return o
}

// Mesh is a navigation mesh.
type Mesh struct {
	regions []*Region
	index   *cellIndex
	opts    Options
}

type edgeKey struct{ a, b int }

func makeEdgeKey(i, j int) edgeKey {
	if i > j {
		i, j = j, i
	}
	return edgeKey{i, j}
}

type edgeRef struct {
	region *Region
	from   int
	to     int
}

// New builds a mesh from shared vertices and polygons given as vertex
// indices. Polygons wound clockwise in x/z are reversed.
//
// Postcondition: on success every region is convex and counter-clockwise,
// and regions sharing an edge (by vertex indices) are neighbours.
func New(vertices []mgl64.Vec3, polygons [][]int, opts Options) (*Mesh, error) {
	opts = opts.withDefaults()
	if len(polygons) == 0 {
		return nil, errors.New("navmesh.New: mesh has no polygons")
	}
	m := &Mesh{opts: opts}
	edges := make(map[edgeKey][]edgeRef)
	for id, poly := range polygons {
		if len(poly) < 3 {
			return nil, fmt.Errorf("navmesh.New: polygon %d: needs at least 3 vertices, has %d", id, len(poly))
		}
		idx := append([]int(nil), poly...)
		verts := make([]mgl64.Vec3, len(idx))
		for i, vi := range idx {
			if vi < 0 || vi >= len(vertices) {
				return nil, fmt.Errorf("navmesh.New: polygon %d: vertex index %d out of range", id, vi)
			}
			verts[i] = vertices[vi]
		}
		area := signedAreaXZ(verts)
		if math.Abs(area) < 1e-9 {
			return nil, fmt.Errorf("navmesh.New: polygon %d: degenerate in x/z", id)
		}
		if area < 0 {
			reverse(idx)
			reverse(verts)
		}
		if !convex(verts) {
			return nil, fmt.Errorf("navmesh.New: polygon %d: not convex", id)
		}
		r := newRegion(id, verts)
		m.regions = append(m.regions, r)
		for i := range idx {
			from, to := idx[i], idx[(i+1)%len(idx)]
			k := makeEdgeKey(from, to)
			edges[k] = append(edges[k], edgeRef{region: r, from: from, to: to})
		}
	}
	for k, refs := range edges {
		switch len(refs) {
		case 1:
		case 2:
			a, b := refs[0], refs[1]
			// Leaving a region through edge from->to, "to" is on the left.
			a.region.portals = append(a.region.portals, portal{
				neighbour: b.region, left: vertices[a.to], right: vertices[a.from],
			})
			b.region.portals = append(b.region.portals, portal{
				neighbour: a.region, left: vertices[b.to], right: vertices[b.from],
			})
		default:
			return nil, fmt.Errorf("navmesh.New: edge %d-%d shared by %d polygons", k.a, k.b, len(refs))
		}
	}
	m.index = newCellIndex(m.regions, opts.CellsX, opts.CellsZ)
	return m, nil
}

// Regions returns every region in the mesh.
func (m *Mesh) Regions() []*Region { return m.regions }

// RegionForPoint returns the region containing p, or nil when p is off the
// mesh.
func (m *Mesh) RegionForPoint(p mgl64.Vec3) *Region {
	var best *Region
	bestDist := math.Inf(1)
	for _, r := range m.index.candidates(p) {
		if !r.ContainsXZ(p) {
			continue
		}
		d := math.Abs(r.DistanceToPoint(p))
		if d <= m.opts.VerticalEpsilon && d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

// ClosestRegion returns the region containing p or, when p is off the mesh,
// the region whose outline is nearest to p in x/z.
func (m *Mesh) ClosestRegion(p mgl64.Vec3) *Region {
	if r := m.RegionForPoint(p); r != nil {
		return r
	}
	var best *Region
	bestDist := math.Inf(1)
	for _, r := range m.regions {
		d := r.distanceSqXZ(p)
		if d == 0 {
			v := r.DistanceToPoint(p)
			d = v * v
		}
		if d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

// RandomRegion returns a uniformly chosen region.
func (m *Mesh) RandomRegion(src dice.Source) *Region {
	return m.regions[src.Intn(len(m.regions))]
}

// ClampMovement resolves a move from "from" to "to" made by an agent last
// known to be in current. When "to" is on the mesh it is returned unchanged
// along with the region containing it. Otherwise the move is clamped to the
// nearest point on current's outline and current is kept. A nil current is
// replaced with the region closest to "from".
func (m *Mesh) ClampMovement(current *Region, from, to mgl64.Vec3) (mgl64.Vec3, *Region) {
	if current != nil && current.Contains(to, m.opts.VerticalEpsilon) {
		return to, current
	}
	if r := m.RegionForPoint(to); r != nil {
		return to, r
	}
	if current == nil {
		current = m.ClosestRegion(from)
	}
	return current.ClosestBoundaryPoint(to), current
}

func signedAreaXZ(verts []mgl64.Vec3) float64 {
	var sum float64
	for i, v := range verts {
		w := verts[(i+1)%len(verts)]
		sum += v.X()*w.Z() - w.X()*v.Z()
	}
	return sum / 2
}

func convex(verts []mgl64.Vec3) bool {
	n := len(verts)
	for i := 0; i < n; i++ {
		if geom.Cross2(verts[i], verts[(i+1)%n], verts[(i+2)%n]) < -containsEpsilon {
			return false
		}
	}
	return true
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
