package navmesh

import (
	"container/heap"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cory-johannsen/undead/internal/game/geom"
)

type searchNode struct {
	region *Region
	g, f   float64
	index  int
	parent *searchNode
}

type searchQueue []*searchNode

func (q searchQueue) Len() int           { return len(q) }
func (q searchQueue) Less(i, j int) bool { return q[i].f < q[j].f }
func (q searchQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *searchQueue) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *searchQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// FindPath searches for a walkable route from "from" to "to". The result
// starts at from, ends at to and contains the corners of the shortest line
// through the connecting regions in between. An empty result means no route
// exists or the search budget was exhausted.
func (m *Mesh) FindPath(from, to mgl64.Vec3) []mgl64.Vec3 {
	start := m.ClosestRegion(from)
	goal := m.ClosestRegion(to)
	if start == nil || goal == nil {
		return nil
	}
	if start == goal {
		return []mgl64.Vec3{from, to}
	}
	corridor := m.astar(start, goal)
	if len(corridor) == 0 {
		return nil
	}
	return funnel(from, to, corridor)
}

func (m *Mesh) astar(start, goal *Region) []*Region {
	open := &searchQueue{}
	heap.Push(open, &searchNode{region: start, f: start.Centroid.Sub(goal.Centroid).Len()})
	gScore := map[*Region]float64{start: 0}
	closed := make(map[*Region]struct{})
	expanded := 0

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if _, seen := closed[current.region]; seen {
			continue
		}
		closed[current.region] = struct{}{}
		if current.region == goal {
			return reconstruct(current)
		}
		expanded++
		if m.opts.MaxSearchNodes > 0 && expanded > m.opts.MaxSearchNodes {
			return nil
		}
		for _, p := range current.region.portals {
			next := p.neighbour
			if _, seen := closed[next]; seen {
				continue
			}
			g := current.g + current.region.Centroid.Sub(next.Centroid).Len()
			if prev, ok := gScore[next]; ok && g >= prev {
				continue
			}
			gScore[next] = g
			heap.Push(open, &searchNode{
				region: next,
				g:      g,
				f:      g + next.Centroid.Sub(goal.Centroid).Len(),
				parent: current,
			})
		}
	}
	return nil
}

func reconstruct(end *searchNode) []*Region {
	var out []*Region
	for n := end; n != nil; n = n.parent {
		out = append(out, n.region)
	}
	reverse(out)
	return out
}

// triArea2 is positive when c lies to the right of a->b in x/z.
func triArea2(a, b, c mgl64.Vec3) float64 {
	return -geom.Cross2(a, b, c)
}

func vequal(a, b mgl64.Vec3) bool {
	return geom.DistanceSqXZ(a, b) < 1e-12
}

// funnel pulls the string through the portals of corridor.
func funnel(from, to mgl64.Vec3, corridor []*Region) []mgl64.Vec3 {
	lefts := []mgl64.Vec3{from}
	rights := []mgl64.Vec3{from}
	for i := 0; i+1 < len(corridor); i++ {
		p, ok := corridor[i].portalTo(corridor[i+1])
		if !ok {
			return nil
		}
		lefts = append(lefts, p.left)
		rights = append(rights, p.right)
	}
	lefts = append(lefts, to)
	rights = append(rights, to)

	path := []mgl64.Vec3{from}
	apex, left, right := from, from, from
	apexIdx, leftIdx, rightIdx := 0, 0, 0

	for i := 1; i < len(lefts); i++ {
		l, r := lefts[i], rights[i]

		if triArea2(apex, right, r) <= 0 {
			if vequal(apex, right) || triArea2(apex, left, r) > 0 {
				right, rightIdx = r, i
			} else {
				path = append(path, left)
				apex, apexIdx = left, leftIdx
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				continue
			}
		}

		if triArea2(apex, left, l) >= 0 {
			if vequal(apex, left) || triArea2(apex, right, l) < 0 {
				left, leftIdx = l, i
			} else {
				path = append(path, right)
				apex, apexIdx = right, rightIdx
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				continue
			}
		}
	}
	if !vequal(path[len(path)-1], to) || len(path) == 1 {
		path = append(path, to)
	}
	return path
}
