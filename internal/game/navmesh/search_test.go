package navmesh_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/undead/internal/game/navmesh"
)

func assertVecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-6), "want %v, got %v", want, got)
}

func TestFindPath_SameRegion(t *testing.T) {
	m, err := navmesh.Grid(1, 1, 4, navmesh.Options{})
	require.NoError(t, err)
	from, to := mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{1, 0, 1}
	assert.Equal(t, []mgl64.Vec3{from, to}, m.FindPath(from, to))
}

func TestFindPath_StraightCorridorHasNoCorners(t *testing.T) {
	m, err := navmesh.GridMask([]string{"....."}, 1, 0, navmesh.Options{})
	require.NoError(t, err)
	from, to := mgl64.Vec3{-2.2, 0, 0}, mgl64.Vec3{2.2, 0, 0}
	path := m.FindPath(from, to)
	require.Len(t, path, 2)
	assertVecNear(t, from, path[0])
	assertVecNear(t, to, path[1])
}

func TestFindPath_BendsAroundBlockedCell(t *testing.T) {
	m := lShape(t)
	from, to := mgl64.Vec3{0.8, 0, -0.2}, mgl64.Vec3{-0.2, 0, 0.8}
	path := m.FindPath(from, to)
	require.Len(t, path, 3)
	assertVecNear(t, from, path[0])
	assertVecNear(t, mgl64.Vec3{0, 0, 0}, path[1])
	assertVecNear(t, to, path[2])
}

func TestFindPath_Unreachable(t *testing.T) {
	m, err := navmesh.GridMask([]string{".#."}, 1, 0, navmesh.Options{})
	require.NoError(t, err)
	assert.Empty(t, m.FindPath(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}))
}

func TestFindPath_BudgetExhausted(t *testing.T) {
	m, err := navmesh.GridMask([]string{"........"}, 1, 0, navmesh.Options{MaxSearchNodes: 3})
	require.NoError(t, err)
	assert.Empty(t, m.FindPath(mgl64.Vec3{-3.5, 0, 0}, mgl64.Vec3{3.5, 0, 0}))
}

func TestProperty_FindPath_EndpointsAndWalkableCorners(t *testing.T) {
	m, err := navmesh.GridMask([]string{
		".....",
		".###.",
		".#...",
		".#.#.",
		"...#.",
	}, 1, 0, navmesh.Options{})
	require.NoError(t, err)
	regions := m.Regions()
	rapid.Check(t, func(rt *rapid.T) {
		from := regions[rapid.IntRange(0, len(regions)-1).Draw(rt, "from")].Centroid
		to := regions[rapid.IntRange(0, len(regions)-1).Draw(rt, "to")].Centroid
		path := m.FindPath(from, to)
		if len(path) < 2 {
			rt.Fatalf("connected mesh produced empty path from %v to %v", from, to)
		}
		if !path[0].ApproxEqual(from) || !path[len(path)-1].ApproxEqual(to) {
			rt.Fatalf("path %v does not run from %v to %v", path, from, to)
		}
		for _, p := range path {
			if m.RegionForPoint(p) == nil {
				rt.Fatalf("waypoint %v is off the mesh", p)
			}
		}
	})
}
