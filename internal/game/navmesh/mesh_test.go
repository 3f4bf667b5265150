package navmesh_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/undead/internal/game/dice"
	"github.com/cory-johannsen/undead/internal/game/navmesh"
)

func lShape(t *testing.T) *navmesh.Mesh {
	t.Helper()
	// Cells span [-1,1] on both axes; the +x/+z cell is blocked.
	m, err := navmesh.GridMask([]string{
		"..",
		".#",
	}, 1, 0, navmesh.Options{})
	require.NoError(t, err)
	return m
}

func TestNew_RejectsBadPolygons(t *testing.T) {
	verts := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}, {0.5, 0, 0.2}}
	cases := map[string][][]int{
		"empty":        nil,
		"too few":      {{0, 1}},
		"out of range": {{0, 1, 9}},
		"degenerate":   {{0, 1, 1}},
		"concave":      {{0, 1, 2, 4, 3}},
	}
	for name, polys := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := navmesh.New(verts, polys, navmesh.Options{})
			assert.Error(t, err)
		})
	}
}

func TestNew_ClockwisePolygonIsReversed(t *testing.T) {
	verts := []mgl64.Vec3{{0, 0, 0}, {0, 0, 1}, {1, 0, 1}, {1, 0, 0}}
	m, err := navmesh.New(verts, [][]int{{0, 1, 2, 3}}, navmesh.Options{})
	require.NoError(t, err)
	r := m.Regions()[0]
	assert.True(t, r.ContainsXZ(mgl64.Vec3{0.5, 0, 0.5}))
	assert.InDelta(t, 1.0, r.Normal().Y(), 1e-9)
}

func TestNew_EdgeSharedByThreePolygonsIsRejected(t *testing.T) {
	verts := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0.5, 0, 1}, {0.5, 0, -1}, {0.5, 1, 1}}
	_, err := navmesh.New(verts, [][]int{{0, 1, 2}, {0, 3, 1}, {0, 1, 4}}, navmesh.Options{})
	assert.Error(t, err)
}

func TestGrid_NeighboursShareEdges(t *testing.T) {
	m, err := navmesh.Grid(3, 3, 2, navmesh.Options{})
	require.NoError(t, err)
	require.Len(t, m.Regions(), 9)
	centre := m.ClosestRegion(mgl64.Vec3{0, 0, 0})
	require.NotNil(t, centre)
	assert.Len(t, centre.Neighbours(), 4)
	corner := m.ClosestRegion(mgl64.Vec3{-2.5, 0, -2.5})
	assert.Len(t, corner.Neighbours(), 2)
}

func TestRegion_HeightAndDistance(t *testing.T) {
	verts := []mgl64.Vec3{{0, 0, 0}, {2, 1, 0}, {2, 1, 2}, {0, 0, 2}}
	m, err := navmesh.New(verts, [][]int{{0, 1, 2, 3}}, navmesh.Options{})
	require.NoError(t, err)
	r := m.Regions()[0]
	assert.InDelta(t, 0.5, r.HeightAt(1, 1), 1e-9)
	assert.Greater(t, r.DistanceToPoint(mgl64.Vec3{1, 2, 1}), 0.0)
	assert.Less(t, r.DistanceToPoint(mgl64.Vec3{1, -2, 1}), 0.0)
	assert.InDelta(t, 0.0, r.DistanceToPoint(mgl64.Vec3{1, 0.5, 1}), 1e-9)
}

func TestRegionForPoint_RespectsVerticalEpsilon(t *testing.T) {
	m, err := navmesh.Grid(2, 2, 1, navmesh.Options{VerticalEpsilon: 0.5})
	require.NoError(t, err)
	assert.NotNil(t, m.RegionForPoint(mgl64.Vec3{0.5, 0.4, 0.5}))
	assert.Nil(t, m.RegionForPoint(mgl64.Vec3{0.5, 0.6, 0.5}))
	assert.Nil(t, m.RegionForPoint(mgl64.Vec3{5, 0, 5}))
}

func TestClosestRegion_OffMesh(t *testing.T) {
	m := lShape(t)
	r := m.ClosestRegion(mgl64.Vec3{5, 0, -0.5})
	require.NotNil(t, r)
	assert.True(t, r.ContainsXZ(mgl64.Vec3{0.5, 0, -0.5}))
}

func TestClampMovement_OnMeshPassesThrough(t *testing.T) {
	m := lShape(t)
	start := m.ClosestRegion(mgl64.Vec3{-0.5, 0, -0.5})
	to := mgl64.Vec3{0.5, 0, -0.5}
	got, region := m.ClampMovement(start, mgl64.Vec3{-0.5, 0, -0.5}, to)
	assert.Equal(t, to, got)
	assert.True(t, region.ContainsXZ(to))
	assert.NotSame(t, start, region)
}

func TestClampMovement_OffMeshClampsToCurrentRegion(t *testing.T) {
	m := lShape(t)
	from := mgl64.Vec3{0.5, 0, -0.5}
	start := m.ClosestRegion(from)
	got, region := m.ClampMovement(start, from, mgl64.Vec3{0.5, 0, 0.7})
	assert.Same(t, start, region)
	assert.InDelta(t, 0.5, got.X(), 1e-9)
	assert.InDelta(t, 0.0, got.Z(), 1e-9)
}

func TestClampMovement_NilRegionFallsBackToClosest(t *testing.T) {
	m := lShape(t)
	got, region := m.ClampMovement(nil, mgl64.Vec3{0.5, 0, -0.5}, mgl64.Vec3{3, 0, -0.5})
	require.NotNil(t, region)
	assert.InDelta(t, 1.0, got.X(), 1e-9)
}

func TestRandomRegion_UsesSource(t *testing.T) {
	m, err := navmesh.Grid(4, 4, 1, navmesh.Options{})
	require.NoError(t, err)
	a := m.RandomRegion(dice.NewSeededSource(9))
	b := m.RandomRegion(dice.NewSeededSource(9))
	assert.Same(t, a, b)
}

func TestProperty_ClampMovement_ResultIsOnMesh(t *testing.T) {
	m, err := navmesh.GridMask([]string{
		"....",
		".##.",
		"....",
	}, 1, 0, navmesh.Options{})
	require.NoError(t, err)
	rapid.Check(t, func(rt *rapid.T) {
		from := m.Regions()[rapid.IntRange(0, len(m.Regions())-1).Draw(rt, "region")].Centroid
		to := mgl64.Vec3{
			rapid.Float64Range(-4, 4).Draw(rt, "x"),
			0,
			rapid.Float64Range(-4, 4).Draw(rt, "z"),
		}
		got, region := m.ClampMovement(m.ClosestRegion(from), from, to)
		if region == nil {
			rt.Fatalf("nil region")
		}
		if !region.ContainsXZ(got) {
			rt.Fatalf("clamped point %v not inside reported region %d", got, region.ID)
		}
	})
}
