package navmesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// cellIndex partitions the mesh bounds in x/z into a fixed grid of cells,
// each listing the regions whose bounding box overlaps it.
type cellIndex struct {
	minX, minZ   float64
	cellW, cellD float64
	cols, rows   int
	cells        [][]*Region
}

func newCellIndex(regions []*Region, cols, rows int) *cellIndex {
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, r := range regions {
		minX = math.Min(minX, r.min[0])
		minZ = math.Min(minZ, r.min[1])
		maxX = math.Max(maxX, r.max[0])
		maxZ = math.Max(maxZ, r.max[1])
	}
	idx := &cellIndex{
		minX:  minX,
		minZ:  minZ,
		cellW: math.Max((maxX-minX)/float64(cols), 1e-9),
		cellD: math.Max((maxZ-minZ)/float64(rows), 1e-9),
		cols:  cols,
		rows:  rows,
		cells: make([][]*Region, cols*rows),
	}
	for _, r := range regions {
		c0, r0 := idx.cell(r.min[0], r.min[1])
		c1, r1 := idx.cell(r.max[0], r.max[1])
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				i := row*cols + col
				idx.cells[i] = append(idx.cells[i], r)
			}
		}
	}
	return idx
}

func (c *cellIndex) cell(x, z float64) (int, int) {
	col := int((x - c.minX) / c.cellW)
	row := int((z - c.minZ) / c.cellD)
	return clampInt(col, 0, c.cols-1), clampInt(row, 0, c.rows-1)
}

// candidates returns the regions that may contain p.
func (c *cellIndex) candidates(p mgl64.Vec3) []*Region {
	if p.X() < c.minX-containsEpsilon || p.Z() < c.minZ-containsEpsilon ||
		p.X() > c.minX+c.cellW*float64(c.cols)+containsEpsilon ||
		p.Z() > c.minZ+c.cellD*float64(c.rows)+containsEpsilon {
		return nil
	}
	col, row := c.cell(p.X(), p.Z())
	return c.cells[row*c.cols+col]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
