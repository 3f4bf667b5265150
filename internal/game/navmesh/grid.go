package navmesh

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Grid returns a fully walkable flat mesh of cols x rows square cells
// centred on the origin.
func Grid(cols, rows int, size float64, opts Options) (*Mesh, error) {
	mask := make([]string, rows)
	for i := range mask {
		mask[i] = strings.Repeat(".", cols)
	}
	return GridMask(mask, size, 0, opts)
}

// GridMask builds a flat mesh from a text mask centred on the origin. Each
// row of the mask is one row of cells along +z; '.' is walkable and any
// other rune is blocked.
func GridMask(mask []string, size, height float64, opts Options) (*Mesh, error) {
	if size <= 0 {
		return nil, fmt.Errorf("navmesh.GridMask: cell size must be > 0, got %v", size)
	}
	rows := len(mask)
	if rows == 0 {
		return nil, errors.New("navmesh.GridMask: empty mask")
	}
	cols := len(mask[0])
	for i, line := range mask {
		if len(line) != cols {
			return nil, fmt.Errorf("navmesh.GridMask: row %d has %d cells, want %d", i, len(line), cols)
		}
	}

	originX := -float64(cols) * size / 2
	originZ := -float64(rows) * size / 2
	verts := make([]mgl64.Vec3, 0, (cols+1)*(rows+1))
	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			verts = append(verts, mgl64.Vec3{originX + float64(c)*size, height, originZ + float64(r)*size})
		}
	}
	at := func(c, r int) int { return r*(cols+1) + c }

	var polys [][]int
	for r, line := range mask {
		for c, ch := range line {
			if ch != '.' {
				continue
			}
			polys = append(polys, []int{at(c, r), at(c+1, r), at(c+1, r+1), at(c, r+1)})
		}
	}
	return New(verts, polys, opts)
}
