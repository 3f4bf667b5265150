package navmesh

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// levelFile is the on-disk level format. A level either lists explicit
// vertices and polygons or describes a walkability grid.
type levelFile struct {
	Vertices [][3]float64 `yaml:"vertices"`
	Polygons [][]int      `yaml:"polygons"`
	Grid     *gridSpec    `yaml:"grid"`
}

type gridSpec struct {
	CellSize float64  `yaml:"cell_size"`
	Height   float64  `yaml:"height"`
	Mask     []string `yaml:"mask"`
}

// Parse builds a mesh from YAML level data.
func Parse(data []byte, opts Options) (*Mesh, error) {
	var lf levelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("navmesh.Parse: %w", err)
	}
	if lf.Grid != nil {
		if len(lf.Polygons) > 0 {
			return nil, errors.New("navmesh.Parse: level sets both grid and polygons")
		}
		return GridMask(lf.Grid.Mask, lf.Grid.CellSize, lf.Grid.Height, opts)
	}
	verts := make([]mgl64.Vec3, len(lf.Vertices))
	for i, v := range lf.Vertices {
		verts[i] = mgl64.Vec3(v)
	}
	m, err := New(verts, lf.Polygons, opts)
	if err != nil {
		return nil, fmt.Errorf("navmesh.Parse: %w", err)
	}
	return m, nil
}

// Load reads and parses a YAML level file.
func Load(path string, opts Options) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("navmesh.Load: %w", err)
	}
	m, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("navmesh.Load %s: %w", path, err)
	}
	return m, nil
}
