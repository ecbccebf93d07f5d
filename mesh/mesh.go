// Package mesh provides the planar mesh snapshot consumed by the DIC
// emulation pipeline: point geometry, cell connectivity, named per-point
// scalar fields, and the neighbourhood and resampling queries built on them.
package mesh

import (
	"fmt"
	"sort"
)

// Mesh is a single snapshot of finite-element output. Vertices holds the
// point coordinates, EToV the cell-to-vertex connectivity (triangles or
// quads), and PointData the named scalar fields defined at the points.
type Mesh struct {
	Vertices  [][3]float64
	EToV      [][]int
	PointData map[string][]float64

	// Point incidence, built once at construction
	pointToCells  [][]int
	pointToPoints [][]int
}

// NewMesh creates a Mesh from point coordinates and cell connectivity and
// builds the point adjacency used by neighbourhood queries.
func NewMesh(vertices [][3]float64, etov [][]int) (*Mesh, error) {
	n := len(vertices)
	if n == 0 {
		return nil, fmt.Errorf("mesh has no points")
	}
	for c, cell := range etov {
		if len(cell) != 3 && len(cell) != 4 {
			return nil, fmt.Errorf("cell %d has %d vertices, want 3 or 4", c, len(cell))
		}
		for _, v := range cell {
			if v < 0 || v >= n {
				return nil, fmt.Errorf("cell %d references vertex %d, mesh has %d points", c, v, n)
			}
		}
	}

	m := &Mesh{
		Vertices:  vertices,
		EToV:      etov,
		PointData: make(map[string][]float64),
	}
	m.buildAdjacency()
	return m, nil
}

// buildAdjacency creates point→cell and point→point incidence maps.
// Two points are adjacent iff they share a cell, so an interior point of a
// regular quad mesh has 8 immediate neighbours.
func (m *Mesh) buildAdjacency() {
	n := len(m.Vertices)
	m.pointToCells = make([][]int, n)
	for c, cell := range m.EToV {
		for _, v := range cell {
			m.pointToCells[v] = append(m.pointToCells[v], c)
		}
	}

	m.pointToPoints = make([][]int, n)
	for p := 0; p < n; p++ {
		seen := make(map[int]bool)
		for _, c := range m.pointToCells[p] {
			for _, q := range m.EToV[c] {
				if q != p {
					seen[q] = true
				}
			}
		}
		nbrs := make([]int, 0, len(seen))
		for q := range seen {
			nbrs = append(nbrs, q)
		}
		sort.Ints(nbrs)
		m.pointToPoints[p] = nbrs
	}
}

// NumPoints returns the number of mesh points.
func (m *Mesh) NumPoints() int {
	return len(m.Vertices)
}

// NumCells returns the number of mesh cells.
func (m *Mesh) NumCells() int {
	return len(m.EToV)
}

// Bounds returns the axis-aligned bounding box as
// [xmin, xmax, ymin, ymax, zmin, zmax].
func (m *Mesh) Bounds() [6]float64 {
	b := [6]float64{
		m.Vertices[0][0], m.Vertices[0][0],
		m.Vertices[0][1], m.Vertices[0][1],
		m.Vertices[0][2], m.Vertices[0][2],
	}
	for _, v := range m.Vertices {
		for d := 0; d < 3; d++ {
			if v[d] < b[2*d] {
				b[2*d] = v[d]
			}
			if v[d] > b[2*d+1] {
				b[2*d+1] = v[d]
			}
		}
	}
	return b
}

// PointNeighborsLevels returns the points reachable from the given point
// within the given number of connectivity hops, one slice per level. The
// point itself is not included. Each level is sorted by point index.
func (m *Mesh) PointNeighborsLevels(point, levels int) ([][]int, error) {
	if point < 0 || point >= m.NumPoints() {
		return nil, fmt.Errorf("point %d out of range, mesh has %d points", point, m.NumPoints())
	}
	if levels < 1 {
		return nil, fmt.Errorf("levels must be >= 1, got %d", levels)
	}

	visited := make([]bool, m.NumPoints())
	visited[point] = true
	frontier := []int{point}

	out := make([][]int, 0, levels)
	for l := 0; l < levels; l++ {
		var next []int
		for _, p := range frontier {
			for _, q := range m.pointToPoints[p] {
				if !visited[q] {
					visited[q] = true
					next = append(next, q)
				}
			}
		}
		sort.Ints(next)
		out = append(out, next)
		frontier = next
	}
	return out, nil
}

// Field returns the named point field.
func (m *Mesh) Field(name string) ([]float64, error) {
	f, ok := m.PointData[name]
	if !ok {
		return nil, fmt.Errorf("mesh has no point field %q", name)
	}
	return f, nil
}

// HasField reports whether the named point field exists.
func (m *Mesh) HasField(name string) bool {
	_, ok := m.PointData[name]
	return ok
}

// SetField assigns a point field, replacing any existing field of the same
// name. The data length must match the point count.
func (m *Mesh) SetField(name string, data []float64) error {
	if len(data) != m.NumPoints() {
		return fmt.Errorf("field %q has %d values, mesh has %d points", name, len(data), m.NumPoints())
	}
	m.PointData[name] = data
	return nil
}

// FieldNames returns the names of all point fields in sorted order.
func (m *Mesh) FieldNames() []string {
	names := make([]string, 0, len(m.PointData))
	for name := range m.PointData {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
