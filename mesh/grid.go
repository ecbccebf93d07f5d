package mesh

import (
	"fmt"
)

// NewStructuredGrid builds a regular quad mesh spanning the xy extent of the
// given bounding box at the requested spacing, with every point held at the
// upper z bound. Node counts follow floor(extent/spacing) per axis with the
// endpoints included, so the effective spacing is slightly coarser than
// requested. Returns an error when the spacing is non-positive or too coarse
// to place at least two nodes on each axis.
func NewStructuredGrid(bounds [6]float64, spacing float64) (*Mesh, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %g", spacing)
	}
	nx := int((bounds[1] - bounds[0]) / spacing)
	ny := int((bounds[3] - bounds[2]) / spacing)
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("grid spacing %g too coarse for extent %g x %g: %dx%d nodes",
			spacing, bounds[1]-bounds[0], bounds[3]-bounds[2], nx, ny)
	}

	dx := (bounds[1] - bounds[0]) / float64(nx-1)
	dy := (bounds[3] - bounds[2]) / float64(ny-1)
	z := bounds[5]

	vertices := make([][3]float64, 0, nx*ny)
	for j := 0; j < ny; j++ {
		y := bounds[2] + float64(j)*dy
		for i := 0; i < nx; i++ {
			vertices = append(vertices, [3]float64{bounds[0] + float64(i)*dx, y, z})
		}
	}

	etov := make([][]int, 0, (nx-1)*(ny-1))
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			v0 := j*nx + i
			etov = append(etov, []int{v0, v0 + 1, v0 + nx + 1, v0 + nx})
		}
	}

	return NewMesh(vertices, etov)
}
