package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transform applies a 4x4 homogeneous transformation to the mesh points in
// place. Used to align simulated geometry with the coordinate frame of a
// measured data set before resampling.
func (m *Mesh) Transform(t mat.Matrix) error {
	r, c := t.Dims()
	if r != 4 || c != 4 {
		return fmt.Errorf("transform must be 4x4, got %dx%d", r, c)
	}
	for i, v := range m.Vertices {
		w := t.At(3, 0)*v[0] + t.At(3, 1)*v[1] + t.At(3, 2)*v[2] + t.At(3, 3)
		if w == 0 {
			return fmt.Errorf("transform is degenerate at point %d", i)
		}
		var out [3]float64
		for d := 0; d < 3; d++ {
			out[d] = (t.At(d, 0)*v[0] + t.At(d, 1)*v[1] + t.At(d, 2)*v[2] + t.At(d, 3)) / w
		}
		m.Vertices[i] = out
	}
	return nil
}
