// Package dic emulates the discretisation and spatial-averaging behaviour of
// a Digital Image Correlation system on finite-element output: resampling
// onto a camera-like regular grid, and a windowed local-polynomial filter
// that turns displacement fields into strain fields.
package dic

import (
	"fmt"

	"github.com/strainlab/godic/mesh"
)

// Windows maps each mesh point to its fitting window: the point itself
// followed by every point within (windowSize-1)/2 connectivity hops, in
// level order. It is a function of topology only and is reused across every
// time step of a series.
type Windows [][]int

// BuildWindows computes the fitting window of every point of the mesh.
// windowSize must be odd and at least 3; the bilinear fit needs 4 points, so
// smaller windows cannot be differentiated. On a regular quad mesh each
// interior point gets exactly windowSize^2 window entries; boundary points
// get fewer, and the gradient estimator reports NaN for those.
func BuildWindows(m *mesh.Mesh, windowSize int) (Windows, error) {
	if windowSize < 3 {
		return nil, fmt.Errorf("window size must be >= 3, got %d", windowSize)
	}
	if windowSize%2 == 0 {
		return nil, fmt.Errorf("window size must be odd, got %d", windowSize)
	}

	levels := (windowSize - 1) / 2
	n := m.NumPoints()
	w := make(Windows, n)
	for p := 0; p < n; p++ {
		neighbours, err := m.PointNeighborsLevels(p, levels)
		if err != nil {
			return nil, err
		}
		window := make([]int, 0, windowSize*windowSize)
		window = append(window, p)
		for _, level := range neighbours {
			window = append(window, level...)
		}
		w[p] = window
	}
	return w, nil
}
