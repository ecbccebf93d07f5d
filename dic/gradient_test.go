package dic

import (
	"math"
	"testing"

	"github.com/notargets/gocfd/utils"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// windowCoords lays out the points of a complete size x size window on a
// unit-spaced grid centred on the origin.
func windowCoords(size int) (xs, ys []float64) {
	half := (size - 1) / 2
	for j := -half; j <= half; j++ {
		for i := -half; i <= half; i++ {
			xs = append(xs, float64(i))
			ys = append(ys, float64(j))
		}
	}
	return xs, ys
}

func TestGradientBilinearExact(t *testing.T) {
	logger := zap.NewNop().Sugar()

	// f(x,y) = 2 + 3x - y + 0.5xy lies exactly in the fit basis, so the
	// estimator must recover its derivatives at the centre sample:
	// df/dx = 3 + 0.5y, df/dy = -1 + 0.5x.
	for _, size := range []int{3, 5, 7} {
		xs, ys := windowCoords(size)
		n := len(xs)
		xv := utils.NewVector(n, xs)
		yv := utils.NewVector(n, ys)

		samples := make([]float64, n)
		for i := 0; i < n; i++ {
			samples[i] = 2 + 3*xv.At(i) - yv.At(i) + 0.5*xv.At(i)*yv.At(i)
		}

		ddx, ddy := gradientAt(xs, ys, samples, size*size, logger)

		centre := int(math.Round(float64(n) / 2))
		wantDx := 3 + 0.5*ys[centre]
		wantDy := -1 + 0.5*xs[centre]
		assert.InDelta(t, wantDx, ddx, 1e-10, "size %d", size)
		assert.InDelta(t, wantDy, ddy, 1e-10, "size %d", size)
	}
}

func TestGradientInsufficientWindow(t *testing.T) {
	logger := zap.NewNop().Sugar()
	xs, ys := windowCoords(3)

	samples := make([]float64, len(xs))
	ddx, ddy := gradientAt(xs, ys, samples, 25, logger)
	assert.True(t, math.IsNaN(ddx))
	assert.True(t, math.IsNaN(ddy))
}

func TestGradientMinimumPoints(t *testing.T) {
	logger := zap.NewNop().Sugar()

	// Four non-collinear points determine the bilinear model exactly
	xs := []float64{0, 1, 0, 1}
	ys := []float64{0, 0, 1, 1}
	samples := make([]float64, 4)
	for i := range samples {
		samples[i] = 1 + 2*xs[i] + 3*ys[i]
	}
	ddx, ddy := gradientAt(xs, ys, samples, 4, logger)
	assert.InDelta(t, 2.0, ddx, 1e-10)
	assert.InDelta(t, 3.0, ddy, 1e-10)
}
