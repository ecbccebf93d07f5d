package dic

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Terms of the bilinear model f(x,y) = a + b*x + c*y + d*x*y
const fitTerms = 4

// gradientAt estimates the in-plane partial derivatives of a scalar field at
// the centre of a fitting window. The window samples are fit with the
// bilinear model by least squares and the derivatives are evaluated at the
// window point with index round(N/2):
//
//	df/dx = b + d*yc,  df/dy = c + d*xc
//
// Windows with fewer than minPoints samples cannot support the fit and
// return (NaN, NaN), which downstream strain computation propagates.
// Rank-deficient windows are not guarded: gonum reports ill-conditioning
// through the solve error, which is surfaced as a warning while the solution
// values are kept as-is.
func gradientAt(xs, ys, samples []float64, minPoints int, logger *zap.SugaredLogger) (ddx, ddy float64) {
	n := len(samples)
	if n < minPoints {
		return math.NaN(), math.NaN()
	}

	basis := mat.NewDense(n, fitTerms, nil)
	for i := 0; i < n; i++ {
		basis.Set(i, 0, 1)
		basis.Set(i, 1, xs[i])
		basis.Set(i, 2, ys[i])
		basis.Set(i, 3, xs[i]*ys[i])
	}
	rhs := mat.NewVecDense(n, samples)

	var coeffs mat.VecDense
	if err := coeffs.SolveVec(basis, rhs); err != nil {
		logger.Warnw("ill-conditioned window fit", "points", n, "error", err)
	}
	if coeffs.Len() != fitTerms {
		// Solve failed outright, e.g. an exactly singular basis
		return math.NaN(), math.NaN()
	}

	centre := int(math.Round(float64(n) / 2))
	if centre >= n {
		centre = n - 1
	}
	xc, yc := xs[centre], ys[centre]

	ddx = coeffs.AtVec(1) + coeffs.AtVec(3)*yc
	ddy = coeffs.AtVec(2) + coeffs.AtVec(3)*xc
	return ddx, ddy
}
