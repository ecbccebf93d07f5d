package dic

import "math"

// EulerAlmansi converts the four in-plane displacement-gradient components
// at a point into the planar logarithmic Euler-Almansi strain components:
//
//	exx = ln(sqrt(1 + 2*dudx + dudx^2 + dudy^2))
//	eyy = ln(sqrt(1 + 2*dvdy + dvdx^2 + dvdy^2))
//	exy = dvdx*(1 + dudx) + dudy*(1 + dvdy)
//
// NaN gradients propagate to NaN strains.
func EulerAlmansi(dudx, dudy, dvdx, dvdy float64) (exx, eyy, exy float64) {
	exx = math.Log(math.Sqrt(1 + 2*dudx + dudx*dudx + dudy*dudy))
	eyy = math.Log(math.Sqrt(1 + 2*dvdy + dvdx*dvdx + dvdy*dvdy))
	exy = dvdx*(1+dudx) + dudy*(1+dvdy)
	return exx, eyy, exy
}

// eulerAlmansiFields applies EulerAlmansi pointwise across whole gradient
// fields. The four inputs must have equal length.
func eulerAlmansiFields(dudx, dudy, dvdx, dvdy []float64) (exx, eyy, exy []float64) {
	n := len(dudx)
	exx = make([]float64, n)
	eyy = make([]float64, n)
	exy = make([]float64, n)
	for i := 0; i < n; i++ {
		exx[i], eyy[i], exy[i] = EulerAlmansi(dudx[i], dudy[i], dvdx[i], dvdy[i])
	}
	return exx, eyy, exy
}
