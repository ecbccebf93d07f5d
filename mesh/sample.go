package mesh

import (
	"math"
)

// ValidPointMask is the field written by Sample: 1 where the target point
// lies inside the source mesh domain, 0 where it does not.
const ValidPointMask = "ValidPointMask"

// Containment tolerance for barycentric coordinates, so that target points
// sitting exactly on a source cell edge are still counted as inside.
const insideTol = 1e-9

// cellLocator answers point-in-which-cell queries against a source mesh by
// binning cell bounding boxes on a uniform grid over the mesh extent.
type cellLocator struct {
	src        *Mesh
	xmin, ymin float64
	invDx      float64
	invDy      float64
	nbx, nby   int
	bins       [][]int
}

func newCellLocator(src *Mesh) *cellLocator {
	b := src.Bounds()
	// Roughly one cell per bin on a square layout
	nb := int(math.Sqrt(float64(src.NumCells())))
	if nb < 1 {
		nb = 1
	}
	loc := &cellLocator{
		src:  src,
		xmin: b[0],
		ymin: b[2],
		nbx:  nb,
		nby:  nb,
		bins: make([][]int, nb*nb),
	}
	ext := func(lo, hi float64) float64 {
		if hi > lo {
			return hi - lo
		}
		return 1
	}
	loc.invDx = float64(nb) / ext(b[0], b[1])
	loc.invDy = float64(nb) / ext(b[2], b[3])

	for c := range src.EToV {
		cxmin, cxmax, cymin, cymax := loc.cellBox(c)
		i0, j0 := loc.binOf(cxmin, cymin)
		i1, j1 := loc.binOf(cxmax, cymax)
		for j := j0; j <= j1; j++ {
			for i := i0; i <= i1; i++ {
				loc.bins[j*loc.nbx+i] = append(loc.bins[j*loc.nbx+i], c)
			}
		}
	}
	return loc
}

func (loc *cellLocator) cellBox(c int) (xmin, xmax, ymin, ymax float64) {
	cell := loc.src.EToV[c]
	v := loc.src.Vertices[cell[0]]
	xmin, xmax, ymin, ymax = v[0], v[0], v[1], v[1]
	for _, p := range cell[1:] {
		v = loc.src.Vertices[p]
		xmin = math.Min(xmin, v[0])
		xmax = math.Max(xmax, v[0])
		ymin = math.Min(ymin, v[1])
		ymax = math.Max(ymax, v[1])
	}
	return
}

func (loc *cellLocator) binOf(x, y float64) (i, j int) {
	i = int((x - loc.xmin) * loc.invDx)
	j = int((y - loc.ymin) * loc.invDy)
	if i < 0 {
		i = 0
	}
	if i >= loc.nbx {
		i = loc.nbx - 1
	}
	if j < 0 {
		j = 0
	}
	if j >= loc.nby {
		j = loc.nby - 1
	}
	return
}

// locate finds a source cell containing (x, y) in the xy-plane and returns
// the three vertex indices and barycentric weights to interpolate with.
// found is false when the point is outside the source domain.
func (loc *cellLocator) locate(x, y float64) (tri [3]int, w [3]float64, found bool) {
	i, j := loc.binOf(x, y)
	for _, c := range loc.bins[j*loc.nbx+i] {
		cell := loc.src.EToV[c]
		// Quads are split into two triangles sharing the 0-2 diagonal
		if tri, w, found = loc.inTriangle(cell[0], cell[1], cell[2], x, y); found {
			return
		}
		if len(cell) == 4 {
			if tri, w, found = loc.inTriangle(cell[0], cell[2], cell[3], x, y); found {
				return
			}
		}
	}
	return
}

func (loc *cellLocator) inTriangle(a, b, c int, x, y float64) (tri [3]int, w [3]float64, found bool) {
	va, vb, vc := loc.src.Vertices[a], loc.src.Vertices[b], loc.src.Vertices[c]
	det := (vb[1]-vc[1])*(va[0]-vc[0]) + (vc[0]-vb[0])*(va[1]-vc[1])
	if det == 0 {
		return
	}
	w0 := ((vb[1]-vc[1])*(x-vc[0]) + (vc[0]-vb[0])*(y-vc[1])) / det
	w1 := ((vc[1]-va[1])*(x-vc[0]) + (va[0]-vc[0])*(y-vc[1])) / det
	w2 := 1 - w0 - w1
	if w0 < -insideTol || w1 < -insideTol || w2 < -insideTol {
		return
	}
	return [3]int{a, b, c}, [3]float64{w0, w1, w2}, true
}

// Sample resamples every point field of src onto the points of m and returns
// a new mesh holding the interpolated fields plus a ValidPointMask field
// marking which points fell inside the source domain. The receiver and the
// source are not modified. Interpolation is barycentric on the source cells
// projected to the xy-plane, matching the planar sampling a DIC system
// performs on a thin specimen.
func (m *Mesh) Sample(src *Mesh) (*Mesh, error) {
	vertices := make([][3]float64, len(m.Vertices))
	copy(vertices, m.Vertices)
	out, err := NewMesh(vertices, m.EToV)
	if err != nil {
		return nil, err
	}

	names := src.FieldNames()
	n := out.NumPoints()
	fields := make(map[string][]float64, len(names)+1)
	for _, name := range names {
		fields[name] = make([]float64, n)
	}
	mask := make([]float64, n)

	loc := newCellLocator(src)
	for p := 0; p < n; p++ {
		tri, w, found := loc.locate(out.Vertices[p][0], out.Vertices[p][1])
		if !found {
			continue
		}
		mask[p] = 1
		for _, name := range names {
			f := src.PointData[name]
			fields[name][p] = w[0]*f[tri[0]] + w[1]*f[tri[1]] + w[2]*f[tri[2]]
		}
	}

	for name, data := range fields {
		if err := out.SetField(name, data); err != nil {
			return nil, err
		}
	}
	if err := out.SetField(ValidPointMask, mask); err != nil {
		return nil, err
	}
	return out, nil
}
