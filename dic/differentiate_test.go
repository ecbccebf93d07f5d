package dic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strainlab/godic/mesh"
	"github.com/strainlab/godic/series"
)

// newUniformStrainSeries builds a series of 5x5 unit-spaced snapshots with
// disp_x = 0.01x and disp_y = 0.01y, a uniform 1% biaxial stretch.
func newUniformStrainSeries(t *testing.T, steps int) *series.Series {
	t.Helper()
	snaps := make([]*mesh.Mesh, steps)
	index := make([]int, steps)
	time := make([]float64, steps)
	load := make([]float64, steps)
	for i := range snaps {
		m := newRegularQuadMesh(t, 5, 5, 1.0)
		u := make([]float64, m.NumPoints())
		v := make([]float64, m.NumPoints())
		for p, vert := range m.Vertices {
			u[p] = 0.01 * vert[0]
			v[p] = 0.01 * vert[1]
		}
		require.NoError(t, m.SetField(FieldDispX, u))
		require.NoError(t, m.SetField(FieldDispY, v))
		snaps[i] = m
		index[i] = i
		time[i] = float64(i)
		load[i] = 10 * float64(i)
	}
	s, err := series.NewSeries(snaps, index, time, load, nil)
	require.NoError(t, err)
	return s
}

func TestDifferentiateUniformStrain(t *testing.T) {
	s := newUniformStrainSeries(t, 2)
	require.NoError(t, Differentiate(s, NewDefaultConfig()))

	// ln(sqrt(1 + 2*0.01 + 0.01^2)) for both normal components
	want := math.Log(math.Sqrt(1.0201))

	for step, snap := range s.Snapshots {
		exx, err := snap.Field(FieldExx)
		require.NoError(t, err)
		eyy, err := snap.Field(FieldEyy)
		require.NoError(t, err)
		exy, err := snap.Field(FieldExy)
		require.NoError(t, err)

		// Point 12 is the only point of a 5x5 mesh with a complete 5x5 window
		assert.InDelta(t, want, exx[12], 1e-9, "step %d", step)
		assert.InDelta(t, want, eyy[12], 1e-9, "step %d", step)
		assert.InDelta(t, 0.0, exy[12], 1e-9, "step %d", step)

		// Boundary points have short windows and must come out NaN
		assert.True(t, math.IsNaN(exx[0]), "step %d", step)
		assert.True(t, math.IsNaN(eyy[0]), "step %d", step)
		assert.True(t, math.IsNaN(exy[0]), "step %d", step)
	}
}

func TestDifferentiateDataRangeLast(t *testing.T) {
	s := newUniformStrainSeries(t, 3)
	cfg := NewDefaultConfig()
	cfg.DataRange = DataRangeLast
	require.NoError(t, Differentiate(s, cfg))

	assert.False(t, s.Snapshots[0].HasField(FieldExx))
	assert.False(t, s.Snapshots[1].HasField(FieldExx))
	assert.True(t, s.Snapshots[2].HasField(FieldExx))
}

func TestDifferentiateUnknownDataRange(t *testing.T) {
	s := newUniformStrainSeries(t, 2)
	cfg := NewDefaultConfig()
	cfg.DataRange = "banana"
	require.NoError(t, Differentiate(s, cfg))

	// Nothing computed, but metadata is still stamped
	assert.False(t, s.Snapshots[0].HasField(FieldExx))
	assert.False(t, s.Snapshots[1].HasField(FieldExx))
	assert.Equal(t, "banana", s.Metadata[series.MetaDataRange])
	assert.Equal(t, true, s.Metadata[series.MetaDICFilter])
}

func TestDifferentiateMetadataIdempotent(t *testing.T) {
	s := newUniformStrainSeries(t, 1)
	cfg := NewDefaultConfig()
	require.NoError(t, Differentiate(s, cfg))
	once := s.CloneMetadata()

	require.NoError(t, Differentiate(s, cfg))
	assert.Equal(t, once, s.Metadata)
}

func TestDifferentiateMissingField(t *testing.T) {
	s := newUniformStrainSeries(t, 2)
	delete(s.Snapshots[1].PointData, FieldDispX)

	err := Differentiate(s, NewDefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), FieldDispX)

	// The failing snapshot must not carry partial strain output
	assert.False(t, s.Snapshots[1].HasField(FieldExx))
}

func TestDifferentiateWindowValidation(t *testing.T) {
	s := newUniformStrainSeries(t, 1)
	cfg := NewDefaultConfig()
	cfg.WindowSize = 4
	assert.Error(t, Differentiate(s, cfg))
}

func TestDifferentiateEmptySeries(t *testing.T) {
	s, err := series.NewSeries(nil, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Error(t, Differentiate(s, NewDefaultConfig()))
}

// equalOrBothNaN compares strain fields where NaN marks boundary points.
func equalOrBothNaN(t *testing.T, want, got []float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "index %d", i)
		} else {
			assert.Equal(t, want[i], got[i], "index %d", i)
		}
	}
}

func TestDifferentiateParallelMatchesSequential(t *testing.T) {
	seq := newUniformStrainSeries(t, 2)
	par := newUniformStrainSeries(t, 2)

	require.NoError(t, Differentiate(seq, NewDefaultConfig()))

	cfg := NewDefaultConfig()
	cfg.Workers = 4
	require.NoError(t, Differentiate(par, cfg))

	for step := range seq.Snapshots {
		for _, name := range []string{FieldExx, FieldEyy, FieldExy} {
			want, err := seq.Snapshots[step].Field(name)
			require.NoError(t, err)
			got, err := par.Snapshots[step].Field(name)
			require.NoError(t, err)
			equalOrBothNaN(t, want, got)
		}
	}
}
