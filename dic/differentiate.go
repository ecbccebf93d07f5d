package dic

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/strainlab/godic/mesh"
	"github.com/strainlab/godic/series"
)

// Input displacement fields and output strain fields of the differentiator.
const (
	FieldDispX = "disp_x"
	FieldDispY = "disp_y"
	FieldExx   = "exx"
	FieldEyy   = "eyy"
	FieldExy   = "exy"
)

// DataRange values accepted by Differentiate. Any other value computes
// nothing but still stamps the container metadata, matching the behaviour
// callers rely on for provenance.
const (
	DataRangeAll  = "all"
	DataRangeLast = "last"
)

// Config controls the window differentiator.
type Config struct {
	// WindowSize is the odd subset size of the emulated DIC filter.
	WindowSize int
	// DataRange selects which snapshots to process: DataRangeAll or
	// DataRangeLast.
	DataRange string
	// Workers > 1 fits window gradients on a worker pool; each point writes
	// a disjoint output slot, so results match the sequential path exactly.
	Workers int
	// Logger receives fit warnings and progress; nil means no logging.
	Logger *zap.SugaredLogger
}

// NewDefaultConfig returns the standard DIC filter configuration: 5x5
// subset, every time step, sequential execution.
func NewDefaultConfig() Config {
	return Config{
		WindowSize: 5,
		DataRange:  DataRangeAll,
		Workers:    1,
	}
}

// Differentiate runs the windowed DIC differentiation filter over a series:
// for every selected snapshot it fits a bilinear displacement model over
// each point's window, evaluates the displacement gradient, converts it to
// Euler-Almansi strain and writes exx/eyy/exy fields onto the snapshot in
// place. Container metadata is stamped with dic_filter, window_size and
// data_range regardless of whether any snapshot was processed.
//
// The fitting windows are built once from the first snapshot's topology.
// Connectivity must not change across the series; this is a precondition on
// the caller, not validated per step.
//
// Snapshots missing the disp_x/disp_y fields abort the operation with an
// error. Boundary points with incomplete windows get NaN strain values.
func Differentiate(s *series.Series, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if s.NumSteps() == 0 {
		return fmt.Errorf("series has no snapshots")
	}

	windows, err := BuildWindows(s.Snapshots[0], cfg.WindowSize)
	if err != nil {
		return err
	}

	s.Metadata[series.MetaDICFilter] = true
	s.Metadata[series.MetaWindowSize] = cfg.WindowSize
	s.Metadata[series.MetaDataRange] = cfg.DataRange

	switch cfg.DataRange {
	case DataRangeAll:
		for i, snap := range s.Snapshots {
			if err := differentiateMesh(snap, windows, cfg, logger); err != nil {
				return fmt.Errorf("snapshot %d: %w", i, err)
			}
			logger.Debugw("snapshot differentiated", "step", i, "points", snap.NumPoints())
		}
	case DataRangeLast:
		last := s.NumSteps() - 1
		if err := differentiateMesh(s.Snapshots[last], windows, cfg, logger); err != nil {
			return fmt.Errorf("snapshot %d: %w", last, err)
		}
		logger.Debugw("snapshot differentiated", "step", last)
	default:
		logger.Warnw("unknown data range, no snapshots differentiated", "data_range", cfg.DataRange)
	}
	return nil
}

// differentiateMesh computes the strain fields of one snapshot. The strain
// fields are only written once every point has been fit, so a failure leaves
// the snapshot untouched.
func differentiateMesh(m *mesh.Mesh, windows Windows, cfg Config, logger *zap.SugaredLogger) error {
	u, err := m.Field(FieldDispX)
	if err != nil {
		return err
	}
	v, err := m.Field(FieldDispY)
	if err != nil {
		return err
	}

	n := m.NumPoints()
	if len(windows) != n {
		return fmt.Errorf("windows built for %d points, snapshot has %d", len(windows), n)
	}

	dudx := make([]float64, n)
	dudy := make([]float64, n)
	dvdx := make([]float64, n)
	dvdy := make([]float64, n)
	minPoints := cfg.WindowSize * cfg.WindowSize

	fitPoint := func(p int) {
		window := windows[p]
		xs := make([]float64, len(window))
		ys := make([]float64, len(window))
		us := make([]float64, len(window))
		vs := make([]float64, len(window))
		for k, q := range window {
			xs[k] = m.Vertices[q][0]
			ys[k] = m.Vertices[q][1]
			us[k] = u[q]
			vs[k] = v[q]
		}
		dudx[p], dudy[p] = gradientAt(xs, ys, us, minPoints, logger)
		dvdx[p], dvdy[p] = gradientAt(xs, ys, vs, minPoints, logger)
	}

	if cfg.Workers > 1 {
		pool, err := ants.NewPool(cfg.Workers)
		if err != nil {
			return fmt.Errorf("creating worker pool: %w", err)
		}
		defer pool.Release()

		var wg sync.WaitGroup
		for p := 0; p < n; p++ {
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				fitPoint(p)
			}); err != nil {
				wg.Done()
				wg.Wait()
				return fmt.Errorf("submitting point %d: %w", p, err)
			}
		}
		wg.Wait()
	} else {
		for p := 0; p < n; p++ {
			fitPoint(p)
		}
	}

	exx, eyy, exy := eulerAlmansiFields(dudx, dudy, dvdx, dvdy)
	if err := m.SetField(FieldExx, exx); err != nil {
		return err
	}
	if err := m.SetField(FieldEyy, eyy); err != nil {
		return err
	}
	return m.SetField(FieldExy, exy)
}
