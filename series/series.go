// Package series holds an ordered sequence of mesh snapshots together with
// the index, time and load history of the simulation and a small open
// metadata map recording how the data has been processed.
package series

import (
	"fmt"
	"sort"
	"strings"

	"github.com/strainlab/godic/mesh"
)

// Provenance keys stamped by the processing pipeline. The metadata map stays
// open for caller-defined keys; these are the ones the pipeline itself reads
// and writes.
const (
	MetaInterpolated      = "interpolated"
	MetaInterpolationType = "interpolation_type"
	MetaGridSpacing       = "grid_spacing"
	MetaDICFilter         = "dic_filter"
	MetaWindowSize        = "window_size"
	MetaDataRange         = "data_range"
)

// Series is a time-ordered collection of mesh snapshots. Index, Time and
// Load run parallel to Snapshots, one entry per snapshot.
type Series struct {
	Snapshots []*mesh.Mesh
	Index     []int
	Time      []float64
	Load      []float64
	Metadata  map[string]any
}

// NewSeries creates a Series and enforces the length invariant between the
// snapshot list and the index/time/load arrays. A nil metadata map is
// replaced with an empty one.
func NewSeries(snapshots []*mesh.Mesh, index []int, time, load []float64, metadata map[string]any) (*Series, error) {
	n := len(snapshots)
	if len(index) != n || len(time) != n || len(load) != n {
		return nil, fmt.Errorf("length mismatch: %d snapshots, %d index, %d time, %d load",
			n, len(index), len(time), len(load))
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &Series{
		Snapshots: snapshots,
		Index:     index,
		Time:      time,
		Load:      load,
		Metadata:  metadata,
	}, nil
}

// NumSteps returns the number of snapshots in the series.
func (s *Series) NumSteps() int {
	return len(s.Snapshots)
}

// Times returns the time values of the series.
func (s *Series) Times() []float64 {
	return s.Time
}

// AddMetadata sets a single metadata item.
func (s *Series) AddMetadata(key string, value any) {
	s.Metadata[key] = value
}

// AddMetadataBulk merges all entries of the given map into the metadata.
func (s *Series) AddMetadataBulk(items map[string]any) {
	for k, v := range items {
		s.Metadata[k] = v
	}
}

// CloneMetadata returns a shallow copy of the metadata map, so that derived
// series can stamp their own provenance without touching the original.
func (s *Series) CloneMetadata() map[string]any {
	out := make(map[string]any, len(s.Metadata))
	for k, v := range s.Metadata {
		out[k] = v
	}
	return out
}

// String summarises the series: snapshot count and metadata, keys sorted for
// stable output.
func (s *Series) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("series with %d snapshots\n", len(s.Snapshots)))
	keys := make([]string, 0, len(s.Metadata))
	for k := range s.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %s = %v\n", k, s.Metadata[k]))
	}
	return sb.String()
}
