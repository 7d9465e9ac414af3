// Package dataset loads the CTD-O profile table and answers the read-only
// queries the dashboard and the kriging engine need.
package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
)

// coordinateTolerance is how far a station's position may drift between depths.
const coordinateTolerance = 1e-6

// Dataset is the immutable set of station readings. All methods are safe for
// concurrent use.
type Dataset struct {
	readings  []domain.StationReading
	stations  []domain.Station
	byStation map[string][]int // reading indexes in file order
	depths    []float64
}

// New validates readings and indexes them. Each (station, depth) pair must be
// unique and every station must keep the same coordinates across depths.
func New(readings []domain.StationReading) (*Dataset, error) {
	d := &Dataset{
		readings:  make([]domain.StationReading, len(readings)),
		byStation: make(map[string][]int),
	}

	seen := make(map[string]map[float64]bool)
	depthSet := make(map[float64]bool)
	stationIdx := make(map[string]int)

	for i, r := range readings {
		d.readings[i] = cloneReading(r)

		if r.Station == "" {
			return nil, fmt.Errorf("reading %d: empty station id", i)
		}
		if seen[r.Station] == nil {
			seen[r.Station] = make(map[float64]bool)
		}
		if seen[r.Station][r.Depth] {
			return nil, fmt.Errorf("duplicate reading for station %s at depth %g", r.Station, r.Depth)
		}
		seen[r.Station][r.Depth] = true

		if idx, ok := stationIdx[r.Station]; ok {
			s := &d.stations[idx]
			if math.Abs(s.Lon-r.Lon) > coordinateTolerance || math.Abs(s.Lat-r.Lat) > coordinateTolerance {
				return nil, fmt.Errorf("station %s moves from (%g, %g) to (%g, %g) at depth %g",
					r.Station, s.Lon, s.Lat, r.Lon, r.Lat, r.Depth)
			}
			s.Depths++
		} else {
			stationIdx[r.Station] = len(d.stations)
			d.stations = append(d.stations, domain.Station{ID: r.Station, Lon: r.Lon, Lat: r.Lat, Depths: 1})
		}

		d.byStation[r.Station] = append(d.byStation[r.Station], i)
		if !depthSet[r.Depth] {
			depthSet[r.Depth] = true
			d.depths = append(d.depths, r.Depth)
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(d.depths)))
	return d, nil
}

func cloneReading(r domain.StationReading) domain.StationReading {
	values := make(map[domain.Field]float64, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	r.Values = values
	return r
}

// Len is the number of readings.
func (d *Dataset) Len() int { return len(d.readings) }

// Stations lists every station in first-seen order.
func (d *Dataset) Stations() []domain.Station {
	return append([]domain.Station(nil), d.stations...)
}

// Depths lists the distinct sampled depths, surface first.
func (d *Dataset) Depths() []float64 {
	return append([]float64(nil), d.depths...)
}

// Samples returns the value of field at every station sampled at exactly depth.
func (d *Dataset) Samples(depth float64, field domain.Field) []domain.Sample {
	var out []domain.Sample
	for _, st := range d.stations {
		for _, i := range d.byStation[st.ID] {
			r := d.readings[i]
			if r.Depth != depth {
				continue
			}
			if v, ok := r.Value(field); ok {
				out = append(out, domain.Sample{Station: r.Station, Lon: r.Lon, Lat: r.Lat, Value: v})
			}
		}
	}
	return out
}

// Profile returns the station's measured values of field at depths >= minDepth,
// surface first. Pass math.Inf(-1) for the full cast.
func (d *Dataset) Profile(station string, field domain.Field, minDepth float64) ([]domain.ProfilePoint, error) {
	idx, ok := d.byStation[station]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStation, station)
	}

	points := make([]domain.ProfilePoint, 0, len(idx))
	for _, i := range idx {
		r := d.readings[i]
		if r.Depth < minDepth {
			continue
		}
		if v, ok := r.Value(field); ok {
			points = append(points, domain.ProfilePoint{Depth: r.Depth, Value: v})
		}
	}
	sort.SliceStable(points, func(a, b int) bool { return points[a].Depth > points[b].Depth })
	return points, nil
}

// Values returns every measured value of field across the dataset.
func (d *Dataset) Values(field domain.Field) []float64 {
	var out []float64
	for _, r := range d.readings {
		if v, ok := r.Value(field); ok {
			out = append(out, v)
		}
	}
	return out
}

// Range returns the minimum and maximum of field across the dataset. ok is
// false when the field was never measured.
func (d *Dataset) Range(field domain.Field) (lo, hi float64, ok bool) {
	values := d.Values(field)
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, true
}

// StationMean averages field over every depth of one station. ok is false when
// the station never measured field.
func (d *Dataset) StationMean(station string, field domain.Field) (mean float64, ok bool, err error) {
	points, err := d.Profile(station, field, math.Inf(-1))
	if err != nil {
		return 0, false, err
	}
	if len(points) == 0 {
		return 0, false, nil
	}
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points)), true, nil
}
