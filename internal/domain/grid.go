package domain

import (
	"fmt"
	"math"
)

// DefaultGridStep is the grid spacing in degrees.
const DefaultGridStep = 0.01

// Grid is a regular lon/lat mesh over the study area. Rows follow the latitude
// line (south to north) and columns the longitude line (west to east).
// A Grid is immutable once built and safe to share between goroutines.
type Grid struct {
	northwest Coordinate
	southeast Coordinate
	step      float64
	lonLine   []float64
	latLine   []float64
}

// BuildGrid derives the grid spanning the box with the given northwest and
// southeast corners. Each axis holds round(|Δ|/step) evenly spaced values with
// both corners included. A box that yields no points on either axis fails with
// ErrDegenerateGrid.
func BuildGrid(northwest, southeast Coordinate, step float64) (Grid, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return Grid{}, fmt.Errorf("%w: step %g", ErrDegenerateGrid, step)
	}

	nLon := axisCount(northwest.Lon, southeast.Lon, step)
	nLat := axisCount(northwest.Lat, southeast.Lat, step)
	if nLon == 0 || nLat == 0 {
		return Grid{}, fmt.Errorf("%w: %d x %d points for step %g", ErrDegenerateGrid, nLat, nLon, step)
	}

	return Grid{
		northwest: northwest,
		southeast: southeast,
		step:      step,
		lonLine:   linspace(northwest.Lon, southeast.Lon, nLon),
		latLine:   linspace(southeast.Lat, northwest.Lat, nLat),
	}, nil
}

func axisCount(a, b, step float64) int {
	n := math.Round(math.Abs(a-b) / step)
	if math.IsNaN(n) || n < 0 {
		return 0
	}
	return int(n)
}

// linspace returns n values from start to stop inclusive. n == 1 yields [start].
func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	delta := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*delta
	}
	out[n-1] = stop
	return out
}

// LonLine returns a copy of the longitude axis, west to east.
func (g Grid) LonLine() []float64 { return append([]float64(nil), g.lonLine...) }

// LatLine returns a copy of the latitude axis, south to north.
func (g Grid) LatLine() []float64 { return append([]float64(nil), g.latLine...) }

// Rows is the number of latitude values.
func (g Grid) Rows() int { return len(g.latLine) }

// Cols is the number of longitude values.
func (g Grid) Cols() int { return len(g.lonLine) }

// Size is the total number of grid points.
func (g Grid) Size() int { return g.Rows() * g.Cols() }

// Empty reports whether the grid has no points, e.g. the zero Grid.
func (g Grid) Empty() bool { return g.Size() == 0 }

// Point returns the coordinate at row i (latitude) and column j (longitude).
func (g Grid) Point(i, j int) Coordinate {
	return Coordinate{Lon: g.lonLine[j], Lat: g.latLine[i]}
}

// Step returns the configured spacing in degrees.
func (g Grid) Step() float64 { return g.step }

// Corners returns the northwest and southeast corners the grid was built from.
func (g Grid) Corners() (northwest, southeast Coordinate) {
	return g.northwest, g.southeast
}

// Mesh expands the axes into row-major lon and lat matrices, as a surface
// renderer expects them.
func (g Grid) Mesh() (lons, lats [][]float64) {
	lons = make([][]float64, g.Rows())
	lats = make([][]float64, g.Rows())
	for i := range lons {
		lons[i] = g.LonLine()
		lats[i] = make([]float64, g.Cols())
		for j := range lats[i] {
			lats[i][j] = g.latLine[i]
		}
	}
	return lons, lats
}
