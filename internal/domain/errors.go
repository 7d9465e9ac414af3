package domain

import "errors"

var (
	// ErrUnknownSelector is returned for a variable key outside the fixed tab table.
	ErrUnknownSelector = errors.New("unknown selector")

	// ErrInsufficientData is returned when fewer than MinKrigingSamples stations
	// have a value at the requested depth.
	ErrInsufficientData = errors.New("insufficient data for interpolation")

	// ErrDegenerateGrid is returned when the bounding box or step yields no grid points.
	ErrDegenerateGrid = errors.New("no grid")

	// ErrInterpolationFailed is returned when the variogram fit or the kriging
	// system cannot be solved.
	ErrInterpolationFailed = errors.New("interpolation failed")

	// ErrUnknownStation is returned for a station id not present in the dataset.
	ErrUnknownStation = errors.New("unknown station")
)

// MinKrigingSamples is the fewest stations an ordinary kriging fit accepts.
const MinKrigingSamples = 3
