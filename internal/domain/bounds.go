package domain

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// BoundsPolicy selects which values feed the colour-scale bounds of a surface.
type BoundsPolicy string

const (
	// BoundsFromDepth uses the station values at the requested depth.
	BoundsFromDepth BoundsPolicy = "depth"
	// BoundsFromDataset uses every value of the variable across all depths.
	BoundsFromDataset BoundsPolicy = "dataset"
)

// ParseBoundsPolicy validates a policy name.
func ParseBoundsPolicy(s string) (BoundsPolicy, error) {
	switch p := BoundsPolicy(s); p {
	case BoundsFromDepth, BoundsFromDataset:
		return p, nil
	default:
		return "", fmt.Errorf("invalid bounds policy %q (allowed: depth, dataset)", s)
	}
}

// Bounds is a display range for a colour scale.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DisplayBounds returns mean ± 2 sample standard deviations of values.
// A single value collapses to [v, v]; no values yield the zero Bounds.
func DisplayBounds(values []float64) Bounds {
	switch len(values) {
	case 0:
		return Bounds{}
	case 1:
		return Bounds{Min: values[0], Max: values[0]}
	}
	mean, std := stat.MeanStdDev(values, nil)
	return Bounds{Min: mean - 2*std, Max: mean + 2*std}
}
