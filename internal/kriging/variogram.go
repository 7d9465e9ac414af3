// Package kriging implements ordinary kriging with a linear variogram over
// planar lon/lat coordinates.
package kriging

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
)

// DefaultLags is the number of distance bins of the experimental variogram.
const DefaultLags = 6

// lagEdgePadding widens the last bin so the largest pair distance falls inside it.
const lagEdgePadding = 0.001

const (
	maxFitIterations = 50
	fitTolerance     = 1e-12
)

// Point is a located observation.
type Point struct {
	X, Y, Z float64
}

// Lag is one bin of the experimental variogram.
type Lag struct {
	Distance     float64 `json:"distance"`
	Semivariance float64 `json:"semivariance"`
	Pairs        int     `json:"pairs"`
}

// LinearVariogram is γ(h) = Slope·h + Nugget with both parameters non-negative.
type LinearVariogram struct {
	Slope  float64 `json:"slope"`
	Nugget float64 `json:"nugget"`
}

// At evaluates the variogram at lag distance h.
func (v LinearVariogram) At(h float64) float64 {
	return v.Slope*h + v.Nugget
}

// ExperimentalVariogram bins the semivariance ½(zᵢ−zⱼ)² of every point pair by
// distance into nlags equal-width bins between the closest and farthest pair.
// Each non-empty bin reports its mean distance and mean semivariance.
func ExperimentalVariogram(points []Point, nlags int) []Lag {
	if nlags <= 0 {
		nlags = DefaultLags
	}
	n := len(points)
	if n < 2 {
		return nil
	}

	dists := make([]float64, 0, n*(n-1)/2)
	semis := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dists = append(dists, distance(points[i], points[j]))
			dz := points[i].Z - points[j].Z
			semis = append(semis, 0.5*dz*dz)
		}
	}

	dmin, dmax := dists[0], dists[0]
	for _, d := range dists[1:] {
		dmin = math.Min(dmin, d)
		dmax = math.Max(dmax, d)
	}

	width := (dmax - dmin) / float64(nlags)
	edges := make([]float64, nlags+1)
	for k := 0; k < nlags; k++ {
		edges[k] = dmin + float64(k)*width
	}
	edges[nlags] = dmax + lagEdgePadding

	lags := make([]Lag, 0, nlags)
	for k := 0; k < nlags; k++ {
		var sumD, sumG float64
		var count int
		for p, d := range dists {
			if d >= edges[k] && d < edges[k+1] {
				sumD += d
				sumG += semis[p]
				count++
			}
		}
		if count == 0 {
			continue
		}
		lags = append(lags, Lag{
			Distance:     sumD / float64(count),
			Semivariance: sumG / float64(count),
			Pairs:        count,
		})
	}
	return lags
}

// FitLinear fits a linear variogram to the experimental lags with a soft-L1
// robust loss, solved by iteratively reweighted least squares. Slope and
// nugget are kept non-negative.
func FitLinear(lags []Lag) (LinearVariogram, error) {
	if len(lags) == 0 {
		return LinearVariogram{}, fmt.Errorf("%w: no variogram lags", domain.ErrInterpolationFailed)
	}

	v := initialGuess(lags)
	if len(lags) == 1 {
		return v, nil
	}

	for iter := 0; iter < maxFitIterations; iter++ {
		next, err := weightedStep(lags, v)
		if err != nil {
			return LinearVariogram{}, err
		}
		converged := math.Abs(next.Slope-v.Slope) <= fitTolerance*(1+math.Abs(v.Slope)) &&
			math.Abs(next.Nugget-v.Nugget) <= fitTolerance*(1+math.Abs(v.Nugget))
		v = next
		if converged {
			break
		}
	}

	if !isFinite(v.Slope) || !isFinite(v.Nugget) {
		return LinearVariogram{}, fmt.Errorf("%w: variogram fit diverged", domain.ErrInterpolationFailed)
	}
	return v, nil
}

func initialGuess(lags []Lag) LinearVariogram {
	hMin, hMax := lags[0].Distance, lags[0].Distance
	gMin, gMax := lags[0].Semivariance, lags[0].Semivariance
	for _, l := range lags[1:] {
		hMin = math.Min(hMin, l.Distance)
		hMax = math.Max(hMax, l.Distance)
		gMin = math.Min(gMin, l.Semivariance)
		gMax = math.Max(gMax, l.Semivariance)
	}

	if hMax == hMin {
		// A single lag distance cannot separate slope from nugget; put it all in the slope.
		if hMax > 0 {
			return LinearVariogram{Slope: gMax / hMax}
		}
		return LinearVariogram{Nugget: gMax}
	}
	return LinearVariogram{Slope: (gMax - gMin) / (hMax - hMin), Nugget: gMin}
}

// weightedStep performs one IRLS update. Soft-L1 weights are 1/sqrt(1+r²).
func weightedStep(lags []Lag, v LinearVariogram) (LinearVariogram, error) {
	var shh, sh, sw, shg, sg float64
	for _, l := range lags {
		r := v.At(l.Distance) - l.Semivariance
		w := 1 / math.Sqrt(1+r*r)
		shh += w * l.Distance * l.Distance
		sh += w * l.Distance
		sw += w
		shg += w * l.Distance * l.Semivariance
		sg += w * l.Semivariance
	}

	normal := mat.NewDense(2, 2, []float64{shh, sh, sh, sw})
	rhs := mat.NewVecDense(2, []float64{shg, sg})
	var sol mat.VecDense
	if err := sol.SolveVec(normal, rhs); err != nil {
		return LinearVariogram{}, fmt.Errorf("%w: variogram normal equations: %w", domain.ErrInterpolationFailed, err)
	}
	next := LinearVariogram{Slope: sol.AtVec(0), Nugget: sol.AtVec(1)}

	// Project onto slope, nugget >= 0 by refitting the free parameter alone.
	switch {
	case next.Slope < 0:
		next = LinearVariogram{Nugget: math.Max(0, sg/sw)}
	case next.Nugget < 0:
		slope := 0.0
		if shh > 0 {
			slope = math.Max(0, shg/shh)
		}
		next = LinearVariogram{Slope: slope}
	}
	return next, nil
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
