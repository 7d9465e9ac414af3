package kriging

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
)

// exactHitDistance is the distance under which a target coincides with a sample.
const exactHitDistance = 1e-10

// Options tunes model construction.
type Options struct {
	// Lags is the number of experimental variogram bins. Zero means DefaultLags.
	Lags int
}

// Ordinary is a fitted ordinary kriging model. The kriging matrix is factorised
// once; predictions only solve against it, so a model is read-only after
// NewOrdinary returns.
type Ordinary struct {
	points    []Point
	variogram LinearVariogram
	lags      []Lag
	lu        mat.LU

	// constant is set when every sample carries the same value; the surface is
	// then flat with zero variance and no system is solved.
	constant *float64
}

// NewOrdinary fits a linear variogram to points and prepares the kriging system.
// It fails with ErrInsufficientData below MinKrigingSamples points and with
// ErrInterpolationFailed when the fit or the system breaks down. Two samples
// at the same position are rejected up front. Samples that all carry the same
// value succeed with a flat, zero-variance surface.
func NewOrdinary(points []Point, opts Options) (*Ordinary, error) {
	if len(points) < domain.MinKrigingSamples {
		return nil, fmt.Errorf("%w: %d samples, need %d", domain.ErrInsufficientData, len(points), domain.MinKrigingSamples)
	}
	for _, p := range points {
		if !isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.Z) {
			return nil, fmt.Errorf("%w: non-finite sample at (%g, %g)", domain.ErrInterpolationFailed, p.X, p.Y)
		}
	}

	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if distance(points[i], points[j]) <= exactHitDistance {
				return nil, fmt.Errorf("%w: coincident samples at (%g, %g)",
					domain.ErrInterpolationFailed, points[i].X, points[i].Y)
			}
		}
	}

	m := &Ordinary{points: append([]Point(nil), points...)}

	if allEqual(points) {
		z := points[0].Z
		m.constant = &z
		return m, nil
	}

	m.lags = ExperimentalVariogram(points, opts.Lags)
	v, err := FitLinear(m.lags)
	if err != nil {
		return nil, err
	}
	m.variogram = v

	if err := m.factorize(); err != nil {
		return nil, err
	}
	return m, nil
}

// factorize builds the bordered (n+1)×(n+1) system
//
//	[ -γ(dᵢⱼ)  1 ]
//	[   1ᵀ     0 ]
//
// with a zero diagonal, and LU-factorises it.
func (m *Ordinary) factorize() error {
	n := len(m.points)
	a := mat.NewDense(n+1, n+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			a.Set(i, j, -m.variogram.At(distance(m.points[i], m.points[j])))
		}
		a.Set(i, n, 1)
		a.Set(n, i, 1)
	}

	m.lu.Factorize(a)
	if cond := m.lu.Cond(); math.IsInf(cond, 0) || math.IsNaN(cond) || cond > mat.ConditionTolerance {
		return fmt.Errorf("%w: singular kriging system (condition %g)", domain.ErrInterpolationFailed, cond)
	}
	return nil
}

// Variogram returns the fitted variogram model.
func (m *Ordinary) Variogram() LinearVariogram { return m.variogram }

// Lags returns the experimental variogram the model was fitted to.
func (m *Ordinary) Lags() []Lag { return append([]Lag(nil), m.lags...) }

// Predict estimates the value and kriging variance at (x, y).
func (m *Ordinary) Predict(x, y float64) (value, variance float64, err error) {
	if m.constant != nil {
		return *m.constant, 0, nil
	}

	n := len(m.points)
	b := mat.NewVecDense(n+1, nil)
	target := Point{X: x, Y: y}
	for i, p := range m.points {
		d := distance(target, p)
		if d <= exactHitDistance {
			continue
		}
		b.SetVec(i, -m.variogram.At(d))
	}
	b.SetVec(n, 1)

	var w mat.VecDense
	if err := m.lu.SolveVecTo(&w, false, b); err != nil {
		return 0, 0, fmt.Errorf("%w: solve at (%g, %g): %w", domain.ErrInterpolationFailed, x, y, err)
	}

	for i, p := range m.points {
		value += w.AtVec(i) * p.Z
	}
	for i := 0; i <= n; i++ {
		variance -= w.AtVec(i) * b.AtVec(i)
	}
	if !isFinite(value) || !isFinite(variance) {
		return 0, 0, fmt.Errorf("%w: non-finite estimate at (%g, %g)", domain.ErrInterpolationFailed, x, y)
	}
	return value, variance, nil
}

// Grid evaluates the model at every (xs[j], ys[i]) and returns values and
// variances indexed [i][j]. The context is checked between rows.
func (m *Ordinary) Grid(ctx context.Context, xs, ys []float64) (values, variances [][]float64, err error) {
	values = make([][]float64, len(ys))
	variances = make([][]float64, len(ys))
	for i, y := range ys {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		values[i] = make([]float64, len(xs))
		variances[i] = make([]float64, len(xs))
		for j, x := range xs {
			z, ss, err := m.Predict(x, y)
			if err != nil {
				return nil, nil, err
			}
			values[i][j] = z
			variances[i][j] = ss
		}
	}
	return values, variances, nil
}

func allEqual(points []Point) bool {
	for _, p := range points[1:] {
		if p.Z != points[0].Z {
			return false
		}
	}
	return true
}
