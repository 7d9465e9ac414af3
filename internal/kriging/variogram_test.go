package kriging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
)

func TestExperimentalVariogram_Bins(t *testing.T) {
	points := []Point{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 1},
		{X: 2, Y: 0, Z: 2},
	}

	lags := ExperimentalVariogram(points, 6)

	// Pair distances 1, 2, 1 land in the first and last bins.
	require.Len(t, lags, 2)
	assert.InDelta(t, 1.0, lags[0].Distance, 1e-12)
	assert.InDelta(t, 0.5, lags[0].Semivariance, 1e-12)
	assert.Equal(t, 2, lags[0].Pairs)
	assert.InDelta(t, 2.0, lags[1].Distance, 1e-12)
	assert.InDelta(t, 2.0, lags[1].Semivariance, 1e-12)
	assert.Equal(t, 1, lags[1].Pairs)
}

func TestExperimentalVariogram_CountsEveryPair(t *testing.T) {
	points := []Point{
		{X: 0, Y: 0, Z: 1}, {X: 0.3, Y: 0.1, Z: 2}, {X: 0.7, Y: 0.4, Z: 4},
		{X: 0.2, Y: 0.9, Z: 3}, {X: 1.0, Y: 1.0, Z: 5},
	}

	lags := ExperimentalVariogram(points, DefaultLags)

	total := 0
	for _, l := range lags {
		total += l.Pairs
	}
	assert.Equal(t, 10, total)
	assert.LessOrEqual(t, len(lags), DefaultLags)
}

func TestExperimentalVariogram_DefaultLags(t *testing.T) {
	points := []Point{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 1}, {X: 2, Y: 0, Z: 2}}

	assert.Equal(t, ExperimentalVariogram(points, DefaultLags), ExperimentalVariogram(points, 0))
}

func TestExperimentalVariogram_TooFewPoints(t *testing.T) {
	assert.Nil(t, ExperimentalVariogram(nil, DefaultLags))
	assert.Nil(t, ExperimentalVariogram([]Point{{X: 1, Y: 1, Z: 1}}, DefaultLags))
}

func TestFitLinear_ExactLine(t *testing.T) {
	lags := []Lag{
		{Distance: 1, Semivariance: 1.5},
		{Distance: 2, Semivariance: 2.5},
		{Distance: 3, Semivariance: 3.5},
	}

	v, err := FitLinear(lags)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, v.Slope, 1e-9)
	assert.InDelta(t, 0.5, v.Nugget, 1e-9)
}

func TestFitLinear_NegativeSlopeProjected(t *testing.T) {
	lags := []Lag{
		{Distance: 1, Semivariance: 3},
		{Distance: 2, Semivariance: 1},
	}

	v, err := FitLinear(lags)
	require.NoError(t, err)

	assert.Zero(t, v.Slope)
	assert.InDelta(t, 2.0, v.Nugget, 1e-6)
}

func TestFitLinear_NegativeNuggetProjected(t *testing.T) {
	lags := []Lag{
		{Distance: 1, Semivariance: 0},
		{Distance: 2, Semivariance: 2},
		{Distance: 3, Semivariance: 4},
	}

	v, err := FitLinear(lags)
	require.NoError(t, err)

	assert.Zero(t, v.Nugget)
	assert.Greater(t, v.Slope, 0.0)
}

func TestFitLinear_SingleLag(t *testing.T) {
	v, err := FitLinear([]Lag{{Distance: 2, Semivariance: 4}})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, v.Slope, 1e-12)
	assert.Zero(t, v.Nugget)
}

func TestFitLinear_NoLags(t *testing.T) {
	_, err := FitLinear(nil)
	require.ErrorIs(t, err, domain.ErrInterpolationFailed)
}

func TestFitLinear_RobustToOutlier(t *testing.T) {
	clean := []Lag{
		{Distance: 1, Semivariance: 1},
		{Distance: 2, Semivariance: 2},
		{Distance: 3, Semivariance: 3},
		{Distance: 4, Semivariance: 4},
	}
	withOutlier := append(append([]Lag(nil), clean...), Lag{Distance: 5, Semivariance: 50})

	v, err := FitLinear(withOutlier)
	require.NoError(t, err)

	// Ordinary least squares would give a slope near 9; soft-L1 stays much closer to 1.
	assert.Less(t, v.Slope, 5.0)
}

func TestLinearVariogram_At(t *testing.T) {
	v := LinearVariogram{Slope: 2, Nugget: 0.5}
	assert.InDelta(t, 0.5, v.At(0), 1e-12)
	assert.InDelta(t, 4.5, v.At(2), 1e-12)
}
