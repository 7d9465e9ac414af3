package dataset

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
)

func reading(station string, depth, lon, lat float64, values map[domain.Field]float64) domain.StationReading {
	return domain.StationReading{Station: station, Depth: depth, Lon: lon, Lat: lat, Values: values}
}

func loadMock(t *testing.T) *Dataset {
	t.Helper()
	d, err := Load(fixturePath(), Options{})
	require.NoError(t, err)
	return d
}

func TestNew_IndexesStations(t *testing.T) {
	d, err := New([]domain.StationReading{
		reading("A", -1, 1, 2, map[domain.Field]float64{domain.FieldTemperature: 10}),
		reading("B", -1, 3, 4, map[domain.Field]float64{domain.FieldTemperature: 11}),
		reading("A", -5, 1, 2, map[domain.Field]float64{domain.FieldTemperature: 9}),
	})
	require.NoError(t, err)

	want := []domain.Station{
		{ID: "A", Lon: 1, Lat: 2, Depths: 2},
		{ID: "B", Lon: 3, Lat: 4, Depths: 1},
	}
	if diff := cmp.Diff(want, d.Stations()); diff != "" {
		t.Errorf("stations mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []float64{-1, -5}, d.Depths())
}

func TestNew_ToleratesCoordinateJitter(t *testing.T) {
	_, err := New([]domain.StationReading{
		reading("A", -1, 1, 2, nil),
		reading("A", -5, 1+1e-7, 2-1e-7, nil),
	})
	require.NoError(t, err)
}

func TestNew_RejectsEmptyStation(t *testing.T) {
	_, err := New([]domain.StationReading{reading("", -1, 1, 2, nil)})
	require.Error(t, err)
}

func TestNew_CopiesValues(t *testing.T) {
	values := map[domain.Field]float64{domain.FieldTemperature: 10}
	d, err := New([]domain.StationReading{reading("A", -1, 1, 2, values)})
	require.NoError(t, err)

	values[domain.FieldTemperature] = 99

	samples := d.Samples(-1, domain.FieldTemperature)
	require.Len(t, samples, 1)
	assert.InDelta(t, 10.0, samples[0].Value, 1e-12)
}

func TestSamples_OnlyExactDepth(t *testing.T) {
	d := loadMock(t)

	assert.Len(t, d.Samples(-10, domain.FieldSalinity), 8)
	assert.Len(t, d.Samples(-40, domain.FieldSalinity), 2)
	assert.Empty(t, d.Samples(-15, domain.FieldSalinity))
}

func TestSamples_SkipsUnmeasured(t *testing.T) {
	d := loadMock(t)

	samples := d.Samples(-30, domain.FieldFluorescence)
	require.Len(t, samples, 7)
	for _, s := range samples {
		assert.NotEqual(t, "E8", s.Station)
	}
}

func TestSamples_StationOrder(t *testing.T) {
	d := loadMock(t)

	var ids []string
	for _, s := range d.Samples(-20, domain.FieldOxygenMgL) {
		ids = append(ids, s.Station)
	}
	assert.Equal(t, []string{"E1", "E2", "E3", "E4", "E5", "E6", "E7", "E8"}, ids)
}

func TestProfile_SurfaceFirst(t *testing.T) {
	d := loadMock(t)

	points, err := d.Profile("E1", domain.FieldTemperature, math.Inf(-1))
	require.NoError(t, err)

	require.Len(t, points, 5)
	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i-1].Depth, points[i].Depth)
	}
	assert.Equal(t, domain.ProfilePoint{Depth: -1, Value: 11.243}, points[0])
}

func TestProfile_MinDepth(t *testing.T) {
	d := loadMock(t)

	points, err := d.Profile("E1", domain.FieldTemperature, -20)
	require.NoError(t, err)

	assert.Equal(t, []domain.ProfilePoint{
		{Depth: -1, Value: 11.243},
		{Depth: -10, Value: 10.928},
		{Depth: -20, Value: 10.578},
	}, points)
}

func TestProfile_UnknownStation(t *testing.T) {
	d := loadMock(t)

	_, err := d.Profile("Z9", domain.FieldTemperature, math.Inf(-1))
	require.ErrorIs(t, err, domain.ErrUnknownStation)
}

func TestRange(t *testing.T) {
	d := loadMock(t)

	lo, hi, ok := d.Range(domain.FieldOxygenMgL)
	require.True(t, ok)
	assert.InDelta(t, 7.352, lo, 1e-12)
	assert.InDelta(t, 8.848, hi, 1e-12)

	d2, err := New([]domain.StationReading{reading("A", -1, 1, 2, nil)})
	require.NoError(t, err)
	_, _, ok = d2.Range(domain.FieldOxygenMgL)
	assert.False(t, ok)
}

func TestStationMean(t *testing.T) {
	d := loadMock(t)

	mean, ok, err := d.StationMean("E3", domain.FieldSalinity)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, (32.178+32.358+32.558+32.758)/4, mean, 1e-9)

	_, _, err = d.StationMean("Z9", domain.FieldSalinity)
	require.ErrorIs(t, err, domain.ErrUnknownStation)
}

func TestStationMean_NeverMeasured(t *testing.T) {
	d, err := New([]domain.StationReading{reading("A", -1, 1, 2, nil)})
	require.NoError(t, err)

	_, ok, err := d.StationMean("A", domain.FieldAOU)
	require.NoError(t, err)
	assert.False(t, ok)
}
