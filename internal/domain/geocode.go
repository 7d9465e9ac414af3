package domain

import (
	"context"
	"log/slog"
)

// LabelStations fills Station.Place from a reverse geocode of each station's
// position. A nil geocoder returns the stations untouched; a failed or empty
// lookup leaves that station unlabelled (graceful degradation).
func LabelStations(ctx context.Context, stations []Station, geocoder Geocoder, logger *slog.Logger) []Station {
	if geocoder == nil {
		return stations
	}

	out := make([]Station, len(stations))
	copy(out, stations)
	for i := range out {
		result, err := geocoder.ReverseGeocode(ctx, out[i].Lat, out[i].Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"station", out[i].ID,
				"lat", out[i].Lat,
				"lon", out[i].Lon,
				"error", err,
			)
			continue
		}
		if result.PlaceName != "" {
			out[i].Place = result.PlaceName
		} else if result.FormattedAddress != "" {
			out[i].Place = result.FormattedAddress
		}
	}
	return out
}
