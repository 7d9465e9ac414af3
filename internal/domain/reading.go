package domain

// Field is the dataset column name of a measured variable.
type Field string

const (
	FieldOxygenMgL         Field = "Oxígeno (mg/L)"
	FieldOxygenSaturation  Field = "Oxígeno (%Sat)"
	FieldOxygenTheoretical Field = "Oxígeno"
	FieldTemperature       Field = "Temperatura"
	FieldSalinity          Field = "Salinidad"
	FieldSigmaT            Field = "Densidad (sigma-t)"
	FieldAOU               Field = "AOU"
	FieldFluorescence      Field = "Fluorescencia"
)

// Fields lists every measured column in file order.
var Fields = []Field{
	FieldOxygenMgL,
	FieldOxygenSaturation,
	FieldOxygenTheoretical,
	FieldTemperature,
	FieldSalinity,
	FieldSigmaT,
	FieldAOU,
	FieldFluorescence,
}

// Coordinate is a WGS-84 longitude/latitude pair in decimal degrees.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// StationReading is one CTD-O observation: a station at a depth.
type StationReading struct {
	Station string  `json:"station"`
	Depth   float64 `json:"depth"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`

	// Values holds only the fields that were measured; absent keys are gaps.
	Values map[Field]float64 `json:"values"`
}

// Value returns the reading's value for f and whether it was measured.
func (r StationReading) Value(f Field) (float64, bool) {
	v, ok := r.Values[f]
	return v, ok
}

// Sample is a single station value positioned for interpolation.
type Sample struct {
	Station string  `json:"station"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	Value   float64 `json:"value"`
}

// Station summarises one sampling site.
type Station struct {
	ID     string  `json:"id"`
	Lon    float64 `json:"lon"`
	Lat    float64 `json:"lat"`
	Depths int     `json:"depths"`
	Place  string  `json:"place,omitempty"`
}

// ProfilePoint is one depth of a station profile.
type ProfilePoint struct {
	Depth float64 `json:"depth"`
	Value float64 `json:"value"`
}
