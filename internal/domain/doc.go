// Package domain models CTD-O (conductivity, temperature, depth, oxygen) station
// profiles and the lon/lat grid the kriging surfaces are evaluated on.
//
// # Data Source
//
// Profiles come from a single comma-separated file exported from the CTD-O
// casts of the study area, one row per station and depth. The file is read once
// at startup and never written.
//
// # Column Conventions
//
//	Estación       station identifier, e.g. "E1"
//	Profundidad    depth in metres, negative downwards (0 is the surface)
//	Longitud       decimal degrees, west negative
//	Latitud        decimal degrees, south negative
//
// Measured variables, one column each:
//
//	Oxígeno (mg/L)        dissolved oxygen concentration
//	Oxígeno (%Sat)        oxygen saturation
//	Oxígeno               theoretical (saturation) oxygen
//	Temperatura           °C
//	Salinidad             PSU
//	Densidad (sigma-t)    density index from temperature and salinity
//	AOU                   apparent oxygen utilisation
//	Fluorescencia         fluorescence as chlorophyll-a proxy
//
// Empty cells and "NaN" mean the variable was not measured at that depth.
//
// # Selector Keys
//
// The dashboard addresses variables by tab id ("oximgl-tab", "temp-tab", ...).
// [ResolveVariable] maps a tab id to its column through one immutable table;
// anything outside the table is rejected with [ErrUnknownSelector].
//
// # Grid
//
// The interpolation grid spans the bounding box given by its northwest and
// southeast corners. Longitudes run west to east, latitudes south to north, and
// surfaces are indexed [lat][lon]. See [BuildGrid].
package domain
