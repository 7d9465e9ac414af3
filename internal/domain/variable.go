package domain

import "fmt"

// Variable is a dashboard tab bound to its dataset column.
type Variable struct {
	Key        string `json:"key"`
	Field      Field  `json:"field"`
	Label      string `json:"label"`
	Unit       string `json:"unit,omitempty"`
	ColorScale string `json:"color_scale"`
}

// variables is the tab table in display order. It is never mutated.
var variables = []Variable{
	{Key: "oximgl-tab", Field: FieldOxygenMgL, Label: "Oxígeno mg/L", Unit: "mg/L", ColorScale: "RdBu"},
	{Key: "oxisat-tab", Field: FieldOxygenSaturation, Label: "Oxígeno %SAT", Unit: "%", ColorScale: "RdBu"},
	{Key: "oxiteo-tab", Field: FieldOxygenTheoretical, Label: "Oxígeno teórico", Unit: "mg/L", ColorScale: "RdBu"},
	{Key: "temp-tab", Field: FieldTemperature, Label: "Temperatura °C", Unit: "°C", ColorScale: "RdBu_r"},
	{Key: "salin-tab", Field: FieldSalinity, Label: "Salinidad PSU", Unit: "PSU", ColorScale: "RdBu"},
	{Key: "sigmat-tab", Field: FieldSigmaT, Label: "sigma-t", Unit: "kg/m³", ColorScale: "RdBu"},
	{Key: "aou-tab", Field: FieldAOU, Label: "AOU", Unit: "mg/L", ColorScale: "RdBu"},
	{Key: "fluo-tab", Field: FieldFluorescence, Label: "Fluorescencia", ColorScale: "RdBu"},
}

// aliases are legacy tab ids still sent by older dashboard state.
var aliases = map[string]string{
	"sigma-t-tab": "sigmat-tab",
}

var variablesByKey = func() map[string]Variable {
	m := make(map[string]Variable, len(variables)+len(aliases))
	for _, v := range variables {
		m[v.Key] = v
	}
	for alias, key := range aliases {
		m[alias] = m[key]
	}
	return m
}()

// ResolveVariable maps a tab id to its variable. There is no fallback: keys
// outside the table fail with ErrUnknownSelector.
func ResolveVariable(key string) (Variable, error) {
	v, ok := variablesByKey[key]
	if !ok {
		return Variable{}, fmt.Errorf("%w: %q", ErrUnknownSelector, key)
	}
	return v, nil
}

// Variables returns a copy of the tab table in display order.
func Variables() []Variable {
	out := make([]Variable, len(variables))
	copy(out, variables)
	return out
}
