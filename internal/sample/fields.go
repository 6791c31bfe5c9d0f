package sample

import "math"

// FieldSpec describes how a field is labelled and bounded.
//
// PhysicalMax is the validity bound used by Validate. InputMax is the
// narrower bound offered by the interactive form.
type FieldSpec struct {
	Field       Field
	Label       string
	Unit        string
	Min         float64
	InputMax    float64
	PhysicalMax float64
	Default     float64
}

var specs = map[Field]FieldSpec{
	FieldPH: {
		Field: FieldPH, Label: "pH", Unit: "",
		Min: 0, InputMax: 14, PhysicalMax: 14, Default: 7.0,
	},
	FieldTurbidity: {
		Field: FieldTurbidity, Label: "Turbidity", Unit: "NTU",
		Min: 0, InputMax: 20, PhysicalMax: math.Inf(1), Default: 3.0,
	},
	FieldConductivity: {
		Field: FieldConductivity, Label: "Conductivity", Unit: "µS/cm",
		Min: 0, InputMax: 5000, PhysicalMax: math.Inf(1), Default: 300.0,
	},
	FieldDissolvedOxygen: {
		Field: FieldDissolvedOxygen, Label: "Dissolved Oxygen", Unit: "mg/L",
		Min: 0, InputMax: 15, PhysicalMax: math.Inf(1), Default: 7.0,
	},
	FieldTDS: {
		Field: FieldTDS, Label: "TDS", Unit: "ppm",
		Min: 0, InputMax: 3200, PhysicalMax: math.Inf(1), Default: 192.0,
	},
}

// Spec returns the spec for a field.
func Spec(f Field) FieldSpec {
	return specs[f]
}

// DisplayLabel returns the label with its unit, e.g. "Turbidity (NTU)".
func (fs FieldSpec) DisplayLabel() string {
	if fs.Unit == "" {
		return fs.Label
	}
	return fs.Label + " (" + fs.Unit + ")"
}

// Default returns the sample pre-filled in the form when nothing has been
// entered yet.
func Default() Sample {
	return Sample{
		PH:              specs[FieldPH].Default,
		Turbidity:       specs[FieldTurbidity].Default,
		Conductivity:    specs[FieldConductivity].Default,
		DissolvedOxygen: specs[FieldDissolvedOxygen].Default,
		TDS:             specs[FieldTDS].Default,
	}
}
