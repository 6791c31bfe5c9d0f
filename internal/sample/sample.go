package sample

import (
	"fmt"
	"math"
)

// Field identifies one measured parameter of a water sample.
type Field string

const (
	FieldPH              Field = "ph"
	FieldTurbidity       Field = "turbidity"
	FieldConductivity    Field = "conductivity"
	FieldDissolvedOxygen Field = "dissolved_oxygen"
	FieldTDS             Field = "tds"
)

// FeatureNames is the feature order the classifier was trained on.
// Every vector handed to a classifier must follow it.
var FeatureNames = []Field{
	FieldPH,
	FieldTurbidity,
	FieldConductivity,
	FieldDissolvedOxygen,
	FieldTDS,
}

// Sample is a single set of water quality measurements.
type Sample struct {
	PH              float64 `json:"ph" yaml:"ph"`
	Turbidity       float64 `json:"turbidity" yaml:"turbidity"`               // NTU
	Conductivity    float64 `json:"conductivity" yaml:"conductivity"`         // µS/cm
	DissolvedOxygen float64 `json:"dissolved_oxygen" yaml:"dissolved_oxygen"` // mg/L
	TDS             float64 `json:"tds" yaml:"tds"`                           // ppm
}

// Features returns the sample as a vector in FeatureNames order.
func (s Sample) Features() []float64 {
	return []float64{s.PH, s.Turbidity, s.Conductivity, s.DissolvedOxygen, s.TDS}
}

// Value returns the value of a single field.
func (s Sample) Value(f Field) float64 {
	switch f {
	case FieldPH:
		return s.PH
	case FieldTurbidity:
		return s.Turbidity
	case FieldConductivity:
		return s.Conductivity
	case FieldDissolvedOxygen:
		return s.DissolvedOxygen
	case FieldTDS:
		return s.TDS
	}
	return math.NaN()
}

// ErrInvalidValue is returned by Validate when a field is out of its
// physical range.
type ErrInvalidValue struct {
	Field Field
	Value float64
	Min   float64
	Max   float64
}

func (e *ErrInvalidValue) Error() string {
	if math.IsInf(e.Max, 1) {
		return fmt.Sprintf("%s = %v: must be >= %v", e.Field, e.Value, e.Min)
	}
	return fmt.Sprintf("%s = %v: must be within [%v, %v]", e.Field, e.Value, e.Min, e.Max)
}

// Validate checks every field against its physical range. It does not apply
// the potability rules; see package rules for that.
func (s Sample) Validate() error {
	for _, f := range FeatureNames {
		spec := Spec(f)
		v := s.Value(f)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < spec.Min || v > spec.PhysicalMax {
			return &ErrInvalidValue{Field: f, Value: v, Min: spec.Min, Max: spec.PhysicalMax}
		}
	}
	return nil
}
