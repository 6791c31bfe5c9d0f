// Package rules applies the fixed WHO-style potability bounds to a sample.
//
// The bounds are hard constraints: a single out-of-range parameter makes
// the sample unsafe no matter what a statistical model says.
package rules

import (
	"fmt"

	"github.com/abhisek/aquasafe/internal/sample"
)

// Limit is the acceptable range for one parameter.
//
// A value violates the limit when it is below Min, or when it reaches Max
// (MaxInclusive false) or exceeds it (MaxInclusive true). A zero-valued
// HasMin means there is no lower bound.
type Limit struct {
	Field        sample.Field
	HasMin       bool
	Min          float64
	Max          float64
	MaxInclusive bool
}

// limits are checked in feature order.
var limits = []Limit{
	{Field: sample.FieldPH, HasMin: true, Min: 6.5, Max: 8.5, MaxInclusive: true},
	{Field: sample.FieldTurbidity, Max: 5},
	{Field: sample.FieldConductivity, Max: 400},
	{Field: sample.FieldDissolvedOxygen, HasMin: true, Min: 6.5, Max: 8, MaxInclusive: true},
	{Field: sample.FieldTDS, Max: 400},
}

// Limits returns a copy of the rule table.
func Limits() []Limit {
	out := make([]Limit, len(limits))
	copy(out, limits)
	return out
}

// Violates reports whether v is outside the limit.
func (l Limit) Violates(v float64) bool {
	if l.HasMin && v < l.Min {
		return true
	}
	if l.MaxInclusive {
		return v > l.Max
	}
	return v >= l.Max
}

// String renders the acceptable range, e.g. "6.5 ≤ ph ≤ 8.5" or "turbidity < 5".
func (l Limit) String() string {
	op := "<"
	if l.MaxInclusive {
		op = "≤"
	}
	if l.HasMin {
		return fmt.Sprintf("%g ≤ %s %s %g", l.Min, l.Field, op, l.Max)
	}
	return fmt.Sprintf("%s %s %g", l.Field, op, l.Max)
}

// Violation identifies the parameter that failed and the limit it broke.
type Violation struct {
	Field sample.Field
	Value float64
	Limit Limit
}

func (v Violation) String() string {
	return fmt.Sprintf("%s = %g outside %s", v.Field, v.Value, v.Limit)
}

// Result is the outcome of a rule check: either NoViolation or a violation
// carrying the first failing parameter.
type Result struct {
	violation *Violation
}

// NoViolation is the result for a sample that passes every limit.
var NoViolation = Result{}

// Violated reports whether any limit was broken.
func (r Result) Violated() bool {
	return r.violation != nil
}

// Violation returns the first failing parameter, if any.
func (r Result) Violation() (Violation, bool) {
	if r.violation == nil {
		return Violation{}, false
	}
	return *r.violation, true
}

func (r Result) String() string {
	if r.violation == nil {
		return "no violation"
	}
	return "violation: " + r.violation.String()
}

// Evaluate checks a sample against every limit and reports the first
// parameter found out of range. It never fails.
func Evaluate(s sample.Sample) Result {
	for _, l := range limits {
		v := s.Value(l.Field)
		if l.Violates(v) {
			return Result{violation: &Violation{Field: l.Field, Value: v, Limit: l}}
		}
	}
	return NoViolation
}
