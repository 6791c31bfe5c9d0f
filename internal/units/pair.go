// Package units keeps the conductivity and TDS inputs of a sample linked
// by a fixed linear conversion.
package units

import (
	"math"

	"github.com/abhisek/aquasafe/internal/config"
)

// TDSFactor converts electrical conductivity (µS/cm) to total dissolved
// solids (ppm): tds = TDSFactor * conductivity.
const TDSFactor = 0.64

// DefaultConductivity seeds a fresh pair when no prior session state exists.
const DefaultConductivity = 300.0

// consistencyTolerance is the relative error accepted by Consistent.
const consistencyTolerance = 1e-9

// Pair holds conductivity and TDS under tds = k * conductivity. Each setter
// treats its own field as the source of truth and overwrites the other.
type Pair struct {
	k            float64
	conductivity float64
	tds          float64
}

// NewPair returns a pair using TDSFactor, seeded with DefaultConductivity.
func NewPair() *Pair {
	p, err := NewPairWithFactor(TDSFactor)
	if err != nil {
		// TDSFactor is a non-zero constant.
		panic(err)
	}
	return p
}

// NewPairWithFactor returns a pair using conversion factor k. A zero,
// negative or non-finite k makes the inverse conversion undefined and is
// reported as a configuration error.
func NewPairWithFactor(k float64) (*Pair, error) {
	if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, &config.ConfigurationError{
			Setting: "tds_factor",
			Reason:  "conversion factor must be a positive finite number",
		}
	}
	p := &Pair{k: k}
	p.SetConductivity(DefaultConductivity)
	return p, nil
}

// SetConductivity records an edit to conductivity and derives TDS.
func (p *Pair) SetConductivity(c float64) {
	p.conductivity = c
	p.tds = c * p.k
}

// SetTDS records an edit to TDS and derives conductivity.
func (p *Pair) SetTDS(t float64) {
	p.tds = t
	p.conductivity = t / p.k
}

func (p *Pair) Conductivity() float64 { return p.conductivity }

func (p *Pair) TDS() float64 { return p.tds }

func (p *Pair) Factor() float64 { return p.k }

// Consistent reports whether the pair satisfies tds = k * conductivity
// within floating-point tolerance.
func (p *Pair) Consistent() bool {
	return Consistent(p.conductivity, p.tds, p.k)
}

// Consistent reports whether an externally supplied conductivity/TDS pair
// satisfies tds = k * conductivity within floating-point tolerance.
func Consistent(conductivity, tds, k float64) bool {
	want := conductivity * k
	diff := math.Abs(tds - want)
	scale := math.Max(math.Abs(want), 1)
	return diff <= consistencyTolerance*scale
}
