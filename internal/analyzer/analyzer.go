// Package analyzer runs one assessment end to end: input checks, the hybrid
// decision, the session record and the optional advisory report.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/aquasafe/internal/decision"
	"github.com/abhisek/aquasafe/internal/report"
	"github.com/abhisek/aquasafe/internal/sample"
	"github.com/abhisek/aquasafe/internal/store"
	"github.com/abhisek/aquasafe/internal/units"
)

// ErrReportsDisabled is returned by Report when no generator is configured.
var ErrReportsDisabled = errors.New("advisory reports are disabled")

// ErrUnlinked is returned when conductivity and TDS do not satisfy
// tds = k × conductivity.
type ErrUnlinked struct {
	Conductivity float64
	TDS          float64
	Factor       float64
}

func (e *ErrUnlinked) Error() string {
	return fmt.Sprintf("tds %g does not match conductivity %g (expected %g)",
		e.TDS, e.Conductivity, e.Conductivity*e.Factor)
}

// Options configures an Analyzer. Zero values disable the optional parts.
type Options struct {
	Threshold   float64
	Reports     report.Generator
	Assessments store.AssessmentRepo
	Logger      *slog.Logger
}

// Analyzer is safe for sequential use; evaluations are not run concurrently.
type Analyzer struct {
	engine      *decision.Engine
	threshold   float64
	reports     report.Generator
	assessments store.AssessmentRepo
	logger      *slog.Logger
}

// New creates an Analyzer around engine.
func New(engine *decision.Engine, opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		engine:      engine,
		threshold:   opts.Threshold,
		reports:     opts.Reports,
		assessments: opts.Assessments,
		logger:      logger,
	}
}

// Threshold returns the decision threshold in use.
func (a *Analyzer) Threshold() float64 { return a.threshold }

// ReportsEnabled reports whether Report can be called.
func (a *Analyzer) ReportsEnabled() bool { return a.reports != nil }

// Assessment is one evaluated sample.
type Assessment struct {
	// Sequence is the session record number, or 0 when not recorded.
	Sequence int64
	Sample   sample.Sample
	Verdict  decision.Verdict
}

// Assess validates s and decides on it. Only invalid input is an error;
// classifier failures come back as a degraded verdict.
func (a *Analyzer) Assess(ctx context.Context, s sample.Sample) (*Assessment, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !units.Consistent(s.Conductivity, s.TDS, units.TDSFactor) {
		return nil, &ErrUnlinked{Conductivity: s.Conductivity, TDS: s.TDS, Factor: units.TDSFactor}
	}

	v := a.engine.Decide(ctx, s, a.threshold)
	as := &Assessment{Sample: s, Verdict: v}

	if a.assessments != nil {
		seq, err := a.assessments.Append(ctx, record(s, v))
		if err != nil {
			a.logger.Warn("failed to record assessment", "error", err)
		} else {
			as.Sequence = seq
		}
	}

	return as, nil
}

// Report generates the advisory report for as. A failure leaves the
// verdict untouched and is returned as *report.GenerationError.
func (a *Analyzer) Report(ctx context.Context, as *Assessment) (*report.Report, error) {
	if a.reports == nil {
		return nil, ErrReportsDisabled
	}

	r, err := a.reports.Generate(ctx, report.Input{
		Sample:     as.Sample,
		Decision:   as.Verdict.Label(),
		Confidence: as.Verdict.Confidence,
	})
	if err != nil {
		var gen *report.GenerationError
		if !errors.As(err, &gen) {
			err = &report.GenerationError{Err: err}
		}
		return nil, err
	}

	if a.assessments != nil && as.Sequence > 0 {
		if err := a.assessments.SetReport(ctx, as.Sequence, r.Markdown()); err != nil {
			a.logger.Warn("failed to attach report", "sequence", as.Sequence, "error", err)
		}
	}
	return r, nil
}

func record(s sample.Sample, v decision.Verdict) store.AssessmentData {
	d := store.AssessmentData{
		PH:              s.PH,
		Turbidity:       s.Turbidity,
		Conductivity:    s.Conductivity,
		DissolvedOxygen: s.DissolvedOxygen,
		TDS:             s.TDS,
		Threshold:       v.Threshold,
		Outcome:         v.State(),
		Label:           v.Label(),
		Confidence:      v.Confidence,
	}
	if v.Violation != nil {
		d.Violation = v.Violation.String()
	}
	if v.Err != nil {
		d.Error = v.Err.Error()
	}
	return d
}
