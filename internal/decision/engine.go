// Package decision combines the regulatory rule check with the classifier's
// probability into a single verdict.
//
// Rules always take priority: a violation is terminal and the classifier is
// never invoked for that sample.
package decision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/abhisek/aquasafe/internal/classifier"
	"github.com/abhisek/aquasafe/internal/rules"
	"github.com/abhisek/aquasafe/internal/sample"
)

// DefaultThreshold is the probability at or above which a sample that
// passes every rule is considered safe.
const DefaultThreshold = 0.5

// Engine runs the hybrid decision. It holds no per-sample state; the
// verdict depends only on the sample, the threshold and the classifier
// response.
type Engine struct {
	classifier classifier.Classifier
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for decision tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an Engine that consults c for samples passing the rules.
func NewEngine(c classifier.Classifier, opts ...Option) *Engine {
	e := &Engine{classifier: c, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide evaluates s. It never returns an error: classifier failures are
// folded into a NeedsTreatment verdict with zero confidence and Err set.
func (e *Engine) Decide(ctx context.Context, s sample.Sample, threshold float64) Verdict {
	if r := rules.Evaluate(s); r.Violated() {
		v, _ := r.Violation()
		e.logger.Debug("rule violation",
			"field", v.Field, "value", v.Value, "limit", v.Limit.String())
		return Verdict{
			Outcome:    OutcomeRuleViolation,
			Confidence: 0,
			Threshold:  threshold,
			Violation:  &v,
		}
	}

	p, err := e.predict(ctx, s)
	if err != nil {
		e.logger.Warn("prediction failed", "error", err)
		return Verdict{
			Outcome:    OutcomeNeedsTreatment,
			Confidence: 0,
			Threshold:  threshold,
			Err:        err,
		}
	}

	outcome := OutcomeNeedsTreatment
	if p >= threshold {
		outcome = OutcomeSafe
	}
	e.logger.Debug("model verdict", "probability", p, "threshold", threshold, "outcome", outcome)

	return Verdict{
		Outcome:    outcome,
		Confidence: p,
		Threshold:  threshold,
	}
}

// predict calls the classifier and normalizes every failure mode into a
// *classifier.PredictionError.
func (e *Engine) predict(ctx context.Context, s sample.Sample) (p float64, err error) {
	if e.classifier == nil {
		return 0, &classifier.PredictionError{Reason: "no model loaded"}
	}

	defer func() {
		if r := recover(); r != nil {
			p = 0
			err = &classifier.PredictionError{Reason: "classifier panicked", Err: panicError(r)}
		}
	}()

	p, err = e.classifier.Predict(ctx, s.Features())
	if err != nil {
		var perr *classifier.PredictionError
		if errors.As(err, &perr) {
			return 0, err
		}
		return 0, &classifier.PredictionError{Reason: "classifier error", Err: err}
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, &classifier.PredictionError{Reason: "probability outside [0, 1]"}
	}
	return p, nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
