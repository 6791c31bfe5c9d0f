package classifier

import (
	"context"
	"fmt"
)

// Classifier estimates the probability that a sample is safe.
//
// Predict receives the sample's feature vector in sample.FeatureNames order
// and returns a probability in [0, 1]. Failures are reported as
// *PredictionError.
type Classifier interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}

// Func adapts an ordinary function to the Classifier interface.
type Func func(ctx context.Context, features []float64) (float64, error)

func (f Func) Predict(ctx context.Context, features []float64) (float64, error) {
	return f(ctx, features)
}

// PredictionError indicates the classifier could not produce a probability:
// malformed input, a missing model, or a scaling failure.
type PredictionError struct {
	Reason string
	Err    error
}

func (e *PredictionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prediction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("prediction failed: %s", e.Reason)
}

func (e *PredictionError) Unwrap() error { return e.Err }
