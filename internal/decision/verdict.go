package decision

import (
	"fmt"

	"github.com/abhisek/aquasafe/internal/rules"
)

// Outcome is one of the three mutually exclusive verdicts.
type Outcome string

const (
	// OutcomeRuleViolation means a regulatory bound was broken. The model
	// was not consulted.
	OutcomeRuleViolation Outcome = "rule_violation"

	// OutcomeSafe means the model probability reached the threshold.
	OutcomeSafe Outcome = "safe"

	// OutcomeNeedsTreatment means the model probability fell below the
	// threshold, or the model could not be consulted.
	OutcomeNeedsTreatment Outcome = "needs_treatment"
)

// Verdict is the result of a hybrid decision.
type Verdict struct {
	Outcome Outcome

	// Confidence is the model probability for Safe and NeedsTreatment.
	// It is exactly 0 for RuleViolation and for a failed prediction.
	Confidence float64

	// Threshold is the probability threshold the verdict was decided with.
	Threshold float64

	// Violation is set for RuleViolation.
	Violation *rules.Violation

	// Err is set when the classifier failed. Outcome is NeedsTreatment.
	Err error
}

// Errored reports whether the verdict is the degraded form produced by a
// classifier failure.
func (v Verdict) Errored() bool {
	return v.Err != nil
}

// Safe reports whether the water was judged safe.
func (v Verdict) Safe() bool {
	return v.Outcome == OutcomeSafe
}

// Label returns the human-readable verdict shown to users and passed to the
// report generator.
func (v Verdict) Label() string {
	switch {
	case v.Outcome == OutcomeRuleViolation:
		return "Unsafe (WHO Rule Violation)"
	case v.Errored():
		return fmt.Sprintf("Prediction Error: %v", v.Err)
	case v.Outcome == OutcomeSafe:
		return "Safe Water"
	default:
		return "Unsafe / Needs Treatment"
	}
}

// State returns the terminal state name of the decision procedure.
func (v Verdict) State() string {
	if v.Errored() {
		return "error"
	}
	return string(v.Outcome)
}
