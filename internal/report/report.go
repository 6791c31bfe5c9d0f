// Package report produces the advisory treatment report for an assessed
// sample. The report is free-form guidance for people; no decision is ever
// derived from it.
package report

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/aquasafe/internal/sample"
)

// Footer is shown under every report.
const Footer = "AI insights are advisory. WHO rules have priority."

// Generator produces an advisory report for an assessed sample.
type Generator interface {
	Generate(ctx context.Context, input Input) (*Report, error)
}

// Input is what the report is written about.
type Input struct {
	Sample sample.Sample

	// Decision is the verdict label, e.g. "Safe Water".
	Decision string

	// Confidence is the model probability. It is rounded to three decimals
	// before it reaches the prompt.
	Confidence float64
}

// RoundedConfidence returns Confidence rounded to three decimals.
func (in Input) RoundedConfidence() float64 {
	return math.Round(in.Confidence*1000) / 1000
}

// Report is the structured expert report.
type Report struct {
	Classification Classification `json:"classification"`
	KeyIssues      []Issue        `json:"key_issues"`
	Treatments     []Treatment    `json:"treatments"`
	Uses           []Use          `json:"post_treatment_uses"`
	Considerations []string       `json:"health_environment"`
	Conclusion     []string       `json:"conclusion"`
}

// Classification is the overall quality grade.
type Classification struct {
	Grade   string `json:"grade"`
	Summary string `json:"summary"`
}

// Issue is one out-of-range or borderline parameter.
type Issue struct {
	Parameter string `json:"parameter"`
	Problem   string `json:"problem"`
	Impact    string `json:"impact"`
}

// Treatment is a recommended method and the reason for it.
type Treatment struct {
	Method string `json:"method"`
	Reason string `json:"reason"`
}

// Use is a category of reuse after treatment with concrete examples.
type Use struct {
	Category string   `json:"category"`
	Examples []string `json:"examples"`
}

// Markdown renders the report with one heading per section.
func (r *Report) Markdown() string {
	var b strings.Builder

	b.WriteString("### 1. Water Quality Classification\n\n")
	fmt.Fprintf(&b, "**%s**", r.Classification.Grade)
	if r.Classification.Summary != "" {
		fmt.Fprintf(&b, ": %s", r.Classification.Summary)
	}
	b.WriteString("\n\n")

	b.WriteString("### 2. Key Issues Identified\n\n")
	if len(r.KeyIssues) == 0 {
		b.WriteString("- No parameter is out of range.\n")
	}
	for _, is := range r.KeyIssues {
		fmt.Fprintf(&b, "- **%s**: %s", is.Parameter, is.Problem)
		if is.Impact != "" {
			fmt.Fprintf(&b, " %s", is.Impact)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("### 3. Recommended Treatment & Filtration Methods\n\n")
	for _, t := range r.Treatments {
		fmt.Fprintf(&b, "- **%s**: %s\n", t.Method, t.Reason)
	}
	b.WriteString("\n_These are advisory engineering suggestions, not operational instructions._\n\n")

	b.WriteString("### 4. Post-Treatment Usage Possibilities\n\n")
	for _, u := range r.Uses {
		fmt.Fprintf(&b, "- **%s**", u.Category)
		if len(u.Examples) > 0 {
			fmt.Fprintf(&b, ": %s", strings.Join(u.Examples, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("### 5. Health & Environmental Considerations\n\n")
	for _, c := range r.Considerations {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\n")

	b.WriteString("### 6. Short Conclusion\n\n")
	b.WriteString(strings.Join(r.Conclusion, "\n"))
	b.WriteString("\n")

	return b.String()
}
