package assess

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/aquasafe/internal/report"
	"github.com/abhisek/aquasafe/internal/sample"
	"github.com/abhisek/aquasafe/internal/ui/components"
	"github.com/abhisek/aquasafe/internal/ui/theme"
	"github.com/abhisek/aquasafe/internal/units"
)

const labelWidth = 26

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *AssessScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch s.phase {
	case phaseAnalyzing:
		body = s.renderFormCard(cw) + "\n\n" + theme.Hint.Render("Analyzing sample...")
	case phaseResult:
		body = s.renderResult(cw, height)
	default:
		body = s.renderFormCard(cw)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Render(body)
}

// renderFormCard renders the five labelled inputs with the link caption.
func (s *AssessScreen) renderFormCard(cw int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Enter Water Quality Parameters"))
	b.WriteString("\n\n")

	for i, field := range sample.FeatureNames {
		spec := sample.Spec(field)
		label := theme.Label
		marker := "  "
		if i == s.form.focus && s.phase == phaseForm {
			label = theme.Selected
			marker = "▸ "
		}
		bounds := theme.Hint.Render(fmt.Sprintf("%s–%s",
			formatValue(spec.Min), formatValue(spec.InputMax)))

		b.WriteString(label.Width(labelWidth).Render(marker + spec.DisplayLabel()))
		b.WriteString(s.form.inputs[i].View())
		b.WriteString("  ")
		b.WriteString(bounds)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf(
		"TDS and Conductivity are linked (TDS = %g × EC)", units.TDSFactor)))

	if s.form.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("✗ " + s.form.errText))
	}

	btn := components.NewButton("Analyze", s.phase == phaseForm, nil)
	b.WriteString("\n\n")
	b.WriteString(btn.View())

	return components.Card(b.String(), cw)
}

// renderResult renders the verdict and the report, scrolled to s.scroll.
func (s *AssessScreen) renderResult(cw, height int) string {
	var sections []string
	sections = append(sections, s.renderVerdict(cw))
	sections = append(sections, s.renderReport(cw))

	lines := strings.Split(strings.Join(sections, "\n\n"), "\n")
	if height > 0 && len(lines) > height {
		s.scroll = min(s.scroll, len(lines)-height)
		lines = lines[s.scroll : s.scroll+height]
	} else {
		s.scroll = 0
	}
	return strings.Join(lines, "\n")
}

func (s *AssessScreen) renderVerdict(cw int) string {
	v := s.result.Verdict

	style := theme.Unsafe
	switch {
	case v.Errored():
		style = theme.Warning
	case v.Safe():
		style = theme.Safe
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Water Safety Assessment"))
	b.WriteString("\n")
	b.WriteString(components.Banner(v.Label(), style, cw))
	b.WriteString("\n")

	if v.Violation != nil {
		b.WriteString(theme.Body.Render("  " + v.Violation.String()))
		b.WriteString("\n")
	}

	b.WriteString(theme.Label.Render(fmt.Sprintf("  ML Confidence: %.2f%%", v.Confidence*100)))
	b.WriteString("\n  ")
	b.WriteString(components.ConfidenceBar(v.Confidence, v.Safe(), cw-2))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  Threshold %.2f", v.Threshold)))

	return b.String()
}

func (s *AssessScreen) renderReport(cw int) string {
	if !s.analyzer.ReportsEnabled() {
		return theme.Hint.Render("AI insights are off. Configure an LLM API key to enable them.")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Intelligent Usage Insights"))
	b.WriteString("\n\n")

	switch {
	case s.reportLoading:
		frame := spinnerFrames[s.spinnerFrame%len(spinnerFrames)]
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).
			Render(frame + " Generating expert analysis using AI..."))
	case s.reportErr != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Width(cw).
			Render("✗ " + s.reportErr.Error()))
	case s.report != nil:
		b.WriteString(s.renderMarkdown(s.report.Markdown(), cw))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("⚠ " + report.Footer))
	return b.String()
}

// renderMarkdown renders md with glamour, caching the output per width.
// Plain markdown is shown if glamour is unavailable.
func (s *AssessScreen) renderMarkdown(md string, width int) string {
	if s.rendered != "" && s.renderedWidth == width {
		return s.rendered
	}
	if s.renderer == nil || s.renderedWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width-4),
		)
		if err != nil {
			return md
		}
		s.renderer = r
	}
	out, err := s.renderer.Render(md)
	if err != nil {
		return md
	}
	s.rendered = strings.TrimRight(out, "\n")
	s.renderedWidth = width
	return s.rendered
}
