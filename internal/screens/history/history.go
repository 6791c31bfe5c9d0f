package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquasafe/internal/llm"
	"github.com/abhisek/aquasafe/internal/router"
	"github.com/abhisek/aquasafe/internal/screen"
	"github.com/abhisek/aquasafe/internal/store"
	"github.com/abhisek/aquasafe/internal/ui/layout"
	"github.com/abhisek/aquasafe/internal/ui/theme"
)

const listLimit = 50

type historyLoadedMsg struct {
	Assessments []store.Assessment
	Usage       []store.ModelUsage
	Err         error
}

// HistoryScreen lists this session's assessments and LLM usage.
type HistoryScreen struct {
	assessments store.AssessmentRepo
	events      store.EventRepo
	rows        []store.Assessment
	usage       []store.ModelUsage
	selected    int
	expanded    map[int]bool
	loaded      bool
	errMsg      string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. events may be nil when reports are off.
func New(assessments store.AssessmentRepo, events store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		assessments: assessments,
		events:      events,
		expanded:    make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	assessments, events := s.assessments, s.events
	return func() tea.Msg {
		ctx := context.Background()

		rows, err := assessments.List(ctx, store.QueryOpts{Limit: listLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Usage is secondary; show the assessments even if it fails.
		var usage []store.ModelUsage
		if events != nil {
			usage, _ = events.UsageByModel(ctx)
		}

		return historyLoadedMsg{Assessments: rows, Usage: usage}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.rows = msg.Assessments
			s.usage = msg.Usage
			s.selected = min(s.selected, max(len(s.rows)-1, 0))
		}
		s.loaded = true
		return s, nil

	case router.ResumedMsg:
		return s, s.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.rows)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No samples analyzed yet this session.")
	}

	center := func(line string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, line) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, row := range s.rows {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s#%-3d %s  %-30s %6.2f%%",
			prefix, row.Sequence, row.Timestamp.Format("15:04:05"), row.Label, row.Confidence*100)

		style := lipgloss.NewStyle().Foreground(outcomeColor(row.Outcome))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(center(style.Render(line)))

		if s.expanded[i] {
			dim := lipgloss.NewStyle().Foreground(theme.TextDim)
			for _, detail := range details(row) {
				b.WriteString(center(dim.Render("    " + detail)))
			}
		}
	}

	if len(s.usage) > 0 {
		b.WriteString("\n")
		b.WriteString(center(theme.Label.Render("AI usage this session")))
		for _, u := range s.usage {
			b.WriteString(center(theme.Body.Render(usageLine(u))))
		}
	}

	return b.String()
}

// details lists the measured values and notes of an assessment.
func details(row store.Assessment) []string {
	lines := []string{
		fmt.Sprintf("pH %g  Turbidity %g NTU  DO %g mg/L", row.PH, row.Turbidity, row.DissolvedOxygen),
		fmt.Sprintf("Conductivity %g µS/cm  TDS %g ppm  Threshold %.2f", row.Conductivity, row.TDS, row.Threshold),
	}
	if row.Violation != "" {
		lines = append(lines, "Violation: "+row.Violation)
	}
	if row.Error != "" {
		lines = append(lines, "Error: "+row.Error)
	}
	if row.Report != "" {
		lines = append(lines, "AI report attached")
	}
	return append(lines, "ID "+row.UUID)
}

func usageLine(u store.ModelUsage) string {
	line := fmt.Sprintf("%s  %d requests  %d in / %d out tokens",
		u.Model, u.Requests, u.InputTokens, u.OutputTokens)
	if u.Failures > 0 {
		line += fmt.Sprintf("  %d failed", u.Failures)
	}
	if cost := llm.LookupCost(u.Model); cost != nil {
		line += fmt.Sprintf("  ~$%.4f", cost.Cost(u.InputTokens, u.OutputTokens))
	}
	return line
}

func outcomeColor(outcome string) color.Color {
	switch outcome {
	case "safe":
		return theme.Success
	case "error":
		return theme.Accent
	default:
		return theme.Error
	}
}
