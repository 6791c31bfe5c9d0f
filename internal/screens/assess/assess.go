// Package assess is the Analyze screen: the measurement form, the verdict
// and the advisory report.
package assess

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/aquasafe/internal/analyzer"
	"github.com/abhisek/aquasafe/internal/report"
	"github.com/abhisek/aquasafe/internal/screen"
	"github.com/abhisek/aquasafe/internal/ui/layout"
)

type phase int

const (
	phaseForm phase = iota
	phaseAnalyzing
	phaseResult
)

// AssessScreen implements screen.Screen for analyzing a sample.
type AssessScreen struct {
	analyzer *analyzer.Analyzer
	form     *form
	phase    phase

	// run increments per analysis so late results from an earlier run are
	// dropped.
	run    int
	result *analyzer.Assessment

	reportLoading bool
	report        *report.Report
	reportErr     error
	spinnerFrame  int
	scroll        int

	renderer      *glamour.TermRenderer
	renderedWidth int
	rendered      string
}

var _ screen.Screen = (*AssessScreen)(nil)
var _ screen.KeyHintProvider = (*AssessScreen)(nil)

// New creates an AssessScreen backed by a.
func New(a *analyzer.Analyzer) *AssessScreen {
	return &AssessScreen{
		analyzer: a,
		form:     newForm(),
	}
}

func (s *AssessScreen) Init() tea.Cmd {
	return s.form.inputs[s.form.focus].Focus()
}

func (s *AssessScreen) Title() string {
	return "Analyze Sample"
}

func (s *AssessScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAnalyzing:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case phaseResult:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Enter", Description: "Edit sample"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Field"},
		{Key: "Enter", Description: "Analyze"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AssessScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case assessedMsg:
		return s.handleAssessed(msg)

	case reportReadyMsg:
		return s.handleReport(msg)

	case spinnerTickMsg:
		if !s.reportLoading {
			return s, nil
		}
		s.spinnerFrame++
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseForm {
		return s, s.form.update(msg)
	}
	return s, nil
}

func (s *AssessScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseAnalyzing:
		return s, nil

	case phaseResult:
		switch msg.String() {
		case "up", "k":
			s.scroll = max(s.scroll-1, 0)
		case "down", "j":
			s.scroll++
		case "pgup":
			s.scroll = max(s.scroll-10, 0)
		case "pgdown", "space":
			s.scroll += 10
		case "enter", "e":
			s.phase = phaseForm
			return s, s.form.inputs[s.form.focus].Focus()
		}
		return s, nil
	}

	switch msg.String() {
	case "tab", "down":
		return s, s.form.move(1)
	case "shift+tab", "up":
		return s, s.form.move(-1)
	case "enter":
		return s.submit()
	}
	return s, s.form.update(msg)
}

// submit validates the form and starts an analysis.
func (s *AssessScreen) submit() (screen.Screen, tea.Cmd) {
	smp, ok := s.form.sample()
	if !ok {
		return s, nil
	}

	s.run++
	s.phase = phaseAnalyzing
	s.result = nil
	s.report = nil
	s.reportErr = nil
	s.reportLoading = false
	s.rendered = ""
	s.scroll = 0

	run, a := s.run, s.analyzer
	return s, func() tea.Msg {
		as, err := a.Assess(context.Background(), smp)
		return assessedMsg{Run: run, Assessment: as, Err: err}
	}
}

func (s *AssessScreen) handleAssessed(msg assessedMsg) (screen.Screen, tea.Cmd) {
	if msg.Run != s.run {
		return s, nil
	}
	if msg.Err != nil {
		s.phase = phaseForm
		s.form.errText = msg.Err.Error()
		return s, nil
	}

	s.phase = phaseResult
	s.result = msg.Assessment

	if !s.analyzer.ReportsEnabled() {
		return s, nil
	}
	s.reportLoading = true
	run, a, as := s.run, s.analyzer, msg.Assessment
	return s, tea.Batch(
		func() tea.Msg {
			r, err := a.Report(context.Background(), as)
			return reportReadyMsg{Run: run, Report: r, Err: err}
		},
		spinnerTick(),
	)
}

func (s *AssessScreen) handleReport(msg reportReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Run != s.run {
		return s, nil
	}
	s.reportLoading = false
	if msg.Err != nil {
		var gen *report.GenerationError
		if !errors.As(msg.Err, &gen) {
			msg.Err = &report.GenerationError{Err: msg.Err}
		}
		s.reportErr = msg.Err
		return s, nil
	}
	s.report = msg.Report
	return s, nil
}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
