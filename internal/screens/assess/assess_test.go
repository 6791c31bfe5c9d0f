package assess

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/aquasafe/internal/analyzer"
	"github.com/abhisek/aquasafe/internal/classifier"
	"github.com/abhisek/aquasafe/internal/decision"
	"github.com/abhisek/aquasafe/internal/llm"
	"github.com/abhisek/aquasafe/internal/report"
	"github.com/abhisek/aquasafe/internal/sample"
)

const cannedReport = `{
  "classification": {"grade": "Good", "summary": "Within all limits."},
  "key_issues": [],
  "treatments": [{"method": "Boiling", "reason": "Removes pathogens"}],
  "post_treatment_uses": [],
  "health_environment": [],
  "conclusion": ["Suitable for drinking."]
}`

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func typeText(s *AssessScreen, text string) {
	for _, r := range text {
		s.Update(key(r))
	}
}

func clearField(s *AssessScreen) {
	for range 12 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	}
}

func focusField(s *AssessScreen, field sample.Field) {
	for s.form.focused() != field {
		s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	}
}

// runCmd executes cmd and feeds back messages the screen knows about.
func runCmd(t *testing.T, s *AssessScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case assessedMsg:
		_, next := s.Update(msg)
		runCmd(t, s, next)
	case reportReadyMsg:
		s.Update(msg)
	case tea.BatchMsg:
		for _, c := range msg {
			runCmd(t, s, c)
		}
	}
}

func newScreen(p float64, provider llm.Provider) (*AssessScreen, *classifier.Mock) {
	mock := classifier.NewMock(p)
	opts := analyzer.Options{Threshold: 0.5}
	if provider != nil {
		opts.Reports = report.New(provider, report.DefaultConfig(), nil)
	}
	return New(analyzer.New(decision.NewEngine(mock), opts)), mock
}

func TestForm_DefaultsAreLinked(t *testing.T) {
	s, _ := newScreen(0.9, nil)

	if got := s.form.inputs[indexOf(sample.FieldConductivity)].Value(); got != "300" {
		t.Errorf("conductivity = %q, want 300", got)
	}
	if got := s.form.inputs[indexOf(sample.FieldTDS)].Value(); got != "192" {
		t.Errorf("tds = %q, want 192", got)
	}
}

func TestForm_ConductivityEditRewritesTDS(t *testing.T) {
	s, _ := newScreen(0.9, nil)
	focusField(s, sample.FieldConductivity)
	clearField(s)
	typeText(s, "500")

	if got := s.form.inputs[indexOf(sample.FieldTDS)].Value(); got != "320" {
		t.Errorf("tds = %q, want 320", got)
	}
	if !s.form.pair.Consistent() {
		t.Error("pair should stay consistent after an edit")
	}
}

func TestForm_TDSEditRewritesConductivity(t *testing.T) {
	s, _ := newScreen(0.9, nil)
	focusField(s, sample.FieldTDS)
	clearField(s)
	typeText(s, "64")

	if got := s.form.inputs[indexOf(sample.FieldConductivity)].Value(); got != "100" {
		t.Errorf("conductivity = %q, want 100", got)
	}
}

func TestForm_OutOfRangeBlocksSubmit(t *testing.T) {
	s, mock := newScreen(0.9, nil)
	focusField(s, sample.FieldPH)
	clearField(s)
	typeText(s, "15")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no analysis for an out-of-range pH")
	}
	if s.phase != phaseForm {
		t.Errorf("phase = %v, want form", s.phase)
	}
	if !strings.Contains(s.form.errText, "pH") {
		t.Errorf("errText = %q, want it to name pH", s.form.errText)
	}
	if mock.CallCount() != 0 {
		t.Error("classifier should not be called")
	}
}

func TestAnalyze_SafeVerdict(t *testing.T) {
	s, mock := newScreen(0.9, nil)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.phase != phaseAnalyzing {
		t.Fatalf("phase = %v, want analyzing", s.phase)
	}
	runCmd(t, s, cmd)

	if s.phase != phaseResult {
		t.Fatalf("phase = %v, want result", s.phase)
	}
	if !s.result.Verdict.Safe() {
		t.Errorf("expected safe verdict, got %s", s.result.Verdict.Label())
	}
	if mock.CallCount() != 1 {
		t.Errorf("classifier calls = %d, want 1", mock.CallCount())
	}

	view := s.View(100, 60)
	if !strings.Contains(view, "Safe Water") {
		t.Error("view should show the verdict label")
	}
	if !strings.Contains(view, "ML Confidence: 90.00%") {
		t.Error("view should show the confidence percentage")
	}
}

func TestAnalyze_RuleViolationSkipsClassifier(t *testing.T) {
	s, mock := newScreen(0.99, nil)
	focusField(s, sample.FieldTurbidity)
	clearField(s)
	typeText(s, "5")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	runCmd(t, s, cmd)

	if s.result.Verdict.Outcome != decision.OutcomeRuleViolation {
		t.Errorf("outcome = %s, want rule violation", s.result.Verdict.Outcome)
	}
	if mock.CallCount() != 0 {
		t.Errorf("classifier calls = %d, want 0", mock.CallCount())
	}
	if !strings.Contains(s.View(100, 60), "Unsafe (WHO Rule Violation)") {
		t.Error("view should show the rule violation label")
	}
}

func TestAnalyze_ReportRendered(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(cannedReport)})
	s, _ := newScreen(0.9, provider)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	runCmd(t, s, cmd)

	if s.reportLoading {
		t.Fatal("report should have finished")
	}
	if s.report == nil {
		t.Fatalf("expected a report, got error %v", s.reportErr)
	}
	if s.report.Classification.Grade != "Good" {
		t.Errorf("grade = %q, want Good", s.report.Classification.Grade)
	}
	view := s.View(100, 200)
	if !strings.Contains(view, report.Footer) {
		t.Error("view should carry the advisory footer")
	}
}

func TestAnalyze_ReportFailureKeepsVerdict(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Err: errors.New("quota exceeded")})
	s, _ := newScreen(0.2, provider)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	runCmd(t, s, cmd)

	if s.result == nil || s.result.Verdict.Outcome != decision.OutcomeNeedsTreatment {
		t.Fatal("verdict should survive a report failure")
	}
	var gen *report.GenerationError
	if !errors.As(s.reportErr, &gen) {
		t.Fatalf("reportErr = %v, want GenerationError", s.reportErr)
	}
	if !strings.Contains(s.View(100, 200), "AI insight generation failed") {
		t.Error("view should show the generation failure")
	}
}

func TestStaleResultIgnored(t *testing.T) {
	s, _ := newScreen(0.9, nil)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.run++ // a newer analysis started

	s.Update(assessedMsg{Run: s.run - 1})
	if s.phase != phaseAnalyzing {
		t.Errorf("phase = %v, stale result should be ignored", s.phase)
	}
}

func TestResult_EnterReturnsToForm(t *testing.T) {
	s, _ := newScreen(0.9, nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	runCmd(t, s, cmd)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.phase != phaseForm {
		t.Errorf("phase = %v, want form", s.phase)
	}
	if got := s.form.inputs[indexOf(sample.FieldConductivity)].Value(); got != "300" {
		t.Errorf("form values should be kept, conductivity = %q", got)
	}
}
