package history

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aquasafe/internal/router"
	"github.com/abhisek/aquasafe/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func load(t *testing.T, s *HistoryScreen, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestHistory_Empty(t *testing.T) {
	st := openStore(t)
	s := New(st.AssessmentRepo(), st.EventRepo())
	load(t, s, s.Init())

	assert.Contains(t, s.View(100, 30), "No samples analyzed yet")
}

func TestHistory_ListsAssessmentsAndUsage(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	_, err := st.AssessmentRepo().Append(ctx, store.AssessmentData{
		PH: 7, Turbidity: 3, Conductivity: 300, DissolvedOxygen: 7, TDS: 192,
		Threshold: 0.5, Outcome: "safe", Label: "Safe Water", Confidence: 0.91,
	})
	require.NoError(t, err)
	_, err = st.AssessmentRepo().Append(ctx, store.AssessmentData{
		PH: 9, Turbidity: 3, Conductivity: 300, DissolvedOxygen: 7, TDS: 192,
		Threshold: 0.5, Outcome: "rule_violation", Label: "Unsafe (WHO Rule Violation)",
		Violation: "ph = 9 outside [6.5, 8.5]",
	})
	require.NoError(t, err)
	require.NoError(t, st.EventRepo().AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "report",
		InputTokens: 1000, OutputTokens: 500, Success: true,
	}))

	s := New(st.AssessmentRepo(), st.EventRepo())
	load(t, s, s.Init())

	view := s.View(120, 40)
	assert.Contains(t, view, "Safe Water")
	assert.Contains(t, view, "Unsafe (WHO Rule Violation)")
	assert.Contains(t, view, "91.00%")
	assert.Contains(t, view, "gemini-2.5-flash")
	assert.Contains(t, view, "~$")

	// Newest first: the violation is selected; expanding it shows the cause.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(120, 40), "Violation: ph = 9")
}

func TestHistory_ReloadsOnResume(t *testing.T) {
	st := openStore(t)
	s := New(st.AssessmentRepo(), nil)
	load(t, s, s.Init())
	require.Empty(t, s.rows)

	_, err := st.AssessmentRepo().Append(context.Background(), store.AssessmentData{
		Outcome: "needs_treatment", Label: "Unsafe / Needs Treatment", Confidence: 0.2,
	})
	require.NoError(t, err)

	_, cmd := s.Update(router.ResumedMsg{})
	load(t, s, cmd)
	require.Len(t, s.rows, 1)
	assert.True(t, strings.Contains(s.View(120, 40), "Needs Treatment"))
}
