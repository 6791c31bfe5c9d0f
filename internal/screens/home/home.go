package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/aquasafe/internal/analyzer"
	"github.com/abhisek/aquasafe/internal/router"
	"github.com/abhisek/aquasafe/internal/screen"
	"github.com/abhisek/aquasafe/internal/screens/assess"
	"github.com/abhisek/aquasafe/internal/screens/history"
	"github.com/abhisek/aquasafe/internal/store"
	"github.com/abhisek/aquasafe/internal/ui/components"
	"github.com/abhisek/aquasafe/internal/ui/layout"
)

// stats summarizes the session for the stats bar.
type stats struct {
	assessed       int
	lastOutcome    string
	threshold      float64
	reportsEnabled bool
}

type statsLoadedMsg struct {
	Count       int
	LastOutcome string
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu        components.Menu
	menuLabels  []string
	assessments store.AssessmentRepo
	stats       stats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. events may be nil.
func New(a *analyzer.Analyzer, assessments store.AssessmentRepo, events store.EventRepo) *HomeScreen {
	menuLabels := []string{"ANALYZE SAMPLE", "HISTORY", "QUIT"}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: assess.New(a)}
			}
		}},
		{Label: menuLabels[1], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(assessments, events)}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:        components.NewMenu(items),
		menuLabels:  menuLabels,
		assessments: assessments,
		stats: stats{
			threshold:      a.Threshold(),
			reportsEnabled: a.ReportsEnabled(),
		},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// loadStats counts this session's assessments and fetches the latest outcome.
func (h *HomeScreen) loadStats() tea.Cmd {
	repo := h.assessments
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		n, err := repo.Count(ctx)
		if err != nil {
			return nil
		}
		msg := statsLoadedMsg{Count: n}
		if latest, err := repo.List(ctx, store.QueryOpts{Limit: 1}); err == nil && len(latest) > 0 {
			msg.LastOutcome = latest[0].Outcome
		}
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		h.stats.assessed = msg.Count
		h.stats.lastOutcome = msg.LastOutcome
		return h, nil
	case router.ResumedMsg:
		return h, h.loadStats()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps.
	termHeight := height + 8
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderDropletBox(dropletFor(h.stats.lastOutcome), cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw))
	if !h.stats.reportsEnabled {
		sections = append(sections, renderReportsBanner(cw))
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Assessed returns the number of samples analyzed this session.
func (h *HomeScreen) Assessed() int {
	return h.stats.assessed
}
