package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/akhaled/eduterm/internal/router"
	"github.com/akhaled/eduterm/internal/screen"
	"github.com/akhaled/eduterm/internal/session"
	"github.com/akhaled/eduterm/internal/store"
	"github.com/akhaled/eduterm/internal/ui/layout"
	"github.com/akhaled/eduterm/internal/ui/theme"
)

type historyLoadedMsg struct {
	Attempts []store.AttemptRecord
	Err      error
}

// HistoryScreen displays past exam attempts from the local event log.
type HistoryScreen struct {
	eventRepo store.EventRepo
	attempts  []store.AttemptRecord
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{eventRepo: eventRepo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		attempts, err := s.eventRepo.QueryAttempts(context.Background(), store.QueryOpts{Limit: 50})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Attempts: attempts}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
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
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\nCould not load history: " + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nLoading...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.TextDim).
			Render("No attempts yet.\nTake an exam and it will show up here.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, a := range s.attempts {
		line := fmt.Sprintf("%s  %-30s %s",
			a.Timestamp.Format("2006-01-02 15:04"),
			layout.Truncate(a.ExamTitle, 30),
			describeAttempt(a),
		)
		if i == s.selected {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ " + line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("    " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func describeAttempt(a store.AttemptRecord) string {
	switch a.Action {
	case store.AttemptActionSubmit:
		desc := fmt.Sprintf("scored %d/%d (%d of %d answered", a.Score, a.TotalPoints, a.Answered, a.Questions)
		if a.AutoSubmitted {
			desc += ", auto-submitted"
		}
		desc += ")"
		if a.DurationSecs > 0 {
			desc += " in " + session.FormatSeconds(a.DurationSecs)
		}
		return desc
	case store.AttemptActionFail:
		return "submission failed"
	default:
		return "started"
	}
}

