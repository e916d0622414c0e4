package exams

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/akhaled/eduterm/internal/router"
	"github.com/akhaled/eduterm/internal/screen"
	"github.com/akhaled/eduterm/internal/screens/examsession"
	"github.com/akhaled/eduterm/internal/store"
	"github.com/akhaled/eduterm/internal/ui/layout"
	"github.com/akhaled/eduterm/internal/ui/theme"
)

type examsLoadedMsg struct {
	Exams  []api.Exam
	Scores map[string]api.ScoreStatus
	Err    error
}

// ExamsScreen lists available exams with their submission status. Open
// unsubmitted exams can be entered; closed or already-scored ones are
// shown but not selectable.
type ExamsScreen struct {
	svc       api.Service
	eventRepo store.EventRepo
	exams     []api.Exam
	scores    map[string]api.ScoreStatus
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*ExamsScreen)(nil)
var _ screen.KeyHintProvider = (*ExamsScreen)(nil)

// New creates a new ExamsScreen.
func New(svc api.Service, eventRepo store.EventRepo) *ExamsScreen {
	return &ExamsScreen{svc: svc, eventRepo: eventRepo}
}

func (s *ExamsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		exams, err := s.svc.Exams(ctx)
		if err != nil {
			return examsLoadedMsg{Err: err}
		}

		// Score checks are best-effort; an exam with an unknown status
		// is still listed, it just shows no score.
		scores := make(map[string]api.ScoreStatus, len(exams))
		for _, e := range exams {
			st, err := s.svc.ScoreStatus(ctx, e.ID)
			if err != nil {
				continue
			}
			scores[e.ID] = st
		}

		return examsLoadedMsg{Exams: exams, Scores: scores}
	}
}

func (s *ExamsScreen) Title() string {
	return "Exams"
}

func (s *ExamsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Take exam"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ExamsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case examsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.exams = msg.Exams
		s.scores = msg.Scores
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
			if s.selected < len(s.exams)-1 {
				s.selected++
			}
		case "enter":
			if s.selected >= len(s.exams) {
				return s, nil
			}
			exam := s.exams[s.selected]
			if !s.takeable(exam) {
				return s, nil
			}
			return s, func() tea.Msg {
				return router.PushScreenMsg{
					Screen: examsession.New(s.svc, s.eventRepo, exam),
				}
			}
		}
	}
	return s, nil
}

func (s *ExamsScreen) takeable(e api.Exam) bool {
	if st, ok := s.scores[e.ID]; ok && st.Submitted {
		return false
	}
	return e.OpenAt(time.Now())
}

func (s *ExamsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\nCould not load exams: " + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nLoading...")
	}
	if len(s.exams) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.TextDim).
			Render("No exams available right now.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, e := range s.exams {
		line := fmt.Sprintf("%-36s %3d min  %s", layout.Truncate(e.Title, 36), e.Duration, s.status(e))
		switch {
		case i == s.selected && s.takeable(e):
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ " + line))
		case i == s.selected:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render("  ▸ " + line))
		case s.takeable(e):
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("    " + line))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("    " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *ExamsScreen) status(e api.Exam) string {
	if st, ok := s.scores[e.ID]; ok && st.Submitted {
		return fmt.Sprintf("scored %d", st.Score)
	}
	if !e.OpenAt(time.Now()) {
		return "closed"
	}
	return "open"
}

