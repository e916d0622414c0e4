package lessons

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/akhaled/eduterm/internal/router"
	"github.com/akhaled/eduterm/internal/screen"
	"github.com/akhaled/eduterm/internal/ui/layout"
	"github.com/akhaled/eduterm/internal/ui/theme"
)

const pageSize = 10

type lessonsLoadedMsg struct {
	Lessons    []api.Lesson
	Purchased  map[string]bool
	Pagination api.Pagination
	Err        error
}

type paymentDoneMsg struct {
	LessonID string
	Err      error
}

// LessonsScreen lists lessons one page at a time and lets the learner
// pay for locked ones.
type LessonsScreen struct {
	svc       api.Service
	lessons   []api.Lesson
	purchased map[string]bool
	page      int
	pages     int
	selected  int
	loaded    bool
	paying    bool
	confirm   bool
	notice    string
	errMsg    string
}

var _ screen.Screen = (*LessonsScreen)(nil)
var _ screen.KeyHintProvider = (*LessonsScreen)(nil)

// New creates a new LessonsScreen.
func New(svc api.Service) *LessonsScreen {
	return &LessonsScreen{svc: svc, page: 1, purchased: make(map[string]bool)}
}

func (s *LessonsScreen) Init() tea.Cmd {
	return s.loadPage(s.page)
}

func (s *LessonsScreen) loadPage(page int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		lessons, pagination, err := s.svc.Lessons(ctx, api.LessonQuery{
			Page:      page,
			Limit:     pageSize,
			SortBy:    "createdAt",
			SortOrder: "desc",
		})
		if err != nil {
			return lessonsLoadedMsg{Err: err}
		}

		purchased := make(map[string]bool)
		if owned, err := s.svc.PurchasedLessons(ctx); err == nil {
			for _, l := range owned {
				purchased[l.ID] = true
			}
		}

		return lessonsLoadedMsg{Lessons: lessons, Purchased: purchased, Pagination: pagination}
	}
}

func (s *LessonsScreen) Title() string {
	return "Lessons"
}

func (s *LessonsScreen) KeyHints() []layout.KeyHint {
	if s.confirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Pay"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Page"},
		{Key: "Enter", Description: "Unlock"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LessonsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.lessons = msg.Lessons
		s.purchased = msg.Purchased
		s.pages = msg.Pagination.Pages
		if s.selected >= len(s.lessons) {
			s.selected = 0
		}
		return s, nil

	case paymentDoneMsg:
		s.paying = false
		if msg.Err != nil {
			s.notice = "Payment failed: " + msg.Err.Error()
			return s, nil
		}
		s.notice = "Lesson unlocked."
		s.purchased[msg.LessonID] = true
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LessonsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirm {
		switch key {
		case "y", "Y":
			s.confirm = false
			s.paying = true
			lesson := s.lessons[s.selected]
			return s, func() tea.Msg {
				err := s.svc.PayLesson(context.Background(), lesson.ID)
				return paymentDoneMsg{LessonID: lesson.ID, Err: err}
			}
		case "n", "N", "esc":
			s.confirm = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.lessons)-1 {
			s.selected++
		}
	case "left", "h":
		if s.page > 1 {
			s.page--
			s.loaded = false
			return s, s.loadPage(s.page)
		}
	case "right", "l":
		if s.pages == 0 || s.page < s.pages {
			s.page++
			s.loaded = false
			return s, s.loadPage(s.page)
		}
	case "enter":
		if s.paying || s.selected >= len(s.lessons) {
			return s, nil
		}
		lesson := s.lessons[s.selected]
		if lesson.IsPaid && !s.purchased[lesson.ID] {
			s.confirm = true
			s.notice = ""
		}
	}
	return s, nil
}

func (s *LessonsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\nCould not load lessons: " + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nLoading...")
	}
	if len(s.lessons) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.TextDim).
			Render("No lessons available for your class level.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, l := range s.lessons {
		line := fmt.Sprintf("%-40s %s", layout.Truncate(l.Title, 40), s.access(l))
		if i == s.selected {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ " + line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("    " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	pageInfo := fmt.Sprintf("page %d", s.page)
	if s.pages > 0 {
		pageInfo = fmt.Sprintf("page %d/%d", s.page, s.pages)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + pageInfo))

	if s.confirm {
		lesson := s.lessons[s.selected]
		prompt := fmt.Sprintf("Unlock %q for %d? (y/n)", lesson.Title, lesson.Price)
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("  "+prompt))
	} else if s.paying {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("  Processing payment..."))
	} else if s.notice != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Render("  "+s.notice))
	}

	return b.String()
}

func (s *LessonsScreen) access(l api.Lesson) string {
	switch {
	case s.purchased[l.ID]:
		return "owned"
	case l.IsPaid:
		return fmt.Sprintf("locked (%d)", l.Price)
	default:
		return "free"
	}
}

