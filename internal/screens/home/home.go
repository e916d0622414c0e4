package home

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/akhaled/eduterm/internal/auth"
	"github.com/akhaled/eduterm/internal/router"
	"github.com/akhaled/eduterm/internal/screen"
	"github.com/akhaled/eduterm/internal/screens/exams"
	"github.com/akhaled/eduterm/internal/screens/history"
	"github.com/akhaled/eduterm/internal/screens/lessons"
	"github.com/akhaled/eduterm/internal/screens/profile"
	"github.com/akhaled/eduterm/internal/store"
	"github.com/akhaled/eduterm/internal/ui/components"
	"github.com/akhaled/eduterm/internal/ui/theme"
)

// LoggedOutMsg announces that the learner logged out. The app model
// swaps home for the login screen when it sees this.
type LoggedOutMsg struct{}

// HomeScreen is the main navigation hub.
type HomeScreen struct {
	menu    components.Menu
	authCtx *auth.Context
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc api.Service, authCtx *auth.Context, eventRepo store.EventRepo) *HomeScreen {
	items := []components.MenuItem{
		{Label: "EXAMS", Detail: "take an exam", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: exams.New(svc, eventRepo)}
			}
		}},
		{Label: "LESSONS", Detail: "browse and unlock lessons", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: lessons.New(svc)}
			}
		}},
		{Label: "HISTORY", Detail: "past attempts", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(eventRepo)}
			}
		}},
		{Label: "PROFILE", Detail: "account details", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: profile.New(svc, authCtx)}
			}
		}},
		{Label: "LOG OUT", Action: func() tea.Cmd {
			return func() tea.Msg {
				_ = authCtx.Clear(context.Background())
				return LoggedOutMsg{}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:    components.NewMenu(items),
		authCtx: authCtx,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	greeting := "Welcome back"
	if name := h.authCtx.DisplayName(); name != "" {
		greeting = "Welcome back, " + name
	}

	content := theme.Title.Render("EduTerm") + "\n" +
		theme.Subtitle.Render(greeting) + "\n\n" +
		h.menu.View()

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
