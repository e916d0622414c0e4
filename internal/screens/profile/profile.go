package profile

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/akhaled/eduterm/internal/auth"
	"github.com/akhaled/eduterm/internal/router"
	"github.com/akhaled/eduterm/internal/screen"
	"github.com/akhaled/eduterm/internal/ui/layout"
	"github.com/akhaled/eduterm/internal/ui/theme"
)

type profileLoadedMsg struct {
	User *api.User
	Err  error
}

// ProfileScreen shows the logged-in account's details.
type ProfileScreen struct {
	svc     api.Service
	authCtx *auth.Context
	user    *api.User
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a new ProfileScreen.
func New(svc api.Service, authCtx *auth.Context) *ProfileScreen {
	return &ProfileScreen{svc: svc, authCtx: authCtx}
}

func (s *ProfileScreen) Init() tea.Cmd {
	// The cached profile renders immediately; the fetch refreshes it.
	s.user = s.authCtx.User()
	return func() tea.Msg {
		u, err := s.svc.CurrentUser(context.Background())
		return profileLoadedMsg{User: u, Err: err}
	}
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.user = msg.User
		s.authCtx.SetUser(msg.User)
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *ProfileScreen) View(width, height int) string {
	if s.user == nil {
		if s.errMsg != "" {
			return lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.Error).
				Render("\n\nCould not load profile: " + s.errMsg)
		}
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nLoading...")
	}

	u := s.user
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Foreground(theme.Text)

	var b strings.Builder
	rows := []struct{ k, v string }{
		{"Name", u.FullName},
		{"Email", u.Email},
		{"Phone", u.PhoneNumber},
		{"Class level", u.ClassLevel},
		{"Role", string(u.Role)},
		{"Verified", fmt.Sprintf("%t", u.IsVerified)},
	}
	for _, r := range rows {
		b.WriteString(label.Render(fmt.Sprintf("%14s  ", r.k)))
		b.WriteString(value.Render(r.v))
		b.WriteString("\n")
	}

	card := theme.Card.Render(b.String())
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}
