package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/akhaled/eduterm/internal/auth"
	"github.com/akhaled/eduterm/internal/screen"
	"github.com/akhaled/eduterm/internal/ui/components"
	"github.com/akhaled/eduterm/internal/ui/layout"
	"github.com/akhaled/eduterm/internal/ui/theme"
)

// LoggedInMsg announces a successful login. The app model swaps the
// login screen for home when it sees this.
type LoggedInMsg struct {
	User *api.User
}

type loginDoneMsg struct {
	User *api.User
	Err  error
}

const (
	fieldEmail = iota
	fieldPassword
)

// LoginScreen collects credentials and exchanges them for a token.
type LoginScreen struct {
	svc     api.Service
	authCtx *auth.Context

	email    components.TextInput
	password components.TextInput
	focus    int
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a new LoginScreen.
func New(svc api.Service, authCtx *auth.Context) *LoginScreen {
	return &LoginScreen{
		svc:      svc,
		authCtx:  authCtx,
		email:    components.NewTextInput("Email", "you@example.com", 120),
		password: components.NewPasswordInput("Password", 120),
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.email.Focus()
}

func (s *LoginScreen) Title() string {
	return "Sign in"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		s.busy = false
		if msg.Err != nil {
			if errors.Is(msg.Err, api.ErrAuthRequired) {
				s.errMsg = "Invalid email or password."
			} else {
				s.errMsg = msg.Err.Error()
			}
			return s, nil
		}
		return s, func() tea.Msg { return LoggedInMsg{User: msg.User} }

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus(fieldPassword)
		case "shift+tab", "up":
			return s, s.setFocus(fieldEmail)
		case "enter":
			if s.focus == fieldEmail {
				return s, s.setFocus(fieldPassword)
			}
			return s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focus == fieldEmail {
		s.email, cmd = s.email.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) setFocus(field int) tea.Cmd {
	s.focus = field
	if field == fieldEmail {
		s.password.Blur()
		return s.email.Focus()
	}
	s.email.Blur()
	return s.password.Focus()
}

func (s *LoginScreen) submit() (screen.Screen, tea.Cmd) {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()
	if email == "" || password == "" {
		s.errMsg = "Both fields are required."
		return s, nil
	}

	s.busy = true
	s.errMsg = ""
	return s, func() tea.Msg {
		ctx := context.Background()
		token, err := s.svc.Login(ctx, api.LoginInput{Email: email, Password: password})
		if err != nil {
			return loginDoneMsg{Err: err}
		}
		if err := s.authCtx.SetToken(ctx, token); err != nil {
			return loginDoneMsg{Err: err}
		}

		// The profile fetch is for the header; login already succeeded.
		user, err := s.svc.CurrentUser(ctx)
		if err == nil {
			s.authCtx.SetUser(user)
		}
		return loginDoneMsg{User: user}
	}
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Welcome to EduTerm") + "\n")
	b.WriteString(theme.Subtitle.Render("Sign in with your EduMaster account") + "\n\n")
	b.WriteString(s.email.View() + "\n\n")
	b.WriteString(s.password.View() + "\n")

	if s.busy {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Signing in..."))
	} else if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	card := theme.Card.Width(min(width-8, 52)).Render(b.String())
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}
