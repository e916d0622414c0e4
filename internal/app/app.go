package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/akhaled/eduterm/internal/auth"
	"github.com/akhaled/eduterm/internal/router"
	"github.com/akhaled/eduterm/internal/screen"
	"github.com/akhaled/eduterm/internal/screens/home"
	"github.com/akhaled/eduterm/internal/screens/login"
	"github.com/akhaled/eduterm/internal/store"
	"github.com/akhaled/eduterm/internal/ui/layout"
)

// Options carries the app's injected dependencies.
type Options struct {
	API    api.Service
	Auth   *auth.Context
	Events store.EventRepo

	// Initial, when set, is pushed above home at startup so a command
	// like "eduterm take" can land straight on a screen. Ignored when
	// the user is not logged in.
	Initial screen.Screen
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel creates the AppModel, starting at login or home depending
// on whether a token survived from a previous run.
func newAppModel(opts Options) AppModel {
	var initial screen.Screen
	if opts.Auth.LoggedIn() {
		initial = home.New(opts.API, opts.Auth, opts.Events)
	} else {
		initial = login.New(opts.API, opts.Auth)
	}
	return AppModel{
		opts:   opts,
		router: router.New(initial),
	}
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if !m.opts.Auth.LoggedIn() {
		return cmd
	}
	if m.opts.Initial != nil {
		cmd = tea.Batch(cmd, m.router.Push(m.opts.Initial))
	}
	// Refresh the profile behind the header. A stale token surfaces
	// here as ErrAuthRequired and drops the user back to login.
	return tea.Batch(cmd, func() tea.Msg {
		user, err := m.opts.API.CurrentUser(context.Background())
		if err != nil {
			return profileRefreshMsg{Err: err}
		}
		return profileRefreshMsg{User: user}
	})
}

type profileRefreshMsg struct {
	User *api.User
	Err  error
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case profileRefreshMsg:
		if msg.Err != nil {
			_ = m.opts.Auth.Clear(context.Background())
			return m, m.router.Replace(login.New(m.opts.API, m.opts.Auth))
		}
		m.opts.Auth.SetUser(msg.User)
		return m, nil

	case login.LoggedInMsg:
		return m, m.router.Replace(home.New(m.opts.API, m.opts.Auth, m.opts.Events))

	case home.LoggedOutMsg:
		return m, m.router.Replace(login.New(m.opts.API, m.opts.Auth))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.opts.Auth.DisplayName(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
