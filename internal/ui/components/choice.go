package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akhaled/eduterm/internal/ui/theme"
)

// Choice is an answer selector for one question. Unlike a graded
// selector it never reveals correctness; the exam is scored server-side
// after submission. Chosen is the committed answer, which stays visible
// when the learner navigates back to the question.
type Choice struct {
	Question string
	Options  []string
	Selected int
	Chosen   int // -1 until an answer is committed
}

// NewChoice creates a selector. If the learner already answered, chosen
// is that option's index and the cursor starts there.
func NewChoice(question string, options []string, chosen int) Choice {
	selected := 0
	if chosen >= 0 && chosen < len(options) {
		selected = chosen
	}
	return Choice{
		Question: question,
		Options:  options,
		Selected: selected,
		Chosen:   chosen,
	}
}

// Init returns nil.
func (c Choice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Committing is the caller's call
// (enter is handled a level up so it can record the answer).
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	}

	return c, nil
}

// Commit marks the cursor's option as the answer and returns its text.
// With no options to choose from there is nothing to commit.
func (c *Choice) Commit() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	c.Chosen = c.Selected
	return c.Options[c.Chosen]
}

// View renders the selector.
func (c Choice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(c.Question) + "\n\n"

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected {
			prefix = "▸ "
		}
		marker := "( )"
		if i == c.Chosen {
			marker = "(●)"
		}

		line := fmt.Sprintf("%s%s %s", prefix, marker, opt)

		switch {
		case i == c.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		case i == c.Chosen:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}
