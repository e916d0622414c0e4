package examsession

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/akhaled/eduterm/internal/session"
	"github.com/akhaled/eduterm/internal/ui/components"
	"github.com/akhaled/eduterm/internal/ui/theme"
)

// urgentThreshold is the remaining-seconds mark where the timer turns red.
const urgentThreshold = 60

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return centered(width, height, theme.Incorrect.Render("Could not start exam")+
			"\n\n"+lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.errMsg)+
			"\n\n"+theme.Hint.Render("Press any key to go back"))
	}

	switch s.phase {
	case phaseConfirm:
		return s.renderConfirm(width, height)
	case phaseLoading:
		return centered(width, height, lipgloss.NewStyle().Foreground(theme.TextDim).Render("Starting exam..."))
	case phaseSubmitting:
		return centered(width, height, lipgloss.NewStyle().Foreground(theme.TextDim).Render("Submitting answers..."))
	case phaseResult:
		return s.renderResult(width, height)
	case phaseRedirect:
		return centered(width, height, theme.Body.Render("This exam was already submitted.")+
			"\n\n"+theme.Hint.Render("Returning to the exam list..."))
	}
	return s.renderActive(width, height)
}

func (s *SessionScreen) renderConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.exam.Title) + "\n\n")
	if s.exam.Description != "" {
		b.WriteString(theme.Body.Render(s.exam.Description) + "\n\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Duration: %d minutes    Questions: %d", s.exam.Duration, len(s.exam.Questions))) + "\n\n")
	b.WriteString(theme.Hint.Render("The clock starts as soon as you press Enter."))

	return centered(width, height, theme.Card.Render(b.String()))
}

func (s *SessionScreen) renderActive(width, height int) string {
	questions := s.ctrl.Questions()
	if len(questions) == 0 {
		return centered(width, height, theme.Body.Render("This exam has no loadable questions.")+
			"\n\n"+theme.Hint.Render("Press Esc to leave"))
	}

	if s.quitConfirm {
		return centered(width, height,
			theme.Body.Render("Leave the exam?")+"\n\n"+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(
					"Your answers stay on the server's session,\nbut nothing is submitted now.")+
				"\n\n"+theme.Hint.Render("y to leave, n to keep going"))
	}
	if s.submitConfirm {
		answered := s.ctrl.Answered()
		warning := ""
		if answered < len(questions) {
			warning = fmt.Sprintf("\n\n%s", theme.Incorrect.Render(
				fmt.Sprintf("%d of %d questions are unanswered.", len(questions)-answered, len(questions))))
		}
		return centered(width, height,
			theme.Body.Render("Submit the exam?")+warning+
				"\n\n"+theme.Hint.Render("y to submit, n to go back"))
	}

	var b strings.Builder

	// Status line: position, progress, clock.
	timer := s.countdown.Display()
	timerStyle := theme.TimerCalm
	if s.countdown.Remaining() <= urgentThreshold {
		timerStyle = theme.TimerUrgent
	}

	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", s.index+1, len(questions)))
	right := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("answered %d/%d  ", s.ctrl.Answered(), len(questions))) +
		timerStyle.Render(timer)

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		pad = 1
	}
	b.WriteString(left + strings.Repeat(" ", pad) + right + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))) + "\n\n")

	q := questions[s.index]
	if s.usingChoice {
		b.WriteString(s.choice.View())
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(q.Text) + "\n\n")
		b.WriteString(s.input.View() + "\n")
	}

	if s.submitErr != "" {
		b.WriteString("\n" + theme.Incorrect.Render("Submission failed: "+s.submitErr) + "\n")
		b.WriteString(theme.Hint.Render("Your answers are intact. Submit again when ready."))
	}

	bar := components.NewProgressBar("", s.progress(), false, min(width-8, 60))
	b.WriteString("\n\n  " + bar.View())

	return b.String()
}

func (s *SessionScreen) progress() float64 {
	total := len(s.ctrl.Questions())
	if total == 0 {
		return 0
	}
	return float64(s.ctrl.Answered()) / float64(total)
}

func (s *SessionScreen) renderResult(width, height int) string {
	summary := session.Summarize(s.ctrl, s.result, s.autoSubmitted)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Exam submitted") + "\n\n")
	b.WriteString(theme.Correct.Render(fmt.Sprintf("Score: %d / %d", summary.Score, summary.TotalPoints)) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Answered %d of %d questions", summary.Answered, summary.Questions)) + "\n")
	if summary.AutoSubmitted {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("Submitted automatically when time ran out") + "\n")
	}
	b.WriteString("\n" + theme.Hint.Render("Press any key to continue"))

	return centered(width, height, theme.Card.Render(b.String()))
}

func centered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
