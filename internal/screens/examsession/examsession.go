package examsession

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/akhaled/eduterm/internal/router"
	"github.com/akhaled/eduterm/internal/screen"
	"github.com/akhaled/eduterm/internal/session"
	"github.com/akhaled/eduterm/internal/store"
	"github.com/akhaled/eduterm/internal/ui/components"
	"github.com/akhaled/eduterm/internal/ui/layout"

	"github.com/google/uuid"
)

// phase is the screen's display phase. The submission lifecycle itself
// lives in the session controller; this only drives what is rendered.
type phase int

const (
	phaseConfirm phase = iota
	phaseLoading
	phaseActive
	phaseSubmitting
	phaseResult
	phaseRedirect
)

// resyncInterval is how many local ticks pass between remaining-time
// checks against the server.
const resyncInterval = 30

// SessionScreen runs one exam attempt: start, answer, countdown, submit.
type SessionScreen struct {
	svc       api.Service
	eventRepo store.EventRepo
	exam      api.Exam

	ctrl      *session.Controller
	countdown *session.Countdown
	attemptID string
	startedAt time.Time

	phase       phase
	index       int
	choice      components.Choice
	input       components.TextInput
	usingChoice bool

	ticksSinceSync int
	quitConfirm    bool
	submitConfirm  bool
	autoSubmitted  bool
	result         *api.Result
	errMsg         string
	submitErr      string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.Closer = (*SessionScreen)(nil)

// New creates a session screen for the exam. The session does not start
// until the learner confirms; backing out here costs nothing.
func New(svc api.Service, eventRepo store.EventRepo, exam api.Exam) *SessionScreen {
	return &SessionScreen{
		svc:       svc,
		eventRepo: eventRepo,
		exam:      exam,
		ctrl:      session.NewController(svc),
		countdown: session.NewCountdown(),
		input:     components.NewTextInput("Your answer", "Type here...", 200),
		phase:     phaseConfirm,
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return nil
}

func (s *SessionScreen) Title() string {
	return s.exam.Title
}

// Close stops the countdown when the screen leaves the stack, so no
// tick can fire into a dead session.
func (s *SessionScreen) Close() {
	s.countdown.Cancel()
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseConfirm:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start exam"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseActive:
		if s.quitConfirm || s.submitConfirm {
			return []layout.KeyHint{
				{Key: "Y", Description: "Confirm"},
				{Key: "N", Description: "Cancel"},
			}
		}
		return []layout.KeyHint{
			{Key: "←→", Description: "Question"},
			{Key: "Enter", Description: "Answer"},
			{Key: "S", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	case phaseResult, phaseRedirect:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}
	return nil
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		return s.handleStarted(msg)
	case timerTickMsg:
		return s.handleTick()
	case resyncMsg:
		return s.handleResync(msg)
	case submitDoneMsg:
		return s.handleSubmitDone(msg)
	case redirectMsg:
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Forward everything else to the short-answer input while typing.
	if s.phase == phaseActive && !s.usingChoice && !s.quitConfirm && !s.submitConfirm {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	return s, nil
}

// startSession begins the attempt on the server and loads questions.
func (s *SessionScreen) startSession() tea.Cmd {
	return func() tea.Msg {
		err := s.ctrl.Start(context.Background(), s.exam.ID)
		return sessionStartedMsg{Err: err}
	}
}

func (s *SessionScreen) handleStarted(msg sessionStartedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrAlreadySubmitted) {
			// Show the notice briefly, then fall back to the exam list.
			s.phase = phaseRedirect
			return s, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
				return redirectMsg{}
			})
		}
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.attemptID = uuid.New().String()
	s.startedAt = time.Now()
	s.phase = phaseActive
	s.index = 0
	s.setupQuestion()

	s.countdown.Start(s.initialSeconds())

	_ = s.eventRepo.AppendAttemptEvent(context.Background(), store.AttemptEventData{
		AttemptID: s.attemptID,
		ExamID:    s.exam.ID,
		ExamTitle: s.exam.Title,
		Action:    store.AttemptActionStart,
		Questions: len(s.ctrl.Questions()),
	})

	// Focusing the text input belongs only to short-answer questions;
	// the choice selector has no focus of its own.
	if !s.usingChoice && len(s.ctrl.Questions()) > 0 {
		return s, tea.Batch(tickCmd(), s.input.Init())
	}
	return s, tickCmd()
}

// initialSeconds seeds the countdown from the server's session window
// when it is usable, else from the exam duration.
func (s *SessionScreen) initialSeconds() int {
	sess := s.ctrl.Session()
	if sess != nil && !sess.EndTime.IsZero() {
		if secs := int(time.Until(sess.EndTime).Seconds()); secs > 0 {
			return secs
		}
	}
	return s.exam.Duration * 60
}

func (s *SessionScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.countdown.State() != session.TimerRunning {
		return s, nil
	}

	if s.countdown.Tick() {
		// Time up: hand the attempt to the submit path. The controller
		// guarantees this cannot double-send alongside a manual submit.
		return s, s.submitCmd(true)
	}

	s.ticksSinceSync++
	if s.ticksSinceSync >= resyncInterval {
		s.ticksSinceSync = 0
		return s, tea.Batch(tickCmd(), s.resyncCmd())
	}
	return s, tickCmd()
}

// resyncCmd asks the server for the authoritative remaining time.
func (s *SessionScreen) resyncCmd() tea.Cmd {
	sess := s.ctrl.Session()
	if sess == nil {
		return nil
	}
	sessionID := sess.ID
	return func() tea.Msg {
		r, err := s.svc.RemainingTime(context.Background(), sessionID)
		return resyncMsg{Remaining: r, Err: err}
	}
}

func (s *SessionScreen) handleResync(msg resyncMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		// The local countdown keeps running; the next resync may succeed.
		return s, nil
	}
	if msg.Remaining.TimeUp {
		if s.countdown.State() == session.TimerRunning {
			s.countdown.Reseed(0)
			if s.countdown.Tick() {
				return s, s.submitCmd(true)
			}
		}
		return s, nil
	}
	s.countdown.Reseed(msg.Remaining.TotalSeconds())
	return s, nil
}

// submitCmd sends the answers. auto marks timer-driven submits; both
// paths converge on the controller, which enforces at most one send.
func (s *SessionScreen) submitCmd(auto bool) tea.Cmd {
	if s.phase == phaseActive {
		s.phase = phaseSubmitting
	}
	if auto {
		s.autoSubmitted = true
	}
	return func() tea.Msg {
		res, err := s.ctrl.Submit(context.Background())
		return submitDoneMsg{Result: res, AutoSubmitted: auto, Err: err}
	}
}

func (s *SessionScreen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err == nil && msg.Result == nil {
		// This trigger lost the race to a submission already in flight.
		// The winner's outcome arrives in its own message; nothing was
		// sent on this path.
		return s, nil
	}

	ctx := context.Background()
	duration := int(time.Since(s.startedAt).Seconds())

	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrAlreadySubmitted) {
			s.phase = phaseRedirect
			s.countdown.Cancel()
			return s, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
				return redirectMsg{}
			})
		}
		_ = s.eventRepo.AppendAttemptEvent(ctx, store.AttemptEventData{
			AttemptID:    s.attemptID,
			ExamID:       s.exam.ID,
			ExamTitle:    s.exam.Title,
			Action:       store.AttemptActionFail,
			DurationSecs: duration,
		})
		// Back to answering; a manual retry is the learner's call.
		s.submitErr = msg.Err.Error()
		if s.phase == phaseSubmitting {
			s.phase = phaseActive
		}
		return s, nil
	}

	if s.phase == phaseResult {
		// A second trigger lost the race; the result is already up.
		return s, nil
	}

	s.result = msg.Result
	s.phase = phaseResult
	s.countdown.Cancel()

	summary := session.Summarize(s.ctrl, msg.Result, msg.AutoSubmitted || s.autoSubmitted)
	_ = s.eventRepo.AppendAttemptEvent(ctx, store.AttemptEventData{
		AttemptID:     s.attemptID,
		ExamID:        summary.ExamID,
		ExamTitle:     summary.ExamTitle,
		Action:        store.AttemptActionSubmit,
		Score:         summary.Score,
		TotalPoints:   summary.TotalPoints,
		Answered:      summary.Answered,
		Questions:     summary.Questions,
		AutoSubmitted: summary.AutoSubmitted,
		DurationSecs:  duration,
	})

	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch s.phase {
	case phaseConfirm:
		switch key {
		case "enter":
			s.phase = phaseLoading
			return s, s.startSession()
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil

	case phaseResult:
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case phaseRedirect, phaseLoading, phaseSubmitting:
		return s, nil
	}

	// Active phase below.
	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.countdown.Cancel()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	if s.submitConfirm {
		switch key {
		case "y", "Y":
			s.submitConfirm = false
			return s, s.submitCmd(false)
		case "n", "N", "esc":
			s.submitConfirm = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "ctrl+s", "s":
		// "s" only submits outside the free-text input, where it is a
		// regular character.
		if s.usingChoice || key == "ctrl+s" {
			s.submitConfirm = true
			return s, nil
		}
	case "left", "p":
		if s.usingChoice || key == "left" {
			return s, s.gotoQuestion(s.index - 1)
		}
	case "right", "n":
		if s.usingChoice || key == "right" {
			return s, s.gotoQuestion(s.index + 1)
		}
	case "enter":
		return s, s.commitAnswer()
	}

	if s.usingChoice {
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		return s, cmd
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// gotoQuestion moves to another question, wrapping at the ends.
func (s *SessionScreen) gotoQuestion(i int) tea.Cmd {
	questions := s.ctrl.Questions()
	if len(questions) == 0 {
		return nil
	}
	s.index = (i + len(questions)) % len(questions)
	s.setupQuestion()
	if !s.usingChoice {
		return s.input.Init()
	}
	return nil
}

// setupQuestion prepares the input component for the current question,
// pre-filled with any recorded answer.
func (s *SessionScreen) setupQuestion() {
	questions := s.ctrl.Questions()
	if len(questions) == 0 {
		return
	}
	q := questions[s.index]
	recorded, _ := s.ctrl.Answer(q.ID)

	switch q.Type {
	case api.QuestionShortAnswer:
		s.usingChoice = false
		s.input = components.NewTextInput("Your answer", "Type here...", 200)
		if recorded != "" {
			s.input.Model.SetValue(recorded)
		}
	default:
		s.usingChoice = true
		options := q.Choices()
		chosen := -1
		for i, opt := range options {
			if opt == recorded {
				chosen = i
				break
			}
		}
		s.choice = components.NewChoice(q.Text, options, chosen)
	}
}

// commitAnswer records the current input as the answer and advances.
func (s *SessionScreen) commitAnswer() tea.Cmd {
	questions := s.ctrl.Questions()
	if len(questions) == 0 {
		return nil
	}
	q := questions[s.index]

	var value string
	if s.usingChoice {
		value = s.choice.Commit()
	} else {
		value = s.input.Value()
	}
	if value == "" {
		return nil
	}
	s.ctrl.Record(q.ID, value)

	if s.index < len(questions)-1 {
		return s.gotoQuestion(s.index + 1)
	}
	return nil
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
