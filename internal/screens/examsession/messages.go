package examsession

import (
	"time"

	"github.com/akhaled/eduterm/internal/api"
)

// sessionStartedMsg is sent when the start call and question loading finish.
type sessionStartedMsg struct {
	Err error
}

// timerTickMsg is sent every second to advance the countdown.
type timerTickMsg time.Time

// resyncMsg carries the server's authoritative remaining time.
type resyncMsg struct {
	Remaining api.RemainingTime
	Err       error
}

// submitDoneMsg is sent when the submission attempt finishes.
type submitDoneMsg struct {
	Result        *api.Result
	AutoSubmitted bool
	Err           error
}

// redirectMsg fires after the already-submitted notice has been shown.
type redirectMsg struct{}
