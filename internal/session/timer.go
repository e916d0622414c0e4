package session

import "fmt"

// TimerState is the countdown's lifecycle state.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerExpired
	TimerCancelled
)

// Countdown is the session timer: an interval-driven countdown seeded
// from the server's remaining time (or the exam duration when that is
// unavailable) that expires exactly once.
//
// The countdown is advisory. Ticks are driven cooperatively by the UI's
// one-second schedule, so drift under tab suspension or throttling is
// expected; the server's remaining-time endpoint stays authoritative and
// Reseed folds its answer back in.
type Countdown struct {
	state     TimerState
	remaining int // seconds
}

// NewCountdown returns an idle countdown.
func NewCountdown() *Countdown {
	return &Countdown{state: TimerIdle}
}

// Start seeds the countdown and moves idle → running. Starting with zero
// or negative seconds expires immediately on the first Tick.
func (c *Countdown) Start(seconds int) {
	if c.state != TimerIdle {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	c.remaining = seconds
	c.state = TimerRunning
}

// Reseed replaces the remaining time with the server's authoritative
// value. Only meaningful while running.
func (c *Countdown) Reseed(seconds int) {
	if c.state != TimerRunning {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	c.remaining = seconds
}

// Tick advances the countdown by one second. It returns true exactly
// once, on the tick that reaches zero: that is the auto-submit trigger.
// Ticks after expiry or cancellation do nothing.
func (c *Countdown) Tick() bool {
	if c.state != TimerRunning {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining <= 0 {
		c.state = TimerExpired
		return true
	}
	return false
}

// Cancel stops the countdown: the learner submitted early or navigated
// away. No tick fires after cancellation.
func (c *Countdown) Cancel() {
	if c.state == TimerRunning || c.state == TimerIdle {
		c.state = TimerCancelled
	}
}

// State returns the current lifecycle state.
func (c *Countdown) State() TimerState {
	return c.state
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	if c.state == TimerExpired {
		return 0
	}
	return c.remaining
}

// Display renders the remaining time as MM:SS.
func (c *Countdown) Display() string {
	return FormatSeconds(c.Remaining())
}

// FormatSeconds renders a second count as zero-padded MM:SS,
// floor-divided from total seconds.
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
