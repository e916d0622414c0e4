package session

import "github.com/akhaled/eduterm/internal/api"

// Summary captures the outcome of a finished attempt for display and
// for the local attempt log.
type Summary struct {
	ExamID        string
	ExamTitle     string
	Score         int
	TotalPoints   int
	Answered      int
	Questions     int
	AutoSubmitted bool
}

// Summarize builds a Summary from a submitted controller. AutoSubmitted
// marks attempts the timer closed rather than the learner.
func Summarize(c *Controller, result *api.Result, autoSubmitted bool) Summary {
	s := Summary{
		Answered:      c.Answered(),
		Questions:     len(c.Questions()),
		AutoSubmitted: autoSubmitted,
	}
	if sess := c.Session(); sess != nil {
		s.ExamID = sess.Exam.ID
		s.ExamTitle = sess.Exam.Title
	}
	if result != nil {
		s.Score = result.Score
		s.TotalPoints = result.TotalPoints
	}
	return s
}
