package api

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akhaled/eduterm/internal/store"
)

// LoggingService is a decorator that records every Exam Service call as a
// local event, for the history screen and offline troubleshooting.
type LoggingService struct {
	inner     Service
	eventRepo store.EventRepo
}

// WithLogging wraps a Service with event logging.
func WithLogging(s Service, repo store.EventRepo) Service {
	return &LoggingService{inner: s, eventRepo: repo}
}

var _ Service = (*LoggingService)(nil)

// logged runs op, timing it and appending an api event. Logging failures
// never fail the request.
func (l *LoggingService) logged(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	err := fn()

	data := store.APIEventData{
		Op:         op,
		DurationMs: time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		data.Error = err.Error()
	}
	if logErr := l.eventRepo.AppendAPIEvent(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log api event: %v\n", logErr)
	}

	return err
}

func (l *LoggingService) Login(ctx context.Context, in LoginInput) (string, error) {
	var token string
	err := l.logged(ctx, "login", func() error {
		var err error
		token, err = l.inner.Login(ctx, in)
		return err
	})
	return token, err
}

func (l *LoggingService) Signup(ctx context.Context, in SignupInput) (*User, error) {
	var u *User
	err := l.logged(ctx, "signup", func() error {
		var err error
		u, err = l.inner.Signup(ctx, in)
		return err
	})
	return u, err
}

func (l *LoggingService) CurrentUser(ctx context.Context) (*User, error) {
	var u *User
	err := l.logged(ctx, "current user", func() error {
		var err error
		u, err = l.inner.CurrentUser(ctx)
		return err
	})
	return u, err
}

func (l *LoggingService) Exams(ctx context.Context) ([]Exam, error) {
	var exams []Exam
	err := l.logged(ctx, "list exams", func() error {
		var err error
		exams, err = l.inner.Exams(ctx)
		return err
	})
	return exams, err
}

func (l *LoggingService) Exam(ctx context.Context, id string) (*Exam, error) {
	var exam *Exam
	err := l.logged(ctx, "get exam", func() error {
		var err error
		exam, err = l.inner.Exam(ctx, id)
		return err
	})
	return exam, err
}

func (l *LoggingService) Question(ctx context.Context, id string) (*Question, error) {
	var q *Question
	err := l.logged(ctx, "get question", func() error {
		var err error
		q, err = l.inner.Question(ctx, id)
		return err
	})
	return q, err
}

func (l *LoggingService) StartExam(ctx context.Context, examID string) (*Session, error) {
	var s *Session
	err := l.logged(ctx, "start exam", func() error {
		var err error
		s, err = l.inner.StartExam(ctx, examID)
		return err
	})
	return s, err
}

func (l *LoggingService) SubmitAnswers(ctx context.Context, sessionID string, answers []AnswerPayload) (*Result, error) {
	var res *Result
	err := l.logged(ctx, "submit exam", func() error {
		var err error
		res, err = l.inner.SubmitAnswers(ctx, sessionID, answers)
		return err
	})
	return res, err
}

func (l *LoggingService) RemainingTime(ctx context.Context, sessionID string) (RemainingTime, error) {
	var r RemainingTime
	err := l.logged(ctx, "remaining time", func() error {
		var err error
		r, err = l.inner.RemainingTime(ctx, sessionID)
		return err
	})
	return r, err
}

func (l *LoggingService) ScoreStatus(ctx context.Context, examID string) (ScoreStatus, error) {
	var st ScoreStatus
	err := l.logged(ctx, "get score", func() error {
		var err error
		st, err = l.inner.ScoreStatus(ctx, examID)
		return err
	})
	return st, err
}

func (l *LoggingService) Lessons(ctx context.Context, q LessonQuery) ([]Lesson, Pagination, error) {
	var lessons []Lesson
	var page Pagination
	err := l.logged(ctx, "list lessons", func() error {
		var err error
		lessons, page, err = l.inner.Lessons(ctx, q)
		return err
	})
	return lessons, page, err
}

func (l *LoggingService) PurchasedLessons(ctx context.Context) ([]Lesson, error) {
	var lessons []Lesson
	err := l.logged(ctx, "purchased lessons", func() error {
		var err error
		lessons, err = l.inner.PurchasedLessons(ctx)
		return err
	})
	return lessons, err
}

func (l *LoggingService) PayLesson(ctx context.Context, lessonID string) error {
	return l.logged(ctx, "pay lesson", func() error {
		return l.inner.PayLesson(ctx, lessonID)
	})
}
