package api

import (
	"context"
	"fmt"
	"sync"
)

// MockService is a deterministic Service for testing. Each operation
// delegates to its function field and records the call; an operation
// with no function set returns an error.
type MockService struct {
	LoginFunc            func(ctx context.Context, in LoginInput) (string, error)
	SignupFunc           func(ctx context.Context, in SignupInput) (*User, error)
	CurrentUserFunc      func(ctx context.Context) (*User, error)
	ExamsFunc            func(ctx context.Context) ([]Exam, error)
	ExamFunc             func(ctx context.Context, id string) (*Exam, error)
	QuestionFunc         func(ctx context.Context, id string) (*Question, error)
	StartExamFunc        func(ctx context.Context, examID string) (*Session, error)
	SubmitAnswersFunc    func(ctx context.Context, sessionID string, answers []AnswerPayload) (*Result, error)
	RemainingTimeFunc    func(ctx context.Context, sessionID string) (RemainingTime, error)
	ScoreStatusFunc      func(ctx context.Context, examID string) (ScoreStatus, error)
	LessonsFunc          func(ctx context.Context, q LessonQuery) ([]Lesson, Pagination, error)
	PurchasedLessonsFunc func(ctx context.Context) ([]Lesson, error)
	PayLessonFunc        func(ctx context.Context, lessonID string) error

	mu    sync.Mutex
	calls []string
}

var _ Service = (*MockService)(nil)

func (m *MockService) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
}

// Calls returns the operations invoked so far, in order.
func (m *MockService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how many times the operation was invoked.
func (m *MockService) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

func unstubbed(op string) error {
	return fmt.Errorf("mock: %s not stubbed", op)
}

func (m *MockService) Login(ctx context.Context, in LoginInput) (string, error) {
	m.record("login")
	if m.LoginFunc == nil {
		return "", unstubbed("login")
	}
	return m.LoginFunc(ctx, in)
}

func (m *MockService) Signup(ctx context.Context, in SignupInput) (*User, error) {
	m.record("signup")
	if m.SignupFunc == nil {
		return nil, unstubbed("signup")
	}
	return m.SignupFunc(ctx, in)
}

func (m *MockService) CurrentUser(ctx context.Context) (*User, error) {
	m.record("current user")
	if m.CurrentUserFunc == nil {
		return nil, unstubbed("current user")
	}
	return m.CurrentUserFunc(ctx)
}

func (m *MockService) Exams(ctx context.Context) ([]Exam, error) {
	m.record("list exams")
	if m.ExamsFunc == nil {
		return nil, unstubbed("list exams")
	}
	return m.ExamsFunc(ctx)
}

func (m *MockService) Exam(ctx context.Context, id string) (*Exam, error) {
	m.record("get exam")
	if m.ExamFunc == nil {
		return nil, unstubbed("get exam")
	}
	return m.ExamFunc(ctx, id)
}

func (m *MockService) Question(ctx context.Context, id string) (*Question, error) {
	m.record("get question")
	if m.QuestionFunc == nil {
		return nil, unstubbed("get question")
	}
	return m.QuestionFunc(ctx, id)
}

func (m *MockService) StartExam(ctx context.Context, examID string) (*Session, error) {
	m.record("start exam")
	if m.StartExamFunc == nil {
		return nil, unstubbed("start exam")
	}
	return m.StartExamFunc(ctx, examID)
}

func (m *MockService) SubmitAnswers(ctx context.Context, sessionID string, answers []AnswerPayload) (*Result, error) {
	m.record("submit exam")
	if m.SubmitAnswersFunc == nil {
		return nil, unstubbed("submit exam")
	}
	return m.SubmitAnswersFunc(ctx, sessionID, answers)
}

func (m *MockService) RemainingTime(ctx context.Context, sessionID string) (RemainingTime, error) {
	m.record("remaining time")
	if m.RemainingTimeFunc == nil {
		return RemainingTime{}, unstubbed("remaining time")
	}
	return m.RemainingTimeFunc(ctx, sessionID)
}

func (m *MockService) ScoreStatus(ctx context.Context, examID string) (ScoreStatus, error) {
	m.record("get score")
	if m.ScoreStatusFunc == nil {
		return ScoreStatus{}, unstubbed("get score")
	}
	return m.ScoreStatusFunc(ctx, examID)
}

func (m *MockService) Lessons(ctx context.Context, q LessonQuery) ([]Lesson, Pagination, error) {
	m.record("list lessons")
	if m.LessonsFunc == nil {
		return nil, Pagination{}, unstubbed("list lessons")
	}
	return m.LessonsFunc(ctx, q)
}

func (m *MockService) PurchasedLessons(ctx context.Context) ([]Lesson, error) {
	m.record("purchased lessons")
	if m.PurchasedLessonsFunc == nil {
		return nil, unstubbed("purchased lessons")
	}
	return m.PurchasedLessonsFunc(ctx)
}

func (m *MockService) PayLesson(ctx context.Context, lessonID string) error {
	m.record("pay lesson")
	if m.PayLessonFunc == nil {
		return unstubbed("pay lesson")
	}
	return m.PayLessonFunc(ctx, lessonID)
}
