package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is a platform account role.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// QuestionType discriminates how a question is answered.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionShortAnswer    QuestionType = "short-answer"
)

// TrueFalseOptions are the literal answer values the server grades
// true/false questions against.
var TrueFalseOptions = []string{"True", "False"}

// User is a platform account.
type User struct {
	ID          string `json:"_id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	ClassLevel  string `json:"classLevel"`
	Role        Role   `json:"role"`
	IsVerified  bool   `json:"isVerified"`
}

// Question is one exam question. CorrectAnswer is only populated on
// responses visible to instructors; learners see it empty.
type Question struct {
	ID            string       `json:"_id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
	Points        int          `json:"points"`
	ExamID        string       `json:"exam"`
}

// Choices returns the selectable answers for the question. True/false
// questions have fixed choices whether or not the server sent options.
func (q *Question) Choices() []string {
	if q.Type == QuestionTrueFalse {
		return TrueFalseOptions
	}
	return q.Options
}

// QuestionRef is an entry in an exam's question list. The server sends
// either a bare id string or an embedded question object depending on
// the endpoint, so both forms decode into the same type.
type QuestionRef struct {
	ID       string
	Question *Question
}

func (r *QuestionRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		r.Question = nil
		return nil
	}

	var q Question
	if err := json.Unmarshal(data, &q); err != nil {
		return fmt.Errorf("question ref is neither id nor object: %w", err)
	}
	r.ID = q.ID
	r.Question = &q
	return nil
}

func (r QuestionRef) MarshalJSON() ([]byte, error) {
	if r.Question != nil {
		return json.Marshal(r.Question)
	}
	return json.Marshal(r.ID)
}

// Exam is an assessment definition.
type Exam struct {
	ID          string        `json:"_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Duration    int           `json:"duration"` // minutes
	ClassLevel  string        `json:"classLevel"`
	IsPublished bool          `json:"isPublished"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`
	Questions   []QuestionRef `json:"questions"`
}

// OpenAt reports whether the exam accepts new attempts at the given
// instant. Unpublished exams and exams outside their window are closed.
func (e *Exam) OpenAt(now time.Time) bool {
	if !e.IsPublished {
		return false
	}
	if !e.StartDate.IsZero() && now.Before(e.StartDate) {
		return false
	}
	if !e.EndDate.IsZero() && now.After(e.EndDate) {
		return false
	}
	return true
}

// Session is an active exam attempt. ID doubles as the identifier the
// submit and remaining-time endpoints key on.
type Session struct {
	ID        string
	Exam      Exam
	StartTime time.Time
	EndTime   time.Time
}

// AnswerPayload is one answered question in a submission.
type AnswerPayload struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
}

// Result is the grading outcome of a submitted attempt.
type Result struct {
	Score       int `json:"score"`
	TotalPoints int `json:"totalPoints"`
}

// RemainingTime is the server's view of time left in a session. The
// endpoint sends {minutes, seconds} while the clock runs and the literal
// 0 once it has run out, so decoding accepts both.
type RemainingTime struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
	TimeUp  bool
}

func (r *RemainingTime) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*r = RemainingTime{TimeUp: true}
		return nil
	}

	type alias RemainingTime
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("unexpected remaining time shape: %w", err)
	}
	*r = RemainingTime(a)
	return nil
}

// TotalSeconds flattens the remaining time to seconds.
func (r RemainingTime) TotalSeconds() int {
	if r.TimeUp {
		return 0
	}
	return r.Minutes*60 + r.Seconds
}

// ScoreStatus is whether an exam has a recorded score for the learner.
// The server models "not submitted" as an error response; this folds it
// back into a value.
type ScoreStatus struct {
	Submitted bool
	Score     int
}

// Lesson is a video lesson, possibly paid.
type Lesson struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"video"`
	ClassLevel  string    `json:"classLevel"`
	Price       int       `json:"price"`
	IsPaid      bool      `json:"isPaid"`
	ScheduledAt time.Time `json:"scheduledDate"`
}

// Pagination describes the page of a list response.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"totalPages"`
}

// LessonQuery selects and orders a page of lessons.
type LessonQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// LoginInput is the credential pair for Login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupInput is the registration form for Signup.
type SignupInput struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	ConfirmPass string `json:"cpassword"`
	PhoneNumber string `json:"phoneNumber"`
	ClassLevel  string `json:"classLevel"`
}
