package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// startExamData is the wire shape of a start response.
type startExamData struct {
	Exam      Exam      `json:"exam"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// StartExam begins (or resumes) an attempt. The server keys the session
// on the exam id, so that is what the Session carries.
//
// Returns ErrAlreadySubmitted if the attempt was already graded.
func (c *Client) StartExam(ctx context.Context, examID string) (*Session, error) {
	env, err := c.call(ctx, callOpts{
		op:     "start exam",
		method: http.MethodPost,
		path:   "studentExam/start/" + examID,
	})
	if err != nil {
		return nil, err
	}
	var data startExamData
	if err := decode("start exam", env, startExamSchema, &data); err != nil {
		return nil, err
	}
	return &Session{
		ID:        data.Exam.ID,
		Exam:      data.Exam,
		StartTime: data.StartTime,
		EndTime:   data.EndTime,
	}, nil
}

// SubmitAnswers grades the attempt. Unanswered questions are simply
// absent from answers; the server scores them as wrong.
func (c *Client) SubmitAnswers(ctx context.Context, sessionID string, answers []AnswerPayload) (*Result, error) {
	if answers == nil {
		answers = []AnswerPayload{}
	}
	env, err := c.call(ctx, callOpts{
		op:     "submit exam",
		method: http.MethodPost,
		path:   "studentExam/submit/" + sessionID,
		body:   map[string]any{"answers": answers},
	})
	if err != nil {
		return nil, err
	}
	var res Result
	if err := decode("submit exam", env, resultSchema, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// remainingTimeData is the wire shape of a remaining-time response.
type remainingTimeData struct {
	RemainingTime RemainingTime `json:"remainingTime"`
}

// RemainingTime asks the server how much session time is left. Callers
// must not cache the answer; it exists to correct local clock drift.
func (c *Client) RemainingTime(ctx context.Context, sessionID string) (RemainingTime, error) {
	env, err := c.call(ctx, callOpts{
		op:     "remaining time",
		method: http.MethodGet,
		path:   "studentExam/exams/remaining-time/" + sessionID,
	})
	if err != nil {
		return RemainingTime{}, err
	}
	var data remainingTimeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return RemainingTime{}, &InvalidResponseError{Op: "remaining time", Content: env.Data, Err: err}
	}
	return data.RemainingTime, nil
}

// ScoreStatus reports whether the exam has a recorded score. The server
// answers "not submitted" with an error response, which this folds into
// a Submitted=false value; auth and transport failures still surface.
func (c *Client) ScoreStatus(ctx context.Context, examID string) (ScoreStatus, error) {
	env, err := c.call(ctx, callOpts{
		op:     "get score",
		method: http.MethodGet,
		path:   "studentExam/exams/score/" + examID,
	})
	if err != nil {
		if errors.Is(err, ErrAuthRequired) {
			return ScoreStatus{}, err
		}
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.Status != 0 {
			return ScoreStatus{Submitted: false}, nil
		}
		return ScoreStatus{}, err
	}
	var res Result
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return ScoreStatus{}, &InvalidResponseError{Op: "get score", Content: env.Data, Err: err}
	}
	return ScoreStatus{Submitted: true, Score: res.Score}, nil
}
