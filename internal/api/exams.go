package api

import (
	"context"
	"net/http"
)

// Exams lists the exams visible to the learner's class level.
func (c *Client) Exams(ctx context.Context) ([]Exam, error) {
	env, err := c.call(ctx, callOpts{
		op:     "list exams",
		method: http.MethodGet,
		path:   "exam",
	})
	if err != nil {
		return nil, err
	}
	var exams []Exam
	if err := decode("list exams", env, nil, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

// Exam fetches one exam by id.
func (c *Client) Exam(ctx context.Context, id string) (*Exam, error) {
	env, err := c.call(ctx, callOpts{
		op:     "get exam",
		method: http.MethodGet,
		path:   "exam/get/" + id,
	})
	if err != nil {
		return nil, err
	}
	var exam Exam
	if err := decode("get exam", env, examSchema, &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}
