package api

import (
	"context"
	"net/http"
)

// Question fetches one question body by id.
func (c *Client) Question(ctx context.Context, id string) (*Question, error) {
	env, err := c.call(ctx, callOpts{
		op:     "get question",
		method: http.MethodGet,
		path:   "question/get/" + id,
	})
	if err != nil {
		return nil, err
	}
	var q Question
	if err := decode("get question", env, questionSchema, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
