package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Lessons lists lessons for the learner's class level, paginated.
func (c *Client) Lessons(ctx context.Context, q LessonQuery) ([]Lesson, Pagination, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		query.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		query.Set("sortOrder", q.SortOrder)
	}

	env, err := c.call(ctx, callOpts{
		op:     "list lessons",
		method: http.MethodGet,
		path:   "lesson",
		query:  query,
	})
	if err != nil {
		return nil, Pagination{}, err
	}
	var lessons []Lesson
	if err := decode("list lessons", env, nil, &lessons); err != nil {
		return nil, Pagination{}, err
	}
	return lessons, env.Pagination, nil
}

// PurchasedLessons lists the lessons the learner has paid for.
func (c *Client) PurchasedLessons(ctx context.Context) ([]Lesson, error) {
	env, err := c.call(ctx, callOpts{
		op:     "purchased lessons",
		method: http.MethodGet,
		path:   "lesson/my/purchased",
	})
	if err != nil {
		return nil, err
	}
	var lessons []Lesson
	if err := decode("purchased lessons", env, nil, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// PayLesson purchases access to a paid lesson.
func (c *Client) PayLesson(ctx context.Context, lessonID string) error {
	_, err := c.call(ctx, callOpts{
		op:     "pay lesson",
		method: http.MethodPost,
		path:   "lesson/pay/" + lessonID,
	})
	return err
}
