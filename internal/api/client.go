package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseBytes caps how much of a response body is read. The API's
// largest legitimate payloads (exam lists) fit comfortably under this.
const maxResponseBytes = 4 << 20

// Service is the Exam Service client surface. Implementations include
// the HTTP Client, the event-logging decorator and the test mock.
type Service interface {
	Login(ctx context.Context, in LoginInput) (string, error)
	Signup(ctx context.Context, in SignupInput) (*User, error)
	CurrentUser(ctx context.Context) (*User, error)

	Exams(ctx context.Context) ([]Exam, error)
	Exam(ctx context.Context, id string) (*Exam, error)
	Question(ctx context.Context, id string) (*Question, error)

	StartExam(ctx context.Context, examID string) (*Session, error)
	SubmitAnswers(ctx context.Context, sessionID string, answers []AnswerPayload) (*Result, error)
	RemainingTime(ctx context.Context, sessionID string) (RemainingTime, error)
	ScoreStatus(ctx context.Context, examID string) (ScoreStatus, error)

	Lessons(ctx context.Context, q LessonQuery) ([]Lesson, Pagination, error)
	PurchasedLessons(ctx context.Context) ([]Lesson, error)
	PayLesson(ctx context.Context, lessonID string) error
}

// TokenSource supplies the auth token for protected calls. An empty
// token means not logged in.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client is the HTTP implementation of Service.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

var _ Service = (*Client)(nil)

// NewClient creates a Client for the given deployment. tokens may be
// nil for a client that only makes public calls.
func NewClient(cfg Config, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  tokens,
	}
}

// envelope is the wrapper every API response arrives in.
type envelope struct {
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Token      string          `json:"token"`
	Pagination Pagination      `json:"pagination"`
}

type callOpts struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	public bool
}

// call performs one API request and returns the decoded envelope. The
// token travels in a bare "token" header, not an Authorization scheme.
func (c *Client) call(ctx context.Context, opts callOpts) (*envelope, error) {
	var token string
	if !opts.public {
		if c.tokens != nil {
			token = c.tokens.Token()
		}
		if token == "" {
			return nil, ErrAuthRequired
		}
	}

	var body io.Reader
	if opts.body != nil {
		raw, err := json.Marshal(opts.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", opts.op, err)
		}
		body = bytes.NewReader(raw)
	}

	u := c.baseURL + "/" + strings.TrimLeft(opts.path, "/")
	if len(opts.query) > 0 {
		u += "?" + opts.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, opts.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", opts.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if opts.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("token", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Op: opts.op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RequestError{Op: opts.op, Status: resp.StatusCode, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &RequestError{Op: opts.op, Status: resp.StatusCode, Err: err}
		}
		return nil, &InvalidResponseError{Op: opts.op, Content: raw, Err: err}
	}

	if resp.StatusCode >= 400 || !env.Success {
		return nil, statusError(opts.op, resp.StatusCode, env.Message)
	}

	return &env, nil
}

// statusError maps an API failure to the error taxonomy. The server has
// no structured error codes, so the already-submitted condition is
// recognised by its message text.
func statusError(op string, status int, msg string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, ErrAuthRequired)
	}
	if strings.Contains(strings.ToLower(msg), "already submitted") {
		return fmt.Errorf("%s: %w", op, ErrAlreadySubmitted)
	}
	return &RequestError{Op: op, Status: status, Msg: msg}
}

// decode validates the envelope's data payload against schema (if any)
// and unmarshals it into v.
func decode(op string, env *envelope, schema *responseSchema, v any) error {
	if err := validatePayload(schema, env.Data); err != nil {
		return &InvalidResponseError{Op: op, Content: env.Data, Err: err}
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return &InvalidResponseError{Op: op, Content: env.Data, Err: err}
	}
	return nil
}
