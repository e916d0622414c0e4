package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	ExamID string    // restrict to one exam
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// CredentialRepo persists the auth token between runs. The token is the
// client's only credential; clearing it is the logout teardown.
type CredentialRepo interface {
	// SaveToken stores the token, replacing any previous one.
	SaveToken(ctx context.Context, token string) error

	// LoadToken returns the stored token, or "" if none is stored.
	LoadToken(ctx context.Context) (string, error)

	// ClearToken removes the stored token.
	ClearToken(ctx context.Context) error
}

// Attempt event actions.
const (
	AttemptActionStart  = "start"
	AttemptActionSubmit = "submit"
	AttemptActionFail   = "fail"
)

// AttemptEventData captures one lifecycle event of an exam attempt.
type AttemptEventData struct {
	AttemptID     string // client-generated uuid, groups start/submit pairs
	ExamID        string
	ExamTitle     string
	Action        string // start | submit | fail
	Score         int
	TotalPoints   int
	Answered      int
	Questions     int
	AutoSubmitted bool
	DurationSecs  int
}

// AttemptRecord is a stored attempt event.
type AttemptRecord struct {
	ID        int64
	Timestamp time.Time
	AttemptEventData
}

// APIEventData captures the outcome of one Exam Service call.
type APIEventData struct {
	Op         string
	DurationMs int64
	Success    bool
	Error      string
}

// EventRepo provides append and query access to the local event log.
type EventRepo interface {
	// AppendAttemptEvent records an exam attempt lifecycle event.
	AppendAttemptEvent(ctx context.Context, data AttemptEventData) error

	// QueryAttempts returns attempt events, newest first.
	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)

	// AppendAPIEvent records an Exam Service request outcome.
	AppendAPIEvent(ctx context.Context, data APIEventData) error
}
