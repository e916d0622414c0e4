package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAuthRequired indicates no valid token is available for a protected
// call. Callers should route the user to login.
var ErrAuthRequired = errors.New("authentication required")

// ErrAlreadySubmitted indicates the session was already graded; starting
// or submitting it again is pointless.
var ErrAlreadySubmitted = errors.New("exam already submitted")

// ErrTimeUp indicates the server considers the session's clock expired.
var ErrTimeUp = errors.New("exam time is up")

var errMissingToken = errors.New("login response carried no token")

// RequestError is a non-success response from the Exam Service.
type RequestError struct {
	Op     string
	Status int
	Msg    string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

func (e *RequestError) Unwrap() error { return e.Err }

// InvalidResponseError indicates the server returned a body that does
// not match the expected shape.
type InvalidResponseError struct {
	Op      string
	Content json.RawMessage
	Err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Op, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }
