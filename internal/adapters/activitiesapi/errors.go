package activitiesapi

import (
	"errors"
	"fmt"
)

// Kind classifies a failed request.
type Kind int

const (
	// NetworkFailure means no usable response arrived: the request could not be sent,
	// or the body could not be read or decoded.
	NetworkFailure Kind = iota + 1
	// ApplicationError means the service answered with a non-success status.
	ApplicationError
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network_failure"
	case ApplicationError:
		return "application_error"
	default:
		return "unknown"
	}
}

// networkFailureMessage is shown to students when the service cannot be reached.
const networkFailureMessage = "Unable to reach the activities service. Please try again."

// RequestError is the single error type returned by Client operations.
// Message is always safe to show to a student.
type RequestError struct {
	Kind       Kind
	Op         string // "list activities", "signup", "remove participant"
	StatusCode int    // 0 for NetworkFailure
	Message    string
	Err        error // underlying transport or decode error, nil for ApplicationError
}

// Error implements error.
func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// MessageOf returns the student-facing message for err.
// Errors that are not a *RequestError get fallback.
func MessageOf(err error, fallback string) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

func networkError(op string, err error) *RequestError {
	return &RequestError{Kind: NetworkFailure, Op: op, Message: networkFailureMessage, Err: err}
}

func applicationError(op string, status int, detail string) *RequestError {
	msg := detail
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &RequestError{Kind: ApplicationError, Op: op, StatusCode: status, Message: msg}
}
