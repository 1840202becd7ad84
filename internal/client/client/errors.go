package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable matches every transport-level failure: no response was received.
	ErrUnavailable = errors.New("server unavailable")
	// ErrTimeout matches transport failures caused by the request deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrUnauthorized matches a 401 response. The session has already been
	// invalidated by the time the caller sees it.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMalformedResponse is returned when a body is not a valid envelope.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is a response with a non-2xx status. Status code and body are
// kept as received so feature code can build its own message.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	// Message is the envelope "message" field when the body carried one.
	Message string
}

func (e *StatusError) Error() string {
	s := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

// Is makes errors.Is(err, ErrUnauthorized) true for 401 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// TransportError means no response was received: connection refused, DNS,
// timeout or cancellation.
type TransportError struct {
	Method  string
	Path    string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	kind := "transport error"
	if e.Timeout {
		kind = "timeout"
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return true
	case ErrTimeout:
		return e.Timeout
	}
	return false
}

// LogicalError is an envelope with success=false in an otherwise OK response.
type LogicalError struct {
	// Message is the user-displayable text supplied by the backend.
	Message string
	// Code is the envelope "error" field, usually an English reason.
	Code string
}

func (e *LogicalError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return e.Code
	default:
		return "request was not successful"
	}
}
