package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// Kind classifies client errors. Every failure a remote call can produce is
// one of these; all of them are recoverable by retrying or resetting.
type Kind int

const (
	// KindNetwork is a transport-level failure: the request never produced
	// an HTTP response (connection refused, DNS failure, timeout).
	KindNetwork Kind = iota
	// KindService is a non-2xx HTTP response from the service.
	KindService
	// KindMalformed is a 2xx response whose body is missing or violates the
	// expected contract.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindService:
		return "service"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is a structured client error. Message is safe to show to the user.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// Message extracts the user-facing text from an error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func newNetworkError(err error) *Error {
	msg := "failed to connect to the service"
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		msg = "the request timed out"
	}
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

// errorBody is the optional failure payload both services return.
type errorBody struct {
	Detail string `json:"detail"`
}

// newServiceError builds a service error from a non-2xx response, taking the
// message from the body's detail field when present and falling back to the
// bare status code.
func newServiceError(status int, body []byte) *Error {
	msg := fmt.Sprintf("HTTP status %d", status)
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		msg = eb.Detail
	}
	return &Error{Kind: KindService, StatusCode: status, Message: msg}
}

func newMalformedError(msg string) *Error {
	return &Error{Kind: KindMalformed, Message: msg}
}
