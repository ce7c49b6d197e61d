package nav

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRedirectLoop is reported when a navigation follows more redirects than
// the controller's configured limit. The navigation settles back to Idle
// with the last successfully settled location unchanged.
var ErrRedirectLoop = errors.New("nav: redirect limit exceeded")

// ErrSuperseded is reported when a navigation or submission was overtaken
// by a newer one before it settled. Its results were discarded and never
// reached the snapshot. Callers can usually ignore it.
var ErrSuperseded = errors.New("nav: superseded by a newer operation")

// ErrNoAction is reported by Submit when the deepest matched route declares
// no action for the submission's target.
var ErrNoAction = errors.New("nav: matched route has no action")

// ErrClosed is reported by operations on a controller after Close.
var ErrClosed = errors.New("nav: controller is closed")

// Category classifies where in the cycle an error occurred.
type Category string

const (
	CategoryMatch    Category = "match"
	CategoryLoader   Category = "loader"
	CategoryAction   Category = "action"
	CategoryRedirect Category = "redirect"
)

// NavError is the structured error the controller publishes on a failed
// cycle. It carries a status-like code, the route the failure belongs to,
// and the underlying cause.
type NavError struct {
	// Category is the cycle stage that failed.
	Category Category

	// Status is an HTTP-like status code: 404 for match failures, the
	// wrapped StatusError's code when one is present, 500 otherwise.
	Status int

	// Route is the pattern of the route the error is attributed to.
	// Empty for match failures.
	Route string

	// Message is a short description of the failure.
	Message string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *NavError) Error() string {
	if e.Route != "" {
		return fmt.Sprintf("nav: %s error at %s: %s", e.Category, e.Route, e.Message)
	}
	return fmt.Sprintf("nav: %s error: %s", e.Category, e.Message)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *NavError) Unwrap() error {
	return e.Wrapped
}

// StatusError lets a loader or action fail with an explicit status-like
// code, e.g. return nil, &nav.StatusError{Status: 404, Message: "no contact"}.
type StatusError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%d %s", e.Status, msg)
}

// statusOf extracts the status-like code carried by err, defaulting to 500.
func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) && se.Status != 0 {
		return se.Status
	}
	return http.StatusInternalServerError
}
