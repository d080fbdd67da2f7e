package trailhead

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadConfig      = errors.New("bad config")
	ErrBadFormat      = errors.New("bad format")
	ErrHeadersSent    = errors.New("headers already sent")
	ErrNoApp          = errors.New("an application must be provided")
	ErrNotExist       = errors.New("not exist")
	ErrNotImplemented = errors.New("not implemented")
	ErrNotValid       = errors.New("invalid")
	ErrUnexpected     = errors.New("unexpected")
	ErrUnknownEvent   = errors.New("unknown event")
)

// A StatusError is an error a handler declares safe to show a client.
//
// When Expose is true and Status is anything other than
// [net/http.StatusInternalServerError], the status and message
// are written to the response verbatim and no notification is emitted.
type StatusError struct {
	Status  int
	Message string
	Expose  bool
	Err     error
}

// NewStatusError constructs a *StatusError for the status code.
//
// Client errors (4xx) are exposed by default; server errors are not.
func NewStatusError(status int, msg string) *StatusError {
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &StatusError{
		Status:  status,
		Message: msg,
		Expose:  status >= 400 && status < 500,
	}
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}

	return e.Message
}

// Unwrap exposes the underlying error, if any.
func (e *StatusError) Unwrap() error { return e.Err }

// Exposable reports whether the error's status and message may be sent as is.
func (e *StatusError) Exposable() bool {
	return e.Expose && e.Status != 0 && e.Status != http.StatusInternalServerError
}

// AsExposable unwraps err looking for a *StatusError that can be shown to a client.
func AsExposable(err error) (*StatusError, bool) {
	var se *StatusError
	if !errors.As(err, &se) {
		return nil, false
	}

	return se, se.Exposable()
}
