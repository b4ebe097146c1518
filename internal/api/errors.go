package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed backend interaction.
type ErrorKind string

const (
	// KindTransport covers network failures before a response arrived,
	// including timeouts and cancellation.
	KindTransport ErrorKind = "transport"

	// KindHTTP covers non-2xx responses.
	KindHTTP ErrorKind = "http"

	// KindParse covers response bodies that are not the JSON we expected.
	KindParse ErrorKind = "parse"

	// KindValidation covers user-supplied input rejected before any
	// request was sent.
	KindValidation ErrorKind = "validation"
)

// Error is the single error type the remote client surfaces. Status is
// only set for KindHTTP.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTP && e.Status != 0 {
		return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// IsKind reports whether err is an api Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func transportErr(cause error) *Error {
	return &Error{Kind: KindTransport, Message: cause.Error(), cause: cause}
}

func httpErr(status int, message string) *Error {
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

func parseErr(cause error) *Error {
	return &Error{Kind: KindParse, Message: cause.Error(), cause: cause}
}

// ValidationError wraps input-parsing failures in the shared taxonomy so
// callers have one error shape to report.
func ValidationError(cause error) *Error {
	return &Error{Kind: KindValidation, Message: cause.Error(), cause: cause}
}
