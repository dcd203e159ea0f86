package client

import (
	"errors"
	"fmt"

	dErrors "paraiso/pkg/domain-errors"
)

// ErrorCategory classifies failures talking to the content API.
type ErrorCategory string

const (
	ErrorTimeout             ErrorCategory = "timeout"
	ErrorNotFound            ErrorCategory = "not_found"
	ErrorBadData             ErrorCategory = "bad_data"
	ErrorAuthentication      ErrorCategory = "authentication"
	ErrorProviderOutage      ErrorCategory = "provider_outage"
	ErrorNoResponse          ErrorCategory = "no_response"
	ErrorRequestConstruction ErrorCategory = "request_construction"
)

// Error is returned by every Client method.
type Error struct {
	Category ErrorCategory
	Op       string
	// Status is the HTTP status the API answered with, 0 when it never did.
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("content %s: %s: %s: %v", e.Op, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("content %s: %s: %s", e.Op, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Responded reports whether the API produced an HTTP answer.
func (e *Error) Responded() bool {
	return e.Status != 0
}

func newError(category ErrorCategory, op string, status int, msg string, err error) *Error {
	return &Error{Category: category, Op: op, Status: status, Message: msg, Err: err}
}

// CategoryOf returns the category of a client error, or "" for other errors.
func CategoryOf(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// IsNotFound reports whether the API answered 404.
func IsNotFound(err error) bool {
	return CategoryOf(err) == ErrorNotFound
}

// ToDomain converts a client error into a domain error suitable for
// httputil.WriteError.
func ToDomain(err error) error {
	if err == nil {
		return nil
	}
	switch CategoryOf(err) {
	case ErrorNotFound:
		return dErrors.Wrap(err, dErrors.CodeNotFound, "content not found")
	case ErrorTimeout:
		return dErrors.Wrap(err, dErrors.CodeTimeout, "content service timed out")
	case ErrorBadData:
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "content service rejected the request")
	case ErrorRequestConstruction:
		return dErrors.Wrap(err, dErrors.CodeInternal, "content request could not be built")
	default:
		return dErrors.Wrap(err, dErrors.CodeUpstream, "content service unavailable")
	}
}
