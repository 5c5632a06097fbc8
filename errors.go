package ugmirror

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// NOTE: These are meant to be generic and map well to HTTP-ish outcomes at
// the remote boundary. New codes should be introduced sparingly.
const (
	EABORTED     = "aborted"     // crawl stopped by policy after a chapter failure
	EINTERNAL    = "internal"    // internal error (filesystem, invariant violation)
	EINVALID     = "invalid"     // validation failed
	EMALFORMED   = "malformed"   // remote response could not be parsed
	ENOTFOUND    = "not_found"   // entity does not exist
	EUNAVAILABLE = "unavailable" // transport or remote service failure
)

// Error represents an application-specific error. Errors can be unwrapped to
// retrieve the underlying cause, if any.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string

	// Underlying cause, may be nil.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapErrorf is like Errorf but records err as the underlying cause.
func WrapErrorf(err error, code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
