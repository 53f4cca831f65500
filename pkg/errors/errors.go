// Package errors provides structured error types for the tmio library.
//
// This package defines error codes and types that enable:
//   - Distinguishing "does not exist" from transient remote failures
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes mirror the failure classes of the two upstream services:
//   - CONFIGURATION: the client cannot issue requests at all
//   - REMOTE_TRANSPORT: the origin answered with status >= 400, or the
//     connection failed
//   - REMOTE_SERVICE: the origin answered 2xx but the body carries an
//     "error" field
//   - NOT_FOUND: the requested id or username does not exist
//   - INVALID_*: the caller passed an argument the API cannot serve
//
// # Usage
//
//	p, err := client.Player(ctx, id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // unknown account id
//	}
//
//	var remote *errors.RemoteError
//	if stderrors.As(err, &remote) {
//	    log.Printf("origin said %d: %s", remote.Status, remote.Body())
//	}
//
// Cache backend failures never surface through this package; the fetcher
// swallows them.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Setup errors
	ErrCodeConfiguration Code = "CONFIGURATION"

	// Remote errors
	ErrCodeRemoteTransport Code = "REMOTE_TRANSPORT"
	ErrCodeRemoteService   Code = "REMOTE_SERVICE"
	ErrCodeRateLimited     Code = "RATE_LIMITED"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput            Code = "INVALID_INPUT"
	ErrCodeInvalidMatchmakingGroup Code = "INVALID_MATCHMAKING_GROUP"
	ErrCodeInvalidTrophyNumber     Code = "INVALID_TROPHY_NUMBER"
	ErrCodeInvalidTOTDDate         Code = "INVALID_TOTD_DATE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by error types that carry a code without being *Error.
type coder interface {
	Code() Code
}

// Is reports whether any error in err's chain carries the given code.
func Is(err error, code Code) bool {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			if e.Code == code {
				return true
			}
		case coder:
			if e.Code() == code {
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RemoteError is a non-2xx response from an origin. JSON holds the decoded
// body when it was valid JSON; otherwise Text holds the raw body.
type RemoteError struct {
	Status int
	JSON   any
	Text   string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Body())
}

// Body renders whichever body representation is set.
func (e *RemoteError) Body() string {
	if e.JSON != nil {
		return fmt.Sprint(e.JSON)
	}
	return e.Text
}

// Code returns the error code for this error type.
func (e *RemoteError) Code() Code {
	return ErrCodeRemoteTransport
}

// RateLimitedError provides additional information for 429 responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Remote     *RemoteError
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Unwrap exposes the underlying response.
func (e *RateLimitedError) Unwrap() error {
	if e.Remote == nil {
		return nil
	}
	return e.Remote
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
