// Package errors provides structured error types for opgraph.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can
// react to the error category without string matching:
//   - INVALID_*: bad arguments or malformed input documents
//   - GRAPH_INTEGRITY: the graph is not a DAG, so no schedule exists
//   - NOT_FOUND / FILE_NOT_FOUND: missing resources
//   - INTERNAL_ERROR / UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "unknown execution order %d", order)
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // Handle bad argument
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeGraphIntegrity, cause, "build schedule for %s", name)
//
// [WithDetail] attaches machine-readable context that the API returns next
// to the message, such as the edges that close a cycle.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeTooLarge        Code = "PAYLOAD_TOO_LARGE"

	// Graph errors
	ErrCodeGraphIntegrity Code = "GRAPH_INTEGRITY"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Cause and Details are optional.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Details map[string]any
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.message()
}

// message is the error text without the code prefix.
func (e *Error) message() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// as returns the outermost *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the error text without a code prefix.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.message()
	}
	return err.Error()
}

// WithDetail records key=value on the outermost *Error in err's chain and
// returns err. Errors without one are returned unchanged.
func WithDetail(err error, key string, value any) error {
	e, ok := as(err)
	if !ok {
		return err
	}
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return err
}

// Details returns the details recorded on err, or nil.
func Details(err error) map[string]any {
	if e, ok := as(err); ok {
		return e.Details
	}
	return nil
}

// HTTPStatus maps an error to the HTTP status code the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidArgument, ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeGraphIntegrity:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
