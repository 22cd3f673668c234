// Package errors provides structured error types for cardgraph.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP adapter can
// map failures to exit messages and status codes without string matching.
//
// # Error Codes
//
//   - INVALID_*: input that cannot be turned into a graph
//   - NOT_FOUND, FILE_NOT_FOUND: missing nodes or files
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", ext)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // show supported formats
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidGraph, cause, "edge %d", i)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"  // malformed ids, flags or request bodies
	ErrCodeInvalidFormat Code = "INVALID_FORMAT" // unknown or undecodable file formats
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"  // records that break graph rules

	ErrCodeNotFound     Code = "NOT_FOUND"      // node ids absent from the loaded graph
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND" // graph or config files

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// HTTPStatus maps the code to the status the HTTP adapter responds with.
// Unknown and internal codes map to 500.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidGraph:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a coded error. Cause is optional.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NodeNotFound reports an id that is not part of the loaded graph.
func NodeNotFound(id string) *Error {
	return New(ErrCodeNotFound, "node %q not found", id)
}

// Is reports whether the first *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e := asError(err); e != nil {
		return e.Code
	}
	return ""
}

// UserMessage returns err without the code prefix: the message followed by
// the cause, if any. Errors of other types are returned unchanged.
func UserMessage(err error) string {
	e := asError(err)
	if e == nil {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
