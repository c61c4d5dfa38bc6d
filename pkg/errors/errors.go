package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeStorage      ErrorType = "storage"
	ErrorTypeParsing      ErrorType = "parsing"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeServerError  ErrorType = "server_error"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// Error carries the failing operation, the storage key involved (if any)
// and the underlying cause.
type Error struct {
	Type    ErrorType
	Op      string
	Key     string
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Type)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Key != "" {
		msg += fmt.Sprintf(" (key %q)", e.Key)
	}
	if e.Code != 0 {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error for op.
func New(t ErrorType, op, message string) *Error {
	return &Error{Type: t, Op: op, Message: message}
}

// Wrap wraps err as a typed error for op and key. A nil err yields nil.
func Wrap(err error, t ErrorType, op, key string) error {
	if err == nil {
		return nil
	}
	return &Error{Type: t, Op: op, Key: key, Err: err}
}

// TypeOf returns the type of the first *Error in err's chain, or ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err carries an *Error of type t.
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// StatusType classifies an HTTP status code returned by a remote sink
func StatusType(statusCode int) ErrorType {
	switch {
	case statusCode == 0:
		return ErrorTypeNetwork
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode == 400:
		return ErrorTypeInvalidInput
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}

// Is and As re-export the standard library helpers so callers importing
// this package under the name errors keep access to them.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }
