// Package errors provides error handling utilities.
package errors

import (
	"fmt"
	"strings"
)

// Type identifies the category of error
type Type string

const (
	// TypeMissingFilter indicates a mandatory filter field is absent
	TypeMissingFilter Type = "MISSING_FILTER"

	// TypeDatabase indicates a repository/database failure
	TypeDatabase Type = "DATABASE_ERROR"

	// TypeTimeout indicates a statement timeout; a specialization of
	// TypeDatabase kept separate for classification only
	TypeTimeout Type = "TIMEOUT_ERROR"

	// TypeNormalization indicates the factor provider failed or returned
	// malformed data
	TypeNormalization Type = "NORMALIZATION_ERROR"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type      Type                   `json:"type"`
	Message   string                 `json:"message"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// MissingFilter creates an error for an absent mandatory filter field
func MissingFilter(field string) *Error {
	return Newf(TypeMissingFilter, "missing required filter field: %s", field).
		WithContext("field", field)
}

// statement-timeout signatures emitted by Postgres (SQLSTATE 57014)
const (
	timeoutSQLState  = "57014"
	timeoutSignature = "statement timeout"
)

// IsStatementTimeout reports whether an underlying error carries a
// statement-timeout signature. Classification is informational; it does not
// change retry behavior.
func IsStatementTimeout(err error) bool {
	if err == nil {
		return false
	}
	text := err.Error()
	return strings.Contains(text, timeoutSignature) || strings.Contains(text, timeoutSQLState)
}

// Database wraps a repository failure, classifying statement timeouts as
// TypeTimeout. Both kinds are retryable.
func Database(message string, cause error) *Error {
	errType := TypeDatabase
	if IsStatementTimeout(cause) {
		errType = TypeTimeout
	}
	return &Error{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

// Normalization creates a normalization error
func Normalization(message string, cause error) *Error {
	return Wrap(TypeNormalization, message, cause)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
