package common

import (
	"fmt"
	"strings"
)

// ErrorType classifies session errors
type ErrorType string

const (
	// ErrTypeInvalidInput indicates malformed input that the user can correct
	ErrTypeInvalidInput ErrorType = "invalid_input"

	// ErrTypeUnknownTarget indicates a section, field, or slide outside the known set
	ErrTypeUnknownTarget ErrorType = "unknown_target"

	// ErrTypeConfiguration indicates a registry or option that failed validation at startup
	ErrTypeConfiguration ErrorType = "configuration"
)

// Sentinels for errors.Is comparisons
var (
	ErrInvalidInput  = &Error{Type: ErrTypeInvalidInput}
	ErrUnknownTarget = &Error{Type: ErrTypeUnknownTarget}
	ErrConfiguration = &Error{Type: ErrTypeConfiguration}
)

// Error is the error type returned by the router, form, slider and controller
type Error struct {
	Type ErrorType `json:"type"`

	Message string `json:"message"`

	// Target names the section, field or slide that was rejected
	Target string `json:"target,omitempty"`

	// Suggestion is a close known target, if any
	Suggestion string `json:"suggestion,omitempty"`

	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Type)}

	if e.Target != "" {
		parts = append(parts, fmt.Sprintf("target=%s", e.Target))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("did you mean %q?", e.Suggestion))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on error type only
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Type == t.Type
	}
	return false
}

// NewUnknownTargetError reports a lookup outside the known set
func NewUnknownTargetError(kind, target, suggestion string) *Error {
	return &Error{
		Type:       ErrTypeUnknownTarget,
		Message:    fmt.Sprintf("unknown %s", kind),
		Target:     target,
		Suggestion: suggestion,
	}
}

// NewInvalidInputError reports input that does not satisfy its rule or grammar
func NewInvalidInputError(message string, cause error) *Error {
	return &Error{
		Type:    ErrTypeInvalidInput,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigurationError reports an invalid startup registry or option
func NewConfigurationError(message string, cause error) *Error {
	return &Error{
		Type:    ErrTypeConfiguration,
		Message: message,
		Cause:   cause,
	}
}
