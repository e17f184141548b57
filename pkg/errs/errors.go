// Package errs defines the error taxonomy shared across the engine.
// Recoverability drives the job retry loop: an action failure aborts a
// single invocation only, while configuration and contract violations
// abort the whole run.
package errs

import (
	"errors"
	"fmt"
)

// ErrorType classifies an error for recovery decisions.
type ErrorType string

const (
	// ErrorTypeActionFailed marks a transient device or app fault.
	ErrorTypeActionFailed ErrorType = "action_failed"
	// ErrorTypeInvalidConfiguration marks operator input rejected at
	// startup, before any external interaction.
	ErrorTypeInvalidConfiguration ErrorType = "invalid_configuration"
	// ErrorTypeInvalidCategory marks a caller passing the wrong counter
	// category kind, a programming error rather than a runtime fault.
	ErrorTypeInvalidCategory ErrorType = "invalid_category"
)

// Error carries a classification alongside the message and cause.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ActionFailed wraps a transient fault at the device boundary. The
// retry loop treats it as recoverable.
func ActionFailed(message string, cause error) *Error {
	return &Error{Type: ErrorTypeActionFailed, Message: message, Cause: cause}
}

// InvalidConfiguration reports operator input that fails validation.
func InvalidConfiguration(message string) *Error {
	return &Error{Type: ErrorTypeInvalidConfiguration, Message: message}
}

// InvalidCategory reports a counter recorded under the wrong category
// kind, for example a per-source delta against a scalar category.
func InvalidCategory(category string) *Error {
	return &Error{Type: ErrorTypeInvalidCategory, Message: "wrong kind for category " + category}
}

// IsActionFailed reports whether err is a transient action failure,
// unwrapping as needed.
func IsActionFailed(err error) bool {
	var typed *Error
	return errors.As(err, &typed) && typed.Type == ErrorTypeActionFailed
}

// IsRecoverable reports whether the retry loop may re-invoke the job
// after err. Classification survives fmt.Errorf %w wrapping.
// Unclassified errors are treated as recoverable so that an unexpected
// fault from a driver does not kill the session outright.
func IsRecoverable(err error) bool {
	var typed *Error
	if !errors.As(err, &typed) {
		return true
	}
	switch typed.Type {
	case ErrorTypeInvalidConfiguration, ErrorTypeInvalidCategory:
		return false
	default:
		return true
	}
}
