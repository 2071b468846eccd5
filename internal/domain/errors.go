package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals invalid connection or server settings. Fatal at startup.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrValidation signals a tool invocation whose arguments do not match the tool's input shape.
	ErrValidation = errors.New("invalid arguments")
	// ErrUnknownTool signals an invocation of a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
)

// ConfigurationError wraps ErrConfiguration with the offending setting.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConfiguration.Error(), e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError creates a configuration error for field.
func NewConfigurationError(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason}
}

// ValidationError wraps ErrValidation with the tool and argument that failed.
// Field is empty when the argument document as a whole is malformed.
type ValidationError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s for %s: %s", ErrValidation.Error(), e.Tool, e.Reason)
	}
	return fmt.Sprintf("%s for %s: %s %s", ErrValidation.Error(), e.Tool, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a tool argument.
func NewValidationError(tool, field, reason string) error {
	return &ValidationError{Tool: tool, Field: field, Reason: reason}
}
