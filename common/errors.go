package common

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the sentinel wrapped by every ConfigurationError. Scene construction
	// aborts when it is returned; no partially built geometry is handed out.
	ErrConfiguration = errors.New("configuration error")

	// ErrRenderUnavailable is returned when a rendering backend cannot be initialized,
	// for example when no GPU adapter or device is available. It is not retried.
	ErrRenderUnavailable = errors.New("render unavailable")
)

// ConfigurationError describes a single rejected configuration value.
type ConfigurationError struct {
	// Field is the configuration key that failed validation, e.g. "segments".
	Field string
	// Value is the offending value as supplied by the caller.
	Value any
	// Reason is a short human readable explanation.
	Reason string
}

// NewConfigurationError creates a ConfigurationError for the given field.
//
// Parameters:
//   - field: the name of the rejected configuration key
//   - value: the rejected value
//   - reason: why the value was rejected
//
// Returns:
//   - error: a *ConfigurationError that unwraps to ErrConfiguration
func NewConfigurationError(field string, value any, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// RenderUnavailable wraps a backend initialization failure so that callers can match it
// with errors.Is(err, ErrRenderUnavailable) while still seeing the underlying cause.
//
// Parameters:
//   - stage: the initialization step that failed, e.g. "request adapter"
//   - cause: the error reported by the backend (may be nil)
//
// Returns:
//   - error: the wrapped error
func RenderUnavailable(stage string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrRenderUnavailable, stage)
	}
	return fmt.Errorf("%w: %s: %w", ErrRenderUnavailable, stage, cause)
}
