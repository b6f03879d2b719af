package domain

import (
	"errors"
	"fmt"
)

var (
	// request shape errors, rejected before any network call
	ErrValidation = errors.New("validation failed")

	// provider/task combination not implemented
	ErrCapabilityUnsupported = errors.New("capability unsupported")

	// network, auth or quota failure reported by a provider
	ErrProvider = errors.New("provider request failed")

	// provider answered without text or segments
	ErrEmptyResult = errors.New("provider returned an empty result")
)

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid request: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// CapabilityUnsupportedError is returned by adapters for tasks they cannot serve.
type CapabilityUnsupportedError struct {
	Provider   string
	Capability string
}

func (e *CapabilityUnsupportedError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Provider, e.Capability)
}

func (e *CapabilityUnsupportedError) Is(target error) bool {
	return target == ErrCapabilityUnsupported
}

// ProviderError wraps a failure from a provider SDK call.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}
