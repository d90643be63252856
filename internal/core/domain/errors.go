package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrTemporary      = errors.New("temporary failure")
	ErrUpstream       = errors.New("upstream service error")
	ErrActionInFlight = errors.New("action already in flight")
	ErrStaleResult    = errors.New("stale result discarded")
)

const (
	// FallbackErrorMessage is used when a failed response carries no usable detail.
	FallbackErrorMessage = "request error"
	// TransportErrorMessage is used when the request could not complete.
	TransportErrorMessage = "network request failed"
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// APIError is the normalized failure of any backend call.
// Status is zero for transport failures.
type APIError struct {
	Message string
	Status  int
	Body    any
	Err     error
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets callers match APIError against the transport/protocol kinds.
func (e *APIError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrTemporary:
		return e.Status == 0
	case ErrUpstream:
		return e.Status != 0
	}
	return false
}

// IsTransport reports whether the error is a backend call that never got a response.
func (e *APIError) IsTransport() bool {
	return e != nil && e.Status == 0
}

// AsAPIError extracts the normalized backend error from err, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ValidationError carries a user-facing field validation message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
