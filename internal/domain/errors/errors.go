package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists    = errors.New("already exists")
	ErrNotFound         = errors.New("not found")
	ErrInvalidCheckout  = errors.New("invalid checkout request")
	ErrPaymentProvider  = errors.New("payment provider error")
	ErrPersistence      = errors.New("persistence error")
	ErrInvalidCoupon    = errors.New("invalid coupon request")
	ErrLockNotAcquired  = errors.New("lock not acquired")
	ErrInvalidAdminKey  = errors.New("invalid admin key")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// ValidationError reports the offending field of a rejected request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match validation failures with ErrInvalidCheckout.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidCheckout
}

// NewValidationError builds ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ProviderError carries the upstream response of a failed provider call.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Provider, e.StatusCode)
}

func (e *ProviderError) Unwrap() error {
	return ErrPaymentProvider
}
