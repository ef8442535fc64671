package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProofNotFound     = errors.New("proof artifact not found")
	ErrProofUploadClosed = errors.New("order no longer accepts payment proofs")
	ErrInvalidChannel    = errors.New("invalid notification channel")
)

// ValidationError rejects malformed input before the state machine is
// invoked. It carries no side effects.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// InsufficientStockError aborts order creation atomically: nothing is
// persisted and no stock is decremented.
type InsufficientStockError struct {
	ProductID string
	VariantID string
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (variant %q): requested %d, available %d",
		e.ProductID, e.VariantID, e.Requested, e.Available)
}

// TransientInfraError marks a storage or delivery I/O failure that may
// succeed on retry. It is distinct from business-rule violations, which are
// never retried.
type TransientInfraError struct {
	Op  string
	Err error
}

func (e *TransientInfraError) Error() string {
	return fmt.Sprintf("transient infrastructure failure during %s: %v", e.Op, e.Err)
}

func (e *TransientInfraError) Unwrap() error {
	return e.Err
}

func NewTransientInfraError(op string, err error) *TransientInfraError {
	return &TransientInfraError{Op: op, Err: err}
}
