package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that the aggregate is in a state that forbids the requested operation
// (non-draft payroll month, non-available asset, closed issuance, void invoice, locked payment...).
var ErrInvalidState = errors.New("invalid state for operation")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Repositories use it for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds an AppError that matches ErrNotFound with errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewInvalidStateError returns an error wrapping ErrInvalidState.
func NewInvalidStateError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// LimitExceededError reports an amount that would push a running total past its limit.
// It matches ErrValidation with errors.Is.
type LimitExceededError struct {
	Subject   string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s: requested %s, available %s", e.Subject, e.Requested.String(), e.Available.String())
}

func (e *LimitExceededError) Unwrap() error {
	return ErrValidation
}

// NewLimitExceededError builds a LimitExceededError.
func NewLimitExceededError(subject string, requested, available decimal.Decimal) *LimitExceededError {
	return &LimitExceededError{Subject: subject, Requested: requested, Available: available}
}
