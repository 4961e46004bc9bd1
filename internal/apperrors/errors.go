package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrStorage indicates a failure of the underlying persistence layer.
var ErrStorage = errors.New("storage error")

// ErrInternal is returned when a failure should be surfaced to callers without detail.
var ErrInternal = errors.New("internal error")

// Ledger preconditions.
var (
	ErrInsufficientFunds            = errors.New("insufficient funds")
	ErrAccountLockedOrInactive      = errors.New("account is locked or inactive")
	ErrReferenceAllocationExhausted = errors.New("reference allocation exhausted")
	ErrInterestAlreadyApplied       = errors.New("interest already applied for period")
	ErrNotInterestBearing           = errors.New("account type does not bear interest")
)

// Loan payment preconditions.
var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanNotPayable       = errors.New("loan is not in a payable state")
	ErrAmountExceedsBalance = errors.New("amount exceeds remaining loan balance")
)

// AppError carries an HTTP-ish status code and a message alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewStorageError wraps a persistence failure so that it matches both ErrStorage and the cause.
func NewStorageError(message string, err error) *AppError {
	if err == nil {
		return NewAppError(http.StatusInternalServerError, message, ErrStorage)
	}
	return NewAppError(http.StatusInternalServerError, message, errors.Join(ErrStorage, err))
}
