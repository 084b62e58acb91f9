package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when an unexpected internal failure is hidden from the caller.
var ErrInternal = errors.New("internal error")

// Ledger specific validation failures.
var (
	ErrNoOpenPeriod     = fmt.Errorf("%w: no open fiscal period covers the document date", ErrValidation)
	ErrUnbalancedEntry  = fmt.Errorf("%w: ledger entry debit and credit totals differ", ErrValidation)
	ErrAlreadyValidated = fmt.Errorf("%w: ledger entry is already validated", ErrValidation)
)

// ErrIntegrity indicates a hash mismatch, bad signature or broken chain.
var ErrIntegrity = errors.New("integrity failure")

// ErrConfiguration indicates a missing signing key, account or journal. It is fatal
// for the operation and is always raised before any write.
var ErrConfiguration = errors.New("configuration failure")

// ErrConcurrency indicates a duplicate sequence number or a forked chain observed at
// the storage layer. Callers treat it as an integrity failure.
var ErrConcurrency = fmt.Errorf("%w: concurrent append conflict", ErrIntegrity)

// AppError carries an HTTP-ish status code together with the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewConfigurationError returns an error matching ErrConfiguration.
func NewConfigurationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
