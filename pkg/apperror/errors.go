package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Taxonomy codes. Business-rule failures map to 400, lock contention to 429
// (retryable after backoff), storage failures to 500.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeWalletNotFound     = "WALLET_NOT_FOUND"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeLockContention     = "LOCK_CONTENTION"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInvalidToken       = "INVALID_TOKEN"
)

// ErrValidation reports malformed input caught before the engine runs.
func ErrValidation(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

// ErrWalletNotFound reports a referenced wallet that is absent or not owned
// by the requester. Non-retryable without correcting the input.
func ErrWalletNotFound() *AppError {
	return New(CodeWalletNotFound, "Wallet not found", http.StatusBadRequest)
}

// ErrInsufficientFunds reports a sender balance below the requested amount.
func ErrInsufficientFunds() *AppError {
	return New(CodeInsufficientFunds, "Insufficient funds", http.StatusBadRequest)
}

// ErrLockContention reports that the wallet lock could not be acquired.
// Retryable: the caller may resubmit after backoff; the engine never
// retries internally.
func ErrLockContention() *AppError {
	return New(CodeLockContention, "Too many concurrent requests for this wallet", http.StatusTooManyRequests)
}

// ErrStorageUnavailable reports an unreachable ledger or lock store. Fatal
// for the current request.
func ErrStorageUnavailable(err error) *AppError {
	return Wrap(CodeStorageUnavailable, "Storage unavailable", http.StatusInternalServerError, err)
}

// ErrInvalidToken reports a missing or unverifiable bearer token.
func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

// InternalError wraps an unexpected internal error.
func InternalError(err error) *AppError {
	return Wrap(CodeStorageUnavailable, "Internal server error", http.StatusInternalServerError, err)
}
