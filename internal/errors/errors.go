// Package errors provides the structured error types used across the
// SettleEase API. Service-layer errors are AppErrors so handlers can emit
// consistent responses without leaking internal details to clients.
package errors

import "net/http"

// AppError is an application error with a stable code, a human-readable
// message, an HTTP status, and an optional wrapped internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an
// internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Person errors.
var (
	ErrPersonNotFound  = &AppError{Code: "PERSON_NOT_FOUND", Message: "Person not found", StatusCode: http.StatusNotFound}
	ErrPersonInUse     = &AppError{Code: "PERSON_IN_USE", Message: "Person is referenced by expenses or settlements", StatusCode: http.StatusConflict}
	ErrDuplicatePerson = &AppError{Code: "DUPLICATE_PERSON", Message: "A person with this name already exists", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse     = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing expenses", StatusCode: http.StatusConflict}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
)

// Expense errors.
var (
	ErrExpenseNotFound    = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrInvalidSplitMethod = &AppError{Code: "INVALID_SPLIT_METHOD", Message: "Unsupported split method", StatusCode: http.StatusBadRequest}
	ErrPayerSumMismatch   = &AppError{Code: "PAYER_SUM_MISMATCH", Message: "Paid-by amounts must sum to the total amount", StatusCode: http.StatusBadRequest}
	ErrShareSumMismatch   = &AppError{Code: "SHARE_SUM_MISMATCH", Message: "Shares must sum to the amount effectively split", StatusCode: http.StatusBadRequest}
	ErrItemSumMismatch    = &AppError{Code: "ITEM_SUM_MISMATCH", Message: "Item prices must sum to the total amount", StatusCode: http.StatusBadRequest}
)

// Settlement errors.
var (
	ErrSettlementNotFound = &AppError{Code: "SETTLEMENT_NOT_FOUND", Message: "Settlement payment not found", StatusCode: http.StatusNotFound}
	ErrSelfSettlement     = &AppError{Code: "SELF_SETTLEMENT", Message: "Debtor and creditor must be different people", StatusCode: http.StatusBadRequest}
)

// Summary errors.
var (
	ErrSummaryUnavailable = &AppError{Code: "SUMMARY_UNAVAILABLE", Message: "Summary service is unavailable", StatusCode: http.StatusBadGateway}
)
