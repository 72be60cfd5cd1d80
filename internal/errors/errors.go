// Package errors provides custom error types for the bookkeeper API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	"errors"
	"net/http"
)

// Kind groups error codes into the broad failure classes callers branch on.
type Kind string

const (
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindInvalidState      Kind = "INVALID_STATE"
	KindBudgetExceeded    Kind = "BUDGET_EXCEEDED"
	KindDivisionUndefined Kind = "DIVISION_UNDEFINED"
	KindRateLimited       Kind = "RATE_LIMITED"
	KindInternal          Kind = "INTERNAL"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Kind       Kind   `json:"-"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so copies made
// by Wrap and WithMessage still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Kind:       sentinel.Kind,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Kind:       sentinel.Kind,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// KindOf classifies err. Errors that are not AppErrors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", Kind: KindInvalidInput, StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", Kind: KindNotFound, StatusCode: http.StatusNotFound}
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", Kind: KindUnauthorized, StatusCode: http.StatusUnauthorized}
	ErrRateLimited    = &AppError{Code: "RATE_LIMITED", Message: "Too many requests", Kind: KindRateLimited, StatusCode: http.StatusTooManyRequests}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", Kind: KindInternal, StatusCode: http.StatusInternalServerError}
)

// Library catalog errors.
var (
	ErrAuthorNotFound  = &AppError{Code: "AUTHOR_NOT_FOUND", Message: "Author not found", Kind: KindNotFound, StatusCode: http.StatusNotFound}
	ErrAuthorHasBooks  = &AppError{Code: "AUTHOR_HAS_BOOKS", Message: "Author is linked to existing books", Kind: KindConflict, StatusCode: http.StatusConflict}
	ErrBookNotFound    = &AppError{Code: "BOOK_NOT_FOUND", Message: "Book not found", Kind: KindNotFound, StatusCode: http.StatusNotFound}
	ErrBookHasLoans    = &AppError{Code: "BOOK_HAS_LOANS", Message: "Book has loan history", Kind: KindConflict, StatusCode: http.StatusConflict}
	ErrMemberNotFound  = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Member not found", Kind: KindNotFound, StatusCode: http.StatusNotFound}
	ErrDuplicateMember = &AppError{Code: "DUPLICATE_MEMBER_EMAIL", Message: "A member with this email already exists", Kind: KindConflict, StatusCode: http.StatusConflict}
)

// Loan errors.
var (
	ErrLoanNotFound        = &AppError{Code: "LOAN_NOT_FOUND", Message: "Loan not found", Kind: KindNotFound, StatusCode: http.StatusNotFound}
	ErrBookUnavailable     = &AppError{Code: "BOOK_UNAVAILABLE", Message: "Book is currently on loan", Kind: KindConflict, StatusCode: http.StatusConflict}
	ErrLoanAlreadyReturned = &AppError{Code: "LOAN_ALREADY_RETURNED", Message: "already returned", Kind: KindInvalidState, StatusCode: http.StatusConflict}
	ErrLoanOverdue         = &AppError{Code: "LOAN_OVERDUE", Message: "overdue", Kind: KindInvalidState, StatusCode: http.StatusConflict}
	ErrReturnBeforeLoan    = &AppError{Code: "RETURN_BEFORE_LOAN", Message: "return date precedes loan date", Kind: KindInvalidState, StatusCode: http.StatusConflict}
)

// Finance errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", Kind: KindNotFound, StatusCode: http.StatusNotFound}
	ErrDuplicateEmail    = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", Kind: KindConflict, StatusCode: http.StatusConflict}
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", Kind: KindNotFound, StatusCode: http.StatusNotFound}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists", Kind: KindConflict, StatusCode: http.StatusConflict}
	ErrCategoryInUse     = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing expenses", Kind: KindConflict, StatusCode: http.StatusConflict}
	ErrBudgetExceeded    = &AppError{Code: "BUDGET_EXCEEDED", Message: "Expense exceeds the monthly budget", Kind: KindBudgetExceeded, StatusCode: http.StatusUnprocessableEntity}
	ErrDivisionUndefined = &AppError{Code: "DIVISION_UNDEFINED", Message: "Spend ratio is undefined when income is zero", Kind: KindDivisionUndefined, StatusCode: http.StatusUnprocessableEntity}
)
