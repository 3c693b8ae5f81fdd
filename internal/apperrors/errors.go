package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeForbidden         ErrorCode = "FORBIDDEN"
	CodeStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	CodeUserAlreadyExists ErrorCode = "REGISTER_USER_ALREADY_EXISTS"
	CodeBadCredentials    ErrorCode = "LOGIN_BAD_CREDENTIALS"
	CodeInvalidPassword   ErrorCode = "REGISTER_INVALID_PASSWORD"
)

// AppError is the typed failure returned by services. HTTPCode is what the
// transport layer answers with; Err is kept for logs only.
type AppError struct {
	Code     ErrorCode
	Message  string
	HTTPCode int
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so a sentinel matches a copy carrying another message.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode, Err: err}
}

var (
	ErrNotFound          = New(CodeNotFound, "Not found", http.StatusNotFound)
	ErrForbidden         = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrStoreUnavailable  = New(CodeStoreUnavailable, "Internal server error", http.StatusInternalServerError)
	ErrUnauthorized      = New(CodeUnauthorized, "Unauthorized", http.StatusUnauthorized)
	ErrValidation        = New(CodeValidationFailed, "Validation failed", http.StatusUnprocessableEntity)
	ErrUserAlreadyExists = New(CodeUserAlreadyExists, "REGISTER_USER_ALREADY_EXISTS", http.StatusBadRequest)
	ErrBadCredentials    = New(CodeBadCredentials, "LOGIN_BAD_CREDENTIALS", http.StatusBadRequest)
	ErrInvalidPassword   = New(CodeInvalidPassword, "REGISTER_INVALID_PASSWORD", http.StatusBadRequest)
)

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func Validation(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusUnprocessableEntity)
}

// StoreUnavailable wraps a persistence failure. The cause never reaches the client.
func StoreUnavailable(err error) *AppError {
	return Wrap(err, CodeStoreUnavailable, "Internal server error", http.StatusInternalServerError)
}

// As returns the AppError in err's chain, treating anything unrecognised as
// StoreUnavailable.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return StoreUnavailable(err)
}
