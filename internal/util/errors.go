package util

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that carries the HTTP status, business code and the
// message shown to the caller. Err holds the underlying cause, if any, and is
// only ever logged.
type AppError struct {
	Status  int
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

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any AppError of the same kind, so callers can write
// errors.Is(err, util.ErrNotFound).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Status == e.Status && t.Code == e.Code && t.Message == ""
}

// Sentinels for errors.Is checks.
var (
	ErrValidation   = &AppError{Status: http.StatusBadRequest, Code: CodeInvalidParam}
	ErrUnauthorized = &AppError{Status: http.StatusUnauthorized, Code: CodeAuth}
	ErrForbidden    = &AppError{Status: http.StatusForbidden, Code: CodeForbidden}
	ErrNotFound     = &AppError{Status: http.StatusNotFound, Code: CodeNotFound}
	ErrConflict     = &AppError{Status: http.StatusConflict, Code: CodeConflict}
	ErrInternal     = &AppError{Status: http.StatusInternalServerError, Code: CodeServerErr}
)

func Validation(msg string) error {
	return &AppError{Status: http.StatusBadRequest, Code: CodeInvalidParam, Message: msg}
}

func Unauthorized(msg string) error {
	return &AppError{Status: http.StatusUnauthorized, Code: CodeAuth, Message: msg}
}

func Forbidden(msg string) error {
	return &AppError{Status: http.StatusForbidden, Code: CodeForbidden, Message: msg}
}

func NotFound(msg string) error {
	return &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &AppError{Status: http.StatusConflict, Code: CodeConflict, Message: msg}
}

// Internal wraps an unexpected store or hashing failure.
func Internal(msg string, err error) error {
	return &AppError{Status: http.StatusInternalServerError, Code: CodeServerErr, Message: msg, Err: err}
}

// AsAppError converts err to an AppError; unknown errors become internal ones.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    CodeServerErr,
		Message: "internal server error",
		Err:     err,
	}
}
