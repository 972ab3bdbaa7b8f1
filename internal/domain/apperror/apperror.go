// Package apperror carries the error taxonomy shared by all core
// operations. Every failure surfaced to a caller is one of these
// codes; transport errors from collaborators are wrapped, never
// leaked raw.
package apperror

import (
	"errors"
	"fmt"
)

// Re-export the standard helpers so callers need a single import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Error codes.
const (
	CodeBadRequest = "BAD_REQUEST"
	CodeForbidden  = "FORBIDDEN"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL"
)

// AppError is an error with a classification code. The code decides
// the HTTP status at the transport boundary.
type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

func (e *AppError) Message() string {
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

func New(code, message string, err error) *AppError {
	return &AppError{code: code, message: message, err: err}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message, nil)
}

func BadRequestWrap(err error, message string) *AppError {
	return New(CodeBadRequest, message, err)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, nil)
}

func Internal(message string, err error) *AppError {
	return New(CodeInternal, message, err)
}

// Wrap keeps the code of an existing AppError and adds context;
// unknown errors become Internal.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if As(err, &appErr) {
		return New(appErr.Code(), message, err)
	}
	return New(CodeInternal, message, err)
}

// CodeOf returns the classification code of err, or CodeInternal for
// errors that are not AppErrors.
func CodeOf(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code()
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
