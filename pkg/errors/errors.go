package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrInternal
	ErrDataFetch
	ErrMalformedWindow
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// NewDataFetch wraps a failed upstream query. Batch verifiers catch this at
// their boundary and degrade to the fail-closed result instead of
// propagating it.
func NewDataFetch(err error) *AppError {
	return &AppError{
		Code:    ErrDataFetch,
		Message: "failed to fetch scheduling data",
		Err:     err,
	}
}

// NewMalformedWindow marks an availability window whose time fields could
// not be normalized. The offending window is skipped, never fatal.
func NewMalformedWindow(value string, err error) *AppError {
	return &AppError{
		Code:    ErrMalformedWindow,
		Message: fmt.Sprintf("unrecognized time representation %q", value),
		Err:     err,
	}
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
