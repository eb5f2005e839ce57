package errors

import (
	stderrors "errors"
	"fmt"

	"gostai/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. Domain input and statistical
// errors get their matching code so callers can tell a bad file from a bad test.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    classify(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

func classify(err error) string {
	switch {
	case core.IsInputError(err):
		return CodeInputError
	case core.IsStatisticalError(err):
		return CodeAnalysisError
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeInputError    = "INPUT_ERROR"
	CodeAnalysisError = "ANALYSIS_ERROR"
	CodeOutputError   = "OUTPUT_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InputError(message string, cause error) *AppError {
	return &AppError{Code: CodeInputError, Message: message, Cause: cause}
}

func OutputError(message string, cause error) *AppError {
	return &AppError{Code: CodeOutputError, Message: message, Cause: cause}
}
