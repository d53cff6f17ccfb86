package errors

import (
	stderrors "errors"
	"fmt"
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

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context, keeping the code of the
// innermost AppError so callers can still classify it.
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
		Code:    CodeInternalError,
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

// GetCode returns the code of the first AppError in the chain, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message of the outermost AppError without its cause
// chain, suitable for showing in the dashboard.
func UserMessage(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInvalidColumn    = "INVALID_COLUMN"
	CodeInvalidSelection = "INVALID_SELECTION"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeIngestionFailed  = "INGESTION_FAILED"
	CodeUnknown          = "UNKNOWN"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// InvalidColumn reports a column that is missing, has the wrong type or holds
// no usable data.
func InvalidColumn(format string, args ...interface{}) *AppError {
	return Newf(CodeInvalidColumn, format, args...)
}

// InvalidSelection reports a plot kind / column pairing that cannot be drawn,
// including any selection made against an empty dataset.
func InvalidSelection(format string, args ...interface{}) *AppError {
	return Newf(CodeInvalidSelection, format, args...)
}

// InsufficientData reports a report that needs more columns than available.
func InsufficientData(format string, args ...interface{}) *AppError {
	return Newf(CodeInsufficientData, format, args...)
}

func IngestionFailed(cause error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    CodeIngestionFailed,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

func IsInvalidColumn(err error) bool    { return HasCode(err, CodeInvalidColumn) }
func IsInvalidSelection(err error) bool { return HasCode(err, CodeInvalidSelection) }
func IsInsufficientData(err error) bool { return HasCode(err, CodeInsufficientData) }
