package errors

import (
	stderrors "errors"
	"fmt"

	"effcost/domain/core"
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

// Wrap wraps an error with additional context, keeping the code of an AppError
// cause or deriving one from the domain taxonomy.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
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

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the code of the outermost AppError, the code matching a
// domain error, or CodeInternalError.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return domainCode(err)
}

// Predefined error codes
const (
	CodeConfigInvalid       = "CONFIG_INVALID"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidExpression   = "INVALID_EXPRESSION"
	CodeDivisionByZero      = "DIVISION_BY_ZERO"
	CodeDivisionByZeroTotal = "DIVISION_BY_ZERO_TOTAL"
	CodeInvalidEntry        = "INVALID_ENTRY"
	CodeDuplicateEntry      = "DUPLICATE_ENTRY"
	CodeReservedEntryName   = "RESERVED_ENTRY_NAME"
	CodeMalformedInput      = "MALFORMED_INPUT"
)

// domain errors in match order; InvalidEntry wraps expression errors so it goes first
var domainCodes = []struct {
	target error
	code   string
}{
	{core.ErrInvalidEntry, CodeInvalidEntry},
	{core.ErrInvalidExpression, CodeInvalidExpression},
	{core.ErrDivisionByZero, CodeDivisionByZero},
	{core.ErrDivisionByZeroTotal, CodeDivisionByZeroTotal},
	{core.ErrDuplicateEntry, CodeDuplicateEntry},
	{core.ErrReservedEntryName, CodeReservedEntryName},
	{core.ErrMalformedInput, CodeMalformedInput},
}

func domainCode(err error) string {
	for _, dc := range domainCodes {
		if stderrors.Is(err, dc.target) {
			return dc.code
		}
	}
	return CodeInternalError
}

// IsInputCode reports whether code describes a problem with the submitted data
func IsInputCode(code string) bool {
	switch code {
	case CodeInvalidInput, CodeInvalidExpression, CodeDivisionByZero,
		CodeDivisionByZeroTotal, CodeInvalidEntry, CodeDuplicateEntry,
		CodeReservedEntryName, CodeMalformedInput:
		return true
	}
	return false
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
