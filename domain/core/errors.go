package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Expression errors
	ErrInvalidExpression = errors.New("invalid expression")
	ErrDivisionByZero    = errors.New("division by zero")

	// Calculation errors
	ErrDivisionByZeroTotal = errors.New("total actual is zero")
	ErrInvalidEntry        = errors.New("invalid entry")
	ErrDuplicateEntry      = errors.New("duplicate entry")
	ErrReservedEntryName   = errors.New("reserved entry name")

	// Input errors
	ErrMalformedInput = errors.New("malformed input")
)

// ExpressionError reports where in an expression evaluation stopped.
type ExpressionError struct {
	Expr   string
	Offset int
	Reason string
	Err    error // ErrInvalidExpression or ErrDivisionByZero
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("%v in %q at offset %d: %s", e.Err, e.Expr, e.Offset, e.Reason)
}

func (e *ExpressionError) Unwrap() error { return e.Err }

// EntryError names the row and field whose value could not be resolved.
// It matches both ErrInvalidEntry and the underlying cause.
type EntryError struct {
	Entry string
	Row   int
	Field string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%v %q (row %d) field %s: %v", ErrInvalidEntry, e.Entry, e.Row, e.Field, e.Err)
}

func (e *EntryError) Unwrap() []error { return []error{ErrInvalidEntry, e.Err} }

// Error constructors with context
func NewDuplicateEntryError(entry string, firstRow, row int) error {
	return fmt.Errorf("%w: %q on row %d (first seen on row %d)", ErrDuplicateEntry, entry, row, firstRow)
}

func NewReservedEntryError(entry string, row int) error {
	return fmt.Errorf("%w: %q on row %d is reserved for the aggregate record", ErrReservedEntryName, entry, row)
}

func NewDivisionByZeroTotalError(entries int) error {
	return fmt.Errorf("%w: efficiency loss is undefined for %d entries", ErrDivisionByZeroTotal, entries)
}

func NewMalformedInputError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}

// Error checking helpers
func IsExpressionError(err error) bool {
	return errors.Is(err, ErrInvalidExpression) || errors.Is(err, ErrDivisionByZero)
}

// IsInputError reports whether err was caused by the submitted rows rather than the runtime.
func IsInputError(err error) bool {
	return IsExpressionError(err) ||
		errors.Is(err, ErrDivisionByZeroTotal) ||
		errors.Is(err, ErrInvalidEntry) ||
		errors.Is(err, ErrDuplicateEntry) ||
		errors.Is(err, ErrReservedEntryName) ||
		errors.Is(err, ErrMalformedInput)
}
