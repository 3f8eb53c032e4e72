package utils

import "fmt"

// ValidationError represents an error occurring during request validation.
type ValidationError struct {
	Message string
}

// Error returns the error message string.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with a specific message.
//
// Parameters:
//   - message: The validation error message.
//
// Returns:
//   - An error interface wrapping the ValidationError.
func NewValidationError(message string) error {
	return &ValidationError{
		Message: message,
	}
}

// NewValidationErrorf creates a new ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// SchemaError represents a failure to interpret tabular input: an
// unparsable timestamp or numeric cell, or a structurally invalid table.
// Column names the offending column when one is known.
type SchemaError struct {
	Column  string
	Message string
}

// Error returns the error message string.
func (e *SchemaError) Error() string {
	return e.Message
}

// NewSchemaErrorf creates a new SchemaError for the given column with a
// formatted message.
func NewSchemaErrorf(column, format string, args ...interface{}) error {
	return &SchemaError{
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}

// InsufficientDataError signals that a dataset has too few usable rows,
// either before or after cleaning.
type InsufficientDataError struct {
	Rows    int
	MinRows int
}

// Error returns the error message string.
func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d rows available, at least %d required", e.Rows, e.MinRows)
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(rows, minRows int) error {
	return &InsufficientDataError{
		Rows:    rows,
		MinRows: minRows,
	}
}

// FitError represents a model estimation failure. The solver's message is
// preserved verbatim; fits are never retried.
type FitError struct {
	Message string
	Cause   error
}

// Error returns the error message string.
func (e *FitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying solver error, if any.
func (e *FitError) Unwrap() error {
	return e.Cause
}

// NewFitError creates a new FitError wrapping the solver error.
func NewFitError(message string, cause error) error {
	return &FitError{
		Message: message,
		Cause:   cause,
	}
}

// NotLoadedError signals a forecast request against a facade that has no
// fitted model, either because startup loading failed or because no data
// has been uploaded yet.
type NotLoadedError struct {
	Message string
}

// Error returns the error message string.
func (e *NotLoadedError) Error() string {
	return e.Message
}

// NewNotLoadedError creates a new NotLoadedError with a specific message.
func NewNotLoadedError(message string) error {
	return &NotLoadedError{
		Message: message,
	}
}
