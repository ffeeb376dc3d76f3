// Package errors defines domain-specific error types.
// Using typed errors (instead of strings) allows clients to handle specific cases.
//
// Taxonomy:
//   - Validation errors: user-correctable, one pre-defined message per rule.
//   - Calculation errors: arithmetic failures, carry a stable code.
//   - Programming errors: nil/undefined arguments where the contract forbids them.
//
// Pattern: Sentinel Errors + Custom Error Types
package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the calculation engine
var (
	// Contract violations
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidInput    = errors.New("invalid calculation input")

	// Arithmetic errors
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("numeric overflow")

	// Conversion errors
	ErrInvalidFormat = errors.New("invalid format")
)

// Stable calculation error codes.
const (
	CodeDivisionByZero    = "DIVISION_BY_ZERO"
	CodeCalculationFailed = "CALCULATION_FAILED"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
)

// DomainError is a custom error type that wraps errors with additional context.
// This allows us to add domain-specific information while maintaining the error chain.
//
// Pattern: Error Wrapping with Context
type DomainError struct {
	Code    string // Machine-readable error code (e.g., "INVALID_ARGUMENT")
	Message string // Human-readable message
	Err     error  // Underlying error (for error chains)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError is raised at the boundary where a caller insists that inputs
// are already valid. Validation functions themselves never return it; they
// return a loan.ValidationResult.
type ValidationError struct {
	Field   string // Field name that failed validation
	Code    string // Rule code, e.g. "PRINCIPAL_MIN_REQUIRED"
	Message string // What went wrong
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("validation failed for field '%s' [%s]: %s", e.Field, e.Code, e.Message)
	}
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, code, message string) ValidationError {
	return ValidationError{Field: field, Code: code, Message: message}
}

// CalculationError represents an arithmetic failure during a computation.
// Calculations are deterministic, so these are never retried.
type CalculationError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CalculationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calculation failed [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("calculation failed [%s]: %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *CalculationError) Unwrap() error {
	return e.Err
}

// NewCalculationError creates a new calculation error.
func NewCalculationError(code, message string, err error) *CalculationError {
	return &CalculationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WrapCalculation converts an arithmetic error into a CalculationError.
// Division by zero keeps its own code; everything else is reported uniformly.
// Contract violations (ErrInvalidArgument) and existing CalculationErrors pass through.
func WrapCalculation(operation string, err error) error {
	if err == nil {
		return nil
	}

	var ce *CalculationError
	if errors.As(err, &ce) || errors.Is(err, ErrInvalidArgument) {
		return err
	}

	if errors.Is(err, ErrDivisionByZero) {
		return NewCalculationError(CodeDivisionByZero, operation+": division by zero", err)
	}
	return NewCalculationError(CodeCalculationFailed, operation+" failed", err)
}

// InvalidArgument returns an ErrInvalidArgument wrapped with a description.
func InvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Helper functions for common error checking

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var valErr ValidationError
	var valErrPtr *ValidationError
	return errors.As(err, &valErr) || errors.As(err, &valErrPtr)
}

// IsCalculationError checks if an error is a calculation error.
func IsCalculationError(err error) bool {
	var ce *CalculationError
	return errors.As(err, &ce)
}

// IsDivisionByZero checks if an error was caused by a division by zero.
func IsDivisionByZero(err error) bool {
	return errors.Is(err, ErrDivisionByZero)
}

// IsInvalidArgument checks if an error is a contract violation.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsInvalidFormat checks if an error is a conversion failure.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}
