package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestSentinelErrors tests that all sentinel errors are defined
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidArgument", ErrInvalidArgument},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrDivisionByZero", ErrDivisionByZero},
		{"ErrOverflow", ErrOverflow},
		{"ErrInvalidFormat", ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Errorf("%s should not be nil", tt.name)
			}
			if tt.err.Error() == "" {
				t.Errorf("%s should have an error message", tt.name)
			}
		})
	}
}

// TestDomainError_Error tests DomainError error message formatting
func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		contains []string
	}{
		{
			name: "Error with underlying error",
			err: &DomainError{
				Code:    "TEST_ERROR",
				Message: "Test message",
				Err:     errors.New("underlying error"),
			},
			contains: []string{"TEST_ERROR", "Test message", "underlying error"},
		},
		{
			name: "Error without underlying error",
			err: &DomainError{
				Code:    "SIMPLE_ERROR",
				Message: "Simple message",
			},
			contains: []string{"SIMPLE_ERROR", "Simple message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, should contain %q", msg, want)
				}
			}
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	err := NewDomainError("CODE", "message", ErrInvalidArgument)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Error("DomainError should unwrap to the underlying error")
	}
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("principal", "PRINCIPAL_MIN_REQUIRED", "Principal must be at least $1,000.00")

	msg := err.Error()
	for _, want := range []string{"principal", "PRINCIPAL_MIN_REQUIRED", "$1,000.00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, should contain %q", msg, want)
		}
	}

	if !IsValidationError(err) {
		t.Error("IsValidationError should recognise ValidationError")
	}
	if !IsValidationError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsValidationError should see through wrapping")
	}
	if IsValidationError(errors.New("plain")) {
		t.Error("plain error is not a validation error")
	}
}

func TestWrapCalculation(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		if WrapCalculation("emi", nil) != nil {
			t.Error("expected nil")
		}
	})

	t.Run("division by zero keeps its code", func(t *testing.T) {
		err := WrapCalculation("emi", fmt.Errorf("divide: %w", ErrDivisionByZero))

		var ce *CalculationError
		if !errors.As(err, &ce) {
			t.Fatalf("expected CalculationError, got %T", err)
		}
		if ce.Code != CodeDivisionByZero {
			t.Errorf("Code = %s, want %s", ce.Code, CodeDivisionByZero)
		}
		if !IsDivisionByZero(err) {
			t.Error("wrapped error should still match ErrDivisionByZero")
		}
	})

	t.Run("other arithmetic errors are uniform", func(t *testing.T) {
		err := WrapCalculation("emi", ErrOverflow)

		var ce *CalculationError
		if !errors.As(err, &ce) {
			t.Fatalf("expected CalculationError, got %T", err)
		}
		if ce.Code != CodeCalculationFailed {
			t.Errorf("Code = %s, want %s", ce.Code, CodeCalculationFailed)
		}
	})

	t.Run("invalid argument passes through", func(t *testing.T) {
		err := WrapCalculation("emi", InvalidArgument("principal is required"))
		if IsCalculationError(err) {
			t.Error("contract violations should not become calculation errors")
		}
		if !IsInvalidArgument(err) {
			t.Error("expected ErrInvalidArgument")
		}
	})

	t.Run("calculation error is not wrapped twice", func(t *testing.T) {
		inner := NewCalculationError(CodeDivisionByZero, "inner", ErrDivisionByZero)
		if got := WrapCalculation("outer", inner); got != inner {
			t.Errorf("expected same error, got %v", got)
		}
	})
}

func TestIsInvalidFormat(t *testing.T) {
	err := fmt.Errorf("%w: abc", ErrInvalidFormat)
	if !IsInvalidFormat(err) {
		t.Error("expected IsInvalidFormat to be true")
	}
	if IsInvalidFormat(ErrDivisionByZero) {
		t.Error("expected IsInvalidFormat to be false")
	}
}
