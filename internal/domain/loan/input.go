package loan

import (
	"fmt"

	"github.com/Haleralex/emicalc/internal/domain/decimalmath"
	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/shopspring/decimal"
)

// CalculationInput is a principal, a duration in whole years and an annual rate
// in percentage form.
//
// Invariants: duration > 0, principal present. The principal is stored at
// currency precision. Use WithInterestRate to override the rate; the receiver
// is never modified.
type CalculationInput struct {
	principal     decimal.Decimal
	durationYears int
	interestRate  decimal.Decimal
}

// NewCalculationInput builds an input with the given rate.
// Fails with ErrInvalidArgument when durationYears <= 0.
func NewCalculationInput(principal decimal.Decimal, durationYears int, interestRate decimal.Decimal) (*CalculationInput, error) {
	if durationYears <= 0 {
		return nil, domainerrors.InvalidArgument("duration must be positive, got %d", durationYears)
	}

	return &CalculationInput{
		principal:     decimalmath.RoundForCurrency(principal),
		durationYears: durationYears,
		interestRate:  interestRate,
	}, nil
}

// NewCalculationInputWithDefaultRate builds an input using the configured default rate.
func NewCalculationInputWithDefaultRate(principal decimal.Decimal, durationYears int, cfg EngineConfig) (*CalculationInput, error) {
	return NewCalculationInput(principal, durationYears, cfg.DefaultInterestRate)
}

// NewCalculationInputFromNullable builds an input from optional values.
// A missing principal or rate is a contract violation.
func NewCalculationInputFromNullable(principal decimal.NullDecimal, durationYears int, interestRate decimal.NullDecimal) (*CalculationInput, error) {
	p, err := decimalmath.RequireValue(principal)
	if err != nil {
		return nil, fmt.Errorf("principal: %w", err)
	}
	r, err := decimalmath.RequireValue(interestRate)
	if err != nil {
		return nil, fmt.Errorf("interest rate: %w", err)
	}
	return NewCalculationInput(p, durationYears, r)
}

// Principal returns the loan amount.
func (in *CalculationInput) Principal() decimal.Decimal {
	return in.principal
}

// DurationYears returns the loan duration in years.
func (in *CalculationInput) DurationYears() int {
	return in.durationYears
}

// InterestRate returns the annual rate in percentage form.
func (in *CalculationInput) InterestRate() decimal.Decimal {
	return in.interestRate
}

// WithInterestRate returns a copy of the input with a different annual rate.
func (in *CalculationInput) WithInterestRate(rate decimal.Decimal) *CalculationInput {
	cp := *in
	cp.interestRate = rate
	return &cp
}

// String returns a human-readable representation.
func (in *CalculationInput) String() string {
	return fmt.Sprintf("principal=%s years=%d rate=%s%%",
		in.principal.StringFixed(decimalmath.CurrencyScale), in.durationYears, in.interestRate.String())
}
