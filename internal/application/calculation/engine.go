// Package calculation implements the financial calculation engine:
// EMI, compound interest and amortization schedules.
//
// The engine is stateless. It captures an immutable loan.EngineConfig at
// construction and every call works only on its arguments, so one engine can
// be shared by any number of goroutines.
//
// All intermediate arithmetic runs at calculation precision (10 significant
// digits, half-up); amounts returned to callers are at currency precision.
package calculation

import (
	"math"

	"github.com/Haleralex/emicalc/internal/domain/decimalmath"
	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// FinancialEngine computes loan figures from validated input.
type FinancialEngine struct {
	cfg loan.EngineConfig
}

// NewFinancialEngine creates an engine bound to cfg.
func NewFinancialEngine(cfg loan.EngineConfig) *FinancialEngine {
	return &FinancialEngine{cfg: cfg}
}

// Config returns the constants the engine was built with.
func (e *FinancialEngine) Config() loan.EngineConfig {
	return e.cfg
}

// MonthlyRate converts an annual percentage rate into the per-installment rate.
func (e *FinancialEngine) MonthlyRate(annualRate decimal.Decimal) (decimal.Decimal, error) {
	r, err := decimalmath.Divide(
		decimalmath.PercentageToDecimal(annualRate),
		decimal.NewFromInt(int64(e.cfg.InstallmentsPerYear())),
	)
	if err != nil {
		return decimal.Decimal{}, domainerrors.WrapCalculation("monthly rate", err)
	}
	return r, nil
}

// Installments returns the number of monthly installments for durationYears.
func (e *FinancialEngine) Installments(durationYears int) int {
	return durationYears * e.cfg.InstallmentsPerYear()
}

// CalculateEMI computes the equated monthly installment:
//
//	EMI = P × r × (1+r)^n / ((1+r)^n − 1)
//
// With a zero rate the loan is amortized straight-line (EMI = P / n).
// Total amount is EMI × n and total interest is total − P, both currency rounded.
func (e *FinancialEngine) CalculateEMI(input *loan.CalculationInput) (loan.CalculationResult, error) {
	if input == nil {
		return loan.CalculationResult{}, domainerrors.InvalidArgument("calculation input is nil")
	}

	principal := input.Principal()
	n := e.Installments(input.DurationYears())
	installments := decimal.NewFromInt(int64(n))

	r, err := e.MonthlyRate(input.InterestRate())
	if err != nil {
		return loan.CalculationResult{}, err
	}

	if decimalmath.IsZero(r) {
		emi, err := decimalmath.Divide(principal, installments)
		if err != nil {
			return loan.CalculationResult{}, domainerrors.WrapCalculation("emi", err)
		}
		return loan.NewCalculationResult(
			decimalmath.RoundForCurrency(emi),
			decimalmath.RoundForCurrency(principal),
			decimalmath.RoundForCurrency(decimal.Zero),
			input.InterestRate(),
			n,
		), nil
	}

	emi, err := e.emi(principal, r, n)
	if err != nil {
		return loan.CalculationResult{}, err
	}

	total := decimalmath.RoundForCurrency(decimalmath.Multiply(emi, installments))
	interest := decimalmath.RoundForCurrency(decimalmath.Subtract(total, principal))

	return loan.NewCalculationResult(emi, total, interest, input.InterestRate(), n), nil
}

// emi evaluates the installment formula for a non-zero monthly rate.
func (e *FinancialEngine) emi(principal, r decimal.Decimal, n int) (decimal.Decimal, error) {
	factor, err := decimalmath.Pow(decimalmath.Add(decimalmath.One(), r), n)
	if err != nil {
		return decimal.Decimal{}, domainerrors.WrapCalculation("emi", err)
	}

	numerator := decimalmath.Multiply(decimalmath.Multiply(principal, r), factor)
	denominator := decimalmath.Subtract(factor, decimalmath.One())

	emi, err := decimalmath.Divide(numerator, denominator)
	if err != nil {
		return decimal.Decimal{}, domainerrors.WrapCalculation("emi", err)
	}
	return decimalmath.RoundForCurrency(emi), nil
}

// CalculateEMIFromParams builds an input from raw values and calculates the EMI.
func (e *FinancialEngine) CalculateEMIFromParams(principal decimal.Decimal, durationYears int, interestRate decimal.Decimal) (loan.CalculationResult, error) {
	input, err := loan.NewCalculationInput(principal, durationYears, interestRate)
	if err != nil {
		return loan.CalculationResult{}, err
	}
	return e.CalculateEMI(input)
}

// CalculateCompoundInterest returns the final amount A = P × (1 + R/100)^Y,
// compounding once per year on the annual rate.
func (e *FinancialEngine) CalculateCompoundInterest(input *loan.CalculationInput) (decimal.Decimal, error) {
	if input == nil {
		return decimal.Decimal{}, domainerrors.InvalidArgument("calculation input is nil")
	}

	growth := decimalmath.Add(decimalmath.One(), decimalmath.PercentageToDecimal(input.InterestRate()))
	factor, err := decimalmath.Pow(growth, input.DurationYears())
	if err != nil {
		return decimal.Decimal{}, domainerrors.WrapCalculation("compound interest", err)
	}

	return decimalmath.RoundForCurrency(decimalmath.Multiply(input.Principal(), factor)), nil
}

// CalculateCompoundInterestFromParams builds an input from raw values and
// calculates the compound amount.
func (e *FinancialEngine) CalculateCompoundInterestFromParams(principal decimal.Decimal, durationYears int, interestRate decimal.Decimal) (decimal.Decimal, error) {
	input, err := loan.NewCalculationInput(principal, durationYears, interestRate)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return e.CalculateCompoundInterest(input)
}

// CalculateCompoundInterestWithFrequency returns A = P × (1 + R/(100·m))^(m·Y)
// for m compounding periods per year. m must be one of
// loan.SupportedCompoundingFrequencies.
func (e *FinancialEngine) CalculateCompoundInterestWithFrequency(input *loan.CalculationInput, frequency int) (decimal.Decimal, error) {
	if input == nil {
		return decimal.Decimal{}, domainerrors.InvalidArgument("calculation input is nil")
	}
	if !loan.IsSupportedCompoundingFrequency(frequency) {
		return decimal.Decimal{}, domainerrors.InvalidArgument("unsupported compounding frequency %d", frequency)
	}
	if input.DurationYears() > math.MaxInt/frequency {
		return decimal.Decimal{}, domainerrors.InvalidArgument("%d years at %d periods per year overflows the period count", input.DurationYears(), frequency)
	}

	periodRate, err := decimalmath.Divide(
		decimalmath.PercentageToDecimal(input.InterestRate()),
		decimal.NewFromInt(int64(frequency)),
	)
	if err != nil {
		return decimal.Decimal{}, domainerrors.WrapCalculation("compound interest", err)
	}

	factor, err := decimalmath.Pow(decimalmath.Add(decimalmath.One(), periodRate), frequency*input.DurationYears())
	if err != nil {
		return decimal.Decimal{}, domainerrors.WrapCalculation("compound interest", err)
	}

	return decimalmath.RoundForCurrency(decimalmath.Multiply(input.Principal(), factor)), nil
}
