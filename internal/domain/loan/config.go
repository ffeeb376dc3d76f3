// Package loan contains the value objects exchanged between the validation
// engine, the calculation engine and their callers.
//
// All types are immutable, short-lived and safe to share between goroutines.
package loan

import (
	"slices"

	"github.com/Haleralex/emicalc/internal/domain/decimalmath"
	"github.com/Haleralex/emicalc/internal/domain/valueobjects"
	"github.com/shopspring/decimal"
)

// EngineConfig holds the constants the engines are built with.
// It is captured by value at construction and never changes afterwards.
type EngineConfig struct {
	DefaultInterestRate  decimal.Decimal // percentage form, 7.5 means 7.5%
	MaxInterestRate      decimal.Decimal // percentage form
	CompoundingFrequency int             // compounding periods per year
	MinDurationYears     int
	MaxDurationYears     int
	MinPrincipal         decimal.Decimal
	MaxPrincipal         decimal.Decimal
	Currency             valueobjects.Currency
	CalculationContext   decimalmath.MathContext
	CurrencyContext      decimalmath.MathContext
}

// DefaultEngineConfig returns the engine constants:
// 7.5% default rate, monthly compounding, 1..30 years, $1,000.00..$1,000,000.00.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultInterestRate:  decimal.RequireFromString("7.5"),
		MaxInterestRate:      decimal.NewFromInt(100),
		CompoundingFrequency: 12,
		MinDurationYears:     1,
		MaxDurationYears:     30,
		MinPrincipal:         decimal.RequireFromString("1000.00"),
		MaxPrincipal:         decimal.RequireFromString("1000000.00"),
		Currency:             valueobjects.USD,
		CalculationContext:   decimalmath.CalculationContext,
		CurrencyContext:      decimalmath.CurrencyContext,
	}
}

// InstallmentsPerYear returns the number of monthly installments in a year.
func (c EngineConfig) InstallmentsPerYear() int {
	return c.CompoundingFrequency
}

// SupportedCompoundingFrequencies lists the accepted compounding periods per
// year: annual, semi-annual, quarterly, monthly, weekly and daily.
var SupportedCompoundingFrequencies = []int{1, 2, 4, 12, 52, 365}

// IsSupportedCompoundingFrequency reports whether m is one of
// SupportedCompoundingFrequencies.
func IsSupportedCompoundingFrequency(m int) bool {
	return slices.Contains(SupportedCompoundingFrequencies, m)
}
