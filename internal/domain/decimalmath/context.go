// Package decimalmath is the only place where rounding mode and precision are decided.
//
// Two fixed contexts exist:
//   - CalculationContext: 10 significant digits, round-half-up, used for every
//     intermediate result;
//   - CurrencyContext: 2 decimal places, round-half-up, used for anything shown
//     to or accepted from a user.
//
// Round-half-up means ties are rounded away from zero, which is what
// decimal.Decimal.Round does.
package decimalmath

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// CalculationPrecision is the number of significant digits kept between steps.
	CalculationPrecision int32 = 10
	// CurrencyScale is the number of decimal places of a currency amount.
	CurrencyScale int32 = 2
)

// MathContext describes how a value is rounded.
// Exactly one of significant digits or fixed scale is in effect.
type MathContext struct {
	digits int32
	scale  int32
}

// Precision contexts. Read-only after initialization.
var (
	CalculationContext = SignificantDigits(CalculationPrecision)
	CurrencyContext    = DecimalPlaces(CurrencyScale)
)

// SignificantDigits returns a context that keeps n significant digits.
func SignificantDigits(n int32) MathContext {
	return MathContext{digits: n}
}

// DecimalPlaces returns a context that keeps n digits after the decimal point.
func DecimalPlaces(n int32) MathContext {
	return MathContext{scale: n}
}

// Digits returns the number of significant digits, or 0 for a scale context.
func (mc MathContext) Digits() int32 {
	return mc.digits
}

// Scale returns the number of decimal places of a scale context.
func (mc MathContext) Scale() int32 {
	return mc.scale
}

// IsSignificant reports whether the context counts significant digits.
func (mc MathContext) IsSignificant() bool {
	return mc.digits > 0
}

// Apply rounds d half-up according to the context.
func (mc MathContext) Apply(d decimal.Decimal) decimal.Decimal {
	if mc.IsSignificant() {
		return roundSignificant(d, mc.digits)
	}
	return d.Round(mc.scale)
}

// roundSignificant rounds d half-up to n significant digits.
func roundSignificant(d decimal.Decimal, n int32) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}

	places := n - 1 - adjustedExponent(d)
	if places >= -d.Exponent() {
		// already fits, avoid padding with zeros
		return d
	}
	return d.Round(places)
}

// adjustedExponent returns the power of ten of the most significant digit of d.
// 1234.5 -> 3, 0.00625 -> -3. d must not be zero.
func adjustedExponent(d decimal.Decimal) int32 {
	coeff := new(big.Int).Abs(d.Coefficient())
	return int32(len(coeff.String())) + d.Exponent() - 1
}
