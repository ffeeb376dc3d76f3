package decimalmath

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"

	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/shopspring/decimal"
)

// pow switches from repeated multiplication to binary exponentiation above this exponent.
const repeatedMultiplicationLimit = 10

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// One returns the decimal 1.
func One() decimal.Decimal {
	return one
}

// RequireValue unwraps an optional decimal.
// Returns ErrInvalidArgument when the value is undefined.
func RequireValue(v decimal.NullDecimal) (decimal.Decimal, error) {
	if !v.Valid {
		return decimal.Decimal{}, domainerrors.InvalidArgument("decimal value is required")
	}
	return v.Decimal, nil
}

// ============================================
// Rounding
// ============================================

// Round rounds value half-up to scale decimal places.
func Round(value decimal.Decimal, scale int32) decimal.Decimal {
	return value.Round(scale)
}

// RoundForCalculation rounds value to calculation precision (10 significant digits).
func RoundForCalculation(value decimal.Decimal) decimal.Decimal {
	return CalculationContext.Apply(value)
}

// RoundForCurrency rounds value to currency precision (2 decimal places).
func RoundForCurrency(value decimal.Decimal) decimal.Decimal {
	return CurrencyContext.Apply(value)
}

// ============================================
// Operations
// ============================================

// Add returns a + b at calculation precision.
func Add(a, b decimal.Decimal) decimal.Decimal {
	return RoundForCalculation(a.Add(b))
}

// Subtract returns a - b at calculation precision.
func Subtract(a, b decimal.Decimal) decimal.Decimal {
	return RoundForCalculation(a.Sub(b))
}

// Multiply returns a * b at calculation precision.
func Multiply(a, b decimal.Decimal) decimal.Decimal {
	return RoundForCalculation(a.Mul(b))
}

// Divide returns dividend / divisor correctly rounded to calculation precision.
// Fails with ErrDivisionByZero when divisor is numerically zero.
func Divide(dividend, divisor decimal.Decimal) (decimal.Decimal, error) {
	if divisor.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("divide %s by %s: %w", dividend, divisor, domainerrors.ErrDivisionByZero)
	}
	return divideWithContext(dividend, divisor, CalculationPrecision), nil
}

// divideWithContext divides to n significant digits with a single half-up rounding.
//
// The quotient is truncated two digits past the target precision and a sticky
// digit is appended when the remainder is not zero, so the final rounding sees
// whether the discarded tail was exactly half.
func divideWithContext(dividend, divisor decimal.Decimal, n int32) decimal.Decimal {
	if dividend.IsZero() {
		return decimal.Zero
	}

	places := n + 2 - adjustedExponent(dividend) + adjustedExponent(divisor)
	q, r := dividend.QuoRem(divisor, places)
	if !r.IsZero() {
		sign := int64(dividend.Sign() * divisor.Sign())
		q = q.Add(decimal.New(sign, -(places + 1)))
	}
	return roundSignificant(q, n)
}

// Pow raises base to an integer exponent.
//
//   - exponent 0 returns exactly one;
//   - exponent 1 returns base unrounded;
//   - negative exponents return the reciprocal of the positive power;
//   - exponents up to 10 use repeated multiplication at calculation precision;
//   - larger exponents use binary exponentiation with guard digits.
func Pow(base decimal.Decimal, exponent int) (decimal.Decimal, error) {
	switch {
	case exponent == 0:
		return one, nil
	case exponent == 1:
		return base, nil
	case exponent < 0:
		if exponent == math.MinInt {
			return decimal.Decimal{}, fmt.Errorf("pow exponent %d: %w", exponent, domainerrors.ErrOverflow)
		}
		positive, err := Pow(base, -exponent)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return Divide(one, positive)
	case exponent <= repeatedMultiplicationLimit:
		result := base
		for i := 1; i < exponent; i++ {
			result = Multiply(result, base)
		}
		return RoundForCalculation(result), nil
	default:
		return RoundForCalculation(powBinary(base, exponent)), nil
	}
}

// powBinary computes base^exponent left-to-right by squaring. Every step keeps
// calculation precision plus one guard digit per exponent digit plus one.
func powBinary(base decimal.Decimal, exponent int) decimal.Decimal {
	work := CalculationPrecision + int32(len(strconv.Itoa(exponent))) + 1

	acc := one
	for i := bits.Len(uint(exponent)) - 1; i >= 0; i-- {
		acc = roundSignificant(acc.Mul(acc), work)
		if (exponent>>uint(i))&1 == 1 {
			acc = roundSignificant(acc.Mul(base), work)
		}
	}
	return acc
}

// PercentageToDecimal converts 7.5 to 0.075 at calculation precision.
func PercentageToDecimal(percentage decimal.Decimal) decimal.Decimal {
	return divideWithContext(percentage, hundred, CalculationPrecision)
}

// DecimalToPercentage converts 0.075 to 7.50 at currency precision.
func DecimalToPercentage(value decimal.Decimal) decimal.Decimal {
	return RoundForCurrency(value.Mul(hundred))
}

// ============================================
// Predicates
// ============================================

// IsZero reports whether value equals zero.
func IsZero(value decimal.Decimal) bool {
	return value.Sign() == 0
}

// IsPositive reports whether value > 0.
func IsPositive(value decimal.Decimal) bool {
	return value.Sign() > 0
}

// IsNegative reports whether value < 0.
func IsNegative(value decimal.Decimal) bool {
	return value.Sign() < 0
}

// IsGreaterThan reports whether a > b by value.
func IsGreaterThan(a, b decimal.Decimal) bool {
	return a.Cmp(b) > 0
}

// IsLessThan reports whether a < b by value.
func IsLessThan(a, b decimal.Decimal) bool {
	return a.Cmp(b) < 0
}

// IsEqual reports whether a == b by value; 1.0 equals 1.00.
func IsEqual(a, b decimal.Decimal) bool {
	return a.Cmp(b) == 0
}
