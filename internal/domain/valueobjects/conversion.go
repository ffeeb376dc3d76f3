package valueobjects

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Haleralex/emicalc/internal/domain/decimalmath"
	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

// currencyPattern accepts unsigned amounts with at most two fractional digits.
var currencyPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// CurrencyConverter parses and formats amounts written in one currency.
// It holds no mutable state and is safe for concurrent use.
type CurrencyConverter struct {
	currency Currency
	printer  *message.Printer
}

// NewCurrencyConverter creates a converter for the given currency.
func NewCurrencyConverter(currency Currency) *CurrencyConverter {
	return &CurrencyConverter{
		currency: currency,
		printer:  message.NewPrinter(currency.Locale()),
	}
}

// Currency returns the currency the converter works with.
func (c *CurrencyConverter) Currency() Currency {
	return c.currency
}

// clean strips the symbol, thousands separators and surrounding whitespace.
func (c *CurrencyConverter) clean(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, c.currency.Symbol(), "")
	cleaned = strings.ReplaceAll(cleaned, c.currency.ThousandSeparator(), "")
	return strings.TrimSpace(cleaned)
}

// ParseCurrencyValue parses "$1,234.56" style text into a decimal rounded to
// currency precision. Returns ErrInvalidFormat for empty or non-numeric text.
func (c *CurrencyConverter) ParseCurrencyValue(text string) (decimal.Decimal, error) {
	cleaned := c.clean(text)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty currency value", domainerrors.ErrInvalidFormat)
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a number", domainerrors.ErrInvalidFormat, text)
	}
	return decimalmath.RoundForCurrency(value), nil
}

// FormatAsCurrency renders value as "$1,234.56". Negative values are written "-$1,234.56".
func (c *CurrencyConverter) FormatAsCurrency(value decimal.Decimal) string {
	rounded := decimalmath.RoundForCurrency(value)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	fixed := rounded.StringFixed(decimalmath.CurrencyScale)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	return sign + c.currency.Symbol() + c.group(rounded, intPart) + "." + fracPart
}

// group inserts locale separators into the integer digits.
func (c *CurrencyConverter) group(rounded decimal.Decimal, digits string) string {
	whole := rounded.Truncate(0).BigInt()
	if whole.IsInt64() {
		return c.printer.Sprintf("%d", whole.Int64())
	}

	// beyond int64 the printer cannot take the value, group by hand
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(c.currency.ThousandSeparator())
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatAsCurrencyWithoutSymbol renders value as "1234.56": no symbol, no grouping.
func (c *CurrencyConverter) FormatAsCurrencyWithoutSymbol(value decimal.Decimal) string {
	return decimalmath.RoundForCurrency(value).StringFixed(decimalmath.CurrencyScale)
}

// FormatPercentage renders an annual rate as "7.50%".
func (c *CurrencyConverter) FormatPercentage(value decimal.Decimal) string {
	return decimalmath.RoundForCurrency(value).StringFixed(decimalmath.CurrencyScale) + "%"
}

// IsValidCurrencyFormat reports whether text, once symbol, separators and
// whitespace are stripped, is an unsigned amount with at most two decimals.
func (c *CurrencyConverter) IsValidCurrencyFormat(text string) bool {
	return currencyPattern.MatchString(c.clean(text))
}

// IsPositiveCurrencyValue reports whether text is well-formed and strictly greater than zero.
func (c *CurrencyConverter) IsPositiveCurrencyValue(text string) bool {
	if !c.IsValidCurrencyFormat(text) {
		return false
	}
	value, err := c.ParseCurrencyValue(text)
	if err != nil {
		return false
	}
	return decimalmath.IsPositive(value)
}
