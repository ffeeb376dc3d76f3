// Package valueobjects contains immutable value objects that represent domain concepts
// without identity. They are compared by their values, not by identity.
//
// SOLID Principles Applied:
// - SRP: Currency only knows how a currency is written (code, symbol, separators)
// - OCP: New currencies can be described without changing the conversion logic
package valueobjects

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// Currency represents a monetary currency and the way amounts in it are written.
// It's a value object - immutable and validated on creation.
type Currency struct {
	code              string // ISO 4217
	symbol            string
	thousandSeparator string
	locale            language.Tag
}

// Predefined supported currencies.
// Only USD is rendered; other symbols are out of scope.
var (
	USD = Currency{
		code:              "USD",
		symbol:            "$",
		thousandSeparator: ",",
		locale:            language.AmericanEnglish,
	}
)

// supportedCurrencies defines the whitelist of allowed currencies.
var supportedCurrencies = map[string]Currency{
	"USD": USD,
}

// ErrInvalidCurrency is returned when an invalid currency code is provided.
var ErrInvalidCurrency = errors.New("invalid currency code")

// NewCurrency looks up a supported currency by code.
//
// Example:
//
//	curr, err := NewCurrency("usd")
//	if err != nil {
//	    // handle error
//	}
func NewCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	curr, ok := supportedCurrencies[code]
	if !ok {
		return Currency{}, ErrInvalidCurrency
	}
	return curr, nil
}

// MustNewCurrency is a convenience function that panics on invalid input.
// Use only in initialization code where invalid input indicates a programming error.
func MustNewCurrency(code string) Currency {
	curr, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return curr
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// Symbol returns the display symbol, e.g. "$".
func (c Currency) Symbol() string {
	return c.symbol
}

// ThousandSeparator returns the grouping separator, e.g. ",".
func (c Currency) ThousandSeparator() string {
	return c.thousandSeparator
}

// Locale returns the language tag used for grouping digits.
func (c Currency) Locale() language.Tag {
	return c.locale
}

// Equals checks if two currencies are the same.
func (c Currency) Equals(other Currency) bool {
	return c.code == other.code
}

// String implements fmt.Stringer interface for readable output.
func (c Currency) String() string {
	return c.code
}

// IsZero checks if this is an uninitialized currency.
func (c Currency) IsZero() bool {
	return c.code == ""
}
