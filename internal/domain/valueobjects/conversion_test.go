package valueobjects_test

import (
	"testing"

	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/Haleralex/emicalc/internal/domain/valueobjects"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUSDConverter() *valueobjects.CurrencyConverter {
	return valueobjects.NewCurrencyConverter(valueobjects.USD)
}

func TestParseCurrencyValue(t *testing.T) {
	conv := newUSDConverter()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "1234.56", "1234.56"},
		{"symbol and grouping", "$1,234.56", "1234.56"},
		{"surrounding whitespace", "  $ 1,000,000.00 ", "1000000"},
		{"rounds half up to cents", "10.005", "10.01"},
		{"integer", "1000", "1000"},
		{"negative", "-$12.50", "-12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.ParseCurrencyValue(tt.input)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseCurrencyValue_InvalidFormat(t *testing.T) {
	conv := newUSDConverter()

	for _, input := range []string{"", "   ", "$", "$,", "abc", "12.34.56", "1O0"} {
		t.Run(input, func(t *testing.T) {
			_, err := conv.ParseCurrencyValue(input)
			require.Error(t, err)
			assert.True(t, domainerrors.IsInvalidFormat(err))
		})
	}
}

func TestFormatAsCurrency(t *testing.T) {
	conv := newUSDConverter()

	tests := []struct {
		input string
		want  string
	}{
		{"1234.56", "$1,234.56"},
		{"0", "$0.00"},
		{"0.005", "$0.01"},
		{"999.999", "$1,000.00"},
		{"1000000", "$1,000,000.00"},
		{"200.379", "$200.38"},
		{"-1234.5", "-$1,234.50"},
		{"12345678901234567890.12", "$12,345,678,901,234,567,890.12"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, conv.FormatAsCurrency(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestFormatAsCurrencyWithoutSymbol(t *testing.T) {
	conv := newUSDConverter()

	assert.Equal(t, "1234.56", conv.FormatAsCurrencyWithoutSymbol(decimal.RequireFromString("1234.555")))
	assert.Equal(t, "1000000.00", conv.FormatAsCurrencyWithoutSymbol(decimal.NewFromInt(1000000)))
	assert.Equal(t, "0.00", conv.FormatAsCurrencyWithoutSymbol(decimal.Zero))
}

func TestFormatPercentage(t *testing.T) {
	conv := newUSDConverter()
	assert.Equal(t, "7.50%", conv.FormatPercentage(decimal.RequireFromString("7.5")))
}

func TestFormatParseRoundTrip(t *testing.T) {
	conv := newUSDConverter()

	for _, input := range []string{"0", "0.01", "1.005", "999.994", "1234.5", "1000000", "98765432.109"} {
		t.Run(input, func(t *testing.T) {
			formatted := conv.FormatAsCurrency(decimal.RequireFromString(input))

			parsed, err := conv.ParseCurrencyValue(formatted)
			require.NoError(t, err)
			assert.Equal(t, formatted, conv.FormatAsCurrency(parsed))
		})
	}
}

func TestIsValidCurrencyFormat(t *testing.T) {
	conv := newUSDConverter()

	tests := []struct {
		input string
		want  bool
	}{
		{"1000", true},
		{"1000.5", true},
		{"1000.50", true},
		{"$1,000.50", true},
		{" 1000 ", true},
		{"1000.505", false},
		{"-1000", false},
		{"1e3", false},
		{"1000.", false},
		{".50", false},
		{"", false},
		{"abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, conv.IsValidCurrencyFormat(tt.input))
		})
	}
}

func TestIsPositiveCurrencyValue(t *testing.T) {
	conv := newUSDConverter()

	assert.True(t, conv.IsPositiveCurrencyValue("0.01"))
	assert.True(t, conv.IsPositiveCurrencyValue("$1,000"))
	assert.False(t, conv.IsPositiveCurrencyValue("0"))
	assert.False(t, conv.IsPositiveCurrencyValue("0.00"))
	assert.False(t, conv.IsPositiveCurrencyValue("-5"))
	assert.False(t, conv.IsPositiveCurrencyValue("five"))
}
