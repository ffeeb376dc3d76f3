package validation

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/Haleralex/emicalc/internal/application/ports"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.LoanValidator = (*InputValidator)(nil)

func newValidator() *InputValidator {
	return NewInputValidator(loan.DefaultEngineConfig())
}

func TestValidatePrincipal(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name  string
		input string
		want  loan.ValidationCode
	}{
		{"empty", "", loan.CodePrincipalRequired},
		{"blank", "   ", loan.CodePrincipalRequired},
		{"letters", "abc", loan.CodePrincipalFormat},
		{"three decimals", "1000.123", loan.CodePrincipalFormat},
		{"negative", "-5000", loan.CodePrincipalFormat},
		{"exponent", "1e4", loan.CodePrincipalFormat},
		{"symbol not accepted", "$5000", loan.CodePrincipalFormat},
		{"grouping not accepted", "5,000", loan.CodePrincipalFormat},
		{"trailing dot", "1000.", loan.CodePrincipalFormat},
		{"zero", "0", loan.CodePrincipalPositive},
		{"zero with decimals", "0.00", loan.CodePrincipalPositive},
		{"below minimum", "999.99", loan.CodePrincipalMinRequired},
		{"small", "1", loan.CodePrincipalMinRequired},
		{"minimum", "1000.00", ""},
		{"minimum without decimals", "1000", ""},
		{"surrounding whitespace", "  25000.5 ", ""},
		{"maximum", "1000000.00", ""},
		{"above maximum", "1000000.01", loan.CodePrincipalMaxExceeded},
		{"far above maximum", "99999999999999999999", loan.CodePrincipalMaxExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := v.ValidatePrincipal(tt.input)
			if tt.want == "" {
				assert.True(t, r.IsValid(), "got %s: %s", r.Code(), r.Message())
				return
			}
			require.False(t, r.IsValid())
			assert.Equal(t, tt.want, r.Code())
			assert.NotEmpty(t, r.Message())
		})
	}
}

func TestValidatePrincipal_Messages(t *testing.T) {
	v := newValidator()

	assert.Equal(t, "Principal amount must be at least $1,000.00", v.ValidatePrincipal("999.99").Message())
	assert.Equal(t, "Principal amount cannot exceed $1,000,000.00", v.ValidatePrincipal("1000000.01").Message())
}

func TestValidatePrincipal_AcceptsWholeRange(t *testing.T) {
	v := newValidator()

	// walk the range with a stride that hits varied cents
	for cents := int64(100000); cents <= 100000000; cents += 99991 {
		text := decimal.New(cents, -2).StringFixed(2)
		r := v.ValidatePrincipal(text)
		require.True(t, r.IsValid(), "principal %s: %s", text, r.Message())
	}

	for _, text := range []string{"1000", "1000.5", "1000.05", "500000", "999999.99", "1000000"} {
		assert.True(t, v.ValidatePrincipal(text).IsValid(), text)
	}
}

func TestValidateDuration(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name  string
		input string
		want  loan.ValidationCode
	}{
		{"empty", "", loan.CodeDurationRequired},
		{"blank", "\t", loan.CodeDurationRequired},
		{"decimal", "5.5", loan.CodeDurationFormat},
		{"negative", "-1", loan.CodeDurationFormat},
		{"plus sign", "+5", loan.CodeDurationFormat},
		{"letters", "five", loan.CodeDurationFormat},
		{"zero", "0", loan.CodeDurationPositive},
		{"zeros", "000", loan.CodeDurationPositive},
		{"minimum", "1", ""},
		{"leading zero", "05", ""},
		{"maximum", "30", ""},
		{"above maximum", "31", loan.CodeDurationMaxExceeded},
		{"overflow", "1234567890123456789012345678901234567890", loan.CodeDurationMaxExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := v.ValidateDuration(tt.input)
			if tt.want == "" {
				assert.True(t, r.IsValid(), "got %s: %s", r.Code(), r.Message())
				return
			}
			require.False(t, r.IsValid())
			assert.Equal(t, tt.want, r.Code())
			assert.NotEmpty(t, r.Message())
		})
	}
}

func TestValidateDuration_AcceptsWholeRange(t *testing.T) {
	v := newValidator()

	for years := 1; years <= 30; years++ {
		r := v.ValidateDuration(strconv.Itoa(years))
		assert.True(t, r.IsValid(), "duration %d: %s", years, r.Message())
	}
}

func TestValidateDuration_MinRequired(t *testing.T) {
	cfg := loan.DefaultEngineConfig()
	cfg.MinDurationYears = 3
	v := NewInputValidator(cfg)

	r := v.ValidateDuration("2")
	require.False(t, r.IsValid())
	assert.Equal(t, loan.CodeDurationMinRequired, r.Code())
	assert.Equal(t, "Loan duration must be at least 3 years", r.Message())
}

func TestValidateInterestRate(t *testing.T) {
	v := newValidator()

	tests := []struct {
		rate string
		want loan.ValidationCode
	}{
		{"0", ""},
		{"7.5", ""},
		{"100", ""},
		{"-0.01", loan.CodeInterestRateNegative},
		{"100.01", loan.CodeInterestRateMaxExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			r := v.ValidateInterestRate(decimal.RequireFromString(tt.rate))
			assert.Equal(t, tt.want == "", r.IsValid())
			assert.Equal(t, tt.want, r.Code())
		})
	}
}

func TestValidateAllInputs(t *testing.T) {
	v := newValidator()

	tests := []struct {
		principal string
		duration  string
		want      loan.ValidationCode
	}{
		{"10000", "5", ""},
		{"", "", loan.CodePrincipalRequired},
		{"999.99", "31", loan.CodePrincipalMinRequired},
		{"abc", "0", loan.CodePrincipalFormat},
		{"10000", "", loan.CodeDurationRequired},
		{"10000", "31", loan.CodeDurationMaxExceeded},
		{"1000.00", "30", ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q/%q", tt.principal, tt.duration), func(t *testing.T) {
			r := v.ValidateAllInputs(tt.principal, tt.duration)
			assert.Equal(t, tt.want == "", r.IsValid())
			assert.Equal(t, tt.want, r.Code())
		})
	}
}

func TestValidateCalculationInput(t *testing.T) {
	v := newValidator()

	build := func(principal string, years int, rate string) *loan.CalculationInput {
		in, err := loan.NewCalculationInput(decimal.RequireFromString(principal), years, decimal.RequireFromString(rate))
		require.NoError(t, err)
		return in
	}

	t.Run("nil input", func(t *testing.T) {
		r := v.ValidateCalculationInput(nil)
		require.False(t, r.IsValid())
		assert.Equal(t, loan.CodeInvalidInput, r.Code())
		assert.NotEmpty(t, r.Message())
	})

	tests := []struct {
		name  string
		input *loan.CalculationInput
		want  loan.ValidationCode
	}{
		{"valid", build("10000", 5, "7.5"), ""},
		{"boundaries", build("1000.00", 30, "0"), ""},
		{"principal below minimum", build("999.99", 5, "7.5"), loan.CodePrincipalMinRequired},
		{"principal above maximum", build("1000000.01", 5, "7.5"), loan.CodePrincipalMaxExceeded},
		{"duration above maximum", build("10000", 31, "7.5"), loan.CodeDurationMaxExceeded},
		{"negative rate", build("10000", 5, "-1"), loan.CodeInterestRateNegative},
		{"principal reported first", build("10", 40, "-1"), loan.CodePrincipalMinRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := v.ValidateCalculationInput(tt.input)
			assert.Equal(t, tt.want == "", r.IsValid())
			assert.Equal(t, tt.want, r.Code())
		})
	}
}

func TestMessages_CoverEveryCode(t *testing.T) {
	m := newValidator().Messages()

	codes := []loan.ValidationCode{
		loan.CodePrincipalRequired, loan.CodePrincipalFormat, loan.CodePrincipalPositive,
		loan.CodePrincipalMinRequired, loan.CodePrincipalMaxExceeded,
		loan.CodeDurationRequired, loan.CodeDurationFormat, loan.CodeDurationPositive,
		loan.CodeDurationMinRequired, loan.CodeDurationMaxExceeded,
		loan.CodeInterestRateFormat, loan.CodeInterestRateNegative, loan.CodeInterestRateMaxExceeded,
		loan.CodeFrequencyUnsupported, loan.CodeInvalidInput,
	}
	for _, code := range codes {
		assert.NotEmpty(t, m[code], string(code))
	}
	assert.Equal(t, "Interest rate cannot exceed 100.00%", m[loan.CodeInterestRateMaxExceeded])
	assert.Equal(t, "Loan duration cannot exceed 30 years", m[loan.CodeDurationMaxExceeded])
	assert.Equal(t, "Compounding frequency must be one of: 1, 2, 4, 12, 52, 365", m[loan.CodeFrequencyUnsupported])
}

func TestMessages_ReturnsCopy(t *testing.T) {
	v := newValidator()

	m := v.Messages()
	m[loan.CodePrincipalRequired] = "changed"
	delete(m, loan.CodeDurationRequired)

	assert.Equal(t, "Principal amount is required", v.ValidatePrincipal("").Message())
	assert.Equal(t, "Loan duration is required", v.ValidateDuration("").Message())
}

func TestValidateInterestRateText(t *testing.T) {
	v := newValidator()

	tests := []struct {
		text string
		want string
		code loan.ValidationCode
	}{
		{"7.5", "7.5", ""},
		{"7.5%", "7.5", ""},
		{" 0 ", "0", ""},
		{"-0", "0", ""},
		{"100.00", "100", ""},
		{"", "", loan.CodeInterestRateFormat},
		{"seven", "", loan.CodeInterestRateFormat},
		{"1e-2147483640", "", loan.CodeInterestRateFormat},
		{"1e5", "", loan.CodeInterestRateFormat},
		{"7.5E0", "", loan.CodeInterestRateFormat},
		{"+7.5", "", loan.CodeInterestRateFormat},
		{"7.", "", loan.CodeInterestRateFormat},
		{"-0.5", "", loan.CodeInterestRateNegative},
		{"100.01", "", loan.CodeInterestRateMaxExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			rate, r := v.ValidateInterestRateText(tt.text)

			assert.Equal(t, tt.code, r.Code())
			if tt.code == "" {
				assert.True(t, rate.Equal(decimal.RequireFromString(tt.want)), rate.String())
			} else {
				assert.True(t, rate.IsZero())
				assert.NotEmpty(t, r.Message())
			}
		})
	}
}

func TestValidateCompoundingFrequency(t *testing.T) {
	v := newValidator()

	for _, f := range []int{0, 1, 2, 4, 12, 52, 365} {
		assert.True(t, v.ValidateCompoundingFrequency(f).IsValid(), f)
	}

	for _, f := range []int{-1, 3, 7, 360, 1000000000} {
		r := v.ValidateCompoundingFrequency(f)
		assert.Equal(t, loan.CodeFrequencyUnsupported, r.Code(), f)
		assert.Equal(t, "compounding_frequency", r.Field())
	}
}
