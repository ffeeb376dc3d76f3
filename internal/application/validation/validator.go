// Package validation implements the input validation engine.
//
// Every rule returns a loan.ValidationResult. Rules are ordered and the first
// failing rule wins. The validator holds only immutable configuration and is
// safe for concurrent use.
package validation

import (
	"errors"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/Haleralex/emicalc/internal/domain/decimalmath"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/Haleralex/emicalc/internal/domain/valueobjects"
	"github.com/shopspring/decimal"
)

var (
	principalPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	durationPattern  = regexp.MustCompile(`^\d+$`)

	// Plain decimal notation only, no exponent.
	ratePattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// InputValidator validates raw user input against the engine bounds.
type InputValidator struct {
	cfg      loan.EngineConfig
	messages Messages
}

// NewInputValidator creates a validator bound to cfg.
func NewInputValidator(cfg loan.EngineConfig) *InputValidator {
	return &InputValidator{
		cfg:      cfg,
		messages: NewMessages(cfg, valueobjects.NewCurrencyConverter(cfg.Currency)),
	}
}

// Messages returns a copy of the message table the validator reports with.
func (v *InputValidator) Messages() Messages {
	return maps.Clone(v.messages)
}

// ValidatePrincipal checks the principal text.
// Surrounding whitespace is ignored; currency symbols and grouping are not accepted.
func (v *InputValidator) ValidatePrincipal(text string) loan.ValidationResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return v.messages.Invalid(loan.CodePrincipalRequired)
	}
	if !principalPattern.MatchString(text) {
		return v.messages.Invalid(loan.CodePrincipalFormat)
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return v.messages.Invalid(loan.CodePrincipalFormat)
	}
	return v.checkPrincipalRange(value, true)
}

// ValidateDuration checks the duration text (whole years).
func (v *InputValidator) ValidateDuration(text string) loan.ValidationResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return v.messages.Invalid(loan.CodeDurationRequired)
	}
	if !durationPattern.MatchString(text) {
		return v.messages.Invalid(loan.CodeDurationFormat)
	}

	years, err := strconv.Atoi(text)
	if err != nil {
		// Only digits reach here, so the only failure is a value too large for int.
		if errors.Is(err, strconv.ErrRange) {
			return v.messages.Invalid(loan.CodeDurationMaxExceeded)
		}
		return v.messages.Invalid(loan.CodeDurationFormat)
	}
	return v.checkDurationRange(years, true)
}

// ValidateInterestRateText parses and checks rate text such as "7.5" or "7.5%".
// Empty text is reported as a format failure; the caller decides on defaults.
func (v *InputValidator) ValidateInterestRateText(text string) (decimal.Decimal, loan.ValidationResult) {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	if !ratePattern.MatchString(text) {
		return decimal.Decimal{}, v.messages.Invalid(loan.CodeInterestRateFormat)
	}

	rate, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, v.messages.Invalid(loan.CodeInterestRateFormat)
	}
	if r := v.ValidateInterestRate(rate); !r.IsValid() {
		return decimal.Decimal{}, r
	}
	return rate, loan.Valid()
}

// ValidateCompoundingFrequency checks periods per year. Zero means the annual
// formula and is accepted.
func (v *InputValidator) ValidateCompoundingFrequency(frequency int) loan.ValidationResult {
	if frequency == 0 || loan.IsSupportedCompoundingFrequency(frequency) {
		return loan.Valid()
	}
	return v.messages.Invalid(loan.CodeFrequencyUnsupported)
}

// ValidateInterestRate checks an annual rate in percentage form.
func (v *InputValidator) ValidateInterestRate(rate decimal.Decimal) loan.ValidationResult {
	if decimalmath.IsNegative(rate) {
		return v.messages.Invalid(loan.CodeInterestRateNegative)
	}
	if decimalmath.IsGreaterThan(rate, v.cfg.MaxInterestRate) {
		return v.messages.Invalid(loan.CodeInterestRateMaxExceeded)
	}
	return loan.Valid()
}

// ValidateAllInputs validates the principal first and the duration second.
// When both are invalid the principal failure is reported.
func (v *InputValidator) ValidateAllInputs(principalText, durationText string) loan.ValidationResult {
	if r := v.ValidatePrincipal(principalText); !r.IsValid() {
		return r
	}
	if r := v.ValidateDuration(durationText); !r.IsValid() {
		return r
	}
	return loan.Valid()
}

// ValidateCalculationInput re-checks the ranges of an already constructed input.
// Format rules are not applied: the input type enforces them by construction.
func (v *InputValidator) ValidateCalculationInput(input *loan.CalculationInput) loan.ValidationResult {
	if input == nil {
		return v.messages.Invalid(loan.CodeInvalidInput)
	}
	if r := v.checkPrincipalRange(input.Principal(), false); !r.IsValid() {
		return r
	}
	if r := v.checkDurationRange(input.DurationYears(), false); !r.IsValid() {
		return r
	}
	return v.ValidateInterestRate(input.InterestRate())
}

func (v *InputValidator) checkPrincipalRange(value decimal.Decimal, checkPositive bool) loan.ValidationResult {
	if checkPositive && !decimalmath.IsPositive(value) {
		return v.messages.Invalid(loan.CodePrincipalPositive)
	}
	if decimalmath.IsLessThan(value, v.cfg.MinPrincipal) {
		return v.messages.Invalid(loan.CodePrincipalMinRequired)
	}
	if decimalmath.IsGreaterThan(value, v.cfg.MaxPrincipal) {
		return v.messages.Invalid(loan.CodePrincipalMaxExceeded)
	}
	return loan.Valid()
}

func (v *InputValidator) checkDurationRange(years int, checkPositive bool) loan.ValidationResult {
	if checkPositive && years <= 0 {
		return v.messages.Invalid(loan.CodeDurationPositive)
	}
	if years < v.cfg.MinDurationYears {
		return v.messages.Invalid(loan.CodeDurationMinRequired)
	}
	if years > v.cfg.MaxDurationYears {
		return v.messages.Invalid(loan.CodeDurationMaxExceeded)
	}
	return loan.Valid()
}
