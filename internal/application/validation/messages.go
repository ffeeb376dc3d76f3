package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/Haleralex/emicalc/internal/domain/valueobjects"
)

// Messages holds the pre-defined, user-facing message of every rule.
// Bounds are rendered once from the engine config, so the text always matches
// the limits that are actually enforced.
type Messages map[loan.ValidationCode]string

// NewMessages renders the message table for cfg.
func NewMessages(cfg loan.EngineConfig, converter *valueobjects.CurrencyConverter) Messages {
	return Messages{
		loan.CodePrincipalRequired:    "Principal amount is required",
		loan.CodePrincipalFormat:      "Principal amount must be a number with at most 2 decimal places (e.g. 10000 or 10000.50)",
		loan.CodePrincipalPositive:    "Principal amount must be greater than zero",
		loan.CodePrincipalMinRequired: "Principal amount must be at least " + converter.FormatAsCurrency(cfg.MinPrincipal),
		loan.CodePrincipalMaxExceeded: "Principal amount cannot exceed " + converter.FormatAsCurrency(cfg.MaxPrincipal),

		loan.CodeDurationRequired:    "Loan duration is required",
		loan.CodeDurationFormat:      "Loan duration must be a whole number of years",
		loan.CodeDurationPositive:    "Loan duration must be greater than zero",
		loan.CodeDurationMinRequired: fmt.Sprintf("Loan duration must be at least %s", years(cfg.MinDurationYears)),
		loan.CodeDurationMaxExceeded: fmt.Sprintf("Loan duration cannot exceed %s", years(cfg.MaxDurationYears)),

		loan.CodeInterestRateFormat:      "Interest rate must be a number (e.g. 7.5)",
		loan.CodeInterestRateNegative:    "Interest rate cannot be negative",
		loan.CodeInterestRateMaxExceeded: "Interest rate cannot exceed " + converter.FormatPercentage(cfg.MaxInterestRate),

		loan.CodeFrequencyUnsupported: "Compounding frequency must be one of: " + frequencies(),

		loan.CodeInvalidInput: "Calculation input is required",
	}
}

// Invalid builds the failing result for code with its pre-defined message.
func (m Messages) Invalid(code loan.ValidationCode) loan.ValidationResult {
	return loan.Invalid(code, m[code])
}

func frequencies() string {
	parts := make([]string, len(loan.SupportedCompoundingFrequencies))
	for i, f := range loan.SupportedCompoundingFrequencies {
		parts[i] = strconv.Itoa(f)
	}
	return strings.Join(parts, ", ")
}

func years(n int) string {
	if n == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", n)
}
