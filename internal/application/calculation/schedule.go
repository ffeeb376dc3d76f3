package calculation

import (
	"github.com/Haleralex/emicalc/internal/domain/decimalmath"
	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// GenerateSchedule returns the month-by-month amortization of input.
//
// Every payment equals the EMI except the last one, which settles the
// remaining balance so the loan closes at exactly zero. Interest per month is
// the opening balance times the monthly rate at currency precision.
func (e *FinancialEngine) GenerateSchedule(input *loan.CalculationInput) ([]loan.AmortizationEntry, error) {
	if input == nil {
		return nil, domainerrors.InvalidArgument("calculation input is nil")
	}

	result, err := e.CalculateEMI(input)
	if err != nil {
		return nil, err
	}
	r, err := e.MonthlyRate(input.InterestRate())
	if err != nil {
		return nil, err
	}

	n := result.Installments()
	emi := result.EMIAmount()
	balance := input.Principal()
	schedule := make([]loan.AmortizationEntry, 0, n)

	for period := 1; period <= n; period++ {
		interest := decimalmath.RoundForCurrency(balance.Mul(r))
		principalPart := emi.Sub(interest)

		if period == n || principalPart.GreaterThan(balance) {
			principalPart = balance
		}
		if principalPart.IsNegative() {
			return nil, domainerrors.NewCalculationError(
				domainerrors.CodeCalculationFailed,
				"installment does not cover the monthly interest",
				nil,
			)
		}

		closing := balance.Sub(principalPart)
		schedule = append(schedule, loan.AmortizationEntry{
			Period:         period,
			OpeningBalance: balance,
			Payment:        principalPart.Add(interest),
			Interest:       interest,
			Principal:      principalPart,
			ClosingBalance: closing,
		})

		balance = closing
		if balance.IsZero() && period < n {
			break
		}
	}

	return schedule, nil
}

// TotalPaid sums the payments of a schedule.
func TotalPaid(schedule []loan.AmortizationEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range schedule {
		total = total.Add(entry.Payment)
	}
	return total
}
