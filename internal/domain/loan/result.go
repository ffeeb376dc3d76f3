package loan

import (
	"github.com/shopspring/decimal"
)

// CalculationResult is the outcome of an EMI calculation.
// For EMI results totalAmount == principal + interestAmount by construction.
type CalculationResult struct {
	emiAmount      decimal.Decimal
	totalAmount    decimal.Decimal
	interestAmount decimal.Decimal
	interestRate   decimal.Decimal
	installments   int
}

// NewCalculationResult creates a result. Only the calculation engine builds these.
func NewCalculationResult(emi, total, interest, rate decimal.Decimal, installments int) CalculationResult {
	return CalculationResult{
		emiAmount:      emi,
		totalAmount:    total,
		interestAmount: interest,
		interestRate:   rate,
		installments:   installments,
	}
}

// EMIAmount returns the monthly installment.
func (r CalculationResult) EMIAmount() decimal.Decimal { return r.emiAmount }

// TotalAmount returns the total amount payable.
func (r CalculationResult) TotalAmount() decimal.Decimal { return r.totalAmount }

// InterestAmount returns the total interest payable.
func (r CalculationResult) InterestAmount() decimal.Decimal { return r.interestAmount }

// InterestRate returns the annual rate used, in percentage form.
func (r CalculationResult) InterestRate() decimal.Decimal { return r.interestRate }

// Installments returns the number of monthly installments.
func (r CalculationResult) Installments() int { return r.installments }

// AmortizationEntry is one month of an amortization schedule.
type AmortizationEntry struct {
	Period         int
	OpeningBalance decimal.Decimal
	Payment        decimal.Decimal
	Interest       decimal.Decimal
	Principal      decimal.Decimal
	ClosingBalance decimal.Decimal
}
