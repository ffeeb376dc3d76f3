// Package dtos - DTOs для расчёта кредитов (EMI, сложный процент).
//
// Суммы передаются строками ("200.38"), чтобы не терять точность decimal
// при JSON-сериализации. Рядом лежит отформатированная версия ("$200.38")
// для показа пользователю.
package dtos

// ============================================
// Commands
// ============================================

// ValidateInputsCommand - проверка "сырого" пользовательского ввода.
// Поля - текст, как его ввёл пользователь.
type ValidateInputsCommand struct {
	Principal     string `json:"principal"`
	DurationYears string `json:"duration_years"`
}

// CalculateEMICommand - команда расчёта ежемесячного платежа.
type CalculateEMICommand struct {
	Principal       string  `json:"principal" validate:"required"`      // "10000", "10000.50" или "$10,000.50"
	DurationYears   string  `json:"duration_years" validate:"required"` // целое число лет
	InterestRate    *string `json:"interest_rate,omitempty"`            // nil → ставка по умолчанию (7.5)
	IncludeSchedule bool    `json:"include_schedule,omitempty"`
}

// CalculateCompoundInterestCommand - команда расчёта сложного процента.
type CalculateCompoundInterestCommand struct {
	Principal            string  `json:"principal" validate:"required"`
	DurationYears        string  `json:"duration_years" validate:"required"`
	InterestRate         *string `json:"interest_rate,omitempty"`
	CompoundingFrequency int     `json:"compounding_frequency,omitempty"` // 0 → годовая капитализация
}

// ============================================
// Response DTOs
// ============================================

// ValidationDTO - результат валидации ввода.
type ValidationDTO struct {
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`  // PRINCIPAL_MIN_REQUIRED, ...
	Field   string `json:"field,omitempty"` // principal, duration_years, interest_rate
	Message string `json:"message,omitempty"`
}

// MoneyDTO - сумма в двух представлениях.
type MoneyDTO struct {
	Amount    string `json:"amount"`    // "1234.56"
	Formatted string `json:"formatted"` // "$1,234.56"
}

// EMIResultDTO - результат расчёта EMI.
type EMIResultDTO struct {
	Principal     MoneyDTO               `json:"principal"`
	DurationYears int                    `json:"duration_years"`
	InterestRate  string                 `json:"interest_rate"` // "7.50%"
	Installments  int                    `json:"installments"`
	EMI           MoneyDTO               `json:"emi"`
	TotalAmount   MoneyDTO               `json:"total_amount"`
	TotalInterest MoneyDTO               `json:"total_interest"`
	Schedule      []AmortizationEntryDTO `json:"schedule,omitempty"`
}

// AmortizationEntryDTO - одна строка графика погашения.
type AmortizationEntryDTO struct {
	Period         int    `json:"period"`
	OpeningBalance string `json:"opening_balance"`
	Payment        string `json:"payment"`
	Interest       string `json:"interest"`
	Principal      string `json:"principal"`
	ClosingBalance string `json:"closing_balance"`
}

// CompoundInterestDTO - результат расчёта сложного процента.
type CompoundInterestDTO struct {
	Principal            MoneyDTO `json:"principal"`
	DurationYears        int      `json:"duration_years"`
	InterestRate         string   `json:"interest_rate"`
	CompoundingFrequency int      `json:"compounding_frequency"`
	FinalAmount          MoneyDTO `json:"final_amount"`
	InterestEarned       MoneyDTO `json:"interest_earned"`
}

// EngineDefaultsDTO - константы движка (для UI и клиентов API).
type EngineDefaultsDTO struct {
	Currency             string `json:"currency"`
	CurrencySymbol       string `json:"currency_symbol"`
	DefaultInterestRate  string `json:"default_interest_rate"`
	MaxInterestRate      string `json:"max_interest_rate"`
	CompoundingFrequency int    `json:"compounding_frequency"`
	MinDurationYears     int    `json:"min_duration_years"`
	MaxDurationYears     int    `json:"max_duration_years"`
	MinPrincipal         string `json:"min_principal"`
	MaxPrincipal         string `json:"max_principal"`
	CalculationPrecision int32  `json:"calculation_precision"`
	CurrencyScale        int32  `json:"currency_scale"`
}
