// Package ports - интерфейсы (capabilities) движков расчёта и валидации.
//
// SOLID Principles:
// - DIP: Use cases и HTTP handlers зависят от абстракций, а не от движков
// - ISP: Валидация и расчёт разделены на два узких интерфейса
//
// Реализации:
// - validation.InputValidator
// - calculation.FinancialEngine
// - моки в тестах
package ports

import (
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// LoanValidator определяет контракт валидации пользовательского ввода.
//
// Валидация возвращает значение (loan.ValidationResult), а не error:
// невалидный ввод - нормальная ситуация, а не исключение.
type LoanValidator interface {
	// ValidatePrincipal проверяет текст суммы кредита.
	ValidatePrincipal(text string) loan.ValidationResult

	// ValidateDuration проверяет текст срока кредита (в годах).
	ValidateDuration(text string) loan.ValidationResult

	// ValidateInterestRate проверяет годовую ставку в процентах.
	ValidateInterestRate(rate decimal.Decimal) loan.ValidationResult

	// ValidateInterestRateText разбирает и проверяет текст ставки ("7.5", "7.5%").
	// Принимается только обычная десятичная запись, без экспоненты.
	ValidateInterestRateText(text string) (decimal.Decimal, loan.ValidationResult)

	// ValidateCompoundingFrequency проверяет число капитализаций в год.
	// 0 - годовая формула.
	ValidateCompoundingFrequency(frequency int) loan.ValidationResult

	// ValidateAllInputs проверяет оба поля.
	// Если невалидны оба, возвращается ошибка principal.
	ValidateAllInputs(principalText, durationText string) loan.ValidationResult

	// ValidateCalculationInput повторно проверяет диапазоны уже собранного input.
	// nil input → INVALID_INPUT.
	ValidateCalculationInput(input *loan.CalculationInput) loan.ValidationResult
}

// LoanCalculator определяет контракт финансового движка.
//
// Все методы чистые и детерминированные: без I/O, без состояния,
// безопасны для конкурентного вызова.
type LoanCalculator interface {
	// CalculateEMI считает ежемесячный платёж, общую сумму и переплату.
	CalculateEMI(input *loan.CalculationInput) (loan.CalculationResult, error)

	// CalculateEMIFromParams - то же самое из "сырых" параметров.
	CalculateEMIFromParams(principal decimal.Decimal, durationYears int, interestRate decimal.Decimal) (loan.CalculationResult, error)

	// CalculateCompoundInterest считает итоговую сумму P × (1 + R/100)^Y.
	CalculateCompoundInterest(input *loan.CalculationInput) (decimal.Decimal, error)

	// CalculateCompoundInterestFromParams - то же самое из "сырых" параметров.
	CalculateCompoundInterestFromParams(principal decimal.Decimal, durationYears int, interestRate decimal.Decimal) (decimal.Decimal, error)

	// CalculateCompoundInterestWithFrequency считает P × (1 + R/(100·m))^(m·Y).
	CalculateCompoundInterestWithFrequency(input *loan.CalculationInput, frequency int) (decimal.Decimal, error)

	// GenerateSchedule строит помесячный график погашения.
	GenerateSchedule(input *loan.CalculationInput) ([]loan.AmortizationEntry, error)
}
