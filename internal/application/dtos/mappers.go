// Package dtos - Mappers для конвертации domain value objects в DTOs.
//
// Pattern: Mapper/Converter
// Отделяет domain representation от API representation
package dtos

import (
	"github.com/Haleralex/emicalc/internal/domain/decimalmath"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/Haleralex/emicalc/internal/domain/valueobjects"
	"github.com/shopspring/decimal"
)

// ToMoneyDTO конвертирует сумму в оба представления.
func ToMoneyDTO(amount decimal.Decimal, converter *valueobjects.CurrencyConverter) MoneyDTO {
	return MoneyDTO{
		Amount:    converter.FormatAsCurrencyWithoutSymbol(amount),
		Formatted: converter.FormatAsCurrency(amount),
	}
}

// ToValidationDTO конвертирует loan.ValidationResult в DTO.
func ToValidationDTO(r loan.ValidationResult) ValidationDTO {
	if r.IsValid() {
		return ValidationDTO{Valid: true}
	}
	return ValidationDTO{
		Valid:   false,
		Code:    string(r.Code()),
		Field:   r.Field(),
		Message: r.Message(),
	}
}

// ToEMIResultDTO конвертирует результат расчёта EMI в DTO.
func ToEMIResultDTO(input *loan.CalculationInput, result loan.CalculationResult, converter *valueobjects.CurrencyConverter) EMIResultDTO {
	return EMIResultDTO{
		Principal:     ToMoneyDTO(input.Principal(), converter),
		DurationYears: input.DurationYears(),
		InterestRate:  converter.FormatPercentage(result.InterestRate()),
		Installments:  result.Installments(),
		EMI:           ToMoneyDTO(result.EMIAmount(), converter),
		TotalAmount:   ToMoneyDTO(result.TotalAmount(), converter),
		TotalInterest: ToMoneyDTO(result.InterestAmount(), converter),
	}
}

// ToScheduleDTO конвертирует график погашения.
func ToScheduleDTO(schedule []loan.AmortizationEntry) []AmortizationEntryDTO {
	result := make([]AmortizationEntryDTO, len(schedule))
	for i, entry := range schedule {
		result[i] = AmortizationEntryDTO{
			Period:         entry.Period,
			OpeningBalance: entry.OpeningBalance.StringFixed(decimalmath.CurrencyScale),
			Payment:        entry.Payment.StringFixed(decimalmath.CurrencyScale),
			Interest:       entry.Interest.StringFixed(decimalmath.CurrencyScale),
			Principal:      entry.Principal.StringFixed(decimalmath.CurrencyScale),
			ClosingBalance: entry.ClosingBalance.StringFixed(decimalmath.CurrencyScale),
		}
	}
	return result
}

// ToCompoundInterestDTO конвертирует итог сложного процента в DTO.
// Начисленный процент = итоговая сумма − principal.
func ToCompoundInterestDTO(input *loan.CalculationInput, frequency int, finalAmount decimal.Decimal, converter *valueobjects.CurrencyConverter) CompoundInterestDTO {
	earned := decimalmath.RoundForCurrency(finalAmount.Sub(input.Principal()))

	return CompoundInterestDTO{
		Principal:            ToMoneyDTO(input.Principal(), converter),
		DurationYears:        input.DurationYears(),
		InterestRate:         converter.FormatPercentage(input.InterestRate()),
		CompoundingFrequency: frequency,
		FinalAmount:          ToMoneyDTO(finalAmount, converter),
		InterestEarned:       ToMoneyDTO(earned, converter),
	}
}

// ToEngineDefaultsDTO конвертирует конфигурацию движка в DTO.
func ToEngineDefaultsDTO(cfg loan.EngineConfig) EngineDefaultsDTO {
	return EngineDefaultsDTO{
		Currency:             cfg.Currency.Code(),
		CurrencySymbol:       cfg.Currency.Symbol(),
		DefaultInterestRate:  cfg.DefaultInterestRate.String(),
		MaxInterestRate:      cfg.MaxInterestRate.String(),
		CompoundingFrequency: cfg.CompoundingFrequency,
		MinDurationYears:     cfg.MinDurationYears,
		MaxDurationYears:     cfg.MaxDurationYears,
		MinPrincipal:         cfg.MinPrincipal.StringFixed(decimalmath.CurrencyScale),
		MaxPrincipal:         cfg.MaxPrincipal.StringFixed(decimalmath.CurrencyScale),
		CalculationPrecision: cfg.CalculationContext.Digits(),
		CurrencyScale:        cfg.CurrencyContext.Scale(),
	}
}
