package loan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Haleralex/emicalc/internal/application/dtos"
	"github.com/Haleralex/emicalc/internal/domain/decimalmath"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/Haleralex/emicalc/internal/pkg/logger"
	"github.com/shopspring/decimal"
)

// CalculateCompoundInterestUseCase - use case расчёта сложного процента.
//
// Без compounding_frequency используется формула P × (1 + R/100)^Y
// (капитализация раз в год). С frequency = m: P × (1 + R/(100·m))^(m·Y).
type CalculateCompoundInterestUseCase struct {
	pipeline
}

// NewCalculateCompoundInterestUseCase создаёт новый use case.
func NewCalculateCompoundInterestUseCase(deps Dependencies) *CalculateCompoundInterestUseCase {
	return &CalculateCompoundInterestUseCase{pipeline: newPipeline(deps)}
}

// Execute выполняет расчёт.
func (uc *CalculateCompoundInterestUseCase) Execute(ctx context.Context, cmd dtos.CalculateCompoundInterestCommand) (*dtos.CompoundInterestDTO, error) {
	ctx = logger.WithOperation(ctx, KindCompoundInterest)
	start := time.Now()

	if r := uc.validator.ValidateCompoundingFrequency(cmd.CompoundingFrequency); !r.IsValid() {
		uc.metrics.RecordCalculation(KindCompoundInterest, OutcomeRejected, time.Since(start))
		return nil, toValidationError(r)
	}

	input, err := uc.parseInput(cmd.Principal, cmd.DurationYears, cmd.InterestRate)
	if err != nil {
		uc.metrics.RecordCalculation(KindCompoundInterest, OutcomeRejected, time.Since(start))
		uc.logger.DebugContext(ctx, "compound interest request rejected", slog.String("error", err.Error()))
		return nil, err
	}

	frequency := cmd.CompoundingFrequency
	key := compoundCacheKey(input, frequency)

	var cached dtos.CompoundInterestDTO
	if uc.cached(ctx, KindCompoundInterest, key, &cached) {
		uc.metrics.RecordCalculation(KindCompoundInterest, OutcomeCached, time.Since(start))
		return &cached, nil
	}

	var amount decimal.Decimal
	if frequency == 0 {
		frequency = 1
		amount, err = uc.calculator.CalculateCompoundInterest(input)
	} else {
		amount, err = uc.calculator.CalculateCompoundInterestWithFrequency(input, frequency)
	}
	if err != nil {
		uc.metrics.RecordCalculation(KindCompoundInterest, OutcomeFailed, time.Since(start))
		uc.logger.ErrorContext(ctx, "compound interest calculation failed",
			slog.String("input", input.String()),
			slog.Int("frequency", frequency),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	dto := dtos.ToCompoundInterestDTO(input, frequency, amount, uc.converter)

	uc.store(ctx, key, dto)
	uc.metrics.RecordCalculation(KindCompoundInterest, OutcomeSuccess, time.Since(start))

	uc.logger.InfoContext(ctx, "compound interest calculated",
		slog.String("principal", dto.Principal.Amount),
		slog.Int("duration_years", dto.DurationYears),
		slog.Int("frequency", frequency),
		slog.String("final_amount", dto.FinalAmount.Amount),
	)

	return &dto, nil
}

func compoundCacheKey(input *loan.CalculationInput, frequency int) string {
	return fmt.Sprintf("%s:%s:%d:%s:%d", KindCompoundInterest,
		input.Principal().StringFixed(decimalmath.CurrencyScale),
		input.DurationYears(),
		input.InterestRate().String(),
		frequency,
	)
}
