package loan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Haleralex/emicalc/internal/application/dtos"
	"github.com/Haleralex/emicalc/internal/domain/decimalmath"
	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/Haleralex/emicalc/internal/pkg/logger"
)

// CalculateEMIUseCase - use case расчёта ежемесячного платежа.
//
// Сценарий:
// 1. Нормализовать principal ("$10,000" → "10000.00") и провалидировать ввод
// 2. Применить ставку из команды или ставку по умолчанию
// 3. Посмотреть результат в кэше
// 4. Посчитать EMI (и график погашения, если запрошен)
// 5. Сохранить DTO в кэш
type CalculateEMIUseCase struct {
	pipeline
}

// NewCalculateEMIUseCase создаёт новый use case.
func NewCalculateEMIUseCase(deps Dependencies) *CalculateEMIUseCase {
	return &CalculateEMIUseCase{pipeline: newPipeline(deps)}
}

// Execute выполняет расчёт.
//
// Ошибки:
// - domainerrors.ValidationError - ввод не прошёл валидацию
// - *domainerrors.CalculationError - арифметический сбой (не ретраится)
func (uc *CalculateEMIUseCase) Execute(ctx context.Context, cmd dtos.CalculateEMICommand) (*dtos.EMIResultDTO, error) {
	ctx = logger.WithOperation(ctx, KindEMI)
	start := time.Now()

	input, err := uc.parseInput(cmd.Principal, cmd.DurationYears, cmd.InterestRate)
	if err != nil {
		uc.metrics.RecordCalculation(KindEMI, OutcomeRejected, time.Since(start))
		uc.logger.DebugContext(ctx, "EMI request rejected", slog.String("error", err.Error()))
		return nil, err
	}

	key := emiCacheKey(input, cmd.IncludeSchedule)
	var cached dtos.EMIResultDTO
	if uc.cached(ctx, KindEMI, key, &cached) {
		uc.metrics.RecordCalculation(KindEMI, OutcomeCached, time.Since(start))
		return &cached, nil
	}

	result, err := uc.calculator.CalculateEMI(input)
	if err != nil {
		uc.fail(ctx, input, err, start)
		return nil, err
	}

	dto := dtos.ToEMIResultDTO(input, result, uc.converter)

	if cmd.IncludeSchedule {
		schedule, err := uc.calculator.GenerateSchedule(input)
		if err != nil {
			uc.fail(ctx, input, err, start)
			return nil, err
		}
		dto.Schedule = dtos.ToScheduleDTO(schedule)
	}

	uc.store(ctx, key, dto)
	uc.metrics.RecordCalculation(KindEMI, OutcomeSuccess, time.Since(start))

	uc.logger.InfoContext(ctx, "EMI calculated",
		slog.String("principal", dto.Principal.Amount),
		slog.Int("duration_years", dto.DurationYears),
		slog.String("interest_rate", dto.InterestRate),
		slog.String("emi", dto.EMI.Amount),
	)

	return &dto, nil
}

func (uc *CalculateEMIUseCase) fail(ctx context.Context, input *loan.CalculationInput, err error, start time.Time) {
	uc.metrics.RecordCalculation(KindEMI, OutcomeFailed, time.Since(start))

	code := domainerrors.CodeCalculationFailed
	if domainerrors.IsDivisionByZero(err) {
		code = domainerrors.CodeDivisionByZero
	}
	uc.logger.ErrorContext(ctx, "EMI calculation failed",
		slog.String("input", input.String()),
		slog.String("code", code),
		slog.String("error", err.Error()),
	)
}

// emiCacheKey строит ключ из нормализованного ввода: emi:<principal>:<years>:<rate>.
func emiCacheKey(input *loan.CalculationInput, withSchedule bool) string {
	key := fmt.Sprintf("%s:%s:%d:%s", KindEMI,
		input.Principal().StringFixed(decimalmath.CurrencyScale),
		input.DurationYears(),
		input.InterestRate().String(),
	)
	if withSchedule {
		key += ":schedule"
	}
	return key
}
