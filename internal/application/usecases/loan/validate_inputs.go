package loan

import (
	"context"
	"log/slog"
	"time"

	"github.com/Haleralex/emicalc/internal/application/dtos"
	"github.com/Haleralex/emicalc/internal/pkg/logger"
)

// ValidateInputsUseCase - use case проверки пользовательского ввода.
//
// Ввод проверяется как есть, без нормализации: "$10,000" здесь невалиден
// (PRINCIPAL_FORMAT). Если невалидны оба поля, возвращается ошибка principal.
type ValidateInputsUseCase struct {
	pipeline
}

// NewValidateInputsUseCase создаёт новый use case.
func NewValidateInputsUseCase(deps Dependencies) *ValidateInputsUseCase {
	return &ValidateInputsUseCase{pipeline: newPipeline(deps)}
}

// Execute выполняет проверку. Невалидный ввод - не ошибка, а результат.
func (uc *ValidateInputsUseCase) Execute(ctx context.Context, cmd dtos.ValidateInputsCommand) (*dtos.ValidationDTO, error) {
	ctx = logger.WithOperation(ctx, KindValidation)
	start := time.Now()

	result := uc.validator.ValidateAllInputs(cmd.Principal, cmd.DurationYears)
	dto := dtos.ToValidationDTO(result)

	outcome := OutcomeValid
	if !dto.Valid {
		outcome = OutcomeInvalid
		uc.logger.DebugContext(ctx, "loan inputs rejected",
			slog.String("code", dto.Code),
			slog.String("field", dto.Field),
		)
	}
	uc.metrics.RecordCalculation(KindValidation, outcome, time.Since(start))

	return &dto, nil
}
