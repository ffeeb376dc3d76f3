package loan

import (
	"context"

	"github.com/Haleralex/emicalc/internal/application/dtos"
	"github.com/Haleralex/emicalc/internal/domain/loan"
)

// GetDefaultsUseCase возвращает константы движка.
type GetDefaultsUseCase struct {
	cfg loan.EngineConfig
}

// NewGetDefaultsUseCase создаёт новый use case.
func NewGetDefaultsUseCase(cfg loan.EngineConfig) *GetDefaultsUseCase {
	return &GetDefaultsUseCase{cfg: cfg}
}

// Execute возвращает DTO с константами.
func (uc *GetDefaultsUseCase) Execute(_ context.Context) (*dtos.EngineDefaultsDTO, error) {
	dto := dtos.ToEngineDefaultsDTO(uc.cfg)
	return &dto, nil
}
