// Package handlers - Loan calculation HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/Haleralex/emicalc/internal/adapters/http/common"
	"github.com/Haleralex/emicalc/internal/application/dtos"
	"github.com/gin-gonic/gin"
)

// ============================================
// Use Case Interfaces
// ============================================

// ValidateInputsUseCase - интерфейс для проверки пользовательского ввода.
type ValidateInputsUseCase interface {
	Execute(ctx context.Context, cmd dtos.ValidateInputsCommand) (*dtos.ValidationDTO, error)
}

// CalculateEMIUseCase - интерфейс для расчёта ежемесячного платежа.
type CalculateEMIUseCase interface {
	Execute(ctx context.Context, cmd dtos.CalculateEMICommand) (*dtos.EMIResultDTO, error)
}

// CalculateCompoundInterestUseCase - интерфейс для расчёта сложного процента.
type CalculateCompoundInterestUseCase interface {
	Execute(ctx context.Context, cmd dtos.CalculateCompoundInterestCommand) (*dtos.CompoundInterestDTO, error)
}

// GetDefaultsUseCase - интерфейс для получения констант движка.
type GetDefaultsUseCase interface {
	Execute(ctx context.Context) (*dtos.EngineDefaultsDTO, error)
}

// ============================================
// Loan Handler
// ============================================

// LoanHandler обрабатывает HTTP запросы расчёта кредита.
type LoanHandler struct {
	validateInputs   ValidateInputsUseCase
	calculateEMI     CalculateEMIUseCase
	compoundInterest CalculateCompoundInterestUseCase
	getDefaults      GetDefaultsUseCase
}

// NewLoanHandler создаёт новый LoanHandler.
func NewLoanHandler(
	validateInputs ValidateInputsUseCase,
	calculateEMI CalculateEMIUseCase,
	compoundInterest CalculateCompoundInterestUseCase,
	getDefaults GetDefaultsUseCase,
) *LoanHandler {
	return &LoanHandler{
		validateInputs:   validateInputs,
		calculateEMI:     calculateEMI,
		compoundInterest: compoundInterest,
		getDefaults:      getDefaults,
	}
}

// ============================================
// Request DTOs
// ============================================

// ValidateInputsRequest - запрос на проверку ввода.
//
// @Description Raw user input to validate
type ValidateInputsRequest struct {
	Principal     TextField `json:"principal" binding:"max=32"`
	DurationYears TextField `json:"duration_years" binding:"max=16"`
}

// CalculateEMIRequest - запрос на расчёт EMI.
//
// @Description EMI calculation request body
type CalculateEMIRequest struct {
	Principal       TextField `json:"principal" binding:"max=32"`
	DurationYears   TextField `json:"duration_years" binding:"max=16"`
	InterestRate    TextField `json:"interest_rate,omitempty" binding:"max=16"`
	IncludeSchedule bool      `json:"include_schedule,omitempty"`
}

// CalculateCompoundInterestRequest - запрос на расчёт сложного процента.
//
// @Description Compound interest calculation request body
type CalculateCompoundInterestRequest struct {
	Principal            TextField `json:"principal" binding:"max=32"`
	DurationYears        TextField `json:"duration_years" binding:"max=16"`
	InterestRate         TextField `json:"interest_rate,omitempty" binding:"max=16"`
	CompoundingFrequency int       `json:"compounding_frequency,omitempty" binding:"omitempty,compounding_frequency"`
}

// ============================================
// HTTP Handlers
// ============================================

// ValidateInputs проверяет сумму и срок кредита.
//
// Невалидный ввод - это не ошибка запроса: ответ 200 с valid=false,
// кодом правила и сообщением для пользователя.
//
// @Summary Validate loan inputs
// @Description Validate principal and duration as typed by the user
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body ValidateInputsRequest true "Raw input"
// @Success 200 {object} common.APIResponse{data=dtos.ValidationDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/loans/validate [post]
func (h *LoanHandler) ValidateInputs(c *gin.Context) {
	var req ValidateInputsRequest
	if !BindJSON(c, &req) {
		return
	}

	cmd := dtos.ValidateInputsCommand{
		Principal:     req.Principal.String(),
		DurationYears: req.DurationYears.String(),
	}

	result, err := h.validateInputs.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// CalculateEMI рассчитывает ежемесячный платёж.
//
// @Summary Calculate EMI
// @Description Calculate the equated monthly installment, total payable and total interest
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body CalculateEMIRequest true "Loan parameters"
// @Success 200 {object} common.APIResponse{data=dtos.EMIResultDTO}
// @Failure 400 {object} common.APIResponse "Invalid input"
// @Failure 422 {object} common.APIResponse "Calculation failed"
// @Failure 429 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/loans/emi [post]
func (h *LoanHandler) CalculateEMI(c *gin.Context) {
	var req CalculateEMIRequest
	if !BindJSON(c, &req) {
		return
	}

	cmd := dtos.CalculateEMICommand{
		Principal:       req.Principal.String(),
		DurationYears:   req.DurationYears.String(),
		InterestRate:    req.InterestRate.Ptr(),
		IncludeSchedule: req.IncludeSchedule,
	}

	result, err := h.calculateEMI.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// CalculateCompoundInterest рассчитывает итоговую сумму вклада.
//
// @Summary Calculate compound interest
// @Description Calculate the final amount for a principal, duration and annual rate
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body CalculateCompoundInterestRequest true "Deposit parameters"
// @Success 200 {object} common.APIResponse{data=dtos.CompoundInterestDTO}
// @Failure 400 {object} common.APIResponse "Invalid input"
// @Failure 422 {object} common.APIResponse "Calculation failed"
// @Failure 429 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/loans/compound-interest [post]
func (h *LoanHandler) CalculateCompoundInterest(c *gin.Context) {
	var req CalculateCompoundInterestRequest
	if !BindJSON(c, &req) {
		return
	}

	cmd := dtos.CalculateCompoundInterestCommand{
		Principal:            req.Principal.String(),
		DurationYears:        req.DurationYears.String(),
		InterestRate:         req.InterestRate.Ptr(),
		CompoundingFrequency: req.CompoundingFrequency,
	}

	result, err := h.compoundInterest.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// GetDefaults возвращает константы движка: ставку по умолчанию, границы ввода.
//
// @Summary Get engine defaults
// @Description Default interest rate, input bounds and precision settings
// @Tags Loans
// @Produce json
// @Success 200 {object} common.APIResponse{data=dtos.EngineDefaultsDTO}
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/loans/defaults [get]
func (h *LoanHandler) GetDefaults(c *gin.Context) {
	if h.getDefaults == nil {
		common.InternalErrorResponse(c, "GetDefaults use case not implemented")
		return
	}

	result, err := h.getDefaults.Execute(c.Request.Context())
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}
