// Package loan содержит use cases расчёта кредита.
//
// Pipeline каждого расчёта:
// 1. Нормализовать и провалидировать ввод (ports.LoanValidator)
// 2. Собрать loan.CalculationInput
// 3. Заглянуть в кэш (ports.ResultCache, опционально)
// 4. Посчитать (ports.LoanCalculator)
// 5. Сконвертировать в DTO, положить в кэш
//
// Провал валидации останавливает pipeline до любой арифметики.
// Ошибка кэша никогда не ломает расчёт: только лог и метрика.
package loan

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Haleralex/emicalc/internal/application/ports"
	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/Haleralex/emicalc/internal/domain/valueobjects"
	"github.com/shopspring/decimal"
)

// Outcomes для метрик.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeCached   = "cached"
	OutcomeValid    = "valid"
	OutcomeInvalid  = "invalid"
)

// Виды расчётов для метрик и ключей кэша.
const (
	KindValidation       = "validation"
	KindEMI              = "emi"
	KindCompoundInterest = "compound_interest"
)

// MetricsRecorder - бизнес-метрики расчётов.
// Реализация на Prometheus живёт в HTTP middleware.
type MetricsRecorder interface {
	RecordCalculation(kind, outcome string, duration time.Duration)
	RecordCacheLookup(kind, result string)
}

// NoopMetrics - MetricsRecorder, который ничего не делает (CLI, тесты).
type NoopMetrics struct{}

// RecordCalculation implements MetricsRecorder.
func (NoopMetrics) RecordCalculation(string, string, time.Duration) {}

// RecordCacheLookup implements MetricsRecorder.
func (NoopMetrics) RecordCacheLookup(string, string) {}

// Dependencies - общие зависимости use cases.
type Dependencies struct {
	Validator  ports.LoanValidator
	Calculator ports.LoanCalculator
	Cache      ports.ResultCache // nil → без кэша
	CacheTTL   time.Duration
	Config     loan.EngineConfig
	Metrics    MetricsRecorder // nil → NoopMetrics
	Logger     *slog.Logger    // nil → slog.Default()
}

// pipeline - общая часть use cases: парсинг ввода, кэш, метрики.
type pipeline struct {
	validator  ports.LoanValidator
	calculator ports.LoanCalculator
	cache      ports.ResultCache
	cacheTTL   time.Duration
	cfg        loan.EngineConfig
	converter  *valueobjects.CurrencyConverter
	metrics    MetricsRecorder
	logger     *slog.Logger
}

func newPipeline(deps Dependencies) pipeline {
	p := pipeline{
		validator:  deps.Validator,
		calculator: deps.Calculator,
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
		cfg:        deps.Config,
		converter:  valueobjects.NewCurrencyConverter(deps.Config.Currency),
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
	if p.metrics == nil {
		p.metrics = NoopMetrics{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// normalizePrincipal превращает "$10,000.5" в "10000.50".
// Текст, который не похож на сумму, возвращается как есть: его отвергнет валидатор
// с конкретным кодом (PRINCIPAL_REQUIRED / PRINCIPAL_FORMAT).
func (p pipeline) normalizePrincipal(text string) string {
	trimmed := strings.TrimSpace(text)
	if !p.converter.IsValidCurrencyFormat(trimmed) {
		return trimmed
	}
	value, err := p.converter.ParseCurrencyValue(trimmed)
	if err != nil {
		return trimmed
	}
	return p.converter.FormatAsCurrencyWithoutSymbol(value)
}

// parseInput валидирует ввод и собирает CalculationInput.
// Невалидный ввод → domainerrors.ValidationError с кодом правила.
func (p pipeline) parseInput(principalText, durationText string, rateText *string) (*loan.CalculationInput, error) {
	principalText = p.normalizePrincipal(principalText)
	durationText = strings.TrimSpace(durationText)

	if r := p.validator.ValidateAllInputs(principalText, durationText); !r.IsValid() {
		return nil, toValidationError(r)
	}

	principal, err := decimal.NewFromString(principalText)
	if err != nil {
		return nil, toValidationError(loan.Invalid(loan.CodePrincipalFormat, err.Error()))
	}
	years, err := strconv.Atoi(durationText)
	if err != nil {
		return nil, toValidationError(loan.Invalid(loan.CodeDurationFormat, err.Error()))
	}

	rate, r := p.parseRate(rateText)
	if !r.IsValid() {
		return nil, toValidationError(r)
	}

	input, err := loan.NewCalculationInput(principal, years, rate)
	if err != nil {
		return nil, err
	}

	if r := p.validator.ValidateCalculationInput(input); !r.IsValid() {
		return nil, toValidationError(r)
	}
	return input, nil
}

// parseRate разбирает ставку ("7.5" или "7.5%"). nil → ставка по умолчанию.
func (p pipeline) parseRate(text *string) (decimal.Decimal, loan.ValidationResult) {
	if text == nil || strings.TrimSpace(*text) == "" {
		return p.cfg.DefaultInterestRate, loan.Valid()
	}
	return p.validator.ValidateInterestRateText(*text)
}

// cached читает результат из кэша в out. Возвращает true при попадании.
func (p pipeline) cached(ctx context.Context, kind, key string, out any) bool {
	if p.cache == nil {
		return false
	}

	raw, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.WarnContext(ctx, "result cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		p.metrics.RecordCacheLookup(kind, "error")
		return false
	}
	if !ok {
		p.metrics.RecordCacheLookup(kind, "miss")
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		p.logger.WarnContext(ctx, "result cache entry is corrupt",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		p.metrics.RecordCacheLookup(kind, "error")
		return false
	}

	p.metrics.RecordCacheLookup(kind, "hit")
	return true
}

// store кладёт результат в кэш. Ошибки только логируются.
func (p pipeline) store(ctx context.Context, key string, value any) {
	if p.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		p.logger.WarnContext(ctx, "result cache encode failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := p.cache.Set(ctx, key, string(raw), p.cacheTTL); err != nil {
		p.logger.WarnContext(ctx, "result cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// toValidationError поднимает Invalid-результат в ошибку для вызывающего,
// который ожидал валидный ввод.
func toValidationError(r loan.ValidationResult) error {
	return domainerrors.NewValidationError(r.Field(), string(r.Code()), r.Message())
}
