// Package http - HTTP транспорт калькулятора: роутер gin и сервер.
//
// Роутер раздаёт handlers только те use cases, которые им нужны;
// лимит на расчёты висит на группе /api/v1/loans с EMI и сложным процентом.
package http

import (
	"log/slog"

	"github.com/Haleralex/emicalc/internal/adapters/http/common"
	"github.com/Haleralex/emicalc/internal/adapters/http/handlers"
	"github.com/Haleralex/emicalc/internal/adapters/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ============================================
// Router Configuration
// ============================================

// RouterConfig - конфигурация роутера.
type RouterConfig struct {
	// Logger для middleware
	Logger *slog.Logger
	// Cache для readiness checks (nil - кэш не настроен)
	Cache handlers.Pinger
	// Version приложения
	Version string
	// BuildTime время сборки
	BuildTime string
	// Environment (development, staging, production)
	Environment string
	// CORS - настройки CORS. nil → DefaultCORSConfig
	CORS *middleware.CORSConfig
	// RequestsPerMinute - глобальный лимит на IP. 0 отключает лимит.
	RequestsPerMinute int
	// CalculationsPerMinute - лимит на расчёты с одного IP. 0 отключает лимит.
	CalculationsPerMinute int
	// RateLimitStore - общее хранилище счётчиков (Redis). nil - память инстанса
	RateLimitStore middleware.RateLimitStore
	// MetricsEnabled - отдавать ли Prometheus метрики
	MetricsEnabled bool
	// MetricsPath - путь для Prometheus (по умолчанию /metrics)
	MetricsPath string
}

// DefaultRouterConfig - конфигурация по умолчанию для development.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:                slog.Default(),
		Version:               "dev",
		BuildTime:             "unknown",
		Environment:           "development",
		RequestsPerMinute:     100,
		CalculationsPerMinute: 60,
		MetricsEnabled:        true,
		MetricsPath:           "/metrics",
	}
}

// ============================================
// Use Case Providers
// ============================================

// LoanUseCases - provider для use cases расчёта кредита.
type LoanUseCases struct {
	ValidateInputs   handlers.ValidateInputsUseCase
	CalculateEMI     handlers.CalculateEMIUseCase
	CompoundInterest handlers.CalculateCompoundInterestUseCase
	GetDefaults      handlers.GetDefaultsUseCase
}

// ============================================
// Router Builder
// ============================================

// RouterBuilder собирает gin.Engine. Без use cases роутер отдаёт только
// health и метрики.
type RouterBuilder struct {
	config *RouterConfig
	loans  *LoanUseCases
}

// NewRouterBuilder создаёт новый builder.
func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	return &RouterBuilder{
		config: config,
	}
}

// WithLoanUseCases добавляет use cases расчёта.
func (b *RouterBuilder) WithLoanUseCases(useCases *LoanUseCases) *RouterBuilder {
	b.loans = useCases
	return b
}

// Build создаёт сконфигурированный Gin Engine.
func (b *RouterBuilder) Build() *gin.Engine {
	if b.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupValidator()

	// ============================================
	// Global Middleware
	// ============================================

	// 1. Recovery первым: паника в любом middleware превращается в 500
	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           b.config.Logger,
		EnableStackTrace: b.config.Environment != "production",
	}))

	// 2. Request ID (+ correlation ID в context для логов use cases)
	router.Use(middleware.RequestID())

	// 3. CORS
	corsConfig := b.config.CORS
	if corsConfig == nil {
		corsConfig = middleware.DefaultCORSConfig()
	}
	router.Use(middleware.CORS(corsConfig))

	// 4. Logging
	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    b.config.Logger,
		SkipPaths: []string{"/health", "/live", "/ready", b.config.MetricsPath},
	}))

	// 5. Rate Limiting (global)
	if b.config.RequestsPerMinute > 0 {
		limit := middleware.DefaultRateLimitConfig()
		limit.Limit = b.config.RequestsPerMinute
		limit.Store = b.config.RateLimitStore
		router.Use(middleware.RateLimit(limit))
	}

	// 6. Metrics (Prometheus)
	if b.config.MetricsEnabled {
		router.Use(middleware.Metrics(b.config.MetricsPath))
		router.GET(b.config.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	// ============================================
	// Health Check Routes
	// ============================================

	healthHandler := handlers.NewHealthHandler(
		b.config.Cache,
		b.config.Version,
		b.config.BuildTime,
	)
	if b.loans != nil && b.loans.CalculateEMI != nil {
		healthHandler.WithSelfCheck(b.loans.CalculateEMI)
	}
	healthHandler.RegisterRoutes(router)

	// ============================================
	// API v1 Routes
	// ============================================

	v1 := router.Group("/api/v1")

	if b.loans != nil {
		loanHandler := handlers.NewLoanHandler(
			b.loans.ValidateInputs,
			b.loans.CalculateEMI,
			b.loans.CompoundInterest,
			b.loans.GetDefaults,
		)

		loans := v1.Group("/loans")
		{
			loans.GET("/defaults", loanHandler.GetDefaults)
			loans.POST("/validate", loanHandler.ValidateInputs)

			// Расчёты со своим лимитом
			calculations := loans.Group("")
			calculations.Use(middleware.CalculationRateLimit(b.config.CalculationsPerMinute, b.config.RateLimitStore))
			{
				calculations.POST("/emi", loanHandler.CalculateEMI)
				calculations.POST("/compound-interest", loanHandler.CalculateCompoundInterest)
			}
		}
	}

	// ============================================
	// 404 Handler
	// ============================================

	router.NoRoute(common.RouteNotFoundResponse)

	return router
}

// NewRouter - NewRouterBuilder(config).WithLoanUseCases(loans).Build().
func NewRouter(config *RouterConfig, loans *LoanUseCases) *gin.Engine {
	return NewRouterBuilder(config).WithLoanUseCases(loans).Build()
}
