// Package container - Dependency Injection container for the application.
//
// Container управляет жизненным циклом всех зависимостей:
// - Создание (logger, кэш, движки, use cases, HTTP)
// - Доступ (getters)
// - Закрытие (cleanup)
//
// Pattern: Composition Root
// - Все зависимости собираются в одном месте
// - Легко тестировать
// - Легко заменять реализации
package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Haleralex/emicalc/internal/adapters/http"
	"github.com/Haleralex/emicalc/internal/adapters/http/middleware"
	"github.com/Haleralex/emicalc/internal/application/calculation"
	"github.com/Haleralex/emicalc/internal/application/ports"
	loanuc "github.com/Haleralex/emicalc/internal/application/usecases/loan"
	"github.com/Haleralex/emicalc/internal/application/validation"
	"github.com/Haleralex/emicalc/internal/config"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/Haleralex/emicalc/internal/infrastructure/cache"
	"github.com/Haleralex/emicalc/internal/pkg/logger"
)

// ResultCache - кэш, которым управляет контейнер: кроме Get/Set умеет
// отвечать на health check и закрываться.
type ResultCache interface {
	ports.ResultCache
	Ping(ctx context.Context) error
	Close() error
}

// ============================================
// Container
// ============================================

// Container - DI контейнер приложения.
type Container struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	cache     ResultCache
	startedAt time.Time

	// Domain services
	engineConfig loan.EngineConfig
	validator    *validation.InputValidator
	calculator   *calculation.FinancialEngine
	metrics      loanuc.MetricsRecorder

	// Use Cases
	validateInputsUC   *loanuc.ValidateInputsUseCase
	calculateEMIUC     *loanuc.CalculateEMIUseCase
	compoundInterestUC *loanuc.CalculateCompoundInterestUseCase
	getDefaultsUC      *loanuc.GetDefaultsUseCase

	// HTTP
	httpServer *http.Server
}

// New создаёт новый контейнер с заданной конфигурацией.
func New(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// ============================================
// Initialization
// ============================================

// Initialize инициализирует все зависимости.
func (c *Container) Initialize(ctx context.Context) error {
	if c.logger == nil {
		c.logger = c.initLogger()
	}
	c.logger.Info("Initializing application container...")

	// 1. Cache
	if c.cache == nil {
		if err := c.initCache(ctx); err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
	}
	c.logger.Info("Result cache ready", slog.String("driver", c.cacheDriver()))

	// 2. Engines
	c.initEngines()

	// 3. Use Cases
	c.initUseCases()
	c.logger.Info("Use cases initialized")

	// 4. HTTP Server
	c.initHTTPServer()
	c.logger.Info("HTTP server initialized")

	c.startedAt = time.Now()
	c.logger.Info("Container initialization complete")
	return nil
}

// initLogger инициализирует логгер и делает его default.
func (c *Container) initLogger() *slog.Logger {
	return logger.Setup(&logger.Config{
		Level:     c.config.Log.Level,
		Format:    c.config.Log.Format,
		Output:    logger.OutputFromName(c.config.Log.Output),
		AddSource: c.config.Log.AddSource,
		Service:   c.config.App.Name,
		Version:   c.config.App.Version,
	})
}

// initCache создаёт кэш результатов по cache.driver.
// Для driver=none кэш остаётся nil и use cases считают без мемоизации.
func (c *Container) initCache(ctx context.Context) error {
	switch c.config.Cache.Driver {
	case config.CacheDriverNone, "":
		return nil

	case config.CacheDriverMemory:
		c.cache = cache.NewMemoryCache(c.config.Cache.MaxEntries)
		return nil

	case config.CacheDriverRedis:
		redisCfg := c.config.Cache.Redis
		redisCache := cache.NewRedisCache(cache.RedisConfig{
			Addr:      redisCfg.Addr,
			Password:  redisCfg.Password,
			DB:        redisCfg.DB,
			KeyPrefix: redisCfg.KeyPrefix,
			Timeout:   redisCfg.Timeout,
		})

		// Test connection
		if err := redisCache.Ping(ctx); err != nil {
			_ = redisCache.Close()
			return fmt.Errorf("failed to ping redis at %s: %w", redisCfg.Addr, err)
		}

		c.cache = redisCache
		return nil

	default:
		return fmt.Errorf("unknown cache driver: %q", c.config.Cache.Driver)
	}
}

// initEngines создаёт валидатор и движок расчёта.
// Константы движка не настраиваются через config.
func (c *Container) initEngines() {
	c.engineConfig = loan.DefaultEngineConfig()
	c.validator = validation.NewInputValidator(c.engineConfig)
	c.calculator = calculation.NewFinancialEngine(c.engineConfig)

	if c.metrics == nil {
		if c.config.Metrics.Enabled {
			c.metrics = middleware.NewBusinessMetrics()
		} else {
			c.metrics = loanuc.NoopMetrics{}
		}
	}
}

// initUseCases инициализирует use cases.
func (c *Container) initUseCases() {
	deps := loanuc.Dependencies{
		Validator:  c.validator,
		Calculator: c.calculator,
		CacheTTL:   c.config.Cache.TTL,
		Config:     c.engineConfig,
		Metrics:    c.metrics,
		Logger:     c.logger,
	}
	if c.cache != nil {
		deps.Cache = c.cache
	}

	c.validateInputsUC = loanuc.NewValidateInputsUseCase(deps)
	c.calculateEMIUC = loanuc.NewCalculateEMIUseCase(deps)
	c.compoundInterestUC = loanuc.NewCalculateCompoundInterestUseCase(deps)
	c.getDefaultsUC = loanuc.NewGetDefaultsUseCase(c.engineConfig)
}

// initHTTPServer инициализирует HTTP сервер.
func (c *Container) initHTTPServer() {
	corsCfg := c.config.CORS

	// Router Config
	routerConfig := &http.RouterConfig{
		Logger:         c.logger,
		Version:        c.config.App.Version,
		BuildTime:      c.config.App.BuildTime,
		Environment:    c.config.App.Environment,
		MetricsEnabled: c.config.Metrics.Enabled,
		MetricsPath:    c.config.Metrics.Path,
		CORS: middleware.CORSConfigFrom(
			corsCfg.AllowedOrigins,
			corsCfg.AllowedMethods,
			corsCfg.AllowedHeaders,
			corsCfg.ExposedHeaders,
			corsCfg.AllowCredentials,
			corsCfg.MaxAge,
		),
	}
	if c.cache != nil {
		routerConfig.Cache = c.cache
	}
	if c.config.RateLimit.Enabled {
		routerConfig.RequestsPerMinute = c.config.RateLimit.RequestsPerMinute
		routerConfig.CalculationsPerMinute = c.config.RateLimit.CalculationsPerMin
		// С Redis лимиты общие для всех инстансов
		if store, ok := c.cache.(middleware.RateLimitStore); ok {
			routerConfig.RateLimitStore = store
		}
	}

	// Build Router
	router := http.NewRouterBuilder(routerConfig).
		WithLoanUseCases(c.LoanUseCases()).
		Build()

	// Server Config
	serverConfig := &http.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            strconv.Itoa(c.config.Server.Port),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		TLSCertFile:     c.config.Server.TLSCertFile,
		TLSKeyFile:      c.config.Server.TLSKeyFile,
		Logger:          c.logger,
	}

	c.httpServer = http.NewServer(serverConfig, router)

	// Кэш закрывается после того, как HTTP перестал принимать запросы
	if c.cache != nil {
		c.httpServer.OnShutdown(func(context.Context) error {
			return c.closeCache()
		})
	}
}

func (c *Container) cacheDriver() string {
	if c.cache == nil {
		return config.CacheDriverNone
	}
	switch c.cache.(type) {
	case *cache.RedisCache:
		return config.CacheDriverRedis
	case *cache.MemoryCache:
		return config.CacheDriverMemory
	default:
		return "custom"
	}
}

func (c *Container) closeCache() error {
	if c.cache == nil {
		return nil
	}
	err := c.cache.Close()
	c.cache = nil
	if err != nil {
		return fmt.Errorf("cache close: %w", err)
	}
	c.logger.Info("Result cache closed")
	return nil
}

// ============================================
// Getters
// ============================================

// Config возвращает конфигурацию.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger возвращает логгер.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Cache возвращает кэш результатов (nil если cache.driver=none).
func (c *Container) Cache() ResultCache {
	return c.cache
}

// EngineConfig возвращает константы движка.
func (c *Container) EngineConfig() loan.EngineConfig {
	return c.engineConfig
}

// HTTPServer возвращает HTTP сервер.
func (c *Container) HTTPServer() *http.Server {
	return c.httpServer
}

// ============================================
// Use Case Getters
// ============================================

// ValidateInputsUseCase возвращает use case проверки ввода.
func (c *Container) ValidateInputsUseCase() *loanuc.ValidateInputsUseCase {
	return c.validateInputsUC
}

// CalculateEMIUseCase возвращает use case расчёта EMI.
func (c *Container) CalculateEMIUseCase() *loanuc.CalculateEMIUseCase {
	return c.calculateEMIUC
}

// CompoundInterestUseCase возвращает use case расчёта сложного процента.
func (c *Container) CompoundInterestUseCase() *loanuc.CalculateCompoundInterestUseCase {
	return c.compoundInterestUC
}

// GetDefaultsUseCase возвращает use case констант движка.
func (c *Container) GetDefaultsUseCase() *loanuc.GetDefaultsUseCase {
	return c.getDefaultsUC
}

// LoanUseCases собирает use cases для роутера.
func (c *Container) LoanUseCases() *http.LoanUseCases {
	if c.calculateEMIUC == nil {
		return nil
	}
	return &http.LoanUseCases{
		ValidateInputs:   c.validateInputsUC,
		CalculateEMI:     c.calculateEMIUC,
		CompoundInterest: c.compoundInterestUC,
		GetDefaults:      c.getDefaultsUC,
	}
}

// ============================================
// Shutdown
// ============================================

// Shutdown выполняет graceful shutdown всех компонентов.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.logger != nil {
		c.logger.Info("Shutting down container...")
	}

	var errs []error

	// 1. HTTP Server (его hook закрывает кэш)
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	// 2. Cache, если сервер не был собран
	if err := c.closeCache(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	if c.logger != nil {
		uptime := time.Duration(0)
		if !c.startedAt.IsZero() {
			uptime = time.Since(c.startedAt).Round(time.Second)
		}
		c.logger.Info("Container shutdown complete", slog.Duration("uptime", uptime))
	}
	return nil
}

// ============================================
// Run
// ============================================

// Run запускает приложение и ожидает сигнал завершения.
func (c *Container) Run() error {
	if err := c.logStart(); err != nil {
		return err
	}
	return c.httpServer.Run()
}

// RunWithContext запускает HTTP сервер до отмены ctx.
func (c *Container) RunWithContext(ctx context.Context) error {
	if err := c.logStart(); err != nil {
		return err
	}
	return c.httpServer.RunWithContext(ctx)
}

func (c *Container) logStart() error {
	if c.httpServer == nil {
		return errors.New("container is not initialized")
	}

	// version пишет сам логгер (logger.Config.Version)
	c.logger.Info("Starting EMICalc API Server",
		slog.String("environment", c.config.App.Environment),
		slog.String("address", c.config.Server.Address()),
		slog.String("cache", c.cacheDriver()),
	)
	return nil
}

// ============================================
// Builder Pattern (Alternative)
// ============================================

// ContainerBuilder - builder для создания контейнера с кастомными компонентами.
type ContainerBuilder struct {
	cfg     *config.Config
	logger  *slog.Logger
	cache   ResultCache
	metrics loanuc.MetricsRecorder
}

// NewBuilder создаёт новый builder.
func NewBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{
		cfg: cfg,
	}
}

// WithLogger устанавливает кастомный логгер.
func (b *ContainerBuilder) WithLogger(logger *slog.Logger) *ContainerBuilder {
	b.logger = logger
	return b
}

// WithCache устанавливает готовый кэш вместо cache.driver из конфигурации.
func (b *ContainerBuilder) WithCache(c ResultCache) *ContainerBuilder {
	b.cache = c
	return b
}

// WithMetrics устанавливает кастомный recorder бизнес-метрик.
func (b *ContainerBuilder) WithMetrics(m loanuc.MetricsRecorder) *ContainerBuilder {
	b.metrics = m
	return b
}

// Build создаёт и инициализирует контейнер.
func (b *ContainerBuilder) Build(ctx context.Context) (*Container, error) {
	cfg := b.cfg
	if cfg == nil {
		cfg = config.Development()
	}

	c := New(cfg)
	c.logger = b.logger
	c.cache = b.cache
	c.metrics = b.metrics

	if err := c.Initialize(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
