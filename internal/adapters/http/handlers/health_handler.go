// Package handlers - Health check handlers.
//
// Два типа проверок для оркестратора:
// - Liveness (/live): процесс отвечает, перезапуск не нужен
// - Readiness (/ready): инстанс можно ставить под трафик
//
// Расчёты не зависят от внешних систем. Внешняя зависимость одна - кэш
// результатов, и он не обязателен. Вместо пинга базы readiness делает
// контрольный расчёт EMI с заранее известным ответом: так ловится сломанная
// конфигурация движка (например, неверная точность округления).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/Haleralex/emicalc/internal/application/dtos"
	"github.com/gin-gonic/gin"
)

// Pinger - зависимость, доступность которой можно проверить.
type Pinger interface {
	Ping(ctx context.Context) error
}

// sizer - кэш, который умеет сообщить количество записей.
type sizer interface {
	Len() int
}

// Контрольный расчёт: 10000 на 5 лет под 7.5% годовых.
var selfCheckCommand = dtos.CalculateEMICommand{Principal: "10000", DurationYears: "5", InterestRate: strPtr("7.5")}

const selfCheckEMI = "200.38"

// Статусы проверок.
const (
	StatusHealthy       = "healthy"
	StatusDegraded      = "degraded"
	StatusNotConfigured = "not configured"
)

// HealthHandler обрабатывает health check запросы.
type HealthHandler struct {
	cache     Pinger
	emi       CalculateEMIUseCase
	version   string
	buildTime string
	startTime time.Time
	timeout   time.Duration
}

// NewHealthHandler создаёт HealthHandler. cache может быть nil.
func NewHealthHandler(cache Pinger, version, buildTime string) *HealthHandler {
	return &HealthHandler{
		cache:     cache,
		version:   version,
		buildTime: buildTime,
		startTime: time.Now(),
		timeout:   2 * time.Second,
	}
}

// WithSelfCheck включает контрольный расчёт EMI в /ready и /health/detailed.
func (h *HealthHandler) WithSelfCheck(emi CalculateEMIUseCase) *HealthHandler {
	h.emi = emi
	return h
}

// HealthResponse - ответ /health и /health/detailed.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	BuildTime string            `json:"build_time"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ReadinessResponse - ответ /ready.
type ReadinessResponse struct {
	Ready     bool              `json:"ready"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// Health - базовый статус без проверок зависимостей.
//
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthResponse(StatusHealthy, nil))
}

// Live - liveness probe.
//
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Ready - readiness probe. 503, если кэш недоступен или контрольный
// расчёт не сошёлся.
//
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} ReadinessResponse
// @Failure 503 {object} ReadinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	checks, ok := h.runChecks(c.Request.Context())

	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, ReadinessResponse{Ready: ok, Checks: checks, Timestamp: time.Now().UTC()})
}

// DetailedHealth - статус проверок плюс runtime информация.
// Всегда 200: деградация видна в поле status.
//
// @Summary Detailed health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health/detailed [get]
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	checks, ok := h.runChecks(c.Request.Context())

	if s, isSizer := h.cache.(sizer); isSizer {
		checks["cache_entries"] = strconv.Itoa(s.Len())
	}
	checks["goroutines"] = strconv.Itoa(runtime.NumGoroutine())
	checks["go_version"] = runtime.Version()

	status := StatusHealthy
	if !ok {
		status = StatusDegraded
	}
	c.JSON(http.StatusOK, h.healthResponse(status, checks))
}

// RegisterRoutes регистрирует /health, /health/detailed, /ready и /live.
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/health/detailed", h.DetailedHealth)
	router.GET("/ready", h.Ready)
	router.GET("/live", h.Live)
}

func (h *HealthHandler) healthResponse(status string, checks map[string]string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Version:   h.version,
		BuildTime: h.buildTime,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
}

// runChecks выполняет все проверки с общим таймаутом.
func (h *HealthHandler) runChecks(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	cacheStatus, cacheOK := h.checkCache(ctx)
	calcStatus, calcOK := h.checkCalculator(ctx)

	return map[string]string{
		"cache":      cacheStatus,
		"calculator": calcStatus,
	}, cacheOK && calcOK
}

// checkCache пингует кэш. Отсутствующий кэш считается здоровым.
func (h *HealthHandler) checkCache(ctx context.Context) (string, bool) {
	if h.cache == nil {
		return StatusNotConfigured, true
	}
	if err := h.cache.Ping(ctx); err != nil {
		return "unhealthy: " + err.Error(), false
	}
	return StatusHealthy, true
}

// checkCalculator сверяет контрольный расчёт с известным ответом.
func (h *HealthHandler) checkCalculator(ctx context.Context) (string, bool) {
	if h.emi == nil {
		return StatusNotConfigured, true
	}
	result, err := h.emi.Execute(ctx, selfCheckCommand)
	if err != nil {
		return "unhealthy: " + err.Error(), false
	}
	if result.EMI.Amount != selfCheckEMI {
		return fmt.Sprintf("unhealthy: emi %s, want %s", result.EMI.Amount, selfCheckEMI), false
	}
	return StatusHealthy, true
}

func strPtr(s string) *string { return &s }
