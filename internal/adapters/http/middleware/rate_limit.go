// Package middleware - Rate Limiting middleware.
//
// Расчёты дешёвые, но не бесплатные: 30-летний график это 360 строк decimal
// арифметики. Ограничиваем количество запросов с одного IP.
// Fixed window counter. Счётчики живут в RateLimitStore: по умолчанию в памяти
// инстанса, при cache.driver=redis - в Redis, общие для всех инстансов.
package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Haleralex/emicalc/internal/adapters/http/common"
	"github.com/gin-gonic/gin"
)

// RateLimitStore считает запросы в фиксированном окне.
type RateLimitStore interface {
	// Hit увеличивает счётчик key и возвращает число запросов в текущем окне
	// и время до его сброса.
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetIn time.Duration, err error)
}

// RateLimitConfig - конфигурация для rate limiting.
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window
	Window time.Duration
	// KeyFunc - ключ лимитирования. По умолчанию IP адрес
	KeyFunc func(*gin.Context) string
	// Store - хранилище счётчиков. nil → MemoryRateLimitStore
	Store RateLimitStore
	// Scope - метка для emicalc_http_rate_limited_total. По умолчанию "global"
	Scope string
	// OnLimitReached - callback при достижении лимита
	OnLimitReached func(*gin.Context)
}

// DefaultRateLimitConfig - конфигурация по умолчанию.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Limit:   100,
		Window:  time.Minute,
		KeyFunc: ClientIPKey,
	}
}

// ClientIPKey - ключ лимитирования по IP клиента.
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// ============================================
// In-memory store
// ============================================

// MemoryRateLimitStore - счётчики в памяти процесса.
// Просроченные окна вычищаются при обращениях, фоновых горутин нет.
type MemoryRateLimitStore struct {
	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

type window struct {
	count   int
	startAt time.Time
	length  time.Duration
}

// NewMemoryRateLimitStore создаёт пустое хранилище.
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Hit реализует RateLimitStore.
func (s *MemoryRateLimitStore) Hit(_ context.Context, key string, length time.Duration) (int, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now, length)

	w, ok := s.windows[key]
	if !ok || now.Sub(w.startAt) >= w.length {
		w = &window{startAt: now, length: length}
		s.windows[key] = w
	}
	w.count++

	return w.count, w.length - now.Sub(w.startAt), nil
}

// Len - число отслеживаемых ключей.
func (s *MemoryRateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *MemoryRateLimitStore) sweep(now time.Time, length time.Duration) {
	if now.Sub(s.lastSweep) < 2*length {
		return
	}
	for key, w := range s.windows {
		if now.Sub(w.startAt) >= w.length {
			delete(s.windows, key)
		}
	}
	s.lastSweep = now
}

// ============================================
// Middleware
// ============================================

// RateLimit middleware для ограничения количества запросов.
//
// Headers:
// - X-RateLimit-Limit: Максимум запросов
// - X-RateLimit-Remaining: Оставшееся количество
// - X-RateLimit-Reset: Время сброса (Unix timestamp)
// - Retry-After: Секунд до сброса (при 429)
//
// Если хранилище недоступно, запрос пропускается, а ошибка попадает
// в c.Errors и дальше в лог запроса.
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKey
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.Store == nil {
		config.Store = NewMemoryRateLimitStore()
	}
	if config.Scope == "" {
		config.Scope = "global"
	}
	rejected := rateLimitedTotal.WithLabelValues(config.Scope)

	limit := strconv.Itoa(config.Limit)

	return func(c *gin.Context) {
		count, resetIn, err := config.Store.Hit(c.Request.Context(), config.KeyFunc(c), config.Window)
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}

		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetIn).Unix(), 10))

		if count > config.Limit {
			retrySeconds := int(resetIn.Round(time.Second) / time.Second)
			if retrySeconds < 1 {
				retrySeconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(retrySeconds))
			rejected.Inc()

			if config.OnLimitReached != nil {
				config.OnLimitReached(c)
			}

			common.TooManyRequestsResponse(c, retrySeconds)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CalculationRateLimit - лимит на расчёты (EMI, сложный процент) с одного IP.
// limit <= 0 отключает ограничение (тесты, CLI serve без лимитов).
// store может быть nil.
func CalculationRateLimit(limit int, store RateLimitStore) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return RateLimit(&RateLimitConfig{
		Limit:  limit,
		Window: time.Minute,
		Store:  store,
		Scope:  "calculation",
		KeyFunc: func(c *gin.Context) string {
			return "calc:" + c.ClientIP()
		},
	})
}
