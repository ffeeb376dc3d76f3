package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Haleralex/emicalc/internal/adapters/http/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// unavailableStore - хранилище, которое всегда отвечает ошибкой (Redis лежит).
type unavailableStore struct{}

func (unavailableStore) Hit(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("redis: connection refused")
}

func limitedRouter(config *RateLimitConfig) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(config))
	router.POST("/api/v1/loans/emi", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func postEMI(router http.Handler, clientIP string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans/emi", nil)
	if clientIP != "" {
		req.RemoteAddr = clientIP + ":40000"
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func fixedKey(*gin.Context) string { return "borrower" }

func TestDefaultRateLimitConfig(t *testing.T) {
	config := DefaultRateLimitConfig()

	assert.Equal(t, 100, config.Limit)
	assert.Equal(t, time.Minute, config.Window)
	assert.NotNil(t, config.KeyFunc)
	assert.Nil(t, config.Store)
}

func TestRateLimit_LimitWithinWindow(t *testing.T) {
	router := limitedRouter(&RateLimitConfig{Limit: 3, Window: time.Minute, KeyFunc: fixedKey})

	for i := 0; i < 3; i++ {
		w := postEMI(router, "")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(2-i), w.Header().Get("X-RateLimit-Remaining"))
	}

	w := postEMI(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_TooManyRequestsBody(t *testing.T) {
	router := limitedRouter(&RateLimitConfig{Limit: 1, Window: time.Minute, KeyFunc: fixedKey})

	postEMI(router, "")
	w := postEMI(router, "")

	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp common.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, common.ErrCodeTooManyRequests, resp.Error.Code)
	assert.Positive(t, resp.Error.RetryAfter)
	assert.LessOrEqual(t, resp.Error.RetryAfter, 60)
	assert.Equal(t, strconv.Itoa(resp.Error.RetryAfter), w.Header().Get("Retry-After"))
}

func TestRateLimit_PerClientIP(t *testing.T) {
	router := limitedRouter(&RateLimitConfig{Limit: 1, Window: time.Minute})

	assert.Equal(t, http.StatusOK, postEMI(router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, postEMI(router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, postEMI(router, "10.0.0.2").Code)
}

func TestRateLimit_OnLimitReached(t *testing.T) {
	var reached []string
	router := limitedRouter(&RateLimitConfig{
		Limit:   1,
		Window:  time.Minute,
		KeyFunc: fixedKey,
		OnLimitReached: func(c *gin.Context) {
			reached = append(reached, c.Request.URL.Path)
		},
	})

	postEMI(router, "")
	assert.Empty(t, reached)

	postEMI(router, "")
	assert.Equal(t, []string{"/api/v1/loans/emi"}, reached)
}

func TestRateLimit_SharedStore(t *testing.T) {
	store := NewMemoryRateLimitStore()
	first := limitedRouter(&RateLimitConfig{Limit: 2, Window: time.Minute, KeyFunc: fixedKey, Store: store})
	second := limitedRouter(&RateLimitConfig{Limit: 2, Window: time.Minute, KeyFunc: fixedKey, Store: store})

	assert.Equal(t, http.StatusOK, postEMI(first, "").Code)
	assert.Equal(t, http.StatusOK, postEMI(second, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, postEMI(first, "").Code)
}

func TestRateLimit_StoreUnavailable(t *testing.T) {
	var recorded []string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Next()
		recorded = append(recorded, c.Errors.String())
	})
	router.Use(RateLimit(&RateLimitConfig{Limit: 1, Window: time.Minute, Store: unavailableStore{}}))
	router.POST("/api/v1/loans/emi", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := postEMI(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
	require.Len(t, recorded, 3)
	assert.Contains(t, recorded[0], "connection refused")
}

func TestRateLimit_NilConfig(t *testing.T) {
	router := limitedRouter(nil)

	w := postEMI(router, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_ConcurrentRequests(t *testing.T) {
	router := limitedRouter(&RateLimitConfig{Limit: 50, Window: time.Minute, KeyFunc: fixedKey})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		limited int
	)
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code := postEMI(router, "").Code
			mu.Lock()
			defer mu.Unlock()
			if code == http.StatusOK {
				ok++
			} else {
				limited++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, ok)
	assert.Equal(t, 30, limited)
}

func TestMemoryRateLimitStore_WindowReset(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryRateLimitStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	count, resetIn, err := store.Hit(ctx, "calc:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, time.Minute, resetIn)

	now = now.Add(40 * time.Second)
	count, resetIn, _ = store.Hit(ctx, "calc:10.0.0.1", time.Minute)
	assert.Equal(t, 2, count)
	assert.Equal(t, 20*time.Second, resetIn)

	now = now.Add(20 * time.Second)
	count, resetIn, _ = store.Hit(ctx, "calc:10.0.0.1", time.Minute)
	assert.Equal(t, 1, count, "new window")
	assert.Equal(t, time.Minute, resetIn)
}

func TestMemoryRateLimitStore_SweepsExpiredWindows(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryRateLimitStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		_, _, err := store.Hit(ctx, ip, time.Minute)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.Len())

	now = now.Add(3 * time.Minute)
	_, _, err := store.Hit(ctx, "10.0.0.4", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
}

func TestCalculationRateLimit(t *testing.T) {
	router := gin.New()
	router.Use(CalculationRateLimit(3, nil))
	router.POST("/api/v1/loans/emi", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := postEMI(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	assert.Equal(t, http.StatusTooManyRequests, postEMI(router, "").Code)
}

func TestCalculationRateLimit_KeyedSeparatelyFromGlobal(t *testing.T) {
	store := NewMemoryRateLimitStore()
	router := gin.New()
	router.Use(RateLimit(&RateLimitConfig{Limit: 10, Window: time.Minute, Store: store}))
	router.Use(CalculationRateLimit(1, store))
	router.POST("/api/v1/loans/emi", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, postEMI(router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, postEMI(router, "10.0.0.1").Code)
	assert.Equal(t, 2, store.Len())
}

func TestCalculationRateLimit_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(CalculationRateLimit(0, nil))
	router.POST("/api/v1/loans/emi", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 50; i++ {
		w := postEMI(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}
