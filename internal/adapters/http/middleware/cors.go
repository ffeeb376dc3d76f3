// Package middleware - CORS middleware.
//
// Калькулятор вызывается из браузерных форм (виджет расчёта кредита
// на сайте банка), поэтому API должен отвечать на preflight запросы.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig - конфигурация CORS.
type CORSConfig struct {
	// AllowOrigins - разрешённые origins. "*" - любой,
	// "https://*.example.com" - любой поддомен.
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string // заголовки ответа, доступные JS (X-RateLimit-*)
	AllowCredentials bool
	MaxAge           int // кеширование preflight, секунды
}

// DefaultCORSConfig - конфигурация по умолчанию.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID", "X-Correlation-ID"},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Correlation-ID",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		},
		MaxAge: int((12 * time.Hour).Seconds()),
	}
}

// ProductionCORSConfig - только перечисленные origins, с credentials.
func ProductionCORSConfig(allowedOrigins []string) *CORSConfig {
	config := DefaultCORSConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	return config
}

// CORSConfigFrom собирает конфигурацию middleware из значений конфига.
// Пустые списки заменяются значениями по умолчанию.
func CORSConfigFrom(origins, methods, headers, exposed []string, credentials bool, maxAge time.Duration) *CORSConfig {
	config := DefaultCORSConfig()
	if len(origins) > 0 {
		config.AllowOrigins = origins
	}
	if len(methods) > 0 {
		config.AllowMethods = methods
	}
	if len(headers) > 0 {
		config.AllowHeaders = headers
	}
	if len(exposed) > 0 {
		config.ExposeHeaders = exposed
	}
	config.AllowCredentials = credentials
	if maxAge > 0 {
		config.MaxAge = int(maxAge.Seconds())
	}
	return config
}

// originMatcher проверяет Origin по списку из конфигурации.
type originMatcher struct {
	any      bool
	exact    map[string]struct{}
	suffixes []originSuffix
}

// originSuffix - шаблон "scheme://*.domain".
type originSuffix struct {
	scheme string // "https://"
	domain string // ".example.com"
}

func newOriginMatcher(origins []string) originMatcher {
	m := originMatcher{exact: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		switch {
		case o == "*":
			m.any = true
		case strings.Contains(o, "://*."):
			i := strings.Index(o, "*")
			m.suffixes = append(m.suffixes, originSuffix{scheme: o[:i], domain: strings.ToLower(o[i+1:])})
		default:
			m.exact[strings.ToLower(o)] = struct{}{}
		}
	}
	return m
}

func (m originMatcher) allowed(origin string) bool {
	if m.any {
		return true
	}
	origin = strings.ToLower(origin)
	if _, ok := m.exact[origin]; ok {
		return true
	}
	for _, s := range m.suffixes {
		if strings.HasPrefix(origin, s.scheme) && strings.HasSuffix(origin, s.domain) &&
			len(origin) > len(s.scheme)+len(s.domain) {
			return true
		}
	}
	return false
}

// CORS middleware для обработки Cross-Origin запросов.
//
// Запросы без Origin (curl, сервер-сервер) проходят без CORS заголовков.
// Чужой origin получает ответ без заголовков, и браузер его отбросит;
// preflight с чужого origin отклоняется с 403.
// "*" вместе с credentials браузеры не принимают, поэтому в этом
// случае возвращается сам origin запроса и Vary: Origin.
func CORS(config *CORSConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultCORSConfig()
	}

	allowMethods := strings.Join(config.AllowMethods, ", ")
	allowHeaders := strings.Join(config.AllowHeaders, ", ")
	exposeHeaders := strings.Join(config.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)
	origins := newOriginMatcher(config.AllowOrigins)
	wildcard := origins.any && !config.AllowCredentials

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		preflight := c.Request.Method == http.MethodOptions &&
			c.GetHeader("Access-Control-Request-Method") != ""

		if !origins.allowed(origin) {
			if preflight {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		if wildcard {
			c.Header("Access-Control-Allow-Origin", "*")
		} else {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}
		if config.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if preflight {
			c.Header("Access-Control-Allow-Methods", allowMethods)
			c.Header("Access-Control-Allow-Headers", allowHeaders)
			c.Header("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if exposeHeaders != "" {
			c.Header("Access-Control-Expose-Headers", exposeHeaders)
		}
		c.Next()
	}
}
