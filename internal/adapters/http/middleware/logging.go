// Package middleware - Logging middleware для структурированного логирования.
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggingConfig - конфигурация для logging middleware.
type LoggingConfig struct {
	Logger         *slog.Logger
	SkipPaths      []string      // Пути для пропуска логирования (e.g., /health)
	LogRequestBody bool          // Логировать тело запроса (сумма и срок кредита)
	MaxBodySize    int           // Максимальный размер тела для логирования
	SlowThreshold  time.Duration // Запросы дольше порога логируются как warn. 0 - выключено
}

// DefaultLoggingConfig - конфигурация по умолчанию.
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Logger:         slog.Default(),
		SkipPaths:      []string{"/health", "/live", "/ready", "/metrics"},
		LogRequestBody: false,
		MaxBodySize:    1024, // 1KB
		SlowThreshold:  time.Second,
	}
}

// Logging middleware для структурированного логирования HTTP запросов.
//
// request_id и correlation_id в запись добавляет logger.ContextHandler:
// RequestID кладёт их в context запроса. route - шаблон маршрута
// (/api/v1/loans/emi), его удобно группировать в агрегаторе логов.
// Для ответов с ошибкой пишется error_code из тела ответа.
func Logging(config *LoggingConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultLoggingConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = 1024
	}

	skipMap := make(map[string]bool, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipMap[path] = true
	}

	return func(c *gin.Context) {
		if skipMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()

		var requestBody string
		if config.LogRequestBody && c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			if len(bodyBytes) > 0 {
				requestBody = truncateString(string(bodyBytes), config.MaxBodySize)
			}
		}

		// Ответы с ошибкой короткие, захватываем их для error_code
		blw := &bodyLogWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer, limit: config.MaxBodySize}
		c.Writer = blw

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("response_size", c.Writer.Size()),
		}
		if c.Request.URL.RawQuery != "" {
			attrs = append(attrs, slog.String("query", c.Request.URL.RawQuery))
		}
		if requestBody != "" {
			attrs = append(attrs, slog.String("request_body", requestBody))
		}
		if status >= 400 {
			if code := errorCode(blw.body.Bytes()); code != "" {
				attrs = append(attrs, slog.String("error_code", code))
			}
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		level := slog.LevelInfo
		msg := "HTTP Request"
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case config.SlowThreshold > 0 && duration > config.SlowThreshold:
			level = slog.LevelWarn
			msg = "Slow HTTP Request"
		}

		config.Logger.LogAttrs(c.Request.Context(), level, msg, attrs...)
	}
}

// bodyLogWriter - ResponseWriter с захватом первых limit байт body.
type bodyLogWriter struct {
	gin.ResponseWriter
	body  *bytes.Buffer
	limit int
}

// Write записывает в оригинальный writer и буфер.
func (w *bodyLogWriter) Write(b []byte) (int, error) {
	if room := w.limit - w.body.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		w.body.Write(b[:room])
	}
	return w.ResponseWriter.Write(b)
}

// WriteString нужен, чтобы c.String тоже проходил через захват.
func (w *bodyLogWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// errorCode достаёт error.code из стандартного ответа API.
func errorCode(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var resp struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == nil {
		return ""
	}
	return resp.Error.Code
}

// truncateString обрезает строку до максимальной длины.
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...[truncated]"
}
