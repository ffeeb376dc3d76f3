// Package middleware содержит HTTP middleware калькулятора.
//
// Порядок в цепочке задаёт RouterBuilder: Recovery → RequestID → CORS →
// Logging → RateLimit → Metrics → handler.
package middleware

import (
	"github.com/Haleralex/emicalc/internal/adapters/http/common"
	"github.com/Haleralex/emicalc/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader     = "X-Request-ID"
	CorrelationIDHeader = "X-Correlation-ID"

	// maxClientIDLength - более длинный ID клиента заменяется сгенерированным,
	// чтобы в логи не попадали мегабайтные заголовки.
	maxClientIDLength = 128
)

// RequestID присваивает запросу Request ID и Correlation ID.
//
// X-Request-ID клиента принимается как есть, иначе генерируется UUID.
// X-Correlation-ID без заголовка равен Request ID. Оба ID возвращаются
// в заголовках ответа, попадают в конверт ответа и в context.Context,
// откуда их берёт logger.ContextHandler при логировании в use cases.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := clientID(c, RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		correlationID := clientID(c, CorrelationIDHeader)
		if correlationID == "" {
			correlationID = requestID
		}

		common.SetRequestID(c, requestID)
		c.Request = c.Request.WithContext(logger.WithAllIDs(c.Request.Context(), correlationID, requestID))

		c.Header(RequestIDHeader, requestID)
		c.Header(CorrelationIDHeader, correlationID)

		c.Next()
	}
}

func clientID(c *gin.Context, header string) string {
	id := c.GetHeader(header)
	if len(id) > maxClientIDLength {
		return ""
	}
	return id
}
