// Package common содержит конверт ответа API и отображение ошибок домена
// на HTTP статусы.
//
// Отдельный пакет нужен, чтобы handlers и middleware могли отвечать
// одинаково, не импортируя друг друга.
package common

import (
	"context"
	"errors"
	"net/http"
	"time"

	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/gin-gonic/gin"
)

// ============================================
// Envelope
// ============================================

// APIResponse - конверт любого ответа API.
// Ровно одно из Data / Error заполнено.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError - описание ошибки в конверте.
type APIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Fields     []FieldError           `json:"fields,omitempty"`
	RetryAfter int                    `json:"retry_after,omitempty"`
}

// FieldError - нарушенное правило валидации для одного поля формы.
// Code - код правила (PRINCIPAL_MIN_REQUIRED, DURATION_FORMAT, ...).
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Коды ошибок в APIError.Code.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeCalculation     = "CALCULATION_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeTimeout         = "TIMEOUT"
)

// ============================================
// Request ID
// ============================================

// RequestIDKey - ключ Request ID в gin.Context.
const RequestIDKey = "request_id"

// SetRequestID сохраняет Request ID в gin.Context для конверта ответа.
func SetRequestID(c *gin.Context, id string) {
	c.Set(RequestIDKey, id)
}

// GetRequestID возвращает Request ID, сохранённый SetRequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// ============================================
// Writers
// ============================================

func envelope(c *gin.Context) APIResponse {
	return APIResponse{
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	}
}

// Success отправляет результат расчёта.
func Success(c *gin.Context, statusCode int, data interface{}) {
	resp := envelope(c)
	resp.Success = true
	resp.Data = data
	c.JSON(statusCode, resp)
}

// Error отправляет ошибку.
func Error(c *gin.Context, statusCode int, apiError *APIError) {
	resp := envelope(c)
	resp.Error = apiError
	c.JSON(statusCode, resp)
}

// ValidationErrorResponse - 400 со списком нарушенных правил.
func ValidationErrorResponse(c *gin.Context, fields []FieldError) {
	Error(c, http.StatusBadRequest, &APIError{
		Code:    ErrCodeValidation,
		Message: "Request validation failed",
		Fields:  fields,
	})
}

// BadRequestResponse - 400 для тела запроса, которое не удалось разобрать.
func BadRequestResponse(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
	})
}

// RouteNotFoundResponse - 404 для неизвестного пути.
func RouteNotFoundResponse(c *gin.Context) {
	Error(c, http.StatusNotFound, &APIError{
		Code:    ErrCodeNotFound,
		Message: "Endpoint not found",
		Details: map[string]interface{}{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		},
	})
}

// TooManyRequestsResponse - 429, retryAfter в секундах.
func TooManyRequestsResponse(c *gin.Context, retryAfter int) {
	Error(c, http.StatusTooManyRequests, &APIError{
		Code:       ErrCodeTooManyRequests,
		Message:    "Too many requests, please try again later",
		RetryAfter: retryAfter,
	})
}

// InternalErrorResponse - 500. message уходит клиенту, детали только в лог.
func InternalErrorResponse(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, &APIError{
		Code:    ErrCodeInternal,
		Message: message,
	})
}

// ============================================
// Domain errors → HTTP
// ============================================

// HandleDomainError выбирает статус по типу ошибки домена.
//
//	ValidationError  → 400 VALIDATION_ERROR, код правила в fields
//	InvalidArgument  → 400 BAD_REQUEST
//	CalculationError → 422 CALCULATION_ERROR, причина в details.reason
//	DeadlineExceeded → 504 TIMEOUT
//	DomainError      → 400 с кодом ошибки
//	всё остальное    → 500 без текста исходной ошибки
func HandleDomainError(c *gin.Context, err error) {
	var (
		valErr    domainerrors.ValidationError
		calcErr   *domainerrors.CalculationError
		domainErr *domainerrors.DomainError
	)

	switch {
	case errors.As(err, &valErr):
		ValidationErrorResponse(c, []FieldError{
			{Field: valErr.Field, Message: valErr.Message, Code: valErr.Code},
		})
	case domainerrors.IsInvalidArgument(err):
		BadRequestResponse(c, err.Error())
	case errors.As(err, &calcErr):
		// Расчёт детерминирован: повтор с теми же данными даст ту же ошибку.
		Error(c, http.StatusUnprocessableEntity, &APIError{
			Code:    ErrCodeCalculation,
			Message: calcErr.Message,
			Details: map[string]interface{}{
				"reason":    calcErr.Code,
				"retryable": false,
			},
		})
	case errors.Is(err, context.DeadlineExceeded):
		Error(c, http.StatusGatewayTimeout, &APIError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out",
		})
	case errors.As(err, &domainErr):
		Error(c, http.StatusBadRequest, &APIError{
			Code:    domainErr.Code,
			Message: domainErr.Message,
		})
	default:
		InternalErrorResponse(c, "An unexpected error occurred")
	}
}
