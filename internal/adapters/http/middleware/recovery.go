// Package middleware - Recovery middleware для обработки паник.
package middleware

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/Haleralex/emicalc/internal/adapters/http/common"
	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/gin-gonic/gin"
)

// RecoveryConfig - конфигурация для recovery middleware.
type RecoveryConfig struct {
	Logger           *slog.Logger
	EnableStackTrace bool      // Включать stack trace в логи
	PrintStack       bool      // Выводить stack trace в StackOutput
	StackOutput      io.Writer // По умолчанию os.Stderr
}

// DefaultRecoveryConfig - конфигурация по умолчанию.
func DefaultRecoveryConfig() *RecoveryConfig {
	return &RecoveryConfig{
		Logger:           slog.Default(),
		EnableStackTrace: true,
		PrintStack:       false,
		StackOutput:      os.Stderr,
	}
}

// Recovery middleware перехватывает панику и отвечает в стандартном формате.
//
// shopspring/decimal паникует на делении на ноль и при разборе мусора в Must*
// функциях. Если паника несёт доменную ошибку (например, CalculationError),
// клиент получает тот же ответ, что и при обычном возврате ошибки (422).
// Всё остальное - 500 INTERNAL_ERROR без деталей.
func Recovery(config *RecoveryConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRecoveryConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.StackOutput == nil {
		config.StackOutput = os.Stderr
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			stack := debug.Stack()
			err := panicError(rec)

			attrs := []slog.Attr{
				slog.String("error", err.Error()),
				slog.String("path", c.Request.URL.Path),
				slog.String("route", c.FullPath()),
				slog.String("method", c.Request.Method),
				slog.String("client_ip", c.ClientIP()),
			}
			if config.EnableStackTrace {
				attrs = append(attrs, slog.String("stack", string(stack)))
			}

			config.Logger.LogAttrs(c.Request.Context(), slog.LevelError, "Panic recovered", attrs...)

			if config.PrintStack {
				fmt.Fprintf(config.StackOutput, "[Recovery] panic recovered:\n%v\n%s\n", rec, stack)
			}

			if c.Writer.Written() {
				c.Abort()
				return
			}

			if isDomainError(err) {
				common.HandleDomainError(c, err)
			} else {
				common.Error(c, http.StatusInternalServerError, &common.APIError{
					Code:    common.ErrCodeInternal,
					Message: "An unexpected error occurred",
				})
			}
			c.Abort()
		}()

		c.Next()
	}
}

// panicError приводит значение паники к error.
// Паника decimal на делении на ноль становится CalculationError.
func panicError(rec any) error {
	switch v := rec.(type) {
	case error:
		return v
	case string:
		if strings.Contains(v, "division by zero") {
			return domainerrors.NewCalculationError(domainerrors.CodeDivisionByZero, "Division by zero", domainerrors.ErrDivisionByZero)
		}
		return errors.New(v)
	default:
		return fmt.Errorf("%v", rec)
	}
}

func isDomainError(err error) bool {
	var domainErr *domainerrors.DomainError
	return domainerrors.IsCalculationError(err) ||
		domainerrors.IsValidationError(err) ||
		domainerrors.IsInvalidArgument(err) ||
		errors.As(err, &domainErr)
}
