// Package handlers содержит HTTP handlers калькулятора.
//
// Handler разбирает тело запроса в команду, вызывает use case и
// упаковывает результат в common.APIResponse. Binding tags проверяют только
// форму запроса (длину полей, допустимую частоту капитализации). Границы
// суммы, срока и ставки проверяет валидатор use case, поэтому клиент
// получает коды правил вида PRINCIPAL_MIN_REQUIRED из одного места.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/Haleralex/emicalc/internal/adapters/http/common"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupOnce sync.Once

// SetupValidator регистрирует в движке gin имена полей из json тегов
// и правило compounding_frequency. Повторные вызовы ничего не делают.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("compounding_frequency", func(fl validator.FieldLevel) bool {
			return loan.IsSupportedCompoundingFrequency(int(fl.Field().Int()))
		})
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// ============================================
// TextField
// ============================================

// TextField - поле ввода, которое клиент может прислать строкой ("5")
// или числом (5). Текст сохраняется как пришёл и дальше разбирается
// валидатором как пользовательский ввод.
type TextField string

// UnmarshalJSON implements json.Unmarshaler.
func (f *TextField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = TextField(s)
	default:
		*f = TextField(data)
	}
	return nil
}

func (f TextField) String() string {
	return string(f)
}

// Ptr - nil для пустого поля, чтобы use case подставил значение по умолчанию.
func (f TextField) Ptr() *string {
	if f == "" {
		return nil
	}
	s := string(f)
	return &s
}

// ============================================
// Binding errors
// ============================================

// Префиксы кодов совпадают с кодами правил валидатора use case.
var fieldCodePrefixes = map[string]string{
	"principal":             "PRINCIPAL",
	"duration_years":        "DURATION",
	"interest_rate":         "INTEREST_RATE",
	"compounding_frequency": "COMPOUNDING_FREQUENCY",
}

func fieldCode(field, suffix string) string {
	prefix, ok := fieldCodePrefixes[field]
	if !ok {
		prefix = strings.ToUpper(field)
	}
	return prefix + "_" + suffix
}

// HandleBindingError отвечает 400 на ошибку ShouldBindJSON.
//
// Нарушенные binding tags и неверный JSON тип поля становятся списком
// fields с кодами вида PRINCIPAL_TOO_LONG. Прочие ошибки разбора тела
// отдаются как BAD_REQUEST.
func HandleBindingError(c *gin.Context, err error) {
	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &validationErrs):
		fields := make([]common.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, bindingFieldError(fe))
		}
		common.ValidationErrorResponse(c, fields)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		common.ValidationErrorResponse(c, []common.FieldError{{
			Field:   typeErr.Field,
			Message: "Value must be a " + typeErr.Type.String(),
			Code:    fieldCode(typeErr.Field, "FORMAT"),
		}})
	default:
		common.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
}

func bindingFieldError(fe validator.FieldError) common.FieldError {
	field := fe.Field()
	out := common.FieldError{Field: field}

	switch fe.Tag() {
	case "required":
		out.Code, out.Message = fieldCode(field, "REQUIRED"), "This field is required"
	case "max":
		out.Code, out.Message = fieldCode(field, "TOO_LONG"), "Value is too long (maximum "+fe.Param()+" characters)"
	case "compounding_frequency":
		out.Code, out.Message = string(loan.CodeFrequencyUnsupported), "Compounding frequency must be one of: 1, 2, 4, 12, 52, 365"
	default:
		out.Code, out.Message = fieldCode(field, "INVALID"), "Invalid value"
	}
	return out
}

// BindJSON разбирает тело запроса в req. При ошибке ответ уже отправлен
// и возвращается false.
func BindJSON[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		HandleBindingError(c, err)
		return false
	}
	return true
}
