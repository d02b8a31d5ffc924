package handlers

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError описание ошибки валидации поля
type ValidationError struct {
	Field string
	Tag   string
}

// ValidationErrors ошибки валидации тела запроса
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Tag))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Ошибки регистрации возможны только при пустом теге или nil функции
		_ = validate.RegisterValidation("hhmm", validateHHMM)
		_ = validate.RegisterValidation("isodate", validateISODate)
	})
	return validate
}

// Validate проверяет структуру по тегам validate
func Validate(v interface{}) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	result := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		result = append(result, ValidationError{Field: fe.Namespace(), Tag: fe.Tag()})
	}
	return result
}

// validateHHMM время в формате HH:MM
func validateHHMM(fl validator.FieldLevel) bool {
	return types.TimeString(fl.Field().String()).Validate() == nil
}

// validateISODate дата в формате YYYY-MM-DD
func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(domain.DateFormat, fl.Field().String())
	return err == nil
}
