package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator - обертка над go-playground/validator с человекочитаемыми сообщениями
type Validator struct {
	validate *validator.Validate
}

// ValidationError - ошибка валидации с картой сообщений по полям
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, msg := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// New создает новый валидатор с зарегистрированными кастомными правилами
func New() *Validator {
	v := validator.New()

	// Используем имена полей из тегов form/json, а не имена структур Go
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := tagName(fld.Tag.Get("form"))
		if name == "" {
			name = tagName(fld.Tag.Get("json"))
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	registerCustomRules(v)

	return &Validator{validate: v}
}

func tagName(tag string) string {
	if tag == "" {
		return ""
	}
	return strings.SplitN(tag, ",", 2)[0]
}

// Validate проверяет структуру и возвращает *ValidationError, если есть нарушения
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	errors := make(map[string]string)
	for _, fieldErr := range validationErrors {
		errors[fieldErr.Field()] = getErrorMessage(fieldErr)
	}

	return &ValidationError{Errors: errors}
}

// getErrorMessage переводит теги валидатора в понятные сообщения
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_with":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("Must not exceed %s", fe.Param())
	case "eqfield":
		return "Fields do not match"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "alphanum":
		return "Must contain only letters and digits"
	case "is-prefixname":
		return "Must be one of: Mr, Mrs, Ms"
	default:
		return fmt.Sprintf("Invalid value (rule: %s)", fe.Tag())
	}
}
