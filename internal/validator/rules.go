package validator

import (
	"github.com/go-playground/validator/v10"

	"userpanel/internal/models"
)

// registerCustomRules регистрирует кастомные правила валидации
func registerCustomRules(v *validator.Validate) {
	// is-prefixname: допустимое обращение (Mr, Mrs, Ms).
	// Пустое значение считается валидным, обязательность задается тегом required.
	v.RegisterValidation("is-prefixname", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return models.PrefixName(value).Valid()
	})
}
