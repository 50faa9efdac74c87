package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок
модуля управления пользователями.
*/

// ErrUserNotFound - пользователь не найден или уже удален навсегда
var ErrUserNotFound = New(CodeNotFound, "users", "User not found", http.StatusNotFound)

// ErrStorage - фабрика для ошибок файлового хранилища (500)
func ErrStorage(err error, message string) *AppError {
	return Wrap(err, CodeStorageError, "storage", message, http.StatusInternalServerError)
}
