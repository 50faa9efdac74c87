package handlers

import (
	"userpanel/internal/services"
)

// AppHandlers - контейнер всех хендлеров приложения
type AppHandlers struct {
	UserHandler *UserHandler
}

// NewAppHandlers собирает хендлеры из сервисного контейнера
func NewAppHandlers(sc *services.ServiceContainer) *AppHandlers {
	return &AppHandlers{
		UserHandler: NewUserHandler(sc.UserService),
	}
}
