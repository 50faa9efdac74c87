package services

import (
	"userpanel/internal/config"
	"userpanel/internal/repositories"
	"userpanel/internal/storage"
	"userpanel/internal/validator"

	"gorm.io/gorm"
)

// ServiceContainer - контейнер всех сервисов приложения
type ServiceContainer struct {
	UserService  UserService
	PhotoService PhotoService

	userServiceImpl *UserServiceImpl
}

// ConnectPublisher подключает воркер деталей к сервису пользователей
func (c *ServiceContainer) ConnectPublisher(p UserSavedPublisher) {
	c.userServiceImpl.SetPublisher(p)
}

// NewServiceContainer собирает сервисы и их зависимости
func NewServiceContainer(db *gorm.DB, st storage.Storage, cfg *config.Config) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	detailRepo := repositories.NewDetailRepository(db)
	uploadRepo := repositories.NewUploadRepository(db)

	v := validator.New()

	photoService := NewPhotoService(st, uploadRepo, cfg.Upload, cfg.Storage.Provider)
	userService := NewUserService(userRepo, detailRepo, photoService, v)

	return &ServiceContainer{
		UserService:     userService,
		PhotoService:    photoService,
		userServiceImpl: userService,
	}
}
