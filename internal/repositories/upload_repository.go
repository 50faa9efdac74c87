package repositories

import (
	"context"

	"gorm.io/gorm"

	"userpanel/internal/models"
)

// UploadRepository - учет загруженных файлов
type UploadRepository interface {
	// Create сохраняет запись о загрузке
	Create(ctx context.Context, upload *models.Upload) error

	// DeleteByPath удаляет запись по пути. Отсутствие записи не ошибка
	DeleteByPath(ctx context.Context, path string) error
}

// UploadRepositoryImpl - реализация на GORM
type UploadRepositoryImpl struct {
	db *gorm.DB
}

// NewUploadRepository создает репозиторий загрузок
func NewUploadRepository(db *gorm.DB) *UploadRepositoryImpl {
	return &UploadRepositoryImpl{db: db}
}

func (r *UploadRepositoryImpl) Create(ctx context.Context, upload *models.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *UploadRepositoryImpl) DeleteByPath(ctx context.Context, path string) error {
	return r.db.WithContext(ctx).
		Where("path = ?", path).
		Delete(&models.Upload{}).Error
}
