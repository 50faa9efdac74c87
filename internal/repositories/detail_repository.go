package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"userpanel/internal/models"
)

// DetailRepository - доступ к производным данным пользователей
type DetailRepository interface {
	// Upsert вставляет или обновляет деталь по паре (user_id, key)
	Upsert(ctx context.Context, detail *models.Detail) error

	// FindByUser возвращает все детали пользователя
	FindByUser(ctx context.Context, userID uint) ([]models.Detail, error)
}

// DetailRepositoryImpl - реализация на GORM
type DetailRepositoryImpl struct {
	db *gorm.DB
}

// NewDetailRepository создает репозиторий деталей
func NewDetailRepository(db *gorm.DB) *DetailRepositoryImpl {
	return &DetailRepositoryImpl{db: db}
}

func (r *DetailRepositoryImpl) Upsert(ctx context.Context, detail *models.Detail) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
	}).Create(detail).Error
}

func (r *DetailRepositoryImpl) FindByUser(ctx context.Context, userID uint) ([]models.Detail, error) {
	var details []models.Detail
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("key ASC").
		Find(&details).Error
	return details, err
}
