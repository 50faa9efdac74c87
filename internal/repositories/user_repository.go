package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"userpanel/internal/models"
)

// PageSize - размер страницы списков пользователей
const PageSize = 10

// ErrUserNotFound возвращается, когда пользователь не существует
var ErrUserNotFound = errors.New("user not found")

// UserRepository - доступ к данным пользователей
type UserRepository interface {
	// List возвращает страницу активных пользователей (без удаленных),
	// новые записи первыми
	List(ctx context.Context, page int) ([]models.User, int64, error)

	// ListTrashed возвращает страницу мягко удаленных пользователей,
	// последние удаленные первыми
	ListTrashed(ctx context.Context, page int) ([]models.User, int64, error)

	// FindByID возвращает пользователя по ID, включая мягко удаленных
	FindByID(ctx context.Context, id uint) (*models.User, error)

	// Create сохраняет нового пользователя
	Create(ctx context.Context, user *models.User) error

	// Update обновляет указанные поля пользователя.
	// Возвращает ErrUserNotFound, если записи нет.
	Update(ctx context.Context, id uint, fields map[string]interface{}) error

	// SoftDelete мягко удаляет пользователей. Несуществующие ID пропускаются
	SoftDelete(ctx context.Context, ids ...uint) (int64, error)

	// Restore восстанавливает мягко удаленных пользователей
	Restore(ctx context.Context, ids ...uint) (int64, error)

	// ForceDelete окончательно удаляет пользователей вместе с их деталями
	ForceDelete(ctx context.Context, ids ...uint) (int64, error)

	// FindAnyByIDs возвращает пользователей по списку ID, включая удаленных
	FindAnyByIDs(ctx context.Context, ids []uint) ([]models.User, error)

	// UsernameExists проверяет занятость имени пользователя.
	// excludeID исключает запись из проверки (для обновлений).
	UsernameExists(ctx context.Context, username string, excludeID uint) (bool, error)

	// EmailExists проверяет занятость email
	EmailExists(ctx context.Context, email string, excludeID uint) (bool, error)
}

// UserRepositoryImpl - реализация на GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository создает репозиторий пользователей
func NewUserRepository(db *gorm.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) List(ctx context.Context, page int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepositoryImpl) ListTrashed(ctx context.Context, page int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}

	trashed := r.db.WithContext(ctx).Unscoped().
		Model(&models.User{}).
		Where("deleted_at IS NOT NULL")

	var total int64
	if err := trashed.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC, id DESC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Unscoped().First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SoftDelete(ctx context.Context, ids ...uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.User{}, ids)
	return result.RowsAffected, result.Error
}

func (r *UserRepositoryImpl) Restore(ctx context.Context, ids ...uint) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Model(&models.User{}).
		Where("id IN ? AND deleted_at IS NOT NULL", ids).
		Update("deleted_at", nil)
	return result.RowsAffected, result.Error
}

func (r *UserRepositoryImpl) ForceDelete(ctx context.Context, ids ...uint) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id IN ?", ids).Delete(&models.Detail{}).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Delete(&models.User{}, ids)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *UserRepositoryImpl) FindAnyByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Unscoped().
		Where("id IN ?", ids).
		Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) UsernameExists(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.valueExists(ctx, "username", username, excludeID)
}

func (r *UserRepositoryImpl) EmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.valueExists(ctx, "email", email, excludeID)
}

// valueExists проверяет занятость уникального поля, включая мягко удаленные записи
func (r *UserRepositoryImpl) valueExists(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Unscoped().
		Model(&models.User{}).
		Where(column+" = ?", value)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
