package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"userpanel/internal/logger"
	"userpanel/internal/models"
	"userpanel/internal/repositories"
	"userpanel/internal/services/dto"
	"userpanel/internal/validator"
	"userpanel/pkg/apperrors"
)

// UserSavedPublisher - получатель событий о сохранении пользователя.
// Реализуется фоновым воркером деталей.
type UserSavedPublisher interface {
	Publish(userID uint)
}

// UserService - бизнес-логика управления пользователями
type UserService interface {
	// List возвращает страницу активных пользователей
	List(ctx context.Context, page int) (*dto.UserListResponse, error)

	// ListTrashed возвращает страницу мягко удаленных пользователей
	ListTrashed(ctx context.Context, page int) (*dto.UserListResponse, error)

	// Find возвращает пользователя с деталями, включая мягко удаленных
	Find(ctx context.Context, id uint) (*dto.UserWithDetailsResponse, error)

	// Store создает пользователя, при наличии сохраняет фотографию
	Store(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)

	// Update обновляет пользователя. Пароль меняется только если передан.
	// Второй результат сообщает, изменилось ли хоть одно поле
	Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, bool, error)

	// Destroy мягко удаляет пользователя
	Destroy(ctx context.Context, id uint) error

	// Restore восстанавливает мягко удаленного пользователя
	Restore(ctx context.Context, id uint) error

	// Purge окончательно удаляет пользователя вместе с фотографией
	Purge(ctx context.Context, id uint) error

	// BatchDestroy мягко удаляет существующих пользователей из списка
	BatchDestroy(ctx context.Context, ids []uint) (int64, error)

	// BatchRestore восстанавливает существующих пользователей из списка
	BatchRestore(ctx context.Context, ids []uint) (int64, error)

	// BatchPurge окончательно удаляет существующих пользователей из списка
	BatchPurge(ctx context.Context, ids []uint) (int64, error)

	// SaveUserDetails пересчитывает производные детали пользователя
	// по его текущему состоянию в БД
	SaveUserDetails(ctx context.Context, userID uint) error
}

// UserServiceImpl - реализация UserService
type UserServiceImpl struct {
	users     repositories.UserRepository
	details   repositories.DetailRepository
	photos    PhotoService
	validator *validator.Validator
	publisher UserSavedPublisher
}

// NewUserService создает сервис пользователей
func NewUserService(
	users repositories.UserRepository,
	details repositories.DetailRepository,
	photos PhotoService,
	v *validator.Validator,
) *UserServiceImpl {
	return &UserServiceImpl{
		users:     users,
		details:   details,
		photos:    photos,
		validator: v,
	}
}

// SetPublisher подключает воркер деталей. До подключения события не публикуются
func (s *UserServiceImpl) SetPublisher(p UserSavedPublisher) {
	s.publisher = p
}

func (s *UserServiceImpl) List(ctx context.Context, page int) (*dto.UserListResponse, error) {
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.toListResponse(users, total, page), nil
}

func (s *UserServiceImpl) ListTrashed(ctx context.Context, page int) (*dto.UserListResponse, error) {
	users, total, err := s.users.ListTrashed(ctx, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.toListResponse(users, total, page), nil
}

func (s *UserServiceImpl) Find(ctx context.Context, id uint) (*dto.UserWithDetailsResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	details, err := s.details.FindByUser(ctx, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UserWithDetailsResponse{
		UserResponse: dto.ToUserResponse(user, s.avatarURL(user)),
		Details:      dto.ToDetailResponses(details),
	}
	return resp, nil
}

func (s *UserServiceImpl) Store(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := s.validateRequest(ctx, req, 0, req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Prefixname: models.PrefixName(req.Prefixname),
		Firstname:  req.Firstname,
		Middlename: req.Middlename,
		Lastname:   req.Lastname,
		Username:   req.Username,
		Email:      req.Email,
		Password:   string(hash),
	}

	var photo *StoredPhoto
	if req.Photo != nil {
		photo, err = s.photos.Store(ctx, req.Photo)
		if err != nil {
			return nil, err
		}
		user.Photo = &photo.Path
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Откатываем уже сохраненный файл, чтобы не копить сироты
		if photo != nil {
			s.photos.Delete(ctx, photo.Path)
		}
		return nil, apperrors.InternalError(err)
	}

	if photo != nil {
		if err := s.photos.Record(ctx, user.ID, photo); err != nil {
			logger.CtxWarn(ctx, "upload record failed", "user_id", user.ID, "error", err.Error())
		}
	}

	s.notifySaved(user.ID)

	resp := dto.ToUserResponse(user, s.avatarURL(user))
	return &resp, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, bool, error) {
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, false, apperrors.ErrUserNotFound
		}
		return nil, false, apperrors.InternalError(err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := s.validateRequest(ctx, req, id, req.Username, req.Email); err != nil {
		return nil, false, err
	}

	fields := map[string]interface{}{
		"prefixname": req.Prefixname,
		"firstname":  req.Firstname,
		"middlename": req.Middlename,
		"lastname":   req.Lastname,
		"username":   req.Username,
		"email":      req.Email,
	}

	changed := string(current.Prefixname) != req.Prefixname ||
		current.Firstname != req.Firstname ||
		current.Middlename != req.Middlename ||
		current.Lastname != req.Lastname ||
		current.Username != req.Username ||
		current.Email != req.Email

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, false, apperrors.InternalError(err)
		}
		fields["password"] = string(hash)
		changed = true
	}

	var newPhoto *StoredPhoto
	if req.Photo != nil {
		newPhoto, err = s.photos.Store(ctx, req.Photo)
		if err != nil {
			return nil, false, err
		}
		fields["photo"] = newPhoto.Path
		changed = true
	}

	if err := s.users.Update(ctx, id, fields); err != nil {
		if newPhoto != nil {
			s.photos.Delete(ctx, newPhoto.Path)
		}
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, false, apperrors.ErrUserNotFound
		}
		return nil, false, apperrors.InternalError(err)
	}

	if newPhoto != nil {
		if err := s.photos.Record(ctx, id, newPhoto); err != nil {
			logger.CtxWarn(ctx, "upload record failed", "user_id", id, "error", err.Error())
		}
		// Старая фотография больше не нужна
		if current.Photo != nil && *current.Photo != newPhoto.Path {
			s.photos.Delete(ctx, *current.Photo)
		}
	}

	updated, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, false, apperrors.InternalError(err)
	}

	s.notifySaved(id)

	resp := dto.ToUserResponse(updated, s.avatarURL(updated))
	return &resp, changed, nil
}

func (s *UserServiceImpl) Destroy(ctx context.Context, id uint) error {
	affected, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (s *UserServiceImpl) Restore(ctx context.Context, id uint) error {
	affected, err := s.users.Restore(ctx, id)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (s *UserServiceImpl) Purge(ctx context.Context, id uint) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if user.Photo != nil {
		s.photos.Delete(ctx, *user.Photo)
	}

	affected, err := s.users.ForceDelete(ctx, id)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (s *UserServiceImpl) BatchDestroy(ctx context.Context, ids []uint) (int64, error) {
	affected, err := s.users.SoftDelete(ctx, ids...)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return affected, nil
}

func (s *UserServiceImpl) BatchRestore(ctx context.Context, ids []uint) (int64, error) {
	affected, err := s.users.Restore(ctx, ids...)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return affected, nil
}

func (s *UserServiceImpl) BatchPurge(ctx context.Context, ids []uint) (int64, error) {
	// Сначала снимаем фотографии существующих, потом удаляем записи
	users, err := s.users.FindAnyByIDs(ctx, ids)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	existing := make([]uint, 0, len(users))
	for i := range users {
		existing = append(existing, users[i].ID)
		if users[i].Photo != nil {
			s.photos.Delete(ctx, *users[i].Photo)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}

	affected, err := s.users.ForceDelete(ctx, existing...)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return affected, nil
}

// SaveUserDetails пересчитывает детали по текущему состоянию пользователя.
// Вызывается воркером после каждого сохранения.
func (s *UserServiceImpl) SaveUserDetails(ctx context.Context, userID uint) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	entries := []struct {
		key   string
		value string
	}{
		{models.DetailKeyFullName, models.FullName(user)},
		{models.DetailKeyGender, models.Gender(user)},
	}

	for _, e := range entries {
		detail := &models.Detail{
			UserID: userID,
			Key:    e.key,
			Value:  e.value,
			Type:   "bio",
		}
		if err := s.details.Upsert(ctx, detail); err != nil {
			return err
		}
	}
	return nil
}

// validateRequest проверяет структуру запроса и уникальность username/email
func (s *UserServiceImpl) validateRequest(ctx context.Context, req interface{}, excludeID uint, username, email string) error {
	fieldErrors := map[string]string{}

	if err := s.validator.Validate(req); err != nil {
		var ve *validator.ValidationError
		if errors.As(err, &ve) {
			for field, msg := range ve.Errors {
				fieldErrors[field] = msg
			}
		} else {
			return apperrors.InternalError(err)
		}
	}

	if _, taken := fieldErrors["username"]; !taken && username != "" {
		exists, err := s.users.UsernameExists(ctx, username, excludeID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if exists {
			fieldErrors["username"] = "The username has already been taken"
		}
	}

	if _, taken := fieldErrors["email"]; !taken && email != "" {
		exists, err := s.users.EmailExists(ctx, email, excludeID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if exists {
			fieldErrors["email"] = "The email has already been taken"
		}
	}

	if len(fieldErrors) > 0 {
		return apperrors.ValidationError(fieldErrors)
	}
	return nil
}

func (s *UserServiceImpl) notifySaved(userID uint) {
	if s.publisher != nil {
		s.publisher.Publish(userID)
	}
}

func (s *UserServiceImpl) avatarURL(u *models.User) string {
	if u.Photo == nil || *u.Photo == "" {
		return ""
	}
	return s.photos.URL(*u.Photo)
}

func (s *UserServiceImpl) toListResponse(users []models.User, total int64, page int) *dto.UserListResponse {
	if page < 1 {
		page = 1
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.ToUserResponse(&users[i], s.avatarURL(&users[i])))
	}

	pages := int((total + repositories.PageSize - 1) / repositories.PageSize)
	return &dto.UserListResponse{
		Users: items,
		Total: total,
		Page:  page,
		Pages: pages,
	}
}
