package dto

import (
	"mime/multipart"
	"time"

	"userpanel/internal/models"
)

// CreateUserRequest - данные для создания пользователя
type CreateUserRequest struct {
	Prefixname           string                `form:"prefixname" json:"prefixname" validate:"required,is-prefixname"`
	Firstname            string                `form:"firstname" json:"firstname" validate:"required,max=255"`
	Middlename           string                `form:"middlename" json:"middlename" validate:"required,max=255"`
	Lastname             string                `form:"lastname" json:"lastname" validate:"required,max=255"`
	Username             string                `form:"username" json:"username" validate:"required,max=255"`
	Email                string                `form:"email" json:"email" validate:"required,email,max=255"`
	Password             string                `form:"password" json:"password" validate:"required,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string                `form:"password_confirmation" json:"password_confirmation" validate:"required"`
	Photo                *multipart.FileHeader `form:"photo" json:"-" validate:"-"`
}

// UpdateUserRequest - данные для обновления пользователя.
// Пароль меняется только если передан.
type UpdateUserRequest struct {
	Prefixname           string                `form:"prefixname" json:"prefixname" validate:"required,is-prefixname"`
	Firstname            string                `form:"firstname" json:"firstname" validate:"required,max=255"`
	Middlename           string                `form:"middlename" json:"middlename" validate:"required,max=255"`
	Lastname             string                `form:"lastname" json:"lastname" validate:"required,max=255"`
	Username             string                `form:"username" json:"username" validate:"required,max=255"`
	Email                string                `form:"email" json:"email" validate:"required,email,max=255"`
	Password             string                `form:"password" json:"password" validate:"omitempty,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string                `form:"password_confirmation" json:"password_confirmation" validate:"required_with=Password"`
	Photo                *multipart.FileHeader `form:"photo" json:"-" validate:"-"`
}

// BatchUserRequest - список ID для пакетных операций
type BatchUserRequest struct {
	IDs []uint `form:"ids" json:"ids" validate:"required,min=1"`
}

// UserResponse - представление пользователя в ответах API
type UserResponse struct {
	ID         uint       `json:"id"`
	Prefixname string     `json:"prefixname,omitempty"`
	Firstname  string     `json:"firstname"`
	Middlename string     `json:"middlename,omitempty"`
	Lastname   string     `json:"lastname"`
	Fullname   string     `json:"fullname"`
	Gender     string     `json:"gender,omitempty"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Avatar     string     `json:"avatar,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// UserListResponse - страница пользователей
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
}

// DetailResponse - представление детали пользователя
type DetailResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// UserWithDetailsResponse - пользователь вместе с его деталями
type UserWithDetailsResponse struct {
	UserResponse
	Details []DetailResponse `json:"details"`
}

// Notice - flash-сообщение об итоге операции
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// BatchResult - итог пакетной операции
type BatchResult struct {
	Affected int64  `json:"affected"`
	Notice   Notice `json:"notice"`
}

// ToUserResponse строит представление пользователя для API
func ToUserResponse(u *models.User, avatarURL string) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Prefixname: string(u.Prefixname),
		Firstname:  u.Firstname,
		Middlename: u.Middlename,
		Lastname:   u.Lastname,
		Fullname:   models.FullName(u),
		Gender:     models.Gender(u),
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     avatarURL,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		resp.DeletedAt = &t
	}
	return resp
}

// ToDetailResponses строит представления деталей
func ToDetailResponses(details []models.Detail) []DetailResponse {
	out := make([]DetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, DetailResponse{Key: d.Key, Value: d.Value, Type: d.Type})
	}
	return out
}
