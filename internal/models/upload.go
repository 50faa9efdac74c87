package models

import (
	"gorm.io/datatypes"
)

// Upload - учетная запись о загруженном файле (фото пользователя).
// Служит для аудита хранилища; источником истины для аватара остается
// колонка users.photo.
type Upload struct {
	BaseModel
	UserID          uint           `gorm:"index" json:"user_id"`
	Path            string         `gorm:"not null;uniqueIndex" json:"path"`
	OriginalName    string         `gorm:"column:original_name" json:"original_name"`
	MimeType        string         `json:"mime_type"`
	Size            int64          `json:"size"`
	URL             string         `gorm:"column:url" json:"url"`
	ThumbnailPath   string         `gorm:"column:thumbnail_path" json:"thumbnail_path,omitempty"`
	Metadata        datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	StorageProvider string         `gorm:"column:storage_provider;default:'local'" json:"storage_provider"`
}
