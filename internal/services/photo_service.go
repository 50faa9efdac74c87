package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"userpanel/internal/config"
	"userpanel/internal/imageprocessor"
	"userpanel/internal/logger"
	"userpanel/internal/models"
	"userpanel/internal/repositories"
	"userpanel/internal/storage"
	"userpanel/pkg/apperrors"
)

// StoredPhoto - результат сохранения фотографии
type StoredPhoto struct {
	Path          string
	ThumbnailPath string
	URL           string
	OriginalName  string
	MimeType      string
	Size          int64
}

// PhotoService - сохранение и удаление фотографий пользователей
type PhotoService interface {
	// Store валидирует и сохраняет фотографию вместе с миниатюрой
	Store(ctx context.Context, file *multipart.FileHeader) (*StoredPhoto, error)

	// Record создает учетную запись о загрузке для пользователя
	Record(ctx context.Context, userID uint, photo *StoredPhoto) error

	// Delete удаляет фотографию, миниатюру и учетную запись.
	// Ошибки удаления логируются, но не возвращаются
	Delete(ctx context.Context, path string)

	// URL возвращает публичный адрес фотографии
	URL(path string) string
}

// PhotoServiceImpl - реализация поверх Storage
type PhotoServiceImpl struct {
	storage   storage.Storage
	uploads   repositories.UploadRepository
	processor *imageprocessor.Processor
	cfg       config.UploadConfig
	provider  string
}

// NewPhotoService создает сервис фотографий
func NewPhotoService(
	st storage.Storage,
	uploads repositories.UploadRepository,
	uploadCfg config.UploadConfig,
	provider string,
) *PhotoServiceImpl {
	if provider == "" {
		provider = "local"
	}
	return &PhotoServiceImpl{
		storage:   st,
		uploads:   uploads,
		processor: imageprocessor.NewProcessor(uploadCfg.ImageQuality),
		cfg:       uploadCfg,
		provider:  provider,
	}
}

// допустимые расширения файлов по MIME-типу
var extByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

func (s *PhotoServiceImpl) Store(ctx context.Context, file *multipart.FileHeader) (*StoredPhoto, error) {
	if file.Size > s.cfg.MaxSize {
		return nil, apperrors.ValidationError(map[string]string{
			"photo": fmt.Sprintf("File must not exceed %d bytes", s.cfg.MaxSize),
		})
	}

	mimeType := file.Header.Get("Content-Type")
	if !s.typeAllowed(mimeType) {
		return nil, apperrors.ValidationError(map[string]string{
			"photo": "File must be a jpeg or png image",
		})
	}

	ext := extByMime[mimeType]
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(file.Filename))
	}

	name := uuid.New().String() + ext
	path := "users/" + name
	thumbPath := "users/thumbs/" + name

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.ErrStorage(err, "Failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, apperrors.ErrStorage(err, "Failed to read uploaded file")
	}

	// Заголовку Content-Type доверять нельзя, проверяем само содержимое
	if !imageprocessor.IsValidImage(bytes.NewReader(data)) {
		return nil, apperrors.ValidationError(map[string]string{
			"photo": "File must be a valid image",
		})
	}

	if err := s.storage.Save(ctx, path, bytes.NewReader(data)); err != nil {
		return nil, apperrors.ErrStorage(err, "Failed to store photo")
	}

	// Ошибка миниатюры не отменяет загрузку
	if err := s.makeThumbnail(ctx, data, thumbPath); err != nil {
		logger.CtxWarn(ctx, "thumbnail generation failed", "path", path, "error", err.Error())
		thumbPath = ""
	}

	return &StoredPhoto{
		Path:          path,
		ThumbnailPath: thumbPath,
		URL:           s.storage.GetURL(path),
		OriginalName:  file.Filename,
		MimeType:      mimeType,
		Size:          file.Size,
	}, nil
}

func (s *PhotoServiceImpl) makeThumbnail(ctx context.Context, data []byte, thumbPath string) error {
	thumb, err := s.processor.Thumbnail(bytes.NewReader(data), imageprocessor.SizeThumbnail)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, thumbPath, thumb)
}

func (s *PhotoServiceImpl) Record(ctx context.Context, userID uint, photo *StoredPhoto) error {
	metadata := datatypes.JSON([]byte(fmt.Sprintf(`{"thumbnail":%q}`, photo.ThumbnailPath)))

	upload := &models.Upload{
		UserID:          userID,
		Path:            photo.Path,
		OriginalName:    photo.OriginalName,
		MimeType:        photo.MimeType,
		Size:            photo.Size,
		URL:             photo.URL,
		ThumbnailPath:   photo.ThumbnailPath,
		Metadata:        metadata,
		StorageProvider: s.provider,
	}
	return s.uploads.Create(ctx, upload)
}

func (s *PhotoServiceImpl) Delete(ctx context.Context, path string) {
	if path == "" {
		return
	}

	if err := s.storage.Delete(ctx, path); err != nil {
		logger.CtxWarn(ctx, "photo blob delete failed", "path", path, "error", err.Error())
	}

	// Миниатюра лежит в подкаталоге thumbs с тем же именем файла
	thumbPath := thumbnailPathFor(path)
	if err := s.storage.Delete(ctx, thumbPath); err != nil {
		logger.CtxWarn(ctx, "thumbnail delete failed", "path", thumbPath, "error", err.Error())
	}

	if err := s.uploads.DeleteByPath(ctx, path); err != nil {
		logger.CtxWarn(ctx, "upload record delete failed", "path", path, "error", err.Error())
	}
}

func (s *PhotoServiceImpl) URL(path string) string {
	if path == "" {
		return ""
	}
	return s.storage.GetURL(path)
}

func (s *PhotoServiceImpl) typeAllowed(mimeType string) bool {
	for _, allowed := range s.cfg.AllowedTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

func thumbnailPathFor(path string) string {
	dir, name := filepath.Split(path)
	return dir + "thumbs/" + name
}
