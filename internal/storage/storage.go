package storage

import (
	"context"
	"fmt"
	"io"

	"userpanel/internal/config"
)

// Storage - интерфейс файлового хранилища для фотографий пользователей
type Storage interface {
	// Save сохраняет файл по указанному пути
	Save(ctx context.Context, path string, reader io.Reader) error

	// Get возвращает содержимое файла
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete удаляет файл. Отсутствие файла не считается ошибкой
	Delete(ctx context.Context, path string) error

	// Exists проверяет наличие файла
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL возвращает публичный URL файла
	GetURL(path string) string

	// GetSize возвращает размер файла в байтах
	GetSize(ctx context.Context, path string) (int64, error)
}

// NewStorage создает хранилище по конфигурации
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.BaseURL)
	case "cloudflare_r2":
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}
