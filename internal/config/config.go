package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Config - корневая конфигурация приложения
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Upload   UploadConfig   `yaml:"upload"`
}

// ServerConfig - настройки HTTP-сервера
type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Env  string `yaml:"env"` // development | production
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres | mysql
	DSN    string `yaml:"dsn"`
}

// StorageConfig - настройки файлового хранилища
type StorageConfig struct {
	Provider string `yaml:"provider"` // local | cloudflare_r2

	// Локальное хранилище
	LocalPath string `yaml:"local_path"`
	BaseURL   string `yaml:"base_url"`

	// Cloudflare R2
	R2AccountID       string `yaml:"r2_account_id"`
	R2AccessKeyID     string `yaml:"r2_access_key_id"`
	R2SecretAccessKey string `yaml:"r2_secret_access_key"`
	R2Bucket          string `yaml:"r2_bucket"`
	R2PublicURL       string `yaml:"r2_public_url"`
}

// UploadConfig - ограничения на загрузку фотографий
type UploadConfig struct {
	MaxSize      int64    `yaml:"max_size"`      // в байтах
	AllowedTypes []string `yaml:"allowed_types"` // MIME-типы
	ImageQuality int      `yaml:"image_quality"` // качество JPEG для миниатюр
}

// AppConfig - глобальный экземпляр конфигурации
var AppConfig *Config

// LoadConfig загружает конфигурацию из yaml-файла с переопределением из окружения
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	AppConfig = cfg
	return cfg, nil
}

// GetConfig возвращает загруженную конфигурацию (или дефолтную)
func GetConfig() *Config {
	if AppConfig == nil {
		AppConfig = defaultConfig()
	}
	return AppConfig
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Env:  "development",
		},
		Database: DatabaseConfig{
			Driver: "postgres",
			DSN:    "host=localhost user=postgres password=postgres dbname=userpanel port=5432 sslmode=disable",
		},
		Storage: StorageConfig{
			Provider:  "local",
			LocalPath: "./uploads",
			BaseURL:   "/files",
		},
		Upload: UploadConfig{
			MaxSize:      2 * 1024 * 1024, // 2MB
			AllowedTypes: []string{"image/jpeg", "image/png", "image/jpg"},
			ImageQuality: 85,
		},
	}
}

// applyEnvOverrides переопределяет настройки переменными окружения
func applyEnvOverrides(cfg *Config) {
	setIfEnv(&cfg.Server.Host, "SERVER_HOST")
	setIfEnv(&cfg.Server.Port, "SERVER_PORT")
	setIfEnv(&cfg.Server.Env, "APP_ENV")

	setIfEnv(&cfg.Database.Driver, "DB_DRIVER")
	setIfEnv(&cfg.Database.DSN, "DB_DSN")

	setIfEnv(&cfg.Storage.Provider, "STORAGE_PROVIDER")
	setIfEnv(&cfg.Storage.LocalPath, "STORAGE_LOCAL_PATH")
	setIfEnv(&cfg.Storage.BaseURL, "STORAGE_BASE_URL")
	setIfEnv(&cfg.Storage.R2AccountID, "R2_ACCOUNT_ID")
	setIfEnv(&cfg.Storage.R2AccessKeyID, "R2_ACCESS_KEY_ID")
	setIfEnv(&cfg.Storage.R2SecretAccessKey, "R2_SECRET_ACCESS_KEY")
	setIfEnv(&cfg.Storage.R2Bucket, "R2_BUCKET")
	setIfEnv(&cfg.Storage.R2PublicURL, "R2_PUBLIC_URL")

	if v := os.Getenv("UPLOAD_MAX_SIZE"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil && size > 0 {
			cfg.Upload.MaxSize = size
		}
	}
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
