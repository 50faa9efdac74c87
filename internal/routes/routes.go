package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userpanel/internal/config"
	"userpanel/internal/handlers"
	"userpanel/internal/middleware"
	"userpanel/internal/storage"
)

// RegisterRoutes настраивает все маршруты приложения
func RegisterRoutes(router *gin.Engine, h *handlers.AppHandlers, st storage.Storage, cfg *config.Config) {
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Локальное хранилище отдает файлы напрямую
	if local, ok := st.(*storage.LocalStorage); ok {
		router.Static(cfg.Storage.BaseURL, local.BasePath())
	}

	api := router.Group("/api/v1")
	{
		h.UserHandler.RegisterRoutes(api)
	}
}
