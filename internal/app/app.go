package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"userpanel/database"
	"userpanel/internal/config"
	"userpanel/internal/handlers"
	"userpanel/internal/logger"
	"userpanel/internal/routes"
	"userpanel/internal/services"
	"userpanel/internal/storage"
	"userpanel/internal/workers"
)

// Run запускает приложение: конфигурация, БД, воркер деталей, HTTP-сервер
func Run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.Env)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	st, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	serviceContainer := services.NewServiceContainer(db, st, cfg)

	// Воркер деталей пересчитывает производные данные после каждого сохранения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detailWorker := workers.NewDetailWorker(64)
	serviceContainer.ConnectPublisher(detailWorker)
	detailWorker.Start(ctx, serviceContainer.UserService)

	router := SetupRouter(cfg, serviceContainer, st)

	srv := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err.Error())
	}

	// Хендлеры завершены, публикаций больше не будет: даем воркеру
	// дообработать очередь и закрываем ее
	detailWorker.Wait()
	detailWorker.Stop()

	logger.Info("server stopped")
	return nil
}

// SetupRouter собирает gin-роутер со всеми маршрутами
func SetupRouter(cfg *config.Config, sc *services.ServiceContainer, st storage.Storage) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	appHandlers := handlers.NewAppHandlers(sc)
	routes.RegisterRoutes(router, appHandlers, st, cfg)

	return router
}
