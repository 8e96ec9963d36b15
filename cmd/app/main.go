package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/clock-tasks/internal/config"
	"github.com/BuzzLyutic/clock-tasks/internal/handler"
	"github.com/BuzzLyutic/clock-tasks/internal/repo"
	"github.com/BuzzLyutic/clock-tasks/internal/service"
	"github.com/BuzzLyutic/clock-tasks/internal/store"
	"github.com/BuzzLyutic/clock-tasks/migrations"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	lc := store.NewLifecycle(logger)

	// Без БД каждый запрос вернёт ошибку, поэтому сервер не стартует
	pool, err := store.ConnectWithRetry(ctx, lc, store.OpenPool(cfg.DatabaseURL), store.RetryConfig{
		MaxAttempts: cfg.ConnectAttempts,
		Delay:       cfg.ConnectDelay,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to the Database", zap.Error(err))
	}
	defer pool.Close()

	taskRepo := repo.NewTaskRepo(pool)
	if name, err := taskRepo.CurrentDatabase(ctx); err == nil {
		logger.Info("Successfully connected to the Database!", zap.String("database", name))
	}

	if err := migrations.Apply(ctx, pool); err != nil {
		logger.Fatal("Failed to prepare tasks table", zap.Error(err))
	}

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newHandler(taskRepo, lc, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
		return
	}
	logger.Info("Server stopped successfully!")
}

func newHandler(taskRepo repo.TaskRepository, lc *store.Lifecycle, logger *zap.Logger) http.Handler {
	taskService := service.NewTaskService(taskRepo)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	return handler.NewRouter(taskHandler, lc, logger)
}
