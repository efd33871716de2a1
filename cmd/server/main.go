package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"todolist/internal/config"
	"todolist/internal/db"
	"todolist/internal/handler"
	"todolist/internal/httpserver"
	"todolist/internal/logger"
	"todolist/internal/redisclient"
	"todolist/internal/repository"
	"todolist/internal/service/auth"
	"todolist/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog := logger.NewLogger()
	defer zlog.Sync()

	zlog.Info("Starting todolist server...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("port", cfg.Server.Port),
	)

	pool, err := db.NewPool(cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("Failed to init DB", zap.Error(err))
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureSchema(ctx, pool, zlog); err != nil {
		cancel()
		zlog.Fatal("Failed to ensure schema", zap.Error(err))
	}
	cancel()

	rdb := redisclient.New(cfg.Redis)
	defer rdb.Close()

	userRepo := repository.NewUserRepository(pool, zlog)
	taskRepo := repository.NewTaskRepository(pool, zlog)

	authSvc := auth.NewService(userRepo, zlog)
	sessions := session.NewManager(cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour)
	flash := session.NewFlashStore(rdb, zlog)

	authHandler := handler.NewAuthHandler(authSvc, sessions, flash, zlog)
	taskHandler := handler.NewTaskHandler(taskRepo, userRepo, flash, zlog)

	router := httpserver.NewRouter(
		authHandler,
		taskHandler,
		sessions,
		authSvc,
		rdb,
		pool,
		zlog,
		"web/templates/*.html",
	)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		zlog.Info("HTTP server stopped")
	}
}
