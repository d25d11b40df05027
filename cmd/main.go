package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "hootool/docs"
	"hootool/internal/app"
	"hootool/internal/config"
	"hootool/internal/logger"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title HooTool AI API
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @version 1.0
// @description Регистрация, подтверждение email, сброс пароля, демо-режим и диагностика DeepSeek.
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.InitLogger(&config.Config{LogLevel: "info"})
		logger.Log.Fatal("Ошибка загрузки конфига", zap.Error(err))
	}
	logger.InitLogger(cfg)
	defer func() { _ = logger.Log.Sync() }()

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		logger.Log.Warn("Конфиг: " + w)
	}
	if err != nil {
		logger.Log.Fatal("Невалидный конфиг", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.InitApp(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Ошибка инициализации приложения", zap.Error(err))
	}
	defer application.Close()

	application.Router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.SiteURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsMiddleware.Handler(application.Router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Log.Info("Сервер запущен",
			zap.String("port", cfg.Port),
			zap.Bool("demo_mode", cfg.DemoMode),
			zap.String("db", cfg.GetDSNSafe()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Остановка сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Ошибка остановки сервера", zap.Error(err))
	}
}
