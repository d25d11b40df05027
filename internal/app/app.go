package app

import (
	"context"
	"fmt"

	"hootool/internal/config"
	"hootool/internal/db"
	"hootool/internal/handlers"
	"hootool/internal/logger"
	"hootool/internal/ratelimit"
	"hootool/internal/repository"
	"hootool/internal/routes"
	"hootool/internal/services"
	"hootool/internal/utils"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Router *mux.Router

	pool  *pgxpool.Pool
	redis *goredis.Client
}

// Close освобождает пул БД и клиента Redis. Вызывать после Shutdown сервера.
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

type userStore interface {
	services.UserRepo
	Ping(ctx context.Context) error
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	if cfg.JWTSecret == "" && cfg.DemoMode {
		// демо без секрета: сессии живут до рестарта
		secret, err := utils.NewOneTimeToken()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
	}

	// Репозиторий
	var store userStore
	if cfg.DemoMode && cfg.DatabaseURL == "" && cfg.DbHost == "" {
		logger.Log.Warn("Демо-режим без БД: пользователи хранятся в памяти")
		store = repository.NewMemoryUserRepository()
	} else {
		pool, err := db.NewPostgresConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.pool = pool
		store = repository.NewUserRepository(pool)
	}

	// Redis опционален: без него лимитер пропускает всё
	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" {
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Log.Warn("Redis недоступен, rate limit отключён", zap.Error(err))
			limiter = ratelimit.NewFixedWindowLimiter(nil)
		} else {
			a.redis = rdb
			limiter = ratelimit.NewFixedWindowLimiter(rdb)
		}
	} else {
		limiter = ratelimit.NewFixedWindowLimiter(nil)
	}

	// Сервисы
	mailer := services.NewMailer(cfg)
	authService := services.NewAuthService(store, mailer, cfg)
	passwordService := services.NewPasswordService(store, mailer, cfg)
	deepSeek := services.NewDeepSeekClient(cfg)

	// Хендлеры
	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, cfg.JWTSecret, cfg.AccessTokenTTL),
		Password: handlers.NewPasswordHandler(passwordService),
		Demo:     handlers.NewDemoHandler(cfg.DemoMode),
		DeepSeek: handlers.NewDeepSeekHandler(deepSeek, cfg.DemoMode),
		Health:   handlers.NewHealthHandler(store),
	}

	// Маршруты
	a.Router = mux.NewRouter()
	routes.InitRoutes(a.Router, h, routes.Options{
		JWTSecret:       cfg.JWTSecret,
		DemoMode:        cfg.DemoMode,
		Limiter:         limiter,
		RateLimitPerMin: cfg.RateLimitPerMin,
		TrustedProxies:  cfg.TrustedProxies,
	})

	return a, nil
}
