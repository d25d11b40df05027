package logger

import (
	"context"
	"os"
	"path/filepath"

	"hootool/internal/config"
	"hootool/internal/reqctx"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log до InitLogger: no-op, чтобы пакеты можно было использовать в тестах.
var Log = zap.NewNop()

func InitLogger(cfg *config.Config) {
	Log = New(cfg)
}

// New собирает логгер по конфигу. LOG=dev даёт цветной консольный вывод zap,
// иначе JSON в файл с ротацией плюс консоль.
func New(cfg *config.Config) *zap.Logger {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.LogLevel))

	if cfg.Log == "dev" {
		devCfg := zap.NewDevelopmentConfig()
		devCfg.Level = level
		devCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err := devCfg.Build()
		if err != nil {
			panic("не удалось создать dev-логгер: " + err.Error())
		}
		return l
	}

	enc := encoderConfig()
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), level),
	}
	if cfg.LogFile != "" {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), fileSink(cfg.LogFile), level))
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", "hootool"), zap.String("env", cfg.Env)),
	)
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	return enc
}

func fileSink(path string) zapcore.WriteSyncer {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic("не удалось создать папку для логов: " + err.Error())
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    20, // MB
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	})
}

// WithCtx: логгер с request_id/user_id из контекста запроса.
func WithCtx(ctx context.Context) *zap.Logger {
	l := Log
	if ctx == nil {
		return l
	}
	if rid, ok := reqctx.GetRequestID(ctx); ok {
		l = l.With(zap.String("request_id", rid))
	}
	if uid, ok := reqctx.GetUserID(ctx); ok {
		l = l.With(zap.String("user_id", uid))
	}
	return l
}

func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
