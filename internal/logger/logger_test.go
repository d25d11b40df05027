package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hootool/internal/config"
	"hootool/internal/reqctx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCtx_AddsRequestFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Log
	Log = zap.New(core)
	t.Cleanup(func() { Log = prev })

	ctx := reqctx.WithRequestID(context.Background(), "rid-1")
	ctx = reqctx.WithUserID(ctx, "user-1")
	WithCtx(ctx).Info("hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "rid-1", fields["request_id"])
		assert.Equal(t, "user-1", fields["user_id"])
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	l := New(&config.Config{LogLevel: "warn", LogFile: path, Env: "test"})

	l.Info("не должно попасть в файл")
	l.Warn("попадает в файл", zap.String("k", "v"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "не должно попасть")
	assert.Contains(t, string(data), `"message":"попадает в файл"`)
	assert.Contains(t, string(data), `"service":"hootool"`)
	assert.Contains(t, string(data), `"env":"test"`)
}
