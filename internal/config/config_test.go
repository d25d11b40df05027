package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DEMO_MODE", "")
	t.Setenv("RESET_TOKEN_TTL", "")
	t.Setenv("SITE_URL", "https://hootool.ai/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, "https://hootool.ai", cfg.SiteURL)
	assert.False(t, cfg.DemoMode)
	assert.Equal(t, "deepseek-chat", cfg.DeepSeekModel)
}

func TestLoadConfig_DemoFlag(t *testing.T) {
	t.Setenv("DEMO_MODE", "true")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.DemoMode)

	t.Setenv("DEMO_MODE", "yes")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.DemoMode)
}

func TestLoadConfig_BadDuration(t *testing.T) {
	t.Setenv("RESET_TOKEN_TTL", "soon")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{BcryptCost: 12}
	_, err := cfg.Validate()
	assert.Error(t, err, "без БД и не в демо-режиме конфиг невалиден")

	cfg.DemoMode = true
	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Contains(t, warnings, "JWT_SECRET is empty")

	cfg = &Config{DatabaseURL: "postgres://u:p@db/hootool", JWTSecret: "s", BcryptCost: 40}
	_, err = cfg.Validate()
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{DbUser: "u", DbPass: "secret", DbHost: "h", DbPort: "5432", DbName: "n", DbSSLMode: "disable"}
	assert.Equal(t, "postgres://u:secret@h:5432/n?sslmode=disable", cfg.GetDSN())
	assert.NotContains(t, cfg.GetDSNSafe(), "secret")

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.GetDSN())
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := ParseTrustedProxies(" 10.0.0.0/8, 127.0.0.1 ,,::1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "10.0.0.0/8", got[0].String())
	assert.Equal(t, "127.0.0.1/32", got[1].String())
	assert.Equal(t, "::1/128", got[2].String())

	got, err = ParseTrustedProxies("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseTrustedProxies("10.0.0.0/99")
	assert.Error(t, err)
	_, err = ParseTrustedProxies("proxy.local")
	assert.Error(t, err)
}

func TestLoadConfig_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "172.16.0.0/12")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Len(t, cfg.TrustedProxies, 1)

	t.Setenv("TRUSTED_PROXIES", "garbage")
	_, err = LoadConfig()
	assert.Error(t, err)
}
