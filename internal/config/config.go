package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	DbHost      string
	DbPort      string
	DbUser      string
	DbPass      string
	DbName      string
	DbSSLMode   string

	JWTSecret      string
	AccessTokenTTL time.Duration

	Log      string
	LogLevel string
	LogFile  string // LOG_FILE=none: только консоль
	Env      string // dev|prod

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	SiteURL       string
	ResetTokenTTL time.Duration
	BcryptCost    int

	DemoMode bool

	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	DeepSeekModel   string

	RedisAddr       string
	RedisPassword   string
	RateLimitPerMin int

	// адреса прокси, которым разрешено передавать X-Forwarded-For
	TrustedProxies []netip.Prefix
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует: logger сам зависит от конфига.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	accessTTL, err := time.ParseDuration(def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "24h"))
	if err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRY: %w", err)
	}
	resetTTL, err := time.ParseDuration(def(os.Getenv("RESET_TOKEN_TTL"), "1h"))
	if err != nil {
		return nil, fmt.Errorf("RESET_TOKEN_TTL: %w", err)
	}
	smtpPort, err := strconv.Atoi(def(os.Getenv("SMTP_PORT"), "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}
	cost, err := strconv.Atoi(def(os.Getenv("BCRYPT_COST"), "12"))
	if err != nil {
		return nil, fmt.Errorf("BCRYPT_COST: %w", err)
	}
	rateLimit, err := strconv.Atoi(def(os.Getenv("RATE_LIMIT_PER_MIN"), "10"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MIN: %w", err)
	}

	proxies, err := ParseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	logFile := def(os.Getenv("LOG_FILE"), "logs/app.log")
	if logFile == "none" {
		logFile = ""
	}

	cfg := &Config{
		Port:        def(os.Getenv("PORT"), "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DbHost:      os.Getenv("DB_HOST"),
		DbPort:      def(os.Getenv("DB_PORT"), "5432"),
		DbUser:      os.Getenv("DB_USER"),
		DbPass:      os.Getenv("DB_PASSWORD"),
		DbName:      os.Getenv("DB_NAME"),
		DbSSLMode:   def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: accessTTL,

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		LogFile:  logFile,
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     def(os.Getenv("MAIL_FROM"), os.Getenv("SMTP_USER")),

		SiteURL:       strings.TrimRight(def(os.Getenv("SITE_URL"), "http://localhost:3000"), "/"),
		ResetTokenTTL: resetTTL,
		BcryptCost:    cost,

		DemoMode: parseBool(os.Getenv("DEMO_MODE")),

		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekBaseURL: strings.TrimRight(def(os.Getenv("DEEPSEEK_BASE_URL"), "https://api.deepseek.com"), "/"),
		DeepSeekModel:   def(os.Getenv("DEEPSEEK_MODEL"), "deepseek-chat"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RateLimitPerMin: rateLimit,
		TrustedProxies:  proxies,
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// БД не нужна только в демо-режиме
	if !c.DemoMode && c.DatabaseURL == "" && (c.DbHost == "" || c.DbUser == "" || c.DbName == "") {
		return nil, fmt.Errorf("incomplete DB config (DATABASE_URL or DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		if !c.DemoMode {
			return nil, fmt.Errorf("JWT_SECRET is empty")
		}
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured, emails will only be logged")
	}

	if c.DeepSeekAPIKey == "" {
		warnings = append(warnings, "DEEPSEEK_API_KEY is not set")
	}

	if c.RedisAddr == "" {
		warnings = append(warnings, "REDIS_ADDR is not set, rate limiting disabled")
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return warnings, fmt.Errorf("BCRYPT_COST must be within 4..31, got %d", c.BcryptCost)
	}

	return warnings, nil
}

// GetDSN: полная DSN (с паролем)
func (c *Config) GetDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe: DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	if c.DatabaseURL != "" {
		return "DATABASE_URL(***)"
	}
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// ParseTrustedProxies разбирает список через запятую: IP или CIDR.
func ParseTrustedProxies(v string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			p, err := netip.ParsePrefix(part)
			if err != nil {
				return nil, err
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
