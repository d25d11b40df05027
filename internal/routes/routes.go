package routes

import (
	"net/http"
	"net/netip"
	"time"

	"hootool/internal/handlers"
	"hootool/internal/middleware"
	"hootool/internal/ratelimit"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Password *handlers.PasswordHandler
	Demo     *handlers.DemoHandler
	DeepSeek *handlers.DeepSeekHandler
	Health   *handlers.HealthHandler
}

type Options struct {
	JWTSecret       string
	DemoMode        bool
	Limiter         *ratelimit.FixedWindowLimiter
	RateLimitPerMin int
	TrustedProxies  []netip.Prefix
}

func InitRoutes(router *mux.Router, h Handlers, opts Options) {
	// Recoverer внутри Logging/Metrics: паника попадает в лог и метрики как 500
	router.Use(middleware.RequestID, middleware.Logging, middleware.Metrics, middleware.Recoverer)

	router.HandleFunc("/healthz", h.Health.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	ips := middleware.NewClientIPResolver(opts.TrustedProxies)
	limited := func(name string, fn http.HandlerFunc) http.Handler {
		return middleware.RateLimit(opts.Limiter, ips, name, opts.RateLimitPerMin, time.Minute)(fn)
	}

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/register", limited("register", h.Auth.Register)).Methods(http.MethodPost)
	auth.Handle("/login", limited("login", h.Auth.Login)).Methods(http.MethodPost)
	auth.HandleFunc("/verify", h.Auth.VerifyEmail).Methods(http.MethodPost)
	auth.Handle("/resend-verification", limited("resend", h.Auth.ResendVerification)).Methods(http.MethodPost)
	auth.Handle("/forgot-password", limited("forgot", h.Password.Forgot)).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", h.Password.Reset).Methods(http.MethodPost)

	api.HandleFunc("/demo/image", h.Demo.Image).Methods(http.MethodGet)
	api.HandleFunc("/demo/status", h.Demo.Status).Methods(http.MethodGet)
	api.HandleFunc("/test-deepseek", h.DeepSeek.Test).Methods(http.MethodPost)

	// --- Защищённые сессией ---
	dashboard := api.PathPrefix("/dashboard").Subrouter()
	dashboard.Use(middleware.SessionAuth(opts.JWTSecret, opts.DemoMode))
	dashboard.HandleFunc("/profile", h.Auth.Profile).Methods(http.MethodGet, http.MethodOptions)
}
