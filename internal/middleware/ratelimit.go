package middleware

import (
	"net/http"
	"strconv"
	"time"

	"hootool/internal/logger"
	"hootool/internal/ratelimit"
	"hootool/internal/utils/helpers"

	"go.uber.org/zap"
)

// RateLimit ограничивает число запросов с одного IP к группе маршрутов name.
// Ошибка Redis не блокирует запрос.
func RateLimit(l *ratelimit.FixedWindowLimiter, ips *ClientIPResolver, name string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := l.Allow(r.Context(), name+":"+ips.ClientIP(r), limit, window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("RateLimit: Redis недоступен, пропускаем", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !d.Allowed {
				secs := int(d.RetryAfter.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				helpers.Message(w, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
