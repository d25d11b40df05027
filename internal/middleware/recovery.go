package middleware

import (
	"fmt"
	"net/http"

	"hootool/internal/logger"
	"hootool/internal/utils/helpers"

	"go.uber.org/zap"
)

// Recoverer превращает панику обработчика в 500 {message}. Стек добавляет
// сам zap (AddStacktrace на уровне Error).
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.WithCtx(r.Context()).Error("Паника в обработчике",
				zap.String("panic", fmt.Sprint(rec)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			helpers.Message(w, http.StatusInternalServerError, "服务器错误")
		}()
		next.ServeHTTP(w, r)
	})
}
