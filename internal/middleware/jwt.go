package middleware

import (
	"net/http"
	"strings"

	"hootool/internal/demo"
	"hootool/internal/logger"
	"hootool/internal/reqctx"
	"hootool/internal/utils"
	"hootool/internal/utils/helpers"

	"go.uber.org/zap"
)

const SessionCookie = "session"

// SessionAuth закрывает защищённые маршруты. Без валидного токена
// обработчик не вызывается и тело защищённого ответа не формируется.
// В демо-режиме запрос пропускается под фиксированным демо-пользователем.
func SessionAuth(secret string, demoMode bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if demo.Enabled(demoMode) {
				ctx := reqctx.WithDemo(reqctx.WithUserID(r.Context(), demo.UserID))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			tokenString := bearerToken(r)
			if tokenString == "" {
				logger.WithCtx(r.Context()).Warn("SessionAuth: отсутствует токен")
				helpers.Message(w, http.StatusUnauthorized, "请先登录")
				return
			}

			claims, err := utils.ParseToken(secret, tokenString)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("SessionAuth: неверный или просроченный токен", zap.Error(err))
				helpers.Message(w, http.StatusUnauthorized, "登录已失效，请重新登录")
				return
			}

			ctx := reqctx.WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
