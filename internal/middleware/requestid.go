package middleware

import (
	"net/http"

	"hootool/internal/reqctx"

	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestID берёт X-Request-ID клиента или генерирует uuid.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, rid)
		next.ServeHTTP(w, r.WithContext(reqctx.WithRequestID(r.Context(), rid)))
	})
}
