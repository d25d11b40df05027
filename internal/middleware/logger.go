package middleware

import (
	"net/http"
	"time"

	"hootool/internal/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// statusRecorder запоминает код ответа и число записанных байт.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func recordStatus(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// Logging пишет access-лог. 5xx уходят в Error, 4xx в Warn.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recordStatus(w)
		next.ServeHTTP(rec, r)

		level := zapcore.InfoLevel
		switch {
		case rec.status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case rec.status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		logger.WithCtx(r.Context()).Check(level, "HTTP-запрос").Write(
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
