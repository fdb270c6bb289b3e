package middleware

import (
	"net/http"
	"time"

	"github.com/resourcehub/backend/internal/middlewares"
	"go.uber.org/zap"
)

// LoggerMiddleware logs HTTP requests with request ID
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("request_id", middlewares.GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.statusCode),
				zap.Int64("bytes", ww.written),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			}

			switch {
			case ww.statusCode >= http.StatusInternalServerError:
				logger.Error("HTTP request", fields...)
			case ww.statusCode >= http.StatusBadRequest:
				logger.Warn("HTTP request", fields...)
			default:
				logger.Info("HTTP request", fields...)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and body size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}
