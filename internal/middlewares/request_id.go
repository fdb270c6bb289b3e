package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client supplied IDs so they cannot bloat log lines
const maxRequestIDLength = 64

// RequestIDMiddleware adds a unique request ID to each request.
// A client supplied X-Request-ID is reused when it is reasonably short.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
