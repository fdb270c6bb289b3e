package middlewares

import (
	"mime"
	"net/http"
)

// BodyLimits caps request bodies by content type.
// Multipart bodies carry submission files; every other body is plain JSON.
type BodyLimits struct {
	JSON      int64
	Multipart int64
}

// limitFor returns the body limit of r
func (l BodyLimits) limitFor(r *http.Request) int64 {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return l.Multipart
	}
	return l.JSON
}

// RequestSizeLimitMiddleware limits the size of request bodies.
// Declared oversized bodies are refused up front, the rest are cut off while reading.
func RequestSizeLimitMiddleware(limits BodyLimits) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := limits.limitFor(r)
			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				w.Write([]byte(`{"error":"request body too large"}`))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
