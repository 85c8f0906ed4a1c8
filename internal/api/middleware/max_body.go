package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cloo-solutions/simsearch/internal/api"
)

// MaxBodyBytes limits request body size. The search API reads no bodies, so
// this only bounds what a misbehaving client can make the server buffer.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				slog.Warn("request body rejected",
					"request_id", GetRequestID(r.Context()),
					"content_length", r.ContentLength,
					"limit", limit,
				)
				api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
