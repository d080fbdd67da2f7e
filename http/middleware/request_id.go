package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/trailhead"
)

// RequestIDHeader echoes the request id back to the client.
const RequestIDHeader = "X-Request-Id"

// RequestID adds a uuid to the request context under key
// and sets it on the response in the RequestIDHeader.
//
// If key is the zero value, NoopAdapter returns and this middleware does nothing.
func RequestID(key trailhead.Key) Adapter {
	if key == "" {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(RequestIDHeader, id)
			h.ServeHTTP(w, r.Clone(context.WithValue(r.Context(), key, id)))
		})
	}
}
