package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS sets "Access-Control-Allowed" style headers on a response
// for requests from the given origins.
// The handler module including this middleware must also handle the http.MethodOptions method
// and not just the HTTP method it's designed for.
//
// Without origins, NoopAdapter returns and this middleware does nothing.
func CORS(origins ...string) Adapter {
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
		return NoopAdapter
	}

	return handlers.CORS(
		handlers.AllowedHeaders([]string{
			"Content-Type",
			"X-CSRF-Token",
			RequestIDHeader,
			IdempotencyHeader,
		}),
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{
			http.MethodDelete,
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
			http.MethodPatch,
			http.MethodPost,
			http.MethodPut,
		}),
	)
}

// ProxyHeaders promotes X-Forwarded-* and Forwarded headers
// onto the *http.Request so handler modules see the client's view of the request.
func ProxyHeaders() Adapter {
	return handlers.ProxyHeaders
}
