package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead/http/middleware"
)

func TestCORS(t *testing.T) {
	// Arrange + Act
	actual := middleware.CORS()

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	// Arrange + Act
	actual = middleware.CORS("")

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	r.Header.Set("Origin", "https://trailhead.example.com")

	// Act
	middleware.CORS("https://trailhead.example.com")(noopHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, "https://trailhead.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProxyHeaders(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	var scheme string

	// Act
	middleware.ProxyHeaders()(http.HandlerFunc(func(_ http.ResponseWriter, rx *http.Request) {
		scheme = rx.URL.Scheme
	})).ServeHTTP(w, r)

	// Assert
	require.Equal(t, "https", scheme)
}
