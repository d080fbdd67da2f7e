package middleware_test

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/logger"
)

func noopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

func teapotHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestChain(t *testing.T) {
	// Arrange
	var order []string
	mark := func(name string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	// Act
	middleware.Chain(noopHandler(), mark("first"), mark("second")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.Equal(t, []string{"first", "second"}, order)
}

func TestSetResolve(t *testing.T) {
	// Arrange
	set := middleware.DefaultSet(trailhead.Development, nil)

	// Act
	adpts, err := set.Resolve("request_id", "ip_address")

	// Assert
	require.Nil(t, err)
	require.Len(t, adpts, 2)

	// Act
	adpts, err = set.Resolve("request_id", "teleport")

	// Assert
	require.ErrorIs(t, err, middleware.ErrUnknown)
	require.Nil(t, adpts)

	// Arrange
	extended := set.With("teleport", middleware.NoopAdapter)

	// Act
	_, err = extended.Resolve("teleport")

	// Assert
	require.Nil(t, err)
	require.NotContains(t, set.Names(), "teleport")
	require.Contains(t, extended.Names(), "teleport")
}

func TestRequestID(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	var actual string

	// Act
	middleware.RequestID(trailhead.RequestIDKey)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		actual, _ = rx.Context().Value(trailhead.RequestIDKey).(string)
	})).ServeHTTP(w, r)

	// Assert
	require.NotZero(t, actual)
	require.Equal(t, actual, w.Header().Get(middleware.RequestIDHeader))

	// Arrange + Act
	noop := middleware.RequestID("")

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", noop))
}

func TestLogRequest(t *testing.T) {
	color.NoColor = true

	// Arrange + Act
	actual := middleware.LogRequest(nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	// Arrange
	b := new(bytes.Buffer)
	l := logger.New(logger.WithLogger(log.New(b, "", 0)))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/sample?password=hunter2", nil)

	// Act
	middleware.LogRequest(l)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Contains(t, b.String(), "GET /sample?password="+trailhead.LogMaskVal+" 418")
	require.NotContains(t, b.String(), "hunter2")
}
