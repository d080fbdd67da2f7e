package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/middleware"
)

func TestGetIPAddress(t *testing.T) {
	for _, tc := range []struct {
		name     string
		header   string
		val      string
		expected string
	}{
		{"No-Match", "", "", "0.0.0.0"},
		{"Only-Private-IP", "X-Forwarded-For", "192.168.0.1", "0.0.0.0"},
		{"Only-Public-IP", "X-Forwarded-For", "1.1.1.1", "1.1.1.1"},
		{"Garbage", "X-Forwarded-For", "not-an-ip", "0.0.0.0"},
		{"Get-Before-Proxy", "X-Real-Ip", "10.0.0.1,1.1.1.1", "1.1.1.1"},
		{"Get-First-Public", "X-Real-Ip", "10.255.255.255,8.8.8.8,1.1.1.1,172.16.0.0", "1.1.1.1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			hm := make(http.Header)
			if tc.header != "" {
				hm.Set(tc.header, tc.val)
			}

			// Act + Assert
			require.Equal(t, tc.expected, middleware.GetIPAddress(hm))
		})
	}
}

func TestInjectIPAddress(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	r.Header.Set("X-Forwarded-For", "8.8.8.8")

	var actual string

	// Act
	middleware.InjectIPAddress()(http.HandlerFunc(func(_ http.ResponseWriter, rx *http.Request) {
		actual, _ = rx.Context().Value(trailhead.IpAddrKey).(string)
	})).ServeHTTP(w, r.WithContext(context.Background()))

	// Assert
	require.Equal(t, "8.8.8.8", actual)
}
