package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionsFromEnv(t *testing.T) {
	tcs := []struct {
		name    string
		env     map[string]string
		hot     bool
		webRoot string
		sockRt  string
	}{
		{"defaults", map[string]string{}, false, "/", "/"},
		{"hot-dev", map[string]string{"ENVIRONMENT": "DEVELOPMENT", "HOT_RELOAD": "true"}, true, "/", "/"},
		{"hot-prod", map[string]string{"ENVIRONMENT": "PRODUCTION", "HOT_RELOAD": "true"}, false, "/", "/"},
		{"roots", map[string]string{"WEB_ROOT": "/app", "WEBSOCKET_ROOT": "/live"}, false, "/app", "/live"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			for _, k := range []string{"ENVIRONMENT", "HOT_RELOAD", "WEB_ROOT", "WEBSOCKET_ROOT"} {
				t.Setenv(k, tc.env[k])
			}

			// Act
			d := New(nil, OptionsFromEnv()...)

			// Assert
			require.Equal(t, tc.hot, d.opts.hot)
			require.Equal(t, tc.webRoot, d.opts.webRoot)
			require.Equal(t, tc.sockRt, d.opts.webSocketRoot)
		})
	}
}
