package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/logger"
)

// LogRequest logs the request's method, requested URL, originating IP address,
// response status and duration using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following keys:
// - password
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			if val := q.Get("password"); val != "" {
				q.Set("password", trailhead.LogMaskVal)
			}

			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if ip, ok := r.Context().Value(trailhead.IpAddrKey).(string); ok {
				strs = append([]string{ip}, strs...)
			}

			m := httpsnoop.CaptureMetrics(h, w, r)
			strs = append(strs, fmt.Sprint(m.Code), m.Duration.String())

			var data map[string]any
			if id, ok := r.Context().Value(trailhead.RequestIDKey).(string); ok {
				data = map[string]any{"request_id": id}
			}

			ls.Info(strings.Join(strs, " "), &logger.LogContext{Data: data})
		})
	}
}
