package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/logger"
)

// ErrUnknown is returned when a handler module names a middleware
// that is not part of the configured Set.
var ErrUnknown = errors.New("unknown middleware")

// An Adapter allows chaining middlewares together.
type Adapter func(http.Handler) http.Handler

// NoopAdapter passes the request through to the handler untouched.
func NoopAdapter(h http.Handler) http.Handler { return h }

// Chain glues the set of adapters to the handler.
func Chain(handler http.Handler, adapters ...Adapter) http.Handler {
	//NOTE: Loop in reverse to preserve middleware order
	for i := len(adapters) - 1; i >= 0; i-- {
		handler = adapters[i](handler)
	}

	return handler
}

// A Set names Adapters so handler modules can declare
// the middleware they need without importing it.
type Set map[string]Adapter

// Resolve looks up each name in order.
// An unknown name fails the whole lookup with ErrUnknown.
func (s Set) Resolve(names ...string) ([]Adapter, error) {
	adpts := make([]Adapter, 0, len(names))
	for _, name := range names {
		adpt, ok := s[name]
		if !ok || adpt == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
		}

		adpts = append(adpts, adpt)
	}

	return adpts, nil
}

// Names lists the names in the Set, sorted.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// With returns a copy of the Set including the additional named Adapter.
func (s Set) With(name string, adpt Adapter) Set {
	cp := make(Set, len(s)+1)
	for k, v := range s {
		cp[k] = v
	}

	cp[name] = adpt
	return cp
}

// DefaultSet constructs the Set of middlewares every trailhead app can reference by name:
//
//	force_https
//	idempotent
//	ip_address
//	log_request
//	proxy_headers
//	rate_limit
//	report_panic
//	request_id
func DefaultSet(env trailhead.Environment, l logger.Logger) Set {
	return Set{
		"force_https":   ForceHTTPS(env),
		"idempotent":    Idempotent(nil),
		"ip_address":    InjectIPAddress(),
		"log_request":   LogRequest(l),
		"proxy_headers": ProxyHeaders(),
		"rate_limit":    RateLimit(NewVisitors()),
		"report_panic":  ReportPanic(env),
		"request_id":    RequestID(trailhead.RequestIDKey),
	}
}
