package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorRate  rate.Limit = 5
	visitorBurst            = 20
	visitorTTL              = 60 * time.Minute
)

// A Visitor tracks a rate limiter and last seen time.
type Visitor struct {
	LastSeen time.Time
	Limiter  *rate.Limiter
}

// A Visitors maps a Visitor to an IP address.
type Visitors struct {
	mu    sync.Mutex
	val   map[string]Visitor
	swept time.Time
	limit rate.Limit
	burst int
}

// NewVisitors constructs a *Visitors whose newly seen visitors
// are limited to 5 requests every second with bursts of up to 20.
func NewVisitors() *Visitors {
	return NewVisitorsWithLimit(visitorRate, visitorBurst)
}

// NewVisitorsWithLimit constructs a *Visitors using the given limit and burst for each visitor.
func NewVisitorsWithLimit(limit rate.Limit, burst int) *Visitors {
	return &Visitors{val: make(map[string]Visitor), limit: limit, burst: burst, swept: time.Now()}
}

// Fetch retrieves the Visitor for the given ip creating a new Visitor if not seen.
func (vs *Visitors) Fetch(ip string) Visitor {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	now := time.Now().UTC()
	if now.Sub(vs.swept) > visitorTTL {
		vs.sweep(now)
	}

	v, ok := vs.val[ip]
	if !ok {
		v = Visitor{Limiter: rate.NewLimiter(vs.limit, vs.burst)}
	}

	v.LastSeen = now
	vs.val[ip] = v
	return v
}

// sweep deletes visitors not seen in over an hour.
// vs.mu must be held.
func (vs *Visitors) sweep(now time.Time) {
	for ip, v := range vs.val {
		if now.Sub(v.LastSeen) > visitorTTL {
			delete(vs.val, ip)
		}
	}

	vs.swept = now
}

// RateLimit encloses the Visitors map and serves the http.Handler,
// responding with 429 when a visitor exceeds its limit.
//
// NOTE: implementation found here:
// https://www.alexedwards.net/blog/how-to-rate-limit-http-requests
func RateLimit(visitors *Visitors) Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !visitors.Fetch(GetIPAddress(r.Header)).Limiter.Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}
