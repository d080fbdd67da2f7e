package resp

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/felixge/httpsnoop"
)

type ctxKey struct{}

type tracker struct {
	started atomic.Bool
}

// Track wraps the handler so writes to the response are recorded
// and visible to [HeadersSent].
//
// Track is idempotent: a request already tracked passes through untouched.
func Track(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(ctxKey{}).(*tracker); ok {
			handler.ServeHTTP(w, r)
			return
		}

		t := new(tracker)
		hooked := httpsnoop.Wrap(w, httpsnoop.Hooks{
			WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
				return func(code int) {
					t.started.Store(true)
					next(code)
				}
			},
			Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
				return func(b []byte) (int, error) {
					t.started.Store(true)
					return next(b)
				}
			},
			ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
				return func(src io.Reader) (int64, error) {
					t.started.Store(true)
					return next(src)
				}
			},
			Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
				return func() {
					t.started.Store(true)
					next()
				}
			},
			Hijack: func(next httpsnoop.HijackFunc) httpsnoop.HijackFunc {
				return func() (net.Conn, *bufio.ReadWriter, error) {
					t.started.Store(true)
					return next()
				}
			},
		})

		handler.ServeHTTP(hooked, r.WithContext(context.WithValue(r.Context(), ctxKey{}, t)))
	})
}

// HeadersSent reports whether the response to r has started.
// Requests never passed through [Track] always report false.
func HeadersSent(r *http.Request) bool {
	if r == nil {
		return false
	}

	t, ok := r.Context().Value(ctxKey{}).(*tracker)
	return ok && t.started.Load()
}
