package dispatch

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/http/socket"
	"github.com/xy-planning-network/trailhead/module"
)

var (
	_ SocketApp = (*AppMux)(nil)

	errHandlerKey = trailhead.Key("ErrorHandler")
)

// An App mounts handlers at path prefixes.
type App interface {
	Handle(prefix string, h http.Handler)
}

// A SocketApp also mounts handlers for WebSocket upgrade requests.
type SocketApp interface {
	App
	HandleSocket(prefix string, h http.Handler)
}

// An ErrorHandler responds to a request whose handling failed with err.
// [*Dispatcher.Error] is an ErrorHandler.
type ErrorHandler func(err error, w http.ResponseWriter, r *http.Request, next module.Next)

// AppMux is an App serving both HTTP and WebSocket requests.
//
// Handlers match in the order they are added,
// so add handlers at specific paths before mounting routers at "/".
type AppMux struct {
	adapters []middleware.Adapter
	onError  ErrorHandler
	sock     *mux.Router
	web      *mux.Router
}

// NewApp constructs an empty *AppMux.
func NewApp() *AppMux {
	a := &AppMux{sock: mux.NewRouter(), web: mux.NewRouter()}
	a.sock.NotFoundHandler = a.web
	return a
}

// Handle mounts h at prefix for HTTP requests, stripping prefix from the request path.
func (a *AppMux) Handle(prefix string, h http.Handler) {
	a.web.PathPrefix(prefix).Handler(strip(prefix, h))
}

// HandleFunc handles HTTP requests to path with fn.
func (a *AppMux) HandleFunc(path string, fn http.HandlerFunc) {
	a.web.HandleFunc(path, fn)
}

// HandleSocket mounts h at prefix for WebSocket upgrade requests, stripping prefix from the request path.
func (a *AppMux) HandleSocket(prefix string, h http.Handler) {
	a.sock.PathPrefix(prefix).Handler(strip(prefix, h))
}

// Use adds adapters every request passes through before reaching a handler.
func (a *AppMux) Use(adapters ...middleware.Adapter) {
	a.adapters = append(a.adapters, adapters...)
}

// UseError sets the ErrorHandler Fail calls.
func (a *AppMux) UseError(fn ErrorHandler) {
	a.onError = fn
}

// ServeHTTP tracks the response, so handlers can tell whether it has started,
// and routes the request by whether it asks to upgrade to a WebSocket.
func (a *AppMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var h http.Handler = a.web
	if socket.IsUpgrade(r) {
		h = a.sock
	}

	if a.onError != nil {
		r = r.WithContext(context.WithValue(r.Context(), errHandlerKey, a.onError))
	}

	resp.Track(middleware.Chain(h, a.adapters...)).ServeHTTP(w, r)
}

// Fail hands err to the ErrorHandler of the App serving r.
// Without one, an exposable *trailhead.StatusError responds with its status and message,
// and any other error with the default 500 response.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	if fn, ok := r.Context().Value(errHandlerKey).(ErrorHandler); ok && fn != nil {
		fn(err, w, r, nil)
		return
	}

	if se, ok := trailhead.AsExposable(err); ok {
		resp.Text(w, r, se.Status, se.Message)
		return
	}

	resp.ServerError(w, r)
}

func strip(prefix string, h http.Handler) http.Handler {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return h
	}

	return http.StripPrefix(prefix, h)
}
