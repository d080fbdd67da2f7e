package router

import (
	"net/http"
	"regexp"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/resp"
)

// A Route maps a path and HTTP method to an [http.Handler].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
//
// Pattern, when set, is matched against the request path instead of Path.
// An empty Method matches any method.
type Route struct {
	Path        string
	Pattern     *regexp.Regexp
	Method      string
	Handler     http.Handler
	Middlewares []middleware.Adapter
}

// Router routes requests to handler modules, wrapping a [*mux.Router].
//
// Routes match in the order they are registered.
// A Route with an empty Method registered after the method-specific Routes
// of the same path handles every other method for that path.
type Router struct {
	everyReqStack []middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router].
func New() *Router {
	return &Router{r: mux.NewRouter()}
}

// CatchAll sets up a handler for all requests no other Route matched.
// CatchAll must be called after every other Route is registered.
func (r *Router) CatchAll(handler http.Handler, middlewares ...middleware.Adapter) {
	r.r.PathPrefix("/").Handler(r.chain(handler, middlewares))
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.Handler] as the default
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.Handler) {
	r.r.NotFoundHandler = r.chain(handler, nil)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := append(append([]middleware.Adapter(nil), middlewares...), route.Middlewares...)
		handler := r.chain(route.Handler, mws)

		var mr *mux.Route
		if route.Pattern != nil {
			re := route.Pattern
			mr = r.r.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
				return re.MatchString(req.URL.Path)
			}).Handler(handler)
		} else {
			mr = r.r.Handle(route.Path, handler)
		}

		if route.Method != "" {
			mr.Methods(route.Method)
		}
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
// Only Routes registered afterwards are affected.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
// The response is tracked with [resp.Track], so handlers see [resp.HeadersSent]
// however the Router is mounted.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp.Track(r.r).ServeHTTP(w, req)
}

func (r *Router) chain(handler http.Handler, mws []middleware.Adapter) http.Handler {
	all := append(append([]middleware.Adapter(nil), r.everyReqStack...), mws...)
	return middleware.Chain(handler, all...)
}

// Vars returns the path parameters matched for the request.
func Vars(req *http.Request) map[string]string { return mux.Vars(req) }
