package module

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/xy-planning-network/trailhead/http/middleware"
)

// A Next hands control back to the router.
// Calling it with nil falls through to the next fallback for the request;
// calling it with an error passes the error to the error handler.
type Next func(err error)

// A Route declares where a module is mounted and which role it plays.
type Route struct {
	// Path is a gorilla/mux path template, e.g. /users/{id}.
	Path string

	// Pattern is matched against the request path, an alternative to Path.
	Pattern *regexp.Regexp

	CatchAll         bool
	Include          bool
	MethodNotAllowed bool
	NotFound         bool
	ServerError      bool
	WebSocket        bool

	// Middleware names Adapters of the configured middleware.Set, applied in order.
	Middleware []string

	// Adapters apply after those named in Middleware.
	Adapters []middleware.Adapter
}

// Bound reports whether the Route is mounted at a path.
func (r Route) Bound() bool { return r.Path != "" || r.Pattern != nil }

// Label names the Route's path for messages.
func (r Route) Label() string {
	if r.Pattern != nil {
		return r.Pattern.String()
	}

	return r.Path
}

// A Module is a loaded handler module.
type Module interface {
	Route() (Route, error)
}

// A Capable Module narrows the operations checked on it to those it names.
type Capable interface {
	Capabilities() []string
}

// Base is embedded by modules.
// Its Route always fails; a module must declare its own.
type Base struct {
	Name string
}

func (b Base) Route() (Route, error) {
	name := b.Name
	if name == "" {
		name = "module"
	}

	return Route{}, fmt.Errorf("%w for %s", ErrNoRoute, name)
}

// An Operation handles a request with an HTTP method.
type Operation func(w http.ResponseWriter, r *http.Request, next Next) error

type Getter interface {
	Get(w http.ResponseWriter, r *http.Request, next Next) error
}

type Header interface {
	Head(w http.ResponseWriter, r *http.Request, next Next) error
}

type Poster interface {
	Post(w http.ResponseWriter, r *http.Request, next Next) error
}

type Putter interface {
	Put(w http.ResponseWriter, r *http.Request, next Next) error
}

type Patcher interface {
	Patch(w http.ResponseWriter, r *http.Request, next Next) error
}

type Deleter interface {
	Delete(w http.ResponseWriter, r *http.Request, next Next) error
}

type Optioner interface {
	Options(w http.ResponseWriter, r *http.Request, next Next) error
}

type Tracer interface {
	Trace(w http.ResponseWriter, r *http.Request, next Next) error
}

// HTTPMethods lists the operation names a page can expose, in the order they are checked.
var HTTPMethods = []string{"get", "head", "post", "put", "patch", "delete", "options", "trace"}

// HTTPOperation looks up the Operation of m for the lowercase method name.
func HTTPOperation(m Module, name string) (Operation, bool) {
	switch name {
	case "get":
		if v, ok := m.(Getter); ok {
			return v.Get, true
		}
	case "head":
		if v, ok := m.(Header); ok {
			return v.Head, true
		}
	case "post":
		if v, ok := m.(Poster); ok {
			return v.Post, true
		}
	case "put":
		if v, ok := m.(Putter); ok {
			return v.Put, true
		}
	case "patch":
		if v, ok := m.(Patcher); ok {
			return v.Patch, true
		}
	case "delete":
		if v, ok := m.(Deleter); ok {
			return v.Delete, true
		}
	case "options":
		if v, ok := m.(Optioner); ok {
			return v.Options, true
		}
	case "trace":
		if v, ok := m.(Tracer); ok {
			return v.Trace, true
		}
	}

	return nil, false
}
