package dispatch

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/http/router"
	"github.com/xy-planning-network/trailhead/logger"
	"github.com/xy-planning-network/trailhead/metrics"
	"github.com/xy-planning-network/trailhead/module"
	"github.com/xy-planning-network/trailhead/registry"
)

const (
	roleCatchAll         = "catch_all"
	roleMethodNotAllowed = "method_not_allowed"
	roleNotFound         = "not_found"
	rolePage             = "page"
	roleServerError      = "server_error"
	roleSocket           = "socket"

	unhandledMsg = "An unhandled error has occurred."
)

// An outcome is what became of one call to a module operation.
type outcome struct {
	// err is returned by the operation or recovered from its panic.
	err error

	// next is true when the operation handed control back.
	next    bool
	nextErr error
}

func (o outcome) failed() bool { return o.err != nil || o.nextErr != nil }

func invoke(op module.Operation, w http.ResponseWriter, r *http.Request) (out outcome) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}

			out.err = fmt.Errorf("panic: %v", v)
		}
	}()

	next := func(err error) {
		if !out.next {
			out.next, out.nextErr = true, err
		}
	}

	out.err = op(w, r, next)
	return out
}

// call refreshes desc and calls its operation op.
// A module lacking op hands control back.
func (t *table) call(desc *registry.Descriptor, role, op string, w http.ResponseWriter, r *http.Request) outcome {
	if err := t.refresh(r.Context(), desc); err != nil {
		return outcome{err: err}
	}

	fn, ok := module.HTTPOperation(desc.Module(), op)
	if !ok {
		return outcome{next: true}
	}

	if r.Method == http.MethodHead && op != "head" {
		w = discardBody(w)
	}

	defer t.opts.metrics.Dispatch(role, op, time.Now())
	return invoke(fn, w, r)
}

// operation picks the operation of desc serving the request method.
func operation(desc *registry.Descriptor, method string) (string, bool) {
	op := strings.ToLower(method)
	if desc.Can(op) {
		return op, true
	}

	if op == "head" && desc.Can("get") {
		return "get", true
	}

	return "", false
}

func (t *table) webRouter() (*router.Router, error) {
	rtr := router.New()
	for _, desc := range t.reg.Pages() {
		mws, err := t.middleware(desc)
		if err != nil {
			return nil, err
		}

		var routes []router.Route
		for _, op := range desc.Capabilities {
			routes = append(routes, router.Route{
				Path:    desc.Path,
				Pattern: desc.Pattern,
				Method:  strings.ToUpper(op),
				Handler: t.page(desc, op),
			})
		}

		if desc.Can("get") && !desc.Can("head") {
			routes = append(routes, router.Route{
				Path:    desc.Path,
				Pattern: desc.Pattern,
				Method:  http.MethodHead,
				Handler: t.page(desc, "get"),
			})
		}

		rtr.HandleRoutes(routes, mws...)
		rtr.Handle(router.Route{
			Path:    desc.Path,
			Pattern: desc.Pattern,
			Handler: http.HandlerFunc(t.methodNotAllowed),
		})
	}

	if desc, ok := t.reg.CatchAll(); ok {
		mws, err := t.middleware(desc)
		if err != nil {
			return nil, err
		}

		rtr.CatchAll(t.catchAll(desc), mws...)
	}

	rtr.HandleNotFound(http.HandlerFunc(t.notFound))
	return rtr, nil
}

func (t *table) page(desc *registry.Descriptor, op string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if resp.HeadersSent(r) {
			t.bridge(trailhead.ErrHeadersSent, w, r, nil)
			return
		}

		out := t.call(desc, rolePage, op, w, r)
		switch {
		case out.err != nil:
			t.notify(Event{
				Message: fmt.Sprintf("An error occurred in %s %s for %s.", strings.ToLower(r.Method), desc.Label(), r.URL.RequestURI()),
				Err:     out.err,
				Request: r,
			}, metrics.TransportHTTP)
			t.serverError(w, r, nil)
		case out.nextErr != nil:
			t.bridge(out.nextErr, w, r, nil)
		case out.next:
			t.methodNotAllowed(w, r)
		}
	})
}

func (t *table) catchAll(desc *registry.Descriptor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if resp.HeadersSent(r) {
			t.bridge(trailhead.ErrHeadersSent, w, r, nil)
			return
		}

		op, ok := operation(desc, r.Method)
		if !ok {
			t.notFound(w, r)
			return
		}

		out := t.call(desc, roleCatchAll, op, w, r)
		switch {
		case out.err != nil:
			t.notify(Event{
				Message: fmt.Sprintf("An error occurred in %s %s for the catch all path.", strings.ToLower(r.Method), r.URL.Path),
				Err:     out.err,
				Request: r,
			}, metrics.TransportHTTP)
			t.serverError(w, r, nil)
		case out.nextErr != nil:
			t.bridge(out.nextErr, w, r, nil)
		case out.next:
			t.notFound(w, r)
		}
	})
}

// fallback calls the get operation of a fallback module,
// reporting whether the module is done with the request.
func (t *table) fallback(desc *registry.Descriptor, role string, w http.ResponseWriter, r *http.Request) bool {
	out := t.call(desc, role, "get", w, r)
	switch {
	case out.err != nil:
		t.notify(Event{Message: unhandledMsg, Err: out.err, Request: r}, metrics.TransportHTTP)
		t.serverError(w, r, nil)
	case out.nextErr != nil:
		t.bridge(out.nextErr, w, r, nil)
	case out.next:
		return false
	}

	return true
}

func (t *table) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if desc, ok := t.reg.MethodNotAllowed(); ok && t.fallback(desc, roleMethodNotAllowed, w, r) {
		return
	}

	resp.MethodNotAllowed(w, r)
}

func (t *table) notFound(w http.ResponseWriter, r *http.Request) {
	if resp.HeadersSent(r) {
		return
	}

	if desc, ok := t.reg.NotFound(); ok && t.fallback(desc, roleNotFound, w, r) {
		return
	}

	resp.NotFound(w, r)
}

// serverError responds with the server error module, if any, or the default 500.
// next receives control if the server error module hands it back.
func (t *table) serverError(w http.ResponseWriter, r *http.Request, next module.Next) {
	if desc, ok := t.reg.ServerError(); ok {
		out := t.call(desc, roleServerError, "get", w, r)
		switch {
		case out.failed():
			err := out.err
			if err == nil {
				err = out.nextErr
			}

			t.opts.logger.Error("server error module failed", &logger.LogContext{Error: err, Request: r})
		case out.next && next != nil:
			next(nil)
			return
		case !out.next:
			return
		}
	}

	if resp.HeadersSent(r) {
		return
	}

	resp.ServerError(w, r)
}

func (t *table) bridge(err error, w http.ResponseWriter, r *http.Request, next module.Next) {
	if se, ok := trailhead.AsExposable(err); ok {
		resp.Text(w, r, se.Status, se.Message)
		return
	}

	t.notify(Event{Message: unhandledMsg, Err: err, Request: r}, metrics.TransportHTTP)
	t.serverError(w, r, next)
}

// discardBody drops writes to the body of w, keeping the headers and status.
func discardBody(w http.ResponseWriter) http.ResponseWriter {
	var wrote bool
	writeHeader := func(code int) {
		if !wrote {
			wrote = true
			w.WriteHeader(code)
		}
	}

	return httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return writeHeader
		},
		Write: func(httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				writeHeader(http.StatusOK)
				return len(b), nil
			}
		},
		ReadFrom: func(httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				writeHeader(http.StatusOK)
				return io.Copy(io.Discard, src)
			}
		},
	})
}
