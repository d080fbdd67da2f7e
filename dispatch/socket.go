package dispatch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/http/router"
	"github.com/xy-planning-network/trailhead/http/socket"
	"github.com/xy-planning-network/trailhead/metrics"
	"github.com/xy-planning-network/trailhead/module"
	"github.com/xy-planning-network/trailhead/registry"
)

var (
	pathNotFoundBody = map[string]string{"error": "WebSocket path not found."}
	unhandledBody    = map[string]string{"error": unhandledMsg}
)

func (t *table) socketRouter() (*router.Router, error) {
	rtr := router.New()
	rtr.OnEveryRequest(t.recoverSocket)
	for _, desc := range t.reg.Sockets() {
		mws, err := t.middleware(desc)
		if err != nil {
			return nil, err
		}

		rtr.Handle(router.Route{
			Path:        desc.Path,
			Pattern:     desc.Pattern,
			Handler:     t.socket(desc),
			Middlewares: mws,
		})
	}

	rtr.HandleNotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket.Refuse(t.opts.upgrader, w, r, socket.ClosePathNotFound, pathNotFoundBody)
	}))

	return rtr, nil
}

// recoverSocket hands a panic raised before a session starts to socketError.
func (t *table) recoverSocket(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				t.socketError(fmt.Errorf("panic: %v", v), w, r, nil)
			}
		}()

		h.ServeHTTP(w, r)
	})
}

func (t *table) socket(desc *registry.Descriptor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := t.refresh(r.Context(), desc); err != nil {
			t.socketError(err, w, r, nil)
			return
		}

		conn, err := t.opts.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// NOTE: the upgrader has already responded
			t.socketError(err, w, r, nil)
			return
		}

		s := socket.NewSession(conn, r)
		defer t.opts.metrics.SessionOpened()()
		defer func() {
			if v := recover(); v != nil {
				t.socketError(fmt.Errorf("panic: %v", v), w, r, s)
			}
		}()

		for _, name := range desc.Capabilities {
			event := name
			if name == socket.EventConnection {
				event = socket.EventInit
			}

			s.On(event, t.listener(desc, name))
		}

		s.Emit(socket.Event{Name: socket.EventHeaders, Headers: socket.HandshakeHeaders(r, conn)})
		s.Emit(socket.Event{Name: socket.EventInit})
		s.Emit(socket.Event{Name: socket.EventListening})
		s.Run()
	})
}

// listener guards the listener of desc for event name.
// A failing listener sends the generic error frame and notifies listeners,
// leaving the session open.
func (t *table) listener(desc *registry.Descriptor, name string) socket.Listener {
	return func(ev socket.Event) (err error) {
		defer func() {
			if v := recover(); v != nil {
				err = fmt.Errorf("panic: %v", v)
			}

			if err == nil {
				return
			}

			ev.Session.SendJSON(unhandledBody)
			t.notify(Event{
				Message: fmt.Sprintf("An error occurred in %s %s for %s.", name, desc.Label(), ev.Request.URL.RequestURI()),
				Err:     err,
				Request: ev.Request,
			}, metrics.TransportSocket)
			err = nil
		}()

		if err := t.refresh(ev.Request.Context(), desc); err != nil {
			return err
		}

		l, ok := module.SocketListener(desc.Module(), name)
		if !ok {
			return nil
		}

		defer t.opts.metrics.Dispatch(roleSocket, name, time.Now())
		return l(ev)
	}
}

// SocketError closes the WebSocket connection for r
// with an internal error status and reports err to listeners.
// The socket router calls it for failures outside a session's listeners.
//
// If s is nil, the request is first upgraded, unless a response was already written.
func (d *Dispatcher) SocketError(err error, w http.ResponseWriter, r *http.Request, s *socket.Session) {
	d.table().socketError(err, w, r, s)
}

func (t *table) socketError(err error, w http.ResponseWriter, r *http.Request, s *socket.Session) {
	t.notify(Event{Message: unhandledMsg, Err: err, Request: r}, metrics.TransportSocket)

	if s != nil {
		s.SendJSON(unhandledBody)
		s.Close(socket.CloseInternalError, "")
		return
	}

	if resp.HeadersSent(r) {
		return
	}

	socket.Refuse(t.opts.upgrader, w, r, socket.CloseInternalError, unhandledBody)
}
