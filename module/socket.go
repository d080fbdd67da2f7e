package module

import (
	"net"
	"net/http"

	"github.com/xy-planning-network/trailhead/http/socket"
)

type OnConnection interface {
	OnConnection(s *socket.Session, r *http.Request) error
}

type OnClose interface {
	OnClose(s *socket.Session, code int, text string) error
}

type OnError interface {
	OnError(s *socket.Session, err error) error
}

type OnHeaders interface {
	OnHeaders(s *socket.Session, headers []string, r *http.Request) error
}

type OnListening interface {
	OnListening(s *socket.Session) error
}

type OnClientError interface {
	OnClientError(s *socket.Session, err error, conn net.Conn, r *http.Request) error
}

type OnMessage interface {
	OnMessage(s *socket.Session, messageType int, data []byte) error
}

// SocketEvents lists the event names a WebSocket endpoint can listen for, in the order they are checked.
var SocketEvents = []string{
	socket.EventConnection,
	socket.EventClose,
	socket.EventError,
	socket.EventHeaders,
	socket.EventListening,
	socket.EventClientError,
	socket.EventMessage,
}

// SocketListener adapts the listener of m for the event name into a [socket.Listener].
func SocketListener(m Module, name string) (socket.Listener, bool) {
	switch name {
	case socket.EventConnection:
		if v, ok := m.(OnConnection); ok {
			return func(ev socket.Event) error { return v.OnConnection(ev.Session, ev.Request) }, true
		}
	case socket.EventClose:
		if v, ok := m.(OnClose); ok {
			return func(ev socket.Event) error { return v.OnClose(ev.Session, ev.Code, ev.Text) }, true
		}
	case socket.EventError:
		if v, ok := m.(OnError); ok {
			return func(ev socket.Event) error { return v.OnError(ev.Session, ev.Err) }, true
		}
	case socket.EventHeaders:
		if v, ok := m.(OnHeaders); ok {
			return func(ev socket.Event) error { return v.OnHeaders(ev.Session, ev.Headers, ev.Request) }, true
		}
	case socket.EventListening:
		if v, ok := m.(OnListening); ok {
			return func(ev socket.Event) error { return v.OnListening(ev.Session) }, true
		}
	case socket.EventClientError:
		if v, ok := m.(OnClientError); ok {
			return func(ev socket.Event) error { return v.OnClientError(ev.Session, ev.Err, ev.Conn, ev.Request) }, true
		}
	case socket.EventMessage:
		if v, ok := m.(OnMessage); ok {
			return func(ev socket.Event) error { return v.OnMessage(ev.Session, ev.MessageType, ev.Data) }, true
		}
	}

	return nil, false
}
