package socket

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xy-planning-network/trailhead"
)

// Close codes trailhead sends on its own behalf.
const (
	CloseNormal        = websocket.CloseNormalClosure
	CloseInternalError = websocket.CloseInternalServerErr
	ClosePathNotFound  = 4404
)

// Event names a Session emits.
const (
	EventClientError = "clientError"
	EventClose       = "close"
	EventConnection  = "connection"
	EventError       = "error"
	EventHeaders     = "headers"
	EventInit        = "_init"
	EventListening   = "listening"
	EventMessage     = "message"
)

const (
	acceptGUID   = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"
	writeTimeout = 5 * time.Second
)

// ErrClosed is returned when writing to a Session after it closed.
var ErrClosed = errors.New("session closed")

// An Upgrader turns an HTTP request into a WebSocket connection.
// [*websocket.Upgrader] is the canonical implementation.
type Upgrader interface {
	Upgrade(w http.ResponseWriter, r *http.Request, responseHeader http.Header) (*websocket.Conn, error)
}

// NewUpgrader constructs the default [*websocket.Upgrader].
func NewUpgrader() *websocket.Upgrader {
	return &websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}
}

// IsUpgrade reports whether r asks to switch to the WebSocket protocol.
func IsUpgrade(r *http.Request) bool { return websocket.IsWebSocketUpgrade(r) }

// An Event is a single occurrence in the life of a Session.
// Only the fields relevant to Name are set.
type Event struct {
	Name    string
	Session *Session
	Request *http.Request

	// headers
	Headers []string

	// close
	Code int
	Text string

	// error, clientError
	Err  error
	Conn net.Conn

	// message
	MessageType int
	Data        []byte
}

// A Listener handles one Event.
type Listener func(ev Event) error

// A Session is one WebSocket connection and the listeners bound to it.
type Session struct {
	ID      string
	Request *http.Request

	conn      *websocket.Conn
	closed    atomic.Bool
	closeCode int
	closeText string
	lmu       sync.RWMutex
	listeners map[string][]Listener
	wmu       sync.Mutex
}

// NewSession constructs a *Session over conn for the upgrade request r.
func NewSession(conn *websocket.Conn, r *http.Request) *Session {
	id := uuid.NewString()
	if r != nil {
		r = r.WithContext(context.WithValue(r.Context(), trailhead.SessionIDKey, id))
	}

	return &Session{
		ID:        id,
		Request:   r,
		conn:      conn,
		listeners: make(map[string][]Listener),
	}
}

// Conn exposes the underlying connection.
func (s *Session) Conn() *websocket.Conn { return s.conn }

// On binds l to the event name.
func (s *Session) On(name string, l Listener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()

	s.listeners[name] = append(s.listeners[name], l)
}

// Emit calls every Listener bound to ev.Name in the order they were bound.
// Errors from the listeners are joined.
func (s *Session) Emit(ev Event) error {
	ev.Session = s
	if ev.Request == nil {
		ev.Request = s.Request
	}

	s.lmu.RLock()
	ls := make([]Listener, len(s.listeners[ev.Name]))
	copy(ls, s.listeners[ev.Name])
	s.lmu.RUnlock()

	var errs []error
	for _, l := range ls {
		if err := l(ev); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Send writes a single frame of messageType.
func (s *Session) Send(messageType int, data []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	return s.conn.WriteMessage(messageType, data)
}

// SendText writes msg as a text frame.
func (s *Session) SendText(msg string) error {
	return s.Send(websocket.TextMessage, []byte(msg))
}

// SendJSON writes v encoded as JSON in a text frame.
func (s *Session) SendJSON(v any) error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	return s.conn.WriteJSON(v)
}

// Close sends a close frame with code and text then closes the connection.
// Calling Close more than once is a no-op.
func (s *Session) Close(code int, text string) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.wmu.Lock()
	s.closeCode, s.closeText = code, text
	msg := websocket.FormatCloseMessage(code, text)
	err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
	s.wmu.Unlock()

	if cerr := s.conn.Close(); err == nil {
		err = cerr
	}

	return err
}

// Run reads from the connection until it closes,
// emitting message frames and finally the error and close events.
func (s *Session) Run() {
	for {
		mt, data, err := s.conn.ReadMessage()
		if err == nil {
			s.Emit(Event{Name: EventMessage, MessageType: mt, Data: data})
			continue
		}

		var cerr *websocket.CloseError
		switch {
		case errors.As(err, &cerr):
			s.Emit(Event{Name: EventClose, Code: cerr.Code, Text: cerr.Text})
		case errors.Is(err, websocket.ErrReadLimit):
			s.Emit(Event{Name: EventClientError, Err: err, Conn: s.conn.NetConn()})
			s.Close(websocket.CloseMessageTooBig, "")
			s.Emit(Event{Name: EventClose, Code: websocket.CloseMessageTooBig})
		case s.closed.Load():
			s.wmu.Lock()
			code, text := s.closeCode, s.closeText
			s.wmu.Unlock()
			s.Emit(Event{Name: EventClose, Code: code, Text: text})
		default:
			s.Emit(Event{Name: EventError, Err: err})
			s.Emit(Event{Name: EventClose, Code: websocket.CloseAbnormalClosure})
		}

		s.closed.Store(true)
		s.conn.Close()
		return
	}
}

// Refuse upgrades r only to close it straight away with code,
// after sending payload as JSON.
func Refuse(up Upgrader, w http.ResponseWriter, r *http.Request, code int, payload any) error {
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	s := NewSession(conn, r)
	if err := s.SendJSON(payload); err != nil {
		conn.Close()
		return err
	}

	return s.Close(code, "")
}

// HandshakeHeaders reconstructs the response lines the server sent
// when switching protocols for r over conn.
func HandshakeHeaders(r *http.Request, conn *websocket.Conn) []string {
	lines := []string{
		"HTTP/1.1 101 Switching Protocols",
		"Upgrade: websocket",
		"Connection: Upgrade",
		fmt.Sprintf("Sec-WebSocket-Accept: %s", AcceptKey(r.Header.Get("Sec-WebSocket-Key"))),
	}

	if conn != nil && conn.Subprotocol() != "" {
		lines = append(lines, fmt.Sprintf("Sec-WebSocket-Protocol: %s", conn.Subprotocol()))
	}

	return lines
}

// AcceptKey computes the Sec-WebSocket-Accept value for a client's Sec-WebSocket-Key.
func AcceptKey(key string) string {
	h := sha1.New()
	h.Write([]byte(key + acceptGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
