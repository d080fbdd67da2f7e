package hclmodule

import (
	"errors"
	"net"
	"net/http"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/socket"
	"github.com/xy-planning-network/trailhead/module"
	"github.com/zclconf/go-cty/cty"
)

var (
	_ module.Capable = (*Module)(nil)

	_ module.Getter   = (*Module)(nil)
	_ module.Header   = (*Module)(nil)
	_ module.Poster   = (*Module)(nil)
	_ module.Putter   = (*Module)(nil)
	_ module.Patcher  = (*Module)(nil)
	_ module.Deleter  = (*Module)(nil)
	_ module.Optioner = (*Module)(nil)
	_ module.Tracer   = (*Module)(nil)

	_ module.OnConnection  = (*Module)(nil)
	_ module.OnClose       = (*Module)(nil)
	_ module.OnError       = (*Module)(nil)
	_ module.OnHeaders     = (*Module)(nil)
	_ module.OnListening   = (*Module)(nil)
	_ module.OnClientError = (*Module)(nil)
	_ module.OnMessage     = (*Module)(nil)
)

// A Module is one decoded .hcl file.
//
// Module implements every operation and listener interface;
// Capabilities reports those the file declares.
type Module struct {
	name     string
	path     string
	route    module.Route
	routeErr error
	caps     []string
	methods  map[string]*methodBlock
	events   map[string]*onBlock
}

// Route returns the route block of the file.
func (m *Module) Route() (module.Route, error) { return m.route, m.routeErr }

// Capabilities lists the method and event blocks of the file.
func (m *Module) Capabilities() []string { return append([]string(nil), m.caps...) }

// String names the Module by its file.
func (m *Module) String() string { return m.name }

func (m *Module) Get(w http.ResponseWriter, r *http.Request, next module.Next) error {
	return m.serve("get", w, r, next)
}

func (m *Module) Head(w http.ResponseWriter, r *http.Request, next module.Next) error {
	return m.serve("head", w, r, next)
}

func (m *Module) Post(w http.ResponseWriter, r *http.Request, next module.Next) error {
	return m.serve("post", w, r, next)
}

func (m *Module) Put(w http.ResponseWriter, r *http.Request, next module.Next) error {
	return m.serve("put", w, r, next)
}

func (m *Module) Patch(w http.ResponseWriter, r *http.Request, next module.Next) error {
	return m.serve("patch", w, r, next)
}

func (m *Module) Delete(w http.ResponseWriter, r *http.Request, next module.Next) error {
	return m.serve("delete", w, r, next)
}

func (m *Module) Options(w http.ResponseWriter, r *http.Request, next module.Next) error {
	return m.serve("options", w, r, next)
}

func (m *Module) Trace(w http.ResponseWriter, r *http.Request, next module.Next) error {
	return m.serve("trace", w, r, next)
}

func (m *Module) serve(method string, w http.ResponseWriter, r *http.Request, next module.Next) error {
	b, ok := m.methods[method]
	if !ok {
		next(nil)
		return nil
	}

	if b.Fail != nil {
		return errors.New(*b.Fail)
	}

	if b.Error != nil {
		var msg string
		if b.Error.Message != nil {
			msg = *b.Error.Message
		}

		se := trailhead.NewStatusError(b.Error.Status, msg)
		se.Expose = boolOr(b.Error.Expose, se.Expose)
		next(se)
		return nil
	}

	ctx := requestContext(r, nil)
	fallThrough, err := evalBool(b.Next, ctx)
	if err != nil {
		return err
	}

	if fallThrough {
		next(nil)
		return nil
	}

	headers, err := evalHeaders(b.Headers, ctx)
	if err != nil {
		return err
	}

	contentType := "text/plain; charset=utf-8"
	body, hasBody, err := evalString(b.Body, ctx)
	if err != nil {
		return err
	}

	js, hasJSON, err := evalJSON(b.JSON, ctx)
	if err != nil {
		return err
	}

	if hasJSON {
		contentType = "application/json; charset=utf-8"
		body, hasBody = string(js), true
	}

	if hasBody {
		w.Header().Set("Content-Type", contentType)
	}

	for k, v := range headers {
		w.Header().Set(k, v)
	}

	status := http.StatusOK
	if b.Status != nil {
		status = *b.Status
	}

	w.WriteHeader(status)
	if !hasBody || r.Method == http.MethodHead {
		return nil
	}

	_, err = w.Write([]byte(body))
	return err
}

func (m *Module) OnConnection(s *socket.Session, r *http.Request) error {
	return m.on(socket.EventConnection, s, r, cty.NullVal(cty.String))
}

func (m *Module) OnClose(s *socket.Session, code int, text string) error {
	return m.on(socket.EventClose, s, s.Request, cty.StringVal(text))
}

func (m *Module) OnError(s *socket.Session, err error) error {
	return m.on(socket.EventError, s, s.Request, errVal(err))
}

func (m *Module) OnHeaders(s *socket.Session, headers []string, r *http.Request) error {
	return m.on(socket.EventHeaders, s, r, cty.NullVal(cty.String))
}

func (m *Module) OnListening(s *socket.Session) error {
	return m.on(socket.EventListening, s, s.Request, cty.NullVal(cty.String))
}

func (m *Module) OnClientError(s *socket.Session, err error, conn net.Conn, r *http.Request) error {
	return m.on(socket.EventClientError, s, r, errVal(err))
}

func (m *Module) OnMessage(s *socket.Session, messageType int, data []byte) error {
	return m.on(socket.EventMessage, s, s.Request, cty.StringVal(string(data)))
}

func (m *Module) on(event string, s *socket.Session, r *http.Request, message cty.Value) error {
	b, ok := m.events[event]
	if !ok {
		return nil
	}

	if b.Fail != nil {
		return errors.New(*b.Fail)
	}

	ctx := requestContext(r, map[string]cty.Value{"message": message})
	text, hasText, err := evalString(b.Send, ctx)
	if err != nil {
		return err
	}

	js, hasJSON, err := evalJSON(b.JSON, ctx)
	if err != nil {
		return err
	}

	if hasJSON {
		text, hasText = string(js), true
	}

	if hasText {
		if err := s.SendText(text); err != nil {
			return err
		}
	}

	if boolOr(b.Close, false) {
		code := socket.CloseNormal
		if b.CloseCode != nil {
			code = *b.CloseCode
		}

		return s.Close(code, "")
	}

	return nil
}

func errVal(err error) cty.Value {
	if err == nil {
		return cty.NullVal(cty.String)
	}

	return cty.StringVal(err.Error())
}
