package hclmodule_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/socket"
	"github.com/xy-planning-network/trailhead/module"
	"github.com/xy-planning-network/trailhead/module/hclmodule"
)

func write(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func load(t *testing.T, src string) *hclmodule.Module {
	t.Helper()

	m, err := hclmodule.NewLoader().Load(context.Background(), write(t, "route.hcl", src))
	require.Nil(t, err)
	return m.(*hclmodule.Module)
}

func TestLoadSkip(t *testing.T) {
	// Act
	_, err := hclmodule.NewLoader().Load(context.Background(), write(t, "README.md", "# routes"))

	// Assert
	require.ErrorIs(t, err, module.ErrSkip)
}

func TestLoadInvalid(t *testing.T) {
	tcs := []struct {
		name string
		src  string
	}{
		{"syntax", `route {`},
		{"unknown-block", `route {}
teleport {}`},
		{"unknown-attribute", `route { paths = "/sample" }`},
		{"pattern", `route { pattern = "(" }`},
		{"unknown-event", `route {}
on "hover" {}`},
		{"duplicate-event", `route {}
on "message" {}
on "message" {}`},
		{"duplicate-method", `route {}
get {}
get {}`},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			_, err := hclmodule.NewLoader().Load(context.Background(), write(t, "bad.hcl", tc.src))

			// Assert
			require.ErrorIs(t, err, trailhead.ErrNotValid)
		})
	}
}

func TestLoadNoRoute(t *testing.T) {
	// Arrange
	m := load(t, `get { body = "orphan" }`)

	// Act
	_, err := m.Route()

	// Assert
	require.ErrorIs(t, err, module.ErrNoRoute)
	require.EqualError(t, err, "you must implement the route property for route")
}

func TestRoute(t *testing.T) {
	// Arrange
	m := load(t, `
route {
  pattern    = ".*/$"
  middleware = ["request_id", "log_request"]
}

get {}
head {}
on "message" {}
`)

	// Act
	rt, err := m.Route()

	// Assert
	require.Nil(t, err)
	require.Equal(t, ".*/$", rt.Pattern.String())
	require.Equal(t, []string{"request_id", "log_request"}, rt.Middleware)
	require.False(t, rt.WebSocket)
	require.Equal(t, []string{"get", "head", "message"}, m.Capabilities())
}

func TestRouteRoles(t *testing.T) {
	// Arrange
	m := load(t, `
route {
  include            = true
  websocket          = true
  not_found          = true
  method_not_allowed = true
  server_error       = true
  catch_all          = true
}
`)

	// Act
	rt, err := m.Route()

	// Assert
	require.Nil(t, err)
	require.True(t, rt.Include)
	require.True(t, rt.WebSocket)
	require.True(t, rt.NotFound)
	require.True(t, rt.MethodNotAllowed)
	require.True(t, rt.ServerError)
	require.True(t, rt.CatchAll)
	require.Empty(t, m.Capabilities())
}

func TestServe(t *testing.T) {
	// Arrange
	m := load(t, `
route { path = "/users/{id}" }

get {
  body    = "user ${param.id} via ${upper(method)} at ${path}"
  headers = { "X-Route" = "users" }
}

post {
  status = 201
  json   = { id = param.id, ok = true }
}

put {
  fail = "Intentional error for testing purposes"
}

patch {
  error {
    status  = 503
    message = "Intentional error for testing purposes passed to middleware"
    expose  = true
  }
}

delete {
  next = path == "/users/404"
}

head {
  status = 204
}
`)

	router := mux.NewRouter()
	var nexted []error
	router.HandleFunc("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		next := func(err error) { nexted = append(nexted, err) }

		var err error
		switch r.Method {
		case http.MethodGet:
			err = m.Get(w, r, next)
		case http.MethodPost:
			err = m.Post(w, r, next)
		case http.MethodPut:
			err = m.Put(w, r, next)
		case http.MethodPatch:
			err = m.Patch(w, r, next)
		case http.MethodDelete:
			err = m.Delete(w, r, next)
		case http.MethodHead:
			err = m.Head(w, r, next)
		case http.MethodOptions:
			err = m.Options(w, r, next)
		}

		if err != nil {
			w.Header().Set("X-Error", err.Error())
		}
	})

	do := func(method, target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
		return w
	}

	t.Run("body", func(t *testing.T) {
		// Act
		w := do(http.MethodGet, "/users/7")

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "user 7 via GET at /users/7", w.Body.String())
		require.Equal(t, "users", w.Header().Get("X-Route"))
		require.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("json", func(t *testing.T) {
		// Act
		w := do(http.MethodPost, "/users/7")

		// Assert
		require.Equal(t, http.StatusCreated, w.Code)
		require.JSONEq(t, `{"id":"7","ok":true}`, w.Body.String())
		require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("fail", func(t *testing.T) {
		// Act
		w := do(http.MethodPut, "/users/7")

		// Assert
		require.Equal(t, "Intentional error for testing purposes", w.Header().Get("X-Error"))
	})

	t.Run("error", func(t *testing.T) {
		// Arrange
		nexted = nil

		// Act
		do(http.MethodPatch, "/users/7")

		// Assert
		require.Len(t, nexted, 1)
		se, ok := trailhead.AsExposable(nexted[0])
		require.True(t, ok)
		require.Equal(t, http.StatusServiceUnavailable, se.Status)
		require.Equal(t, "Intentional error for testing purposes passed to middleware", se.Message)
	})

	t.Run("next", func(t *testing.T) {
		// Arrange
		nexted = nil

		// Act
		served := do(http.MethodDelete, "/users/7")
		do(http.MethodDelete, "/users/404")

		// Assert
		require.Equal(t, http.StatusOK, served.Code)
		require.Empty(t, served.Body.String())
		require.Equal(t, []error{nil}, nexted)
	})

	t.Run("head", func(t *testing.T) {
		// Act
		w := do(http.MethodHead, "/users/7")

		// Assert
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Empty(t, w.Body.String())
	})

	t.Run("undeclared", func(t *testing.T) {
		// Arrange
		nexted = nil

		// Act
		do(http.MethodOptions, "/users/7")

		// Assert
		require.Equal(t, []error{nil}, nexted)
	})
}

func TestReload(t *testing.T) {
	// Arrange
	path := write(t, "sample.hcl", `
route { path = "/sample" }
get { body = "first" }
`)
	l := hclmodule.NewLoader()

	first, err := l.Load(context.Background(), path)
	require.Nil(t, err)

	require.Nil(t, os.WriteFile(path, []byte(`
route { path = "/sample" }
get { body = "second" }
`), 0o644))

	// Act
	second, err := l.Load(context.Background(), path)
	require.Nil(t, err)

	// Assert
	for want, m := range map[string]module.Module{"first": first, "second": second} {
		w := httptest.NewRecorder()
		require.Nil(t, m.(module.Getter).Get(w, httptest.NewRequest(http.MethodGet, "/sample", nil), nil))
		require.Equal(t, want, w.Body.String())
	}
}

func TestOn(t *testing.T) {
	// Arrange
	m := load(t, `
route {
  path      = "/ws"
  websocket = true
}

on "connection" {
  send = "WebSocket connection established"
}

on "message" {
  json = { echo = message }
}

on "error" {
  fail = "Intentional error for testing purposes"
}

on "close" {
  close = true
}
`)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := socket.NewUpgrader().Upgrade(w, r, nil)
		require.Nil(t, err)

		s := socket.NewSession(conn, r)
		s.On(socket.EventMessage, func(ev socket.Event) error {
			return m.OnMessage(ev.Session, ev.MessageType, ev.Data)
		})

		require.Nil(t, m.OnConnection(s, r))
		require.EqualError(t, m.OnError(s, nil), "Intentional error for testing purposes")
		require.Nil(t, m.OnListening(s))
		s.Run()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.Nil(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	// Act
	_, greeting, err := conn.ReadMessage()

	// Assert
	require.Nil(t, err)
	require.Equal(t, "WebSocket connection established", string(greeting))

	// Act
	require.Nil(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	_, echo, err := conn.ReadMessage()

	// Assert
	require.Nil(t, err)
	require.JSONEq(t, `{"echo":"ping"}`, string(echo))
}
