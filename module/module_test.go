package module_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead/http/socket"
	"github.com/xy-planning-network/trailhead/module"
)

type sample struct{ module.Base }

func (sample) Route() (module.Route, error) { return module.Route{Path: "/sample"}, nil }

func (sample) Get(w http.ResponseWriter, r *http.Request, next module.Next) error {
	_, err := fmt.Fprint(w, "Sample route response")
	return err
}

func (sample) Delete(w http.ResponseWriter, r *http.Request, next module.Next) error {
	next(nil)
	return nil
}

type baseOnly struct{ module.Base }

type ws struct{ module.Base }

func (ws) OnConnection(s *socket.Session, r *http.Request) error {
	return fmt.Errorf("connected %s", r.URL.Path)
}

func (ws) OnClose(s *socket.Session, code int, text string) error {
	return fmt.Errorf("closed %d %s", code, text)
}

func TestBase(t *testing.T) {
	// Act
	_, err := baseOnly{module.Base{Name: "BaseOnly"}}.Route()
	_, unnamed := baseOnly{}.Route()

	// Assert
	require.ErrorIs(t, err, module.ErrNoRoute)
	require.EqualError(t, err, "you must implement the route property for BaseOnly")
	require.ErrorIs(t, unnamed, module.ErrNoRoute)
}

func TestRoute(t *testing.T) {
	tcs := []struct {
		name  string
		route module.Route
		bound bool
		label string
	}{
		{"zero", module.Route{}, false, ""},
		{"path", module.Route{Path: "/sample"}, true, "/sample"},
		{"pattern", module.Route{Pattern: regexp.MustCompile(".*/$")}, true, ".*/$"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.bound, tc.route.Bound())
			require.Equal(t, tc.label, tc.route.Label())
		})
	}
}

func TestHTTPOperation(t *testing.T) {
	for _, name := range module.HTTPMethods {
		t.Run(name, func(t *testing.T) {
			// Act
			_, ok := module.HTTPOperation(sample{}, name)

			// Assert
			require.Equal(t, name == "get" || name == "delete", ok)
		})
	}

	// Arrange
	op, ok := module.HTTPOperation(sample{}, "get")
	require.True(t, ok)
	w := httptest.NewRecorder()

	// Act
	err := op(w, httptest.NewRequest(http.MethodGet, "/sample", nil), func(error) {})

	// Assert
	require.Nil(t, err)
	require.Equal(t, "Sample route response", w.Body.String())

	// Act
	_, ok = module.HTTPOperation(sample{}, "GET")

	// Assert
	require.False(t, ok)
}

func TestSocketListener(t *testing.T) {
	for _, name := range module.SocketEvents {
		t.Run(name, func(t *testing.T) {
			// Act
			_, ok := module.SocketListener(ws{}, name)

			// Assert
			require.Equal(t, name == socket.EventConnection || name == socket.EventClose, ok)
		})
	}

	// Arrange
	conn, ok := module.SocketListener(ws{}, socket.EventConnection)
	require.True(t, ok)
	closer, ok := module.SocketListener(ws{}, socket.EventClose)
	require.True(t, ok)

	// Act
	connErr := conn(socket.Event{Request: httptest.NewRequest(http.MethodGet, "/ws", nil)})
	closeErr := closer(socket.Event{Code: 1000, Text: "bye"})

	// Assert
	require.EqualError(t, connErr, "connected /ws")
	require.EqualError(t, closeErr, "closed 1000 bye")
}

func TestStatic(t *testing.T) {
	// Arrange
	l := module.Static{"sample.go": func() module.Module { return sample{} }}
	ctx := context.Background()

	// Act
	m, err := l.Load(ctx, "/routes/sample.go")
	_, skip := l.Load(ctx, "/routes/README.md")

	// Assert
	require.Nil(t, err)
	require.IsType(t, sample{}, m)
	require.ErrorIs(t, skip, module.ErrSkip)

	// Arrange
	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	// Act
	_, err = l.Load(cancelled, "/routes/sample.go")

	// Assert
	require.ErrorIs(t, err, context.Canceled)
}

func TestByExt(t *testing.T) {
	// Arrange
	var loaded string
	l := module.ByExt{
		".hcl": module.LoaderFunc(func(ctx context.Context, path string) (module.Module, error) {
			loaded = path
			return sample{}, nil
		}),
	}

	// Act
	m, err := l.Load(context.Background(), "/routes/sample.HCL")
	_, skip := l.Load(context.Background(), "/routes/sample.go")

	// Assert
	require.Nil(t, err)
	require.NotNil(t, m)
	require.Equal(t, "/routes/sample.HCL", loaded)
	require.ErrorIs(t, skip, module.ErrSkip)
}
