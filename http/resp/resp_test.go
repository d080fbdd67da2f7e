package resp_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/resp"
)

func TestTrack(t *testing.T) {
	tcs := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request)
		before  bool
		after   bool
	}{
		{"no-write", func(w http.ResponseWriter, r *http.Request) {}, false, false},
		{"write-header", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }, false, true},
		{"write", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "hi") }, false, true},
		{"header-only", func(w http.ResponseWriter, r *http.Request) { w.Header().Set("X-Test", "1") }, false, false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var before, after bool
			h := resp.Track(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				before = resp.HeadersSent(r)
				tc.handler(w, r)
				after = resp.HeadersSent(r)
			}))

			// Act
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			// Assert
			require.Equal(t, tc.before, before)
			require.Equal(t, tc.after, after)
		})
	}
}

func TestTrackNested(t *testing.T) {
	// Arrange
	var sent bool
	inner := resp.Track(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sent = resp.HeadersSent(r)
	}))
	outer := resp.Track(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		inner.ServeHTTP(w, r)
	}))

	// Act
	outer.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.True(t, sent)
}

func TestHeadersSentUntracked(t *testing.T) {
	require.False(t, resp.HeadersSent(nil))
	require.False(t, resp.HeadersSent(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestText(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	var err error
	h := resp.Track(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err = resp.NotFound(w, r)
	}))

	// Act
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, resp.NotFoundBody, w.Body.String())
	require.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestTextHeadersSent(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	var err error
	h := resp.Track(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "already")
		err = resp.ServerError(w, r)
	}))

	// Act
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.ErrorIs(t, err, trailhead.ErrHeadersSent)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "already", w.Body.String())
}

func TestTextHead(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()

	// Act
	err := resp.MethodNotAllowed(w, httptest.NewRequest(http.MethodHead, "/", nil))

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.Empty(t, w.Body.String())
}

func TestJSON(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()

	// Act
	err := resp.JSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, map[string]string{"error": "boom"})

	// Assert
	require.Nil(t, err)
	require.JSONEq(t, `{"error":"boom"}`, w.Body.String())
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	// Act
	err = resp.JSON(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, make(chan int))

	// Assert
	require.ErrorIs(t, err, trailhead.ErrNotValid)
}
