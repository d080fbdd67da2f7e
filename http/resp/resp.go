package resp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/xy-planning-network/trailhead"
)

const (
	NotFoundBody         = "HTTP 404 Not Found"
	MethodNotAllowedBody = "HTTP 405 Method Not Allowed"
	ServerErrorBody      = "HTTP 500 Server Error"

	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

var pool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// Text responds with status and body as plain text.
//
// Text refuses to write when the response has already started,
// returning trailhead.ErrHeadersSent.
func Text(w http.ResponseWriter, r *http.Request, status int, body string) error {
	if HeadersSent(r) {
		return trailhead.ErrHeadersSent
	}

	w.Header().Set("Content-Type", contentTypeText)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if r != nil && r.Method == http.MethodHead {
		return nil
	}

	_, err := fmt.Fprint(w, body)
	return err
}

// JSON responds with status and data encoded as JSON.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) error {
	if HeadersSent(r) {
		return trailhead.ErrHeadersSent
	}

	b := pool.Get().(*bytes.Buffer)
	b.Reset()
	defer pool.Put(b)

	if err := json.NewEncoder(b).Encode(data); err != nil {
		return fmt.Errorf("%w: %s", trailhead.ErrNotValid, err)
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if r != nil && r.Method == http.MethodHead {
		return nil
	}

	_, err := b.WriteTo(w)
	return err
}

// NotFound responds with the default 404.
func NotFound(w http.ResponseWriter, r *http.Request) error {
	return Text(w, r, http.StatusNotFound, NotFoundBody)
}

// MethodNotAllowed responds with the default 405.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) error {
	return Text(w, r, http.StatusMethodNotAllowed, MethodNotAllowedBody)
}

// ServerError responds with the default 500.
func ServerError(w http.ResponseWriter, r *http.Request) error {
	return Text(w, r, http.StatusInternalServerError, ServerErrorBody)
}
