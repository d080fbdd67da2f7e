package req

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/xy-planning-network/trailhead"
)

// A Source is the part of a request a value was decoded from.
type Source string

const (
	InBody  Source = "body"
	InPath  Source = "path"
	InQuery Source = "query"
)

// A ValidationError is an issue with a concrete value not matching the rule set on its field.
type ValidationError struct {
	In    Source `json:"in,omitempty"`
	Field string `json:"field"`
	Got   any    `json:"got"`
	Rule  string `json:"rule,omitempty"`
}

func (ve ValidationError) Error() string {
	msg := fmt.Sprintf("field=%q rule=%q got=%q", ve.Field, ve.Rule, fmt.Sprint(ve.Got))
	if ve.In == "" {
		return msg
	}

	return fmt.Sprintf("in=%s %s", ve.In, msg)
}

// ValidationErrors are every ValidationError found decoding one request payload.
type ValidationErrors []ValidationError

// Error lists each ValidationError on its own line.
func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, ve := range v {
		msgs[i] = ve.Error()
	}

	return strings.Join(msgs, "\n")
}

// Fields names the fields that failed, in order, without duplicates.
func (v ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool, len(v))
	for _, ve := range v {
		if !seen[ve.Field] {
			seen[ve.Field] = true
			fields = append(fields, ve.Field)
		}
	}

	return fields
}

// StatusError exposes v to the client as a 422 response listing every failure.
func (v ValidationErrors) StatusError() *trailhead.StatusError {
	return &trailhead.StatusError{
		Status:  http.StatusUnprocessableEntity,
		Message: v.Error(),
		Expose:  true,
		Err:     v,
	}
}

func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("{}"), nil
	}

	return json.Marshal(struct {
		E []ValidationError `json:"validationErrors"`
	}{E: v})
}

func (ValidationErrors) Unwrap() error { return trailhead.ErrNotValid }

// from sets In on each ValidationError that has none.
func (v ValidationErrors) from(src Source) ValidationErrors {
	for i := range v {
		if v[i].In == "" {
			v[i].In = src
		}
	}

	return v
}
