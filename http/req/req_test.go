package req_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/req"
)

type testEnum string

func (testEnum) String() string { return string("test") }
func (t testEnum) Valid() error {
	if t == "ignore" {
		return nil
	}
	return errors.New("oops")
}

func TestParserParseBody(t *testing.T) {
	// Arrange
	parser := req.NewParser()

	var actual req.ValidationErrors

	type test struct {
		A string `json:"a,omitempty" validate:"required"`
		B int64  `json:"b" validate:"gt=10,required"`
		C struct {
			Nested bool `json:"nested" validate:"eq=true"`
		} `json:"c"`
		D testEnum   `json:"d" validate:"enum"`
		E []testEnum `json:"e" validate:"enum"`
		F string     `json:"-"`
	}
	var input, output test

	b := new(bytes.Buffer)
	require.Nil(t, json.NewEncoder(b).Encode(input))

	// Act
	err := parser.ParseBody(b, struct{}{})

	// Assert
	require.ErrorIs(t, err, trailhead.ErrBadConfig)

	// Arrange
	b.Reset()
	b.WriteByte('\x00')

	// Act
	err = parser.ParseBody(b, &output)

	// Assert
	require.ErrorIs(t, err, trailhead.ErrBadFormat)

	// Arrange
	expected := req.ValidationErrors{
		req.ValidationError{
			In:    req.InBody,
			Field: "a",
			Got:   "",
			Rule:  "required; string",
		},
		req.ValidationError{
			In:    req.InBody,
			Field: "b",
			Got:   int64(0),
			Rule:  "gt=10; int64",
		},
		req.ValidationError{
			In:    req.InBody,
			Field: "c.nested",
			Got:   false,
			Rule:  "eq=true; bool",
		},
		req.ValidationError{
			In:    req.InBody,
			Field: "d",
			Got:   testEnum(""),
			Rule:  "enum; req_test.testEnum",
		},
		req.ValidationError{
			In:    req.InBody,
			Field: "e",
			Got:   []testEnum(nil),
			Rule:  "enum; []req_test.testEnum",
		},
	}

	require.Nil(t, json.NewEncoder(b).Encode(input))

	// Act
	err = parser.ParseBody(b, &output)

	// Assert
	require.ErrorIs(t, err, trailhead.ErrNotValid)
	require.Equal(t, input, output)
	require.ErrorAs(t, err, &actual)
	require.Len(t, actual, 5)
	require.Equal(t, expected[0], actual[0])
	require.Equal(t, expected[1], actual[1])
	require.Equal(t, expected[2], actual[2])
	require.Equal(t, expected[3], actual[3])
	require.Equal(t, expected[4], actual[4])

	// Arrange
	input.A = "hello"
	input.B = 20
	input.C.Nested = true
	input.D = "ignore"
	input.E = []testEnum{"ignore"}
	input.F = "ignore"

	b = new(bytes.Buffer)
	require.Nil(t, json.NewEncoder(b).Encode(input))

	// Act
	err = parser.ParseBody(b, &output)

	// Assert
	require.Nil(t, err)
	require.Equal(t, input.A, output.A)
	require.Equal(t, input.B, output.B)
	require.Equal(t, input.C, output.C)
	require.Equal(t, input.D, output.D)
	require.Equal(t, input.E, output.E)
	require.Equal(t, "", output.F)
}

func TestParserParseQueryParams(t *testing.T) {
	// Arrange
	parser := req.NewParser()
	u := make(url.Values)

	// Act
	err := parser.ParseQueryParams(u, struct{}{})

	// Assert
	require.ErrorIs(t, err, trailhead.ErrBadConfig)

	// Act
	err = parser.ParseQueryParams(u, new(struct {
		A string `schema:"a,required"`
	}))

	// Assert
	require.ErrorIs(t, err, trailhead.ErrNotImplemented)

	// Arrange
	u.Set("a", "test")

	// Act
	err = parser.ParseQueryParams(u, new(struct {
		A struct{} `schema:"a"`
	}))

	// Assert
	require.ErrorIs(t, err, trailhead.ErrNotImplemented)

	// Arrange
	type test struct {
		A string   `schema:"a" validate:"required"`
		B int64    `schema:"b" validate:"gt=10,required"`
		C []string `schema:"c" validate:"len=2,required"`
		D string   `schema:"-"`
	}

	u.Set("b", "test")

	var actual req.ValidationErrors
	expected := req.ValidationErrors{{
		In:    req.InQuery,
		Field: "b",
		Got:   "bad value at index 0",
		Rule:  "must be int64",
	}}

	// Act
	err = parser.ParseQueryParams(u, new(test))

	// Assert
	require.ErrorIs(t, err, trailhead.ErrNotValid)
	require.ErrorAs(t, err, &actual)
	require.Len(t, expected, 1)
	require.Equal(t, expected[0], actual[0])

	// Arrange
	u.Set("b", "1")
	u.Add("c", "1")

	expected = req.ValidationErrors{
		{
			In:    req.InQuery,
			Field: "b",
			Got:   int64(1),
			Rule:  "gt=10; int64",
		},
		{
			In:    req.InQuery,
			Field: "c",
			Got:   []string{"1"},
			Rule:  "len=2; []string",
		},
	}

	// Act
	err = parser.ParseQueryParams(u, new(test))

	// Assert
	require.ErrorIs(t, err, trailhead.ErrNotValid)
	require.ErrorAs(t, err, &actual)
	require.Len(t, expected, 2)
	require.Equal(t, expected[0], actual[0])
	require.Equal(t, expected[1], actual[1])

	// Arrange
	u.Set("b", "20")
	u.Add("c", "2")
	u.Set("d", "ignore")
	actualVal := new(test)

	// Act
	err = parser.ParseQueryParams(u, actualVal)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "test", actualVal.A)
	require.Equal(t, int64(20), actualVal.B)
	require.Equal(t, []string{"1", "2"}, actualVal.C)
	require.Equal(t, "", actualVal.D)
}

func TestParserStatus(t *testing.T) {
	type test struct {
		Name string `json:"name" validate:"required"`
	}

	tcs := []struct {
		name    string
		body    string
		status  int
		exposed bool
	}{
		{"ok", `{"name":"trailhead"}`, 0, false},
		{"bad-json", `{"name":`, http.StatusBadRequest, true},
		{"not-valid", `{}`, http.StatusUnprocessableEntity, true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			parser := req.NewParser()

			// Act
			err := parser.ParseBody(strings.NewReader(tc.body), new(test))

			// Assert
			if tc.status == 0 {
				require.Nil(t, err)
				return
			}

			se, ok := trailhead.AsExposable(err)
			require.Equal(t, tc.exposed, ok)
			require.Equal(t, tc.status, se.Status)
		})
	}
}

func TestParserParseVars(t *testing.T) {
	// Arrange
	parser := req.NewParser()
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/users/7", nil), map[string]string{"id": "7"})

	var actual struct {
		ID uint `schema:"id" validate:"required"`
	}

	// Act
	err := parser.ParseVars(r, &actual)

	// Assert
	require.Nil(t, err)
	require.Equal(t, uint(7), actual.ID)

	// Arrange
	r = mux.SetURLVars(r, map[string]string{"id": "seven"})

	// Act
	err = parser.ParseVars(r, &actual)

	// Assert
	se, ok := trailhead.AsExposable(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnprocessableEntity, se.Status)
	require.ErrorIs(t, err, trailhead.ErrNotValid)

	var ve req.ValidationErrors
	require.ErrorAs(t, err, &ve)
	require.Equal(t, req.InPath, ve[0].In)
	require.Equal(t, []string{"id"}, ve.Fields())

	// Act
	err = parser.ParseVars(r, actual)

	// Assert
	require.ErrorIs(t, err, trailhead.ErrBadConfig)
}
