package req

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/xy-planning-network/trailhead"
)

// A Parser decodes request payloads into structs and validates them.
//
// A *Parser is safe for concurrent use.
type Parser struct {
	dec *schema.Decoder
	validator
}

// NewParser constructs a *Parser.
func NewParser() *Parser {
	return &Parser{
		dec:       newQueryParamDecoder(),
		validator: newValidator(),
	}
}

// ParseBody decodes into a pointer to a struct the JSON data in body.
// If successful, ParseBody runs validation against the contents.
//
// ParseBody fails with an exposable *trailhead.StatusError
// when the payload is the client's fault:
// 400 when body is not JSON, 422 when the data fails validation rules.
//
// ParseBody reads the entire body and it can't be read from again.
// Use a [io.TeeReader] if the body needs to be reused after calling ParseBody.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	if err := checkStructPtr("ParseBody", structPtr); err != nil {
		return err
	}

	if err := json.NewDecoder(body).Decode(structPtr); err != nil {
		return &trailhead.StatusError{
			Status:  http.StatusBadRequest,
			Message: "request body is not valid JSON",
			Expose:  true,
			Err:     fmt.Errorf("%w: %s", trailhead.ErrBadFormat, err),
		}
	}

	return p.check(InBody, structPtr)
}

// ParseQueryParams decodes into a pointer to a struct the query params.
// If successful, ParseQueryParams runs validation against the contents.
//
// Values that cannot be converted to their field's type
// and data failing validation rules respond with 422.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if err := checkStructPtr("ParseQueryParams", structPtr); err != nil {
		return err
	}

	return p.decodeValues(InQuery, params, structPtr)
}

// ParseVars decodes into a pointer to a struct the route variables matched for r,
// such as id in "/users/{id}".
// Struct fields are matched to variables with "schema" struct tags.
func (p *Parser) ParseVars(r *http.Request, structPtr any) error {
	if err := checkStructPtr("ParseVars", structPtr); err != nil {
		return err
	}

	vars := mux.Vars(r)
	params := make(url.Values, len(vars))
	for k, v := range vars {
		params.Set(k, v)
	}

	return p.decodeValues(InPath, params, structPtr)
}

func (p *Parser) decodeValues(src Source, params url.Values, structPtr any) error {
	if err := p.dec.Decode(structPtr, params); err != nil {
		return unprocessable(src, translateDecoderError(err))
	}

	return p.check(src, structPtr)
}

func (p *Parser) check(src Source, structPtr any) error {
	if err := p.validate(structPtr); err != nil {
		return unprocessable(src, err)
	}

	return nil
}

// unprocessable exposes ValidationErrors found in src to the client,
// passing along any other error as is.
func unprocessable(src Source, err error) error {
	ve, ok := err.(ValidationErrors)
	if !ok {
		return err
	}

	return ve.from(src).StatusError()
}

func checkStructPtr(fn string, structPtr any) error {
	v := reflect.ValueOf(structPtr)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s called with %T, not a pointer to a struct", trailhead.ErrBadConfig, fn, structPtr)
	}

	return nil
}
