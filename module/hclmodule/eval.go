package hclmodule

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

var functions = map[string]function.Function{
	"format":     stdlib.FormatFunc,
	"jsonencode": stdlib.JSONEncodeFunc,
	"lower":      stdlib.LowerFunc,
	"upper":      stdlib.UpperFunc,
}

func requestContext(r *http.Request, extra map[string]cty.Value) *hcl.EvalContext {
	vars := map[string]cty.Value{
		"method": cty.StringVal(""),
		"param":  cty.EmptyObjectVal,
		"path":   cty.StringVal(""),
	}

	if r != nil {
		vars["method"] = cty.StringVal(strings.ToLower(r.Method))
		vars["path"] = cty.StringVal(r.URL.Path)

		if params := mux.Vars(r); len(params) > 0 {
			pv := make(map[string]cty.Value, len(params))
			for k, v := range params {
				pv[k] = cty.StringVal(v)
			}

			vars["param"] = cty.ObjectVal(pv)
		}
	}

	for k, v := range extra {
		vars[k] = v
	}

	return &hcl.EvalContext{Variables: vars, Functions: functions}
}

// evalString evaluates expr as a string; ok is false for an absent expression.
func evalString(expr hcl.Expression, ctx *hcl.EvalContext) (string, bool, error) {
	v, err := eval(expr, ctx)
	if err != nil || v.IsNull() {
		return "", false, err
	}

	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", expr.Range(), err)
	}

	return s.AsString(), true, nil
}

// evalJSON evaluates expr and encodes the result; ok is false for an absent expression.
func evalJSON(expr hcl.Expression, ctx *hcl.EvalContext) ([]byte, bool, error) {
	v, err := eval(expr, ctx)
	if err != nil || v.IsNull() {
		return nil, false, err
	}

	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", expr.Range(), err)
	}

	return b, true, nil
}

// evalBool evaluates expr as a bool; an absent expression is false.
func evalBool(expr hcl.Expression, ctx *hcl.EvalContext) (bool, error) {
	v, err := eval(expr, ctx)
	if err != nil || v.IsNull() {
		return false, err
	}

	b, err := convert.Convert(v, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("%s: %w", expr.Range(), err)
	}

	return b.True(), nil
}

func evalHeaders(expr hcl.Expression, ctx *hcl.EvalContext) (map[string]string, error) {
	v, err := eval(expr, ctx)
	if err != nil || v.IsNull() {
		return nil, err
	}

	m, err := convert.Convert(v, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("%s: headers: %w", expr.Range(), err)
	}

	headers := make(map[string]string, m.LengthInt())
	for k, v := range m.AsValueMap() {
		if !v.IsNull() {
			headers[k] = v.AsString()
		}
	}

	return headers, nil
}

func eval(expr hcl.Expression, ctx *hcl.EvalContext) (cty.Value, error) {
	if expr == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}

	v, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}

	if !v.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("%s: value is not known", expr.Range())
	}

	return v, nil
}
