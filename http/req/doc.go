/*
Package req provides a helper for parsing payloads in an HTTP request,
meant for handler modules written in Go.

It supports JSON-encoded payloads, payloads encoded in query parameters
and the variables of a route path.
In each case, package req expects to parse payloads into a pointer to a struct.
That struct ought to leverage the appropriate struct tags for performing two tasks.
First, matching keys in the payload to fields on the struct.
Second, for validating the payload's data meets requirements.

Payloads that are the client's fault fail with an exposable *trailhead.StatusError,
so a module can hand the error to next and the client receives a 400 or 422:

	var in struct {
		Name string `json:"name" validate:"required"`
	}
	if err := parser.ParseBody(r.Body, &in); err != nil {
		next(err)
		return nil
	}
*/
package req
